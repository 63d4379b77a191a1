package parser

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"VergeDigest/internal/extractor"
)

const (
	// ParagraphsStrategyName identifies the positional paragraph heuristic.
	ParagraphsStrategyName = "paragraphs"

	// DefaultLeadInParagraphs is how many leading <p> elements are treated as
	// byline/lead-in and dropped regardless of their content.
	DefaultLeadInParagraphs = 1

	// DefaultBoilerplateMarker starts the promotional footer on Verge article
	// pages. A paragraph containing it ends the body.
	DefaultBoilerplateMarker = "/ Sign up for Verge Deals"
)

// ParagraphStrategy keeps <p> texts in document order, skipping the lead-in
// and stopping at the first paragraph that contains the boilerplate marker.
// Both are positional heuristics: short or missing lead-ins get over-trimmed,
// and a marker quoted inside real body text truncates the article early.
type ParagraphStrategy struct {
	LeadInParagraphs  int
	BoilerplateMarker string
}

var _ extractor.Strategy = (*ParagraphStrategy)(nil)

// NewParagraphStrategy returns the strategy with the Verge defaults.
func NewParagraphStrategy() *ParagraphStrategy {
	return &ParagraphStrategy{
		LeadInParagraphs:  DefaultLeadInParagraphs,
		BoilerplateMarker: DefaultBoilerplateMarker,
	}
}

// Name identifies the strategy inside the registry.
func (p *ParagraphStrategy) Name() string {
	return ParagraphsStrategyName
}

// ExtractBody parses markup and returns the retained paragraphs joined by a space.
func (p *ParagraphStrategy) ExtractBody(markup io.Reader, _ *url.URL) (string, error) {
	doc, err := goquery.NewDocumentFromReader(markup)
	if err != nil {
		return "", fmt.Errorf("parse document: %w", err)
	}
	return strings.Join(p.filter(doc), " "), nil
}

func (p *ParagraphStrategy) filter(doc *goquery.Document) []string {
	var retained []string

	doc.Find("p").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i < p.LeadInParagraphs {
			return true
		}

		text := strings.TrimSpace(s.Text())
		if p.BoilerplateMarker != "" && strings.Contains(text, p.BoilerplateMarker) {
			return false
		}

		retained = append(retained, text)
		return true
	})

	return retained
}
