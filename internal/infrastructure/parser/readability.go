package parser

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"

	"VergeDigest/internal/extractor"
)

// ReadabilityStrategyName identifies the Mozilla Readability port.
const ReadabilityStrategyName = "readability"

// ReadabilityStrategy scores the DOM for the main content block instead of
// relying on paragraph positions. Useful for pages outside the Verge template.
type ReadabilityStrategy struct{}

var _ extractor.Strategy = ReadabilityStrategy{}

// Name identifies the strategy inside the registry.
func (ReadabilityStrategy) Name() string {
	return ReadabilityStrategyName
}

// ExtractBody returns the readable text with whitespace collapsed to single spaces.
func (ReadabilityStrategy) ExtractBody(markup io.Reader, pageURL *url.URL) (string, error) {
	if pageURL == nil {
		pageURL = &url.URL{}
	}

	article, err := readability.FromReader(markup, pageURL)
	if err != nil {
		return "", fmt.Errorf("readability: %w", err)
	}

	return strings.Join(strings.Fields(article.TextContent), " "), nil
}
