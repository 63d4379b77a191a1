package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"VergeDigest/internal/cache"
	"VergeDigest/internal/config"
	"VergeDigest/internal/domain"
	"VergeDigest/internal/ports"
)

var (
	// ErrNothingToSummarize is returned when extraction yields no body text.
	ErrNothingToSummarize = errors.New("article has no extractable content")
	// ErrSummarizerDisabled is returned when no text generator is configured.
	ErrSummarizerDisabled = errors.New("summarizer is not configured")
)

// DigestDeps wires the driven adapters into the digest use case.
type DigestDeps struct {
	Headlines ports.HeadlineSource
	Extractor ports.ArticleExtractor
	Generator ports.TextGenerator
	Prompt    string
	CacheTTL  time.Duration
	Logger    *slog.Logger
}

// Digest serves the cached headline listing and on-demand article summaries.
type Digest struct {
	listings  *cache.ListingCache
	extractor ports.ArticleExtractor
	generator ports.TextGenerator
	prompt    string
	now       func() time.Time
	logger    *slog.Logger
}

// NewDigest constructs the use case. The listing is memoized for CacheTTL.
func NewDigest(deps DigestDeps) *Digest {
	prompt := deps.Prompt
	if prompt == "" {
		prompt = config.DefaultSummaryPrompt
	}

	return &Digest{
		listings:  cache.NewListingCache(deps.Headlines.FetchTopHeadlines, deps.CacheTTL),
		extractor: deps.Extractor,
		generator: deps.Generator,
		prompt:    prompt,
		now:       time.Now,
		logger:    deps.Logger,
	}
}

// Headlines returns the cached listing, fetching it when expired. Errors from
// the news API carry a message meant for end users.
func (d *Digest) Headlines(ctx context.Context) (domain.Listing, error) {
	listing, err := d.listings.Get(ctx)
	if err != nil {
		d.log(slog.LevelWarn, "headlines unavailable", "error", err)
		return domain.Listing{}, err
	}
	return listing, nil
}

// FetchedAt reports when the cached listing was loaded.
func (d *Digest) FetchedAt() time.Time {
	return d.listings.FetchedAt()
}

// Article returns the visible article at the 1-based index.
func (d *Digest) Article(ctx context.Context, index int) (domain.Article, error) {
	listing, err := d.Headlines(ctx)
	if err != nil {
		return domain.Article{}, err
	}

	visible := listing.Visible()
	if index < 1 || index > len(visible) {
		return domain.Article{}, &IndexError{Index: index, Count: len(visible)}
	}
	return visible[index-1], nil
}

// Extract returns the body text of articleURL.
func (d *Digest) Extract(ctx context.Context, articleURL string) (string, error) {
	if d.extractor == nil {
		return "", fmt.Errorf("article extractor is not configured")
	}
	body, err := d.extractor.Extract(ctx, articleURL)
	if err != nil {
		return "", fmt.Errorf("extract article: %w", err)
	}
	return body, nil
}

// Summarize extracts the article body and asks the generator for a summary.
func (d *Digest) Summarize(ctx context.Context, article domain.Article) (domain.Summary, error) {
	if d.generator == nil {
		return domain.Summary{}, ErrSummarizerDisabled
	}

	body, err := d.Extract(ctx, article.URL)
	if err != nil {
		return domain.Summary{}, err
	}
	if strings.TrimSpace(body) == "" {
		return domain.Summary{}, ErrNothingToSummarize
	}

	d.log(slog.LevelDebug, "summarize article", "url", article.URL, "chars", len(body))
	text, err := d.generator.Generate(ctx, d.prompt+body)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("summarize %s: %w", article.URL, err)
	}

	return domain.Summary{
		Article:     article,
		Body:        body,
		Text:        text,
		GeneratedAt: d.now(),
	}, nil
}

// Refresh drops the cached listing and loads a fresh one.
func (d *Digest) Refresh(ctx context.Context) error {
	d.listings.Invalidate()
	listing, err := d.listings.Get(ctx)
	if err != nil {
		return fmt.Errorf("refresh headlines: %w", err)
	}
	d.log(slog.LevelInfo, "headlines refreshed", "articles", len(listing.Articles))
	return nil
}

// RefreshInterval returns the listing cache TTL.
func (d *Digest) RefreshInterval() time.Duration {
	return d.listings.TTL()
}

func (d *Digest) log(level slog.Level, msg string, args ...any) {
	if d.logger != nil {
		d.logger.Log(context.Background(), level, msg, args...)
	}
}

// IndexError reports an article index outside the visible listing.
type IndexError struct {
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("article %d not found (listing has %d articles)", e.Index, e.Count)
}
