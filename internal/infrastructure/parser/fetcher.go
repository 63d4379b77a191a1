package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"VergeDigest/internal/extractor"
	"VergeDigest/internal/ports"
)

// maxArticleBytes bounds how much markup is read from a single page.
const maxArticleBytes = 8 << 20

// Fetcher downloads article markup and hands it to an extraction strategy.
type Fetcher struct {
	client    *http.Client
	strategy  extractor.Strategy
	userAgent string
	maxBytes  int64
	logger    *slog.Logger
}

var _ ports.ArticleExtractor = (*Fetcher)(nil)

// NewFetcher wires an HTTP client; a nil client gets a 20s timeout.
func NewFetcher(client *http.Client, strategy extractor.Strategy, userAgent string, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if strategy == nil {
		strategy = NewParagraphStrategy()
	}
	return &Fetcher{
		client:    client,
		strategy:  strategy,
		userAgent: userAgent,
		maxBytes:  maxArticleBytes,
		logger:    logger,
	}
}

// Extract fetches articleURL and returns its body text. Transport failures
// are returned; an empty string means nothing extractable was found.
func (f *Fetcher) Extract(ctx context.Context, articleURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request article: %w", err)
	}
	defer resp.Body.Close()

	// Error pages are parsed like any other page.
	if resp.StatusCode != http.StatusOK {
		f.warn("article page returned non-200 status", "url", articleURL, "status", resp.Status)
	}

	limited := &io.LimitedReader{R: resp.Body, N: f.maxBytes}
	body, err := f.strategy.ExtractBody(limited, pageURL(resp, articleURL))
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", articleURL, err)
	}
	if limited.N == 0 && hasMore(resp.Body) {
		f.warn("article page truncated at size limit", "url", articleURL, "limit_bytes", f.maxBytes)
	}

	f.debug("article extracted", "url", articleURL, "strategy", f.strategy.Name(), "chars", len(body))
	return body, nil
}

func hasMore(r io.Reader) bool {
	var one [1]byte
	n, _ := io.ReadFull(r, one[:])
	return n > 0
}

func pageURL(resp *http.Response, fallback string) *url.URL {
	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL
	}
	parsed, err := url.Parse(fallback)
	if err != nil {
		return nil
	}
	return parsed
}

func (f *Fetcher) debug(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}

func (f *Fetcher) warn(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Warn(msg, args...)
	}
}
