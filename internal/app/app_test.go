package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"VergeDigest/internal/config"
	"VergeDigest/internal/domain"
	"VergeDigest/internal/infrastructure/parser"
	"VergeDigest/internal/logging"
	"VergeDigest/internal/usecase"
)

func testConfig(newsURL, llmURL string) config.Config {
	return config.Config{
		NewsAPI: config.NewsAPIConfig{
			BaseURL:      newsURL,
			Source:       config.DefaultSource,
			PageSize:     config.DefaultPageSize,
			APIKey:       "expired",
			BackupAPIKey: "fresh",
		},
		Cache:     config.CacheConfig{TTL: "1h"},
		Extractor: config.ExtractorConfig{Strategy: parser.ParagraphsStrategyName},
		Summarizer: config.SummarizerConfig{
			Provider: "openai",
			Endpoint: llmURL,
			APIKey:   "sk",
			Prompt:   "Summarize: ",
		},
	}
}

func TestApplicationEndToEnd(t *testing.T) {
	t.Parallel()

	article := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<p>By someone</p><p>Hello world.</p><p>More text.</p><p>/ Sign up for Verge Deals now</p>`)
	}))
	defer article.Close()
	articleURL := article.URL + "/story"

	var newsCalls int32
	news := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&newsCalls, 1)
		if r.URL.Query().Get("apiKey") != "fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprintf(w, `{"status":"ok","articles":[{"title":"Story","url":%q,"publishedAt":"2024-01-05T10:00:00Z"}]}`, articleURL)
	}))
	defer news.Close()

	var prompt string
	llmServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		prompt = string(raw)
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"- summary"}}]}`)
	}))
	defer llmServer.Close()

	application, err := New(testConfig(news.URL, llmServer.URL), logging.NewWithWriter(io.Discard, "error"))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	ctx := context.Background()
	selected, err := application.Digest.Article(ctx, 1)
	if err != nil {
		t.Fatalf("Article error: %v", err)
	}
	if selected.PublishedDate() != "05/01/2024" {
		t.Fatalf("unexpected date: %s", selected.PublishedDate())
	}
	if n := atomic.LoadInt32(&newsCalls); n != 2 {
		t.Fatalf("expected failover to backup key, got %d calls", n)
	}

	summary, err := application.Digest.Summarize(ctx, selected)
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	if summary.Text != "- summary" || summary.Body != "Hello world. More text." {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !strings.Contains(prompt, "Summarize: Hello world. More text.") {
		t.Fatalf("prompt not built from extracted body: %s", prompt)
	}
}

func TestNewRequiresNewsKeys(t *testing.T) {
	t.Parallel()

	cfg := testConfig("http://news", "http://llm")
	cfg.NewsAPI.BackupAPIKey = ""
	if _, err := New(cfg, logging.NewWithWriter(io.Discard, "error")); !errors.Is(err, config.ErrMissingNewsKeys) {
		t.Fatalf("expected ErrMissingNewsKeys, got %v", err)
	}
}

func TestNewWithoutSummarizerKey(t *testing.T) {
	t.Parallel()

	cfg := testConfig("http://news", "http://llm")
	cfg.Summarizer.APIKey = ""
	application, err := New(cfg, logging.NewWithWriter(io.Discard, "error"))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	_, err = application.Digest.Summarize(context.Background(), domain.Article{URL: "https://verge.test/story"})
	if !errors.Is(err, usecase.ErrSummarizerDisabled) {
		t.Fatalf("expected ErrSummarizerDisabled, got %v", err)
	}
}

func TestNewStrategy(t *testing.T) {
	t.Parallel()

	zero := 0
	strategy, err := newStrategy(config.ExtractorConfig{LeadInParagraphs: &zero, BoilerplateMarker: "Subscribe"})
	if err != nil {
		t.Fatalf("newStrategy error: %v", err)
	}
	paragraphs, ok := strategy.(*parser.ParagraphStrategy)
	if !ok {
		t.Fatalf("expected paragraph strategy, got %T", strategy)
	}
	if paragraphs.LeadInParagraphs != 0 || paragraphs.BoilerplateMarker != "Subscribe" {
		t.Fatalf("overrides not applied: %+v", paragraphs)
	}

	if s, err := newStrategy(config.ExtractorConfig{Strategy: "readability"}); err != nil || s.Name() != "readability" {
		t.Fatalf("expected readability strategy, got %v %v", s, err)
	}
	if _, err := newStrategy(config.ExtractorConfig{Strategy: "xpath"}); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
}
