package ports

import (
	"context"
	"time"

	"VergeDigest/internal/domain"
)

// HeadlineSource pulls the top-headlines listing from the news API.
type HeadlineSource interface {
	FetchTopHeadlines(ctx context.Context) (domain.Listing, error)
}

// ArticleExtractor downloads an article page and recovers its body text.
type ArticleExtractor interface {
	Extract(ctx context.Context, articleURL string) (string, error)
}

// TextGenerator sends a prompt to an LLM and returns its text response.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Scheduler controls when recurring jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
