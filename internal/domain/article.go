package domain

import (
	"fmt"
	"time"
)

const (
	// SourceBrandTitle is the placeholder entry the upstream feed sometimes emits for the source itself.
	SourceBrandTitle = "The Verge"
	// VisibleLimit caps the listing when no placeholder entry was filtered out.
	VisibleLimit = 5
	// DisplayDateLayout renders publish dates as day/month/year.
	DisplayDateLayout = "02/01/2006"
)

// Source identifies the publication an article belongs to.
type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Article is a single headline record as returned by the news API.
type Article struct {
	Source      Source `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// PublishedTime parses the raw ISO-8601 timestamp.
func (a Article) PublishedTime() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, a.PublishedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse publishedAt %q: %w", a.PublishedAt, err)
	}
	return t.UTC(), nil
}

// PublishedDate formats the publish timestamp as dd/mm/yyyy, or returns the raw value if it cannot be parsed.
func (a Article) PublishedDate() string {
	t, err := a.PublishedTime()
	if err != nil {
		return a.PublishedAt
	}
	return t.Format(DisplayDateLayout)
}

// Listing is the top-headlines payload. Articles keep upstream order.
type Listing struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

// Visible drops the source placeholder entry. When none was present the
// listing is capped at VisibleLimit instead.
func (l Listing) Visible() []Article {
	visible := make([]Article, 0, len(l.Articles))
	placeholder := false
	for _, article := range l.Articles {
		if article.Title == SourceBrandTitle {
			placeholder = true
			continue
		}
		visible = append(visible, article)
	}

	if !placeholder && len(visible) > VisibleLimit {
		visible = visible[:VisibleLimit]
	}
	return visible
}

// Summary is the generated digest for one article. It is never persisted.
type Summary struct {
	Article     Article
	Body        string
	Text        string
	GeneratedAt time.Time
}
