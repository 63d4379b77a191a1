package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"VergeDigest/internal/domain"
	"VergeDigest/internal/usecase"
)

// DigestService is the subset of the digest use case the HTTP layer needs.
type DigestService interface {
	Headlines(ctx context.Context) (domain.Listing, error)
	FetchedAt() time.Time
	Article(ctx context.Context, index int) (domain.Article, error)
	Summarize(ctx context.Context, article domain.Article) (domain.Summary, error)
}

type articleView struct {
	Index         int    `json:"index"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	Author        string `json:"author"`
	ImageURL      string `json:"imageUrl,omitempty"`
	PublishedAt   string `json:"publishedAt"`
	PublishedDate string `json:"publishedDate"`
}

type headlinesResponse struct {
	FetchedAt time.Time     `json:"fetchedAt"`
	Articles  []articleView `json:"articles"`
}

type summaryResponse struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Summary string `json:"summary"`
}

// NewRouter builds the gin engine serving headlines and summaries.
func NewRouter(digest DigestService, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	h := &handlers{digest: digest, logger: logger}
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/headlines", h.headlines)
	api.POST("/headlines/:index/summary", h.summary)

	return r
}

type handlers struct {
	digest DigestService
	logger *slog.Logger
}

func (h *handlers) headlines(c *gin.Context) {
	listing, err := h.digest.Headlines(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	visible := listing.Visible()
	views := make([]articleView, 0, len(visible))
	for i, article := range visible {
		views = append(views, articleView{
			Index:         i + 1,
			Title:         article.Title,
			URL:           article.URL,
			Author:        article.Author,
			ImageURL:      article.URLToImage,
			PublishedAt:   article.PublishedAt,
			PublishedDate: article.PublishedDate(),
		})
	}

	c.JSON(http.StatusOK, headlinesResponse{FetchedAt: h.digest.FetchedAt(), Articles: views})
}

func (h *handlers) summary(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be a number"})
		return
	}

	ctx := c.Request.Context()
	article, err := h.digest.Article(ctx, index)
	if err != nil {
		var indexErr *usecase.IndexError
		if errors.As(err, &indexErr) {
			c.JSON(http.StatusNotFound, gin.H{"error": indexErr.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.digest.Summarize(ctx, article)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrNothingToSummarize):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Could not find any article text to summarize.", "url": article.URL})
		return
	case errors.Is(err, usecase.ErrSummarizerDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	default:
		h.log(slog.LevelError, "summarize failed", "url", article.URL, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not summarize this article. Please try again later.", "url": article.URL})
		return
	}

	c.JSON(http.StatusOK, summaryResponse{
		Index:   index,
		Title:   article.Title,
		URL:     article.URL,
		Summary: summary.Text,
	})
}

func (h *handlers) log(level slog.Level, msg string, args ...any) {
	if h.logger != nil {
		h.logger.Log(context.Background(), level, msg, args...)
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if logger == nil {
			return
		}
		logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
