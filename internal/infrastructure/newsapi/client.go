package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"VergeDigest/internal/config"
	"VergeDigest/internal/domain"
	"VergeDigest/internal/ports"
)

const topHeadlinesPath = "/v2/top-headlines"

// Client fetches top headlines for a single source, failing over to a backup key.
type Client struct {
	baseURL   string
	source    string
	pageSize  int
	primary   string
	backup    string
	userAgent string
	http      *http.Client
	logger    *slog.Logger
}

var _ ports.HeadlineSource = (*Client)(nil)

// NewClient validates the credential pair and wires an HTTP client.
func NewClient(cfg config.NewsAPIConfig, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.BackupAPIKey) == "" {
		return nil, fmt.Errorf("newsapi: primary and backup keys are required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout()}
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = config.DefaultPageSize
	}
	source := cfg.Source
	if source == "" {
		source = config.DefaultSource
	}

	return &Client{
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		source:    source,
		pageSize:  pageSize,
		primary:   cfg.APIKey,
		backup:    cfg.BackupAPIKey,
		userAgent: cfg.UserAgent,
		http:      httpClient,
		logger:    logger,
	}, nil
}

type attempt struct {
	key      string
	isBackup bool
}

// FetchTopHeadlines returns either the listing or a *FetchError, never both.
// A tabled rejection on the primary key is retried once with the backup key.
func (c *Client) FetchTopHeadlines(ctx context.Context) (domain.Listing, error) {
	attempts := []attempt{{key: c.primary}}
	if c.primary != c.backup {
		attempts = append(attempts, attempt{key: c.backup, isBackup: true})
	}

	var lastErr *FetchError
	for i, a := range attempts {
		listing, err := c.fetch(ctx, a.key)
		if err == nil {
			if a.isBackup {
				c.info("backup key succeeded", "source", c.source, "articles", len(listing.Articles))
			}
			return listing, nil
		}

		lastErr = err
		if err.Kind != KindRejected || !knownStatus(err.StatusCode) {
			break
		}
		if i+1 < len(attempts) {
			c.warn("headline request rejected, switching key", "status", err.StatusCode, "backup", attempts[i+1].isBackup)
		}
	}

	return domain.Listing{}, lastErr
}

func (c *Client) fetch(ctx context.Context, key string) (domain.Listing, *FetchError) {
	endpoint, err := c.endpoint(key)
	if err != nil {
		return domain.Listing{}, &FetchError{Kind: KindTransport, Message: transportFailureMessage, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Listing{}, &FetchError{Kind: KindTransport, Message: transportFailureMessage, Err: fmt.Errorf("build request: %w", err)}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.debug("request top headlines", "source", c.source, "page_size", c.pageSize)
	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Listing{}, &FetchError{Kind: KindTransport, Message: transportFailureMessage, Err: fmt.Errorf("request headlines: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return domain.Listing{}, rejected(resp)
	}

	var listing domain.Listing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return domain.Listing{}, &FetchError{Kind: KindDecode, Message: decodeFailureMessage, Err: fmt.Errorf("decode headlines: %w", err)}
	}

	c.debug("headlines received", "articles", len(listing.Articles))
	return listing, nil
}

func (c *Client) endpoint(key string) (string, error) {
	parsed, err := url.Parse(c.baseURL + topHeadlinesPath)
	if err != nil {
		return "", fmt.Errorf("invalid base url %s: %w", c.baseURL, err)
	}

	query := parsed.Query()
	query.Set("sources", c.source)
	query.Set("apiKey", key)
	query.Set("pageSize", strconv.Itoa(c.pageSize))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

// AsFetchError extracts the user-facing error from err, if any.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Client) info(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Info(msg, args...)
	}
}

func (c *Client) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
