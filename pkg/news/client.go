package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mtl-news/maritime-desk/internal/domain"
	"github.com/mtl-news/maritime-desk/internal/logger"
	"github.com/mtl-news/maritime-desk/internal/metrics"
	"github.com/mtl-news/maritime-desk/pkg/httpclient"
)

const (
	feedName       = "news"
	DefaultBaseURL = "https://news.google.com"
)

// Locale selects the search edition.
type Locale struct {
	Language string // hl
	Country  string // gl
	Edition  string // ceid
}

// DefaultLocale is the Korean edition.
var DefaultLocale = Locale{Language: "ko", Country: "KR", Edition: "KR:ko"}

// Searcher returns article records for a keyword.
type Searcher interface {
	Search(ctx context.Context, keyword string, headers map[string]string) ([]domain.ArticleRecord, error)
}

// Client fetches and extracts news search results.
type Client struct {
	http    httpclient.Client
	baseURL string
	locale  Locale
	log     logger.Logger
}

// NewClient builds a search client. Empty baseURL or locale fields fall back to defaults.
func NewClient(client httpclient.Client, baseURL string, locale Locale, log logger.Logger) *Client {
	if client == nil {
		client = httpclient.NewRestyClient(httpclient.DefaultTimeout)
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if locale.Language == "" {
		locale.Language = DefaultLocale.Language
	}
	if locale.Country == "" {
		locale.Country = DefaultLocale.Country
	}
	if locale.Edition == "" {
		locale.Edition = DefaultLocale.Edition
	}
	return &Client{
		http:    client,
		baseURL: baseURL,
		locale:  locale,
		log:     logger.Ensure(log),
	}
}

// SearchURL builds the search results URL for keyword.
func SearchURL(baseURL, keyword string, locale Locale) string {
	q := url.Values{}
	q.Set("q", keyword)
	q.Set("hl", locale.Language)
	q.Set("gl", locale.Country)
	q.Set("ceid", locale.Edition)
	return strings.TrimRight(baseURL, "/") + "/search?" + q.Encode()
}

// Search fetches the results page for keyword and extracts its articles.
func (c *Client) Search(ctx context.Context, keyword string, headers map[string]string) ([]domain.ArticleRecord, error) {
	started := time.Now()
	target := SearchURL(c.baseURL, keyword, c.locale)

	resp, err := c.http.Get(ctx, target, headers)
	if err != nil {
		metrics.RecordFetch(feedName, metrics.StatusError, started)
		return nil, fmt.Errorf("fetch news search: %w", err)
	}

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		metrics.RecordFetch(feedName, metrics.StatusError, started)
		return nil, fmt.Errorf("news search returned status %d body: %s", resp.StatusCode(), httpclient.Snippet(body))
	}

	records, err := Extract(body, c.baseURL)
	if err != nil {
		metrics.RecordFetch(feedName, metrics.StatusError, started)
		return nil, err
	}

	status := metrics.StatusOK
	if len(records) == 0 {
		status = metrics.StatusEmpty
	}
	metrics.RecordFetch(feedName, status, started)

	c.log.DebugObj("news search completed", "news_search", map[string]any{
		"keyword":    keyword,
		"articles":   len(records),
		"elapsed_ms": time.Since(started).Milliseconds(),
	})
	return records, nil
}
