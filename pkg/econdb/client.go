package econdb

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mtl-news/maritime-desk/internal/logger"
	"github.com/mtl-news/maritime-desk/internal/metrics"
	"github.com/mtl-news/maritime-desk/pkg/httpclient"
)

// DefaultBaseURL is the public econdb origin.
const DefaultBaseURL = "https://www.econdb.com"

// Feed paths relative to the base URL.
const (
	FreightRatesPath   = "/maritime/freight_rates/"
	PortComparisonPath = "/widgets/top-port-comparison/data/"
	SCFIPath           = "/widgets/shanghai-containerized-index/data/"
	GlobalTradePath    = "/widgets/global-trade/data/?type=export&net=0&transform=0"
)

// Feed names used for logs and metrics.
const (
	FeedFreightRates   = "freight_rates"
	FeedPortComparison = "ports"
	FeedSCFI           = "scfi"
	FeedGlobalTrade    = "trade"
)

// Client fetches the econdb maritime feeds. Every call downloads fresh data.
type Client struct {
	http      httpclient.Client
	baseURL   string
	userAgent string
	log       logger.Logger
}

// NewClient builds a feed client. userAgent is sent on the freight-rate request only.
func NewClient(client httpclient.Client, baseURL, userAgent string, log logger.Logger) *Client {
	if client == nil {
		client = httpclient.NewRestyClient(httpclient.DefaultTimeout)
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:      client,
		baseURL:   baseURL,
		userAgent: strings.TrimSpace(userAgent),
		log:       logger.Ensure(log),
	}
}

// get performs one GET and returns the body of a 200 response.
func (c *Client) get(ctx context.Context, feed, path string, headers map[string]string) ([]byte, error) {
	resp, err := c.http.Get(ctx, c.baseURL+path, headers)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", feed, err)
	}
	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d body: %s", feed, resp.StatusCode(), httpclient.Snippet(body))
	}
	return body, nil
}

// fail logs a feed failure, records it and returns the user-facing reason.
func (c *Client) fail(feed string, started time.Time, status string, err error) string {
	metrics.RecordFetch(feed, status, started)
	c.log.ErrorObj("feed fetch failed", "feed_error", map[string]any{
		"feed":  feed,
		"error": err.Error(),
	})
	return err.Error()
}
