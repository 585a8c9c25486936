package app

import (
	"context"
	"fmt"

	"github.com/mtl-news/maritime-desk/internal/config"
	"github.com/mtl-news/maritime-desk/internal/dashboard"
	"github.com/mtl-news/maritime-desk/internal/logger"
	"github.com/mtl-news/maritime-desk/pkg/econdb"
	"github.com/mtl-news/maritime-desk/pkg/httpclient"
	"github.com/mtl-news/maritime-desk/pkg/news"
)

// Dashboard serves the news and freight pages.
type Dashboard struct {
	server *dashboard.Server
	log    logger.Logger
}

// NewDashboard builds the upstream clients and the HTTP server from config.
func NewDashboard(cfg *config.Config, log logger.Logger) (*Dashboard, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)

	httpClient := httpclient.NewRestyClient(cfg.HTTPTimeout)
	newsClient := news.NewClient(httpClient, cfg.NewsBaseURL, newsLocale(cfg), log)
	feeds := econdb.NewClient(httpClient, cfg.EconDBBaseURL, cfg.RatesUserAgent, log)

	server, err := dashboard.New(newsClient, feeds, dashboard.Options{
		Addr:             cfg.HTTPAddr,
		StylesheetURL:    cfg.StylesheetURL,
		DefaultKeyword:   cfg.NewsDefaultKeyword,
		NewsLimit:        cfg.NewsLimit,
		PlaceholderImage: cfg.PlaceholderImage,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("build dashboard: %w", err)
	}

	log.InfoObj("dashboard initialized", "dashboard_config", map[string]any{
		"http_addr":     cfg.HTTPAddr,
		"news_base_url": cfg.NewsBaseURL,
		"econdb_url":    cfg.EconDBBaseURL,
		"news_limit":    cfg.NewsLimit,
	})
	return &Dashboard{server: server, log: log}, nil
}

// Run serves until ctx is cancelled.
func (d *Dashboard) Run(ctx context.Context) error {
	if d == nil || d.server == nil {
		return fmt.Errorf("dashboard is not initialized")
	}
	return d.server.Run(ctx)
}
