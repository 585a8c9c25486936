package app

import (
	"context"
	"fmt"
	"time"

	"github.com/mtl-news/maritime-desk/internal/collector"
	"github.com/mtl-news/maritime-desk/internal/config"
	"github.com/mtl-news/maritime-desk/internal/logger"
	"github.com/mtl-news/maritime-desk/internal/storage"
	"github.com/mtl-news/maritime-desk/pkg/httpclient"
	"github.com/mtl-news/maritime-desk/pkg/news"
	"github.com/mtl-news/maritime-desk/pkg/publishers"
	"github.com/mtl-news/maritime-desk/pkg/watches"
)

// Collector runs keyword watches on an interval and publishes new articles.
// It owns the dedupe store and closes it when the loop exits.
type Collector struct {
	cfg             *config.Config
	watchReg        *watches.Registry
	fanout          *publishers.Fanout
	service         *collector.Service
	collectInterval time.Duration
	log             logger.Logger
	store           storage.Store
}

// NewCollector builds a collector runtime from config files.
func NewCollector(ctx context.Context, cfg *config.Config, log logger.Logger) (*Collector, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	watchReg, err := watches.LoadRegistry(cfg.WatchesFile)
	if err != nil {
		return nil, fmt.Errorf("load watches registry: %w", err)
	}
	watchList := watchReg.All()
	watchIDs := make([]string, 0, len(watchList))
	for _, w := range watchList {
		watchIDs = append(watchIDs, w.ID)
	}
	log.InfoObj("watches registry loaded", "watches_meta", map[string]any{
		"count": len(watchIDs),
		"ids":   watchIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients, log)
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      fanout.Size(),
		"publishers": fanout.Summary(),
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		ArticleTTL:      cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"article_ttl_seconds":      int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	httpClient := httpclient.NewRestyClient(cfg.HTTPTimeout)
	searcher := news.NewClient(httpClient, cfg.NewsBaseURL, newsLocale(cfg), log)
	scraper := collector.NewScraper(httpClient, log)

	return &Collector{
		cfg:             cfg,
		watchReg:        watchReg,
		fanout:          fanout,
		service:         collector.NewService(searcher, scraper, fanout, store, log),
		collectInterval: cfg.CollectInterval,
		log:             log,
		store:           store,
	}, nil
}

// Run performs an initial pass, then one pass per interval until ctx is cancelled.
func (c *Collector) Run(ctx context.Context) error {
	if c == nil || c.service == nil {
		return fmt.Errorf("collector is not initialized")
	}
	defer c.closeStore()

	list := c.watchReg.All()
	if len(list) == 0 {
		c.log.WarnObj("no watches configured; collector idle", "watches_file", c.cfg.WatchesFile)
		<-ctx.Done()
		return ctx.Err()
	}

	c.log.InfoObj("collector loop starting", "collector_state", map[string]any{
		"watches_count":    len(list),
		"publishers_count": c.fanout.Size(),
		"collect_interval": c.collectInterval.String(),
	})

	if err := c.runOnce(ctx, list); err != nil {
		c.log.ErrorObj("initial pass failed", "error", err)
	}

	ticker := time.NewTicker(c.collectInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.InfoObj("collector loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := c.runOnce(ctx, list); err != nil {
				c.log.ErrorObj("scheduled pass failed", "error", err)
			}
		}
	}
}

func (c *Collector) runOnce(ctx context.Context, list []watches.Watch) error {
	start := time.Now()
	c.log.InfoObj("pass started", "pass_meta", map[string]any{
		"watches_count": len(list),
		"started_at":    start.UTC(),
	})
	if err := c.service.Run(ctx, list); err != nil {
		return err
	}
	c.log.InfoObj("pass completed", "pass_meta", map[string]any{
		"watches_count": len(list),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return nil
}

func (c *Collector) closeStore() {
	if c == nil || c.store == nil {
		return
	}
	if err := c.store.Close(); err != nil {
		c.log.ErrorObj("storage close failed", "error", err)
	}
}

func newsLocale(cfg *config.Config) news.Locale {
	return news.Locale{
		Language: cfg.NewsLanguage,
		Country:  cfg.NewsCountry,
		Edition:  cfg.NewsEdition,
	}
}
