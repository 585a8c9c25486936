package collector

import (
	"context"
	"errors"
	"fmt"

	"github.com/mtl-news/maritime-desk/internal/domain"
	"github.com/mtl-news/maritime-desk/internal/logger"
	"github.com/mtl-news/maritime-desk/internal/metrics"
	"github.com/mtl-news/maritime-desk/pkg/news"
	"github.com/mtl-news/maritime-desk/pkg/publishers"
	"github.com/mtl-news/maritime-desk/pkg/watches"
)

// Service runs keyword watches: search, enrich, dedupe, publish.
type Service struct {
	searcher  news.Searcher
	enricher  ArticleEnricher
	publisher EventPublisher
	store     Deduper
	log       logger.Logger
}

// NewService wires a collector. enricher and store may be nil.
func NewService(searcher news.Searcher, enricher ArticleEnricher, pub EventPublisher, store Deduper, log logger.Logger) *Service {
	return &Service{
		searcher:  searcher,
		enricher:  enricher,
		publisher: pub,
		store:     store,
		log:       logger.Ensure(log),
	}
}

// Run executes one pass over the given watches. Per-watch failures are joined;
// a cancelled context stops the pass without adding an error.
func (s *Service) Run(ctx context.Context, list []watches.Watch) error {
	if s == nil || s.searcher == nil {
		return fmt.Errorf("collector service is not initialized")
	}
	if len(list) == 0 {
		return fmt.Errorf("no watches configured")
	}

	if errs := s.runAll(ctx, list); len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (s *Service) runAll(ctx context.Context, list []watches.Watch) []error {
	errs := make([]error, 0, len(list))

	for _, w := range list {
		if ctx.Err() != nil {
			return errs
		}
		if err := s.runWatch(ctx, w); err != nil {
			if ctx.Err() != nil {
				return errs
			}
			errs = append(errs, err)
			s.log.ErrorObj("watch pass failed", "watch_error", map[string]any{
				"watch_id": w.ID,
				"error":    err.Error(),
			})
		}
	}
	return errs
}

func (s *Service) runWatch(ctx context.Context, w watches.Watch) error {
	articles, err := s.searcher.Search(ctx, w.Keyword, watches.Headers(w))
	if err != nil {
		return fmt.Errorf("search watch %s: %w", w.ID, err)
	}
	if w.Limit > 0 {
		articles = news.Top(articles, w.Limit)
	}

	if w.Enrich && s.enricher != nil {
		articles = s.enricher.Enrich(ctx, w, articles)
	}

	fresh := s.filterNew(w, articles)
	if skipped := len(articles) - len(fresh); skipped > 0 {
		metrics.RecordSkipped(w.ID, skipped)
	}

	published, err := s.publish(ctx, w, fresh)

	s.log.InfoObj("watch pass completed", "watch_result", map[string]any{
		"watch_id":  w.ID,
		"keyword":   w.Keyword,
		"found":     len(articles),
		"fresh":     len(fresh),
		"published": published,
	})
	return err
}

// filterNew drops articles the store has already seen. Lookup errors keep the article.
func (s *Service) filterNew(w watches.Watch, articles []domain.ArticleRecord) []domain.ArticleRecord {
	if s.store == nil {
		return articles
	}

	out := make([]domain.ArticleRecord, 0, len(articles))
	for _, art := range articles {
		seen, err := s.store.SeenArticle(w.ID, art.ID)
		if err != nil {
			s.log.WarnObj("dedupe lookup failed", "store_error", map[string]any{
				"watch_id":   w.ID,
				"article_id": art.ID,
				"error":      err.Error(),
			})
			out = append(out, art)
			continue
		}
		if !seen {
			out = append(out, art)
		}
	}
	return out
}

func (s *Service) publish(ctx context.Context, w watches.Watch, articles []domain.ArticleRecord) (int, error) {
	if s.publisher == nil {
		return 0, nil
	}

	var errs []error
	published := 0
	for _, art := range articles {
		if ctx.Err() != nil {
			break
		}

		n, err := s.publisher.Publish(ctx, publishers.NewEvent(w.ID, w.Name, w.Keyword, art))
		if err != nil {
			errs = append(errs, fmt.Errorf("publish article %s: %w", art.ID, err))
		}
		if n == 0 {
			metrics.RecordPublish(w.ID, metrics.StatusError)
			continue
		}

		metrics.RecordPublish(w.ID, metrics.StatusOK)
		published++
		if s.store != nil {
			if err := s.store.MarkArticle(w.ID, art.ID); err != nil {
				errs = append(errs, fmt.Errorf("mark article %s: %w", art.ID, err))
			}
		}
	}
	return published, errors.Join(errs...)
}
