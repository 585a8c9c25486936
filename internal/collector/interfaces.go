package collector

import (
	"context"

	"github.com/mtl-news/maritime-desk/internal/domain"
	"github.com/mtl-news/maritime-desk/pkg/publishers"
	"github.com/mtl-news/maritime-desk/pkg/watches"
)

// ArticleEnricher fills article metadata from the article page itself.
type ArticleEnricher interface {
	Enrich(ctx context.Context, w watches.Watch, articles []domain.ArticleRecord) []domain.ArticleRecord
}

// EventPublisher publishes events downstream and reports how many sinks accepted them.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers which articles were already published for a watch.
type Deduper interface {
	SeenArticle(watchID, articleID string) (bool, error)
	MarkArticle(watchID, articleID string) error
}
