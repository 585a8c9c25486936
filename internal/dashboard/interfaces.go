package dashboard

import (
	"context"

	"github.com/mtl-news/maritime-desk/internal/domain"
	"github.com/mtl-news/maritime-desk/pkg/econdb"
)

// NewsSearcher returns article cards for a keyword.
type NewsSearcher interface {
	Search(ctx context.Context, keyword string, headers map[string]string) ([]domain.ArticleRecord, error)
}

// FeedSource exposes the freight-rate table and the chart widgets.
type FeedSource interface {
	LookupRates(ctx context.Context, origin, destination string) (domain.Result[[]domain.FreightRate], error)
	PortComparison(ctx context.Context) domain.Result[econdb.Chart]
	SCFI(ctx context.Context) domain.Result[econdb.Chart]
	GlobalTrade(ctx context.Context) domain.Result[econdb.Chart]
}
