package publishers

import (
	"time"

	"github.com/mtl-news/maritime-desk/internal/domain"
)

// Event represents the payload published downstream for one new article.
type Event struct {
	WatchID     string               `json:"watch_id"`
	WatchName   string               `json:"watch_name"`
	Keyword     string               `json:"keyword"`
	Article     domain.ArticleRecord `json:"article"`
	CollectedAt time.Time            `json:"collected_at"`
}

// NewEvent constructs an Event for the given watch + article.
func NewEvent(watchID, watchName, keyword string, article domain.ArticleRecord) Event {
	return Event{
		WatchID:     watchID,
		WatchName:   watchName,
		Keyword:     keyword,
		Article:     article,
		CollectedAt: time.Now().UTC(),
	}
}

// attributes are attached to queue messages for subscriber-side filtering.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"watch_id":   e.WatchID,
		"article_id": e.Article.ID,
	}
}
