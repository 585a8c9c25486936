package publishers

import (
	"context"
	"errors"
	"fmt"

	"github.com/mtl-news/maritime-desk/internal/metrics"
)

// Fanout hands each new article event to every configured sink. A failing sink
// does not stop delivery to the others; each outcome is logged and counted
// against the sink's ID.
type Fanout struct {
	sinks []Publisher
	log   Logger
}

// NewFanout drops nil entries from pubs.
func NewFanout(pubs []Publisher, log Logger) *Fanout {
	sinks := make([]Publisher, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			sinks = append(sinks, p)
		}
	}
	return &Fanout{sinks: sinks, log: ensureLogger(log)}
}

// Publish delivers evt and reports how many sinks accepted it. The returned
// error joins one entry per failed sink. A cancelled context stops delivery
// before the next sink is tried.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f == nil || len(f.sinks) == 0 {
		return 0, nil
	}

	var errs []error
	delivered := 0
	for _, sink := range f.sinks {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		err := sink.Publish(ctx, evt)
		metrics.RecordDelivery(evt.WatchID, sink.ID(), sink.Type(), err)
		if err != nil {
			f.log.WarnObj("article delivery failed", "delivery", map[string]any{
				"watch_id":   evt.WatchID,
				"article_id": evt.Article.ID,
				"publisher":  sink.ID(),
				"type":       sink.Type(),
				"error":      err.Error(),
			})
			errs = append(errs, fmt.Errorf("%s publisher[%s] article %s: %w", sink.Type(), sink.ID(), evt.Article.ID, err))
			continue
		}
		delivered++
	}
	return delivered, errors.Join(errs...)
}

// Size returns the number of sinks.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.sinks)
}

// Summary lists each sink's ID and type for startup logging.
func (f *Fanout) Summary() []map[string]string {
	if f == nil {
		return nil
	}
	out := make([]map[string]string, 0, len(f.sinks))
	for _, sink := range f.sinks {
		out = append(out, map[string]string{"id": sink.ID(), "type": sink.Type()})
	}
	return out
}
