package collector

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/mtl-news/maritime-desk/internal/domain"
	"github.com/mtl-news/maritime-desk/pkg/publishers"
	"github.com/mtl-news/maritime-desk/pkg/watches"
)

// fakeSearcher returns preset articles per keyword.
type fakeSearcher struct {
	results map[string][]domain.ArticleRecord
	err     error
	calls   []string
	headers map[string]string
}

func (f *fakeSearcher) Search(_ context.Context, keyword string, headers map[string]string) ([]domain.ArticleRecord, error) {
	f.calls = append(f.calls, keyword)
	f.headers = headers
	if f.err != nil {
		return nil, f.err
	}
	return f.results[keyword], nil
}

// fakeEnricher prefixes descriptions.
type fakeEnricher struct {
	calls int
}

func (f *fakeEnricher) Enrich(_ context.Context, _ watches.Watch, articles []domain.ArticleRecord) []domain.ArticleRecord {
	f.calls++
	out := make([]domain.ArticleRecord, len(articles))
	for i, a := range articles {
		a.Description = "enriched-" + a.Title
		out[i] = a
	}
	return out
}

// fakePublisher records published events and can reject some article ids.
type fakePublisher struct {
	mu      sync.Mutex
	events  []publishers.Event
	failIDs map[string]bool
}

func (f *fakePublisher) Publish(_ context.Context, evt publishers.Event) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	if f.failIDs[evt.Article.ID] {
		return 0, errors.New("boom")
	}
	return 1, nil
}

// fakeDeduper tracks seen ids per watch.
type fakeDeduper struct {
	mu      sync.Mutex
	seen    map[string]bool
	failID  string
	failErr error
}

func (f *fakeDeduper) SeenArticle(watchID, articleID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if articleID == f.failID && f.failErr != nil {
		return false, f.failErr
	}
	return f.seen[watchID+"/"+articleID], nil
}

func (f *fakeDeduper) MarkArticle(watchID, articleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}
	f.seen[watchID+"/"+articleID] = true
	return nil
}

func article(id, title string) domain.ArticleRecord {
	rec := domain.NewArticleRecord()
	rec.ID = id
	rec.Title = title
	rec.Link = "https://news.google.com/read/" + id
	return rec
}

func freightWatch() watches.Watch {
	return watches.Watch{
		ID:      "freight-kr",
		Name:    "Freight (KR)",
		Keyword: "해상운임",
		Limit:   10,
		Enrich:  true,
		Config:  map[string]any{"user_agent": "collector-test"},
	}
}

func TestServicePublishesFreshArticlesOnly(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]domain.ArticleRecord{
		"해상운임": {article("a1", "old"), article("a2", "new")},
	}}
	deduper := &fakeDeduper{seen: map[string]bool{"freight-kr/a1": true}}
	pub := &fakePublisher{}
	enricher := &fakeEnricher{}

	svc := NewService(searcher, enricher, pub, deduper, nil)
	if err := svc.Run(context.Background(), []watches.Watch{freightWatch()}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(pub.events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(pub.events))
	}
	evt := pub.events[0]
	if evt.WatchID != "freight-kr" || evt.Keyword != "해상운임" {
		t.Fatalf("unexpected event metadata %+v", evt)
	}
	if evt.Article.ID != "a2" || evt.Article.Description != "enriched-new" {
		t.Fatalf("unexpected article %+v", evt.Article)
	}
	if !deduper.seen["freight-kr/a2"] {
		t.Fatalf("MarkArticle not called for new article")
	}
	if searcher.headers["User-Agent"] != "collector-test" {
		t.Fatalf("watch headers not forwarded: %#v", searcher.headers)
	}
}

func TestServiceSkipsEnrichWhenDisabled(t *testing.T) {
	w := freightWatch()
	w.Enrich = false
	searcher := &fakeSearcher{results: map[string][]domain.ArticleRecord{w.Keyword: {article("a1", "t")}}}
	enricher := &fakeEnricher{}

	svc := NewService(searcher, enricher, &fakePublisher{}, nil, nil)
	if err := svc.Run(context.Background(), []watches.Watch{w}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if enricher.calls != 0 {
		t.Fatalf("enricher should not run when enrich is disabled")
	}
}

func TestServiceTruncatesToLimit(t *testing.T) {
	w := freightWatch()
	w.Limit = 2
	searcher := &fakeSearcher{results: map[string][]domain.ArticleRecord{
		w.Keyword: {article("a1", "1"), article("a2", "2"), article("a3", "3")},
	}}
	pub := &fakePublisher{}

	svc := NewService(searcher, nil, pub, nil, nil)
	if err := svc.Run(context.Background(), []watches.Watch{w}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(pub.events) != 2 || pub.events[1].Article.ID != "a2" {
		t.Fatalf("expected the first two articles, got %#v", pub.events)
	}
}

func TestServiceDoesNotMarkRejectedArticles(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]domain.ArticleRecord{
		"해상운임": {article("bad", "rejected"), article("good", "accepted")},
	}}
	deduper := &fakeDeduper{}
	pub := &fakePublisher{failIDs: map[string]bool{"bad": true}}

	svc := NewService(searcher, nil, pub, deduper, nil)
	err := svc.Run(context.Background(), []watches.Watch{freightWatch()})
	if err == nil || !strings.Contains(err.Error(), "bad") {
		t.Fatalf("expected error mentioning bad article, got %v", err)
	}
	if deduper.seen["freight-kr/bad"] {
		t.Fatalf("rejected article must not be marked seen")
	}
	if !deduper.seen["freight-kr/good"] {
		t.Fatalf("accepted article should be marked seen")
	}
}

func TestServiceJoinsWatchErrors(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("upstream down")}
	svc := NewService(searcher, nil, &fakePublisher{}, nil, nil)

	a := freightWatch()
	b := freightWatch()
	b.ID = "container"
	b.Keyword = "컨테이너"

	err := svc.Run(context.Background(), []watches.Watch{a, b})
	if err == nil {
		t.Fatalf("expected joined error")
	}
	if !strings.Contains(err.Error(), "freight-kr") || !strings.Contains(err.Error(), "container") {
		t.Fatalf("error should name both watches: %v", err)
	}
}

func TestServiceRunAllCancelsEarly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	searcher := &fakeSearcher{}
	svc := NewService(searcher, nil, nil, nil, nil)
	errs := svc.runAll(ctx, []watches.Watch{freightWatch()})
	if len(errs) != 0 {
		t.Fatalf("expected no errors on cancelled context, got %v", errs)
	}
	if len(searcher.calls) != 0 {
		t.Fatalf("no search should run after cancellation")
	}
}

func TestServiceRunRejectsEmptyWatches(t *testing.T) {
	svc := NewService(&fakeSearcher{}, nil, nil, nil, nil)
	if err := svc.Run(context.Background(), nil); err == nil {
		t.Fatalf("expected error when watches list is empty")
	}
}

func TestFilterNewKeepsArticlesOnLookupError(t *testing.T) {
	deduper := &fakeDeduper{
		seen:    map[string]bool{"p/skip": true},
		failID:  "error",
		failErr: errors.New("lookup failed"),
	}
	svc := NewService(&fakeSearcher{}, nil, nil, deduper, nil)
	articles := []domain.ArticleRecord{article("keep", ""), article("skip", ""), article("error", "")}

	filtered := svc.filterNew(watches.Watch{ID: "p"}, articles)
	if len(filtered) != 2 {
		t.Fatalf("expected 2 articles after filter, got %d", len(filtered))
	}
	if filtered[0].ID != "keep" || filtered[1].ID != "error" {
		t.Fatalf("unexpected filter result %#v", filtered)
	}
}
