package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T, opts Options) *boltStore {
	t.Helper()
	raw, err := openBolt(filepath.Join(t.TempDir(), "nested", "cache.db"), normalizeOptions(opts))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := raw.(*boltStore)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStoreMarksAndExpiresArticles(t *testing.T) {
	store := openTestStore(t, Options{ArticleTTL: time.Hour, CleanupInterval: time.Hour})
	clock := time.Now()
	store.now = func() time.Time { return clock }

	seen, err := store.SeenArticle("freight", "a1")
	if err != nil || seen {
		t.Fatalf("expected unseen article, seen=%v err=%v", seen, err)
	}

	if err := store.MarkArticle("freight", "a1"); err != nil {
		t.Fatalf("MarkArticle: %v", err)
	}

	seen, err = store.SeenArticle("freight", "a1")
	if err != nil || !seen {
		t.Fatalf("expected article marked as seen, got seen=%v err=%v", seen, err)
	}

	clock = clock.Add(2 * time.Hour)
	seen, err = store.SeenArticle("freight", "a1")
	if err != nil {
		t.Fatalf("SeenArticle after expiry: %v", err)
	}
	if seen {
		t.Fatalf("expected entry to expire")
	}
}

func TestBoltStoreScopesByWatch(t *testing.T) {
	store := openTestStore(t, Options{})

	if err := store.MarkArticle("freight", "a1"); err != nil {
		t.Fatalf("MarkArticle: %v", err)
	}
	seen, err := store.SeenArticle("scfi", "a1")
	if err != nil || seen {
		t.Fatalf("article should be unseen for another watch, seen=%v err=%v", seen, err)
	}
}

func TestBoltStoreCleanupSweepsExpired(t *testing.T) {
	store := openTestStore(t, Options{ArticleTTL: time.Minute, CleanupInterval: time.Minute})
	clock := time.Now()
	store.now = func() time.Time { return clock }

	for _, id := range []string{"a", "b", "c"} {
		if err := store.MarkArticle("w", id); err != nil {
			t.Fatalf("MarkArticle: %v", err)
		}
	}
	if n, _ := store.count(); n != 3 {
		t.Fatalf("expected 3 entries, got %d", n)
	}

	clock = clock.Add(5 * time.Minute)
	if err := store.MarkArticle("w", "d"); err != nil {
		t.Fatalf("MarkArticle: %v", err)
	}
	if n, _ := store.count(); n != 1 {
		t.Fatalf("expected cleanup to leave only the fresh entry, got %d", n)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.MarkArticle("w", "x"); err != nil {
		t.Fatalf("noop store MarkArticle: %v", err)
	}
	if seen, _ := store.SeenArticle("w", "x"); seen {
		t.Fatalf("noop store should never report seen")
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected error for missing path")
	}
}
