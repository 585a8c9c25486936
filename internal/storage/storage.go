package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage remembers which articles the collector already published.

// Store tracks published article ids per watch.
type Store interface {
	Close() error
	SeenArticle(watchID, articleID string) (bool, error)
	MarkArticle(watchID, articleID string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	ArticleTTL      time.Duration
	CleanupInterval time.Duration
}

const (
	defaultArticleTTL      = 5 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.ArticleTTL <= 0 {
		opts.ArticleTTL = defaultArticleTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

// articleKey namespaces an article id under its watch.
func articleKey(watchID, articleID string) []byte {
	return []byte(watchID + "/" + articleID)
}

type noopStore struct{}

func (noopStore) Close() error                             { return nil }
func (noopStore) SeenArticle(string, string) (bool, error) { return false, nil }
func (noopStore) MarkArticle(string, string) error         { return nil }
