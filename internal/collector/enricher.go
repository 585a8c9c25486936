package collector

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mtl-news/maritime-desk/internal/domain"
	"github.com/mtl-news/maritime-desk/internal/logger"
	"github.com/mtl-news/maritime-desk/pkg/httpclient"
	"github.com/mtl-news/maritime-desk/pkg/watches"
)

const maxHTMLBodyBytes = 1 << 20 // 1 MiB

// Scraper fetches article pages and fills description and thumbnail from OG tags.
type Scraper struct {
	client httpclient.Client
	log    logger.Logger
}

// NewScraper constructs a scraper with the provided HTTP client (or default).
func NewScraper(client httpclient.Client, log logger.Logger) *Scraper {
	if client == nil {
		client = httpclient.NewRestyClient(httpclient.DefaultTimeout)
	}
	return &Scraper{client: client, log: logger.Ensure(log)}
}

// Enrich fetches each linked article in order, sleeping the watch's request delay
// between fetches. On cancellation it returns what has been processed so far.
func (s *Scraper) Enrich(ctx context.Context, w watches.Watch, articles []domain.ArticleRecord) []domain.ArticleRecord {
	delay := w.RequestDelay()
	out := append([]domain.ArticleRecord(nil), articles...)

	for i, art := range articles {
		select {
		case <-ctx.Done():
			return out[:i]
		default:
		}

		if !art.HasLink() {
			continue
		}

		enriched, err := s.fetchAndParse(ctx, w, art)
		if err != nil {
			s.log.WarnObj("article metadata scrape failed", "metadata_error", map[string]any{
				"watch_id": w.ID,
				"url":      art.Link,
				"error":    err.Error(),
			})
		} else {
			out[i] = enriched
		}

		if delay > 0 && i < len(articles)-1 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return out[:i+1]
			case <-timer.C:
			}
		}
	}

	return out
}

func (s *Scraper) fetchAndParse(ctx context.Context, w watches.Watch, art domain.ArticleRecord) (domain.ArticleRecord, error) {
	resp, err := s.client.Get(ctx, art.Link, watches.Headers(w))
	if err != nil {
		return art, fmt.Errorf("http fetch: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return art, fmt.Errorf("status %d body: %s", resp.StatusCode(), httpclient.Snippet(resp.Body()))
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	meta, err := parseMeta(body)
	if err != nil {
		return art, err
	}

	updated := art
	if meta.Description != "" {
		updated.Description = meta.Description
	}
	if !updated.Thumbnail.Present() && meta.ImageURL != "" {
		if img := resolveURL(meta.ImageURL, art.Link); img != "" {
			updated.Thumbnail = domain.Some(img)
		}
	}
	return updated, nil
}

type pageMeta struct {
	Description string
	ImageURL    string
}

func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		return strings.TrimSpace(doc.Find(sel).First().AttrOr("content", ""))
	}

	return pageMeta{
		Description: firstNonEmpty(
			extract(`meta[property="og:description"]`),
			extract(`meta[name="description"]`),
		),
		ImageURL: firstNonEmpty(
			extract(`meta[property="og:image"]`),
			extract(`meta[name="twitter:image"]`),
		),
	}, nil
}

// resolveURL makes ref absolute against the page it was found on.
func resolveURL(ref, page string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	base, err := url.Parse(page)
	if err != nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
