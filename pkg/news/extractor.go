package news

import (
	"bytes"
	"crypto/sha1" //nolint:gosec // non-cryptographic id generation
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mtl-news/maritime-desk/internal/domain"
)

// Selectors for the Google News search results markup.
const (
	articleSelector   = "article"
	sourceSelector    = "div.vr1PYe"
	titleSelector     = "a.JtKRv"
	thumbnailSelector = "img.Quavad"
	dateSelector      = "time.hvbAAd"
)

// Extract parses a search results page into article records in document order.
// Every field is resolved independently; a missing node yields that field's
// default and never fails the record.
func Extract(body []byte, origin string) ([]domain.ArticleRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	nodes := doc.Find(articleSelector)
	records := make([]domain.ArticleRecord, 0, nodes.Length())
	nodes.Each(func(_ int, s *goquery.Selection) {
		records = append(records, extractArticle(s, origin))
	})
	return records, nil
}

func extractArticle(s *goquery.Selection, origin string) domain.ArticleRecord {
	rec := domain.NewArticleRecord()

	if node := s.Find(sourceSelector).First(); node.Length() > 0 {
		rec.Source = strings.TrimSpace(node.Text())
	}

	if anchor := s.Find(titleSelector).First(); anchor.Length() > 0 {
		rec.Title = strings.TrimSpace(anchor.Text())
		if href, ok := anchor.Attr("href"); ok && strings.TrimSpace(href) != "" {
			rec.Link = AbsoluteURL(origin, href)
		}
	}

	if img := s.Find(thumbnailSelector).First(); img.Length() > 0 {
		if src := strings.TrimSpace(img.AttrOr("src", "")); src != "" {
			rec.Thumbnail = domain.Some(AbsoluteURL(origin, src))
		}
	}

	if node := s.Find(dateSelector).First(); node.Length() > 0 {
		if raw, ok := node.Attr("datetime"); ok {
			if t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw)); err == nil {
				rec.Date = domain.Some(t)
			}
		}
	}

	rec.ID = recordID(rec)
	return rec
}

// AbsoluteURL rewrites a site-relative path ("/x" or "./x") onto origin and
// gives a scheme-relative URL ("//host/x") the origin's scheme.
// Anything else is returned trimmed but otherwise unchanged.
func AbsoluteURL(origin, raw string) string {
	raw = strings.TrimSpace(raw)
	origin = strings.TrimRight(origin, "/")

	switch {
	case strings.HasPrefix(raw, "//"):
		scheme, _, found := strings.Cut(origin, "://")
		if !found || scheme == "" {
			scheme = "https"
		}
		return scheme + ":" + raw
	case strings.HasPrefix(raw, "./"):
		return origin + raw[1:]
	case strings.HasPrefix(raw, "/"):
		return origin + raw
	default:
		return raw
	}
}

// Top returns at most n records from the front of the list.
func Top(records []domain.ArticleRecord, n int) []domain.ArticleRecord {
	if n < 0 || n >= len(records) {
		return records
	}
	return records[:n]
}

func recordID(rec domain.ArticleRecord) string {
	key := rec.Link
	if !rec.HasLink() {
		key = rec.Source + "\x00" + rec.Title
	}
	sum := sha1.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}
