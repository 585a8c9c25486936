package news

import (
	"strings"
	"testing"
	"time"

	"github.com/mtl-news/maritime-desk/internal/domain"
)

const origin = "https://news.google.com"

const fullArticle = `
<article>
  <img class="Quavad" src="/api/attachments/thumb-1">
  <div class="vr1PYe">Maritime Daily</div>
  <a class="JtKRv" href="./read/CBMi-1">Freight rates climb again</a>
  <time class="hvbAAd" datetime="2024-06-28T03:00:00Z">1 hour ago</time>
</article>`

func page(articles ...string) []byte {
	return []byte("<html><body><main>" + strings.Join(articles, "\n") + "</main></body></html>")
}

func TestExtractFullArticle(t *testing.T) {
	records, err := Extract(page(fullArticle), origin)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.Source != "Maritime Daily" {
		t.Fatalf("source = %q", rec.Source)
	}
	if rec.Title != "Freight rates climb again" {
		t.Fatalf("title = %q", rec.Title)
	}
	if rec.Link != "https://news.google.com/read/CBMi-1" {
		t.Fatalf("link = %q", rec.Link)
	}
	if got := rec.Thumbnail.OrElse(""); got != "https://news.google.com/api/attachments/thumb-1" {
		t.Fatalf("thumbnail = %q", got)
	}
	date, ok := rec.Date.Get()
	if !ok || !date.Equal(time.Date(2024, 6, 28, 3, 0, 0, 0, time.UTC)) {
		t.Fatalf("date = %v (present=%v)", date, ok)
	}
	if rec.ID == "" {
		t.Fatalf("expected id to be set")
	}
}

func TestExtractDefaultsOnlyMissingField(t *testing.T) {
	cases := []struct {
		name   string
		remove string
		check  func(t *testing.T, rec domain.ArticleRecord)
	}{
		{
			name:   "source",
			remove: `<div class="vr1PYe">Maritime Daily</div>`,
			check: func(t *testing.T, rec domain.ArticleRecord) {
				if rec.Source != domain.DefaultSource {
					t.Fatalf("source = %q", rec.Source)
				}
				if rec.Title != "Freight rates climb again" || !rec.Thumbnail.Present() || !rec.Date.Present() {
					t.Fatalf("other fields changed: %#v", rec)
				}
			},
		},
		{
			name:   "title",
			remove: `<a class="JtKRv" href="./read/CBMi-1">Freight rates climb again</a>`,
			check: func(t *testing.T, rec domain.ArticleRecord) {
				if rec.Title != domain.DefaultTitle || rec.Link != domain.DefaultLink {
					t.Fatalf("title/link = %q/%q", rec.Title, rec.Link)
				}
				if rec.Source != "Maritime Daily" || !rec.Thumbnail.Present() || !rec.Date.Present() {
					t.Fatalf("other fields changed: %#v", rec)
				}
			},
		},
		{
			name:   "thumbnail",
			remove: `<img class="Quavad" src="/api/attachments/thumb-1">`,
			check: func(t *testing.T, rec domain.ArticleRecord) {
				if rec.Thumbnail.Present() {
					t.Fatalf("expected thumbnail absent")
				}
				if rec.Title != "Freight rates climb again" || rec.Link != "https://news.google.com/read/CBMi-1" {
					t.Fatalf("title/link not populated from anchor: %#v", rec)
				}
				if rec.Source != "Maritime Daily" || !rec.Date.Present() {
					t.Fatalf("other fields changed: %#v", rec)
				}
			},
		},
		{
			name:   "date",
			remove: `<time class="hvbAAd" datetime="2024-06-28T03:00:00Z">1 hour ago</time>`,
			check: func(t *testing.T, rec domain.ArticleRecord) {
				if rec.Date.Present() {
					t.Fatalf("expected date absent")
				}
				if rec.Source != "Maritime Daily" || rec.Title != "Freight rates climb again" || !rec.Thumbnail.Present() {
					t.Fatalf("other fields changed: %#v", rec)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			html := strings.Replace(fullArticle, tc.remove, "", 1)
			records, err := Extract(page(html), origin)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if len(records) != 1 {
				t.Fatalf("expected 1 record, got %d", len(records))
			}
			tc.check(t, records[0])
		})
	}
}

func TestExtractAnchorWithoutHref(t *testing.T) {
	html := `<article><a class="JtKRv">Headline only</a></article>`
	records, err := Extract(page(html), origin)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if records[0].Title != "Headline only" || records[0].Link != domain.DefaultLink {
		t.Fatalf("unexpected record %#v", records[0])
	}
}

func TestExtractUnparseableDateIsAbsent(t *testing.T) {
	html := `<article><time class="hvbAAd" datetime="yesterday"></time></article>`
	records, err := Extract(page(html), origin)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if records[0].Date.Present() {
		t.Fatalf("expected unparseable date to be absent")
	}
}

func TestExtractKeepsDocumentOrder(t *testing.T) {
	a := `<article><a class="JtKRv" href="/a">A</a></article>`
	b := `<article><a class="JtKRv" href="/b">B</a></article>`
	c := `<article><a class="JtKRv" href="/c">C</a></article>`

	records, err := Extract(page(a, b, c), origin)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	var titles []string
	for _, r := range records {
		titles = append(titles, r.Title)
	}
	if strings.Join(titles, ",") != "A,B,C" {
		t.Fatalf("unexpected order %v", titles)
	}
	if got := Top(records, 2); len(got) != 2 || got[1].Title != "B" {
		t.Fatalf("Top(2) = %#v", got)
	}
	if got := Top(records, 10); len(got) != 3 {
		t.Fatalf("Top(10) returned %d records", len(got))
	}
}

func TestAbsoluteURL(t *testing.T) {
	cases := map[string]string{
		"/api/img":                            "https://news.google.com/api/img",
		"./read/abc":                          "https://news.google.com/read/abc",
		"https://cdn.example/x.png":           "https://cdn.example/x.png",
		"  /padded ":                          "https://news.google.com/padded",
		"//lh3.googleusercontent.com/img.jpg": "https://lh3.googleusercontent.com/img.jpg",
	}
	for in, want := range cases {
		if got := AbsoluteURL(origin+"/", in); got != want {
			t.Fatalf("AbsoluteURL(%q) = %q, want %q", in, got, want)
		}
	}

	if got := AbsoluteURL("http://news.internal", "//cdn.example/x.png"); got != "http://cdn.example/x.png" {
		t.Fatalf("scheme-relative URL should take the origin scheme, got %q", got)
	}
}
