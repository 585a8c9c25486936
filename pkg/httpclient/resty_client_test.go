package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestRestyClientGetSendsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "UA" {
			t.Errorf("expected User-Agent UA, got %q", got)
		}
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))
	defer srv.Close()

	client := NewRestyClient(2 * time.Second)
	resp, err := client.Get(context.Background(), srv.URL, map[string]string{"User-Agent": "UA"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode() != http.StatusTeapot {
		t.Fatalf("unexpected status %d", resp.StatusCode())
	}
	if string(resp.Body()) != "short and stout" {
		t.Fatalf("unexpected body %q", resp.Body())
	}
}

func TestSnippet(t *testing.T) {
	if got := Snippet([]byte("  ")); got != "<empty>" {
		t.Fatalf("expected <empty>, got %q", got)
	}
	long := strings.Repeat("x", maxSnippetLen+10)
	if got := Snippet([]byte(long)); len(got) != maxSnippetLen+3 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected truncation %q", got)
	}

	// 3-byte runes: 512 is not a multiple of 3, so a byte cut would split one.
	korean := strings.Repeat("운임", 200)
	got := Snippet([]byte(korean))
	if !utf8.ValidString(got) {
		t.Fatalf("snippet of multi-byte body is not valid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, "...") || len(got) > maxSnippetLen+3 {
		t.Fatalf("unexpected truncation length %d", len(got))
	}
	if want := strings.TrimSuffix(got, "..."); !strings.HasPrefix(korean, want) || len(want) != 510 {
		t.Fatalf("expected cut at the last full rune (510 bytes), got %d", len(want))
	}
}
