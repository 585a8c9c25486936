package httpclient

import (
	"strings"
	"unicode/utf8"
)

const maxSnippetLen = 512

// Snippet trims a response body for log and error messages. The cut lands on a
// rune boundary so the result stays valid UTF-8.
func Snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if s == "" {
		return "<empty>"
	}
	if len(s) <= maxSnippetLen {
		return s
	}
	cut := maxSnippetLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
