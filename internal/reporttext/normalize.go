package reporttext

import (
	"regexp"
	"strings"
)

var (
	horizontalWS = regexp.MustCompile(`[ \t]+`)
	newlineRuns  = regexp.MustCompile(`\n+`)
)

// NormalizeComparable canonicalizes text for equality and prefix checks:
// CRLF to LF, horizontal whitespace runs to one space, newline runs to one
// newline, trimmed, lower-cased. The result is for comparison only and must
// never be stored or shown to a user.
func NormalizeComparable(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = horizontalWS.ReplaceAllString(text, " ")
	text = newlineRuns.ReplaceAllString(text, "\n")
	return strings.ToLower(strings.TrimSpace(text))
}
