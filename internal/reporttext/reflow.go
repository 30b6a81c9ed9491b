package reporttext

import (
	"regexp"
	"strings"
)

var (
	latinStop       = regexp.MustCompile(`\. +`)
	ideographicStop = regexp.MustCompile(`。\s+`)
	blankRuns       = regexp.MustCompile(`\n{3,}`)
)

// Reflow reformats long-form report text to one sentence per line: a line
// break after every sentence terminator, at most one blank line between
// paragraphs. Idempotent — once each sentence starts its own line there is
// no space run left after a terminator.
func Reflow(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = latinStop.ReplaceAllString(text, ".\n")
	text = ideographicStop.ReplaceAllString(text, "。\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
