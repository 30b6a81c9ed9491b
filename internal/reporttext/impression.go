package reporttext

import (
	"regexp"
	"strings"
)

// findingsPrefixLen is how many normalized characters of the findings must
// reappear at the start of the impression before the impression is treated
// as a verbatim findings echo and dropped.
const findingsPrefixLen = 160

var (
	impressionHeader = regexp.MustCompile(`(?i)\bimpression\b\s*[:\-–—]?\s*`)
	findingsHeader   = regexp.MustCompile(`(?i)^\s*findings\b\s*[:\-–—]?\s*`)
)

// extractAfterLastHeader returns the text after the final occurrence of the
// header pattern. The last occurrence wins: models sometimes prepend
// reasoning that itself contains the word, so the final one is closest to
// the actual content. No occurrence leaves the text unchanged.
func extractAfterLastHeader(text string, header *regexp.Regexp) string {
	locs := header.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text
	}
	last := locs[len(locs)-1]
	return strings.TrimSpace(text[last[1]:])
}

// CleanImpression strips header echoes and findings duplication from a
// model-drafted impression. It never fails; the worst case is the trimmed
// input unchanged.
func CleanImpression(impression, findings string) string {
	next := strings.TrimSpace(strings.ReplaceAll(impression, "\r\n", "\n"))
	if next == "" {
		return ""
	}

	next = extractAfterLastHeader(next, impressionHeader)
	next = strings.TrimSpace(findingsHeader.ReplaceAllString(next, ""))

	nf := NormalizeComparable(findings)
	ni := NormalizeComparable(next)
	if ni == "" {
		return ""
	}
	// An impression that restates the findings has no diagnostic value.
	if nf != "" && ni == nf {
		return ""
	}
	if r := []rune(nf); len(r) >= findingsPrefixLen && strings.HasPrefix(ni, string(r[:findingsPrefixLen])) {
		return ""
	}
	return next
}

var trailingTerminators = regexp.MustCompile(`[.。]+$`)

// DiagnosisLine collapses a multi-line impression into a single
// comma-joined diagnosis line with no trailing sentence terminator.
// Diagnosis names only, no full sentences.
func DiagnosisLine(impression string) string {
	var parts []string
	for _, line := range strings.Split(strings.ReplaceAll(impression, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			parts = append(parts, line)
		}
	}
	joined := strings.TrimSpace(strings.Join(parts, ", "))
	return strings.TrimSpace(trailingTerminators.ReplaceAllString(joined, ""))
}
