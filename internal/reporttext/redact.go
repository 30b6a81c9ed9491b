package reporttext

import "regexp"

// Placeholder replaces every identifier-like digit run. The original value
// is discarded and is not recoverable.
const Placeholder = "[REDACTED]"

var (
	// Korean RRN like YYMMDD-XXXXXXX.
	rrnPattern = regexp.MustCompile(`\b\d{6}-\d{7}\b`)
	// Long digit sequences (chart numbers, phone numbers, etc.).
	longDigitPattern = regexp.MustCompile(`\b\d{8,}\b`)
)

// Redact scrubs identifier-shaped digit sequences from free text. It must be
// applied to every field before the text leaves the process toward an
// external model. Over-matching is acceptable; a redacted chart number costs
// nothing, a leaked RRN does.
func Redact(text string) string {
	text = rrnPattern.ReplaceAllString(text, Placeholder)
	return longDigitPattern.ReplaceAllString(text, Placeholder)
}
