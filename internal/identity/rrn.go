// Package identity derives demographic fields from Korean resident
// registration numbers (RRN) and handles their masking and encryption.
// The raw RRN is treated as highly sensitive: nothing here logs it, and
// only masked or encrypted forms are meant to leave the process.
package identity

import (
	"fmt"
	"strings"
	"time"
)

// Derived is the demographic result of parsing an RRN. The zero value is
// what every malformed input maps to.
type Derived struct {
	Sex     string // "M", "F", or ""
	AgeText string // "34y", "3y 2m", "7m", or ""
}

func onlyDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseBirth(rrn string) (birth time.Time, sex string, ok bool) {
	digits := onlyDigits(rrn)
	if len(digits) < 13 {
		return time.Time{}, "", false
	}

	yy := int(digits[0]-'0')*10 + int(digits[1]-'0')
	mm := int(digits[2]-'0')*10 + int(digits[3]-'0')
	dd := int(digits[4]-'0')*10 + int(digits[5]-'0')
	s := int(digits[6] - '0')

	var century int
	switch s {
	case 1, 2, 5, 6:
		century = 1900
	case 3, 4, 7, 8:
		century = 2000
	default:
		return time.Time{}, "", false
	}

	sex = "F"
	if s%2 == 1 {
		sex = "M"
	}

	birth = time.Date(century+yy, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range components; a bad calendar date
	// round-trips to something else.
	if birth.Year() != century+yy || birth.Month() != time.Month(mm) || birth.Day() != dd {
		return time.Time{}, "", false
	}
	return birth, sex, true
}

func formatAgeText(birth, exam time.Time) string {
	months := (exam.Year()-birth.Year())*12 + int(exam.Month()) - int(birth.Month())
	if exam.Day() < birth.Day() {
		months--
	}
	if months < 0 {
		months = 0
	}

	years := months / 12
	rem := months % 12

	if years <= 0 {
		return fmt.Sprintf("%dm", rem)
	}
	if rem == 0 {
		return fmt.Sprintf("%dy", years)
	}
	return fmt.Sprintf("%dy %dm", years, rem)
}

// Derive parses an RRN into sex and an age string relative to the exam
// date ("2006-01-02"). An absent or unparseable exam date falls back to
// today. Pure and total: malformed RRNs yield the zero Derived, never an
// error.
func Derive(rrn, examDate string) Derived {
	birth, sex, ok := parseBirth(rrn)
	if !ok {
		return Derived{}
	}

	exam := time.Now().UTC()
	if trimmed := strings.TrimSpace(examDate); trimmed != "" {
		if len(trimmed) > 10 {
			trimmed = trimmed[:10]
		}
		if parsed, err := time.Parse("2006-01-02", trimmed); err == nil {
			exam = parsed
		}
	}

	return Derived{Sex: sex, AgeText: formatAgeText(birth, exam)}
}

// Mask hides the tail of an RRN: the birth segment and the century/sex
// digit stay visible, everything after is starred. Inputs that do not look
// like an RRN keep at most their first 8 characters.
func Mask(rrn string) string {
	trimmed := strings.TrimSpace(rrn)
	if trimmed == "" {
		return ""
	}

	// For a well-formed "YYMMDD-SXXXXXX" the first 8 characters are the
	// birth segment, the hyphen, and the century/sex digit.
	if len(trimmed) <= 8 {
		return trimmed
	}
	return trimmed[:8] + strings.Repeat("*", len(trimmed)-8)
}
