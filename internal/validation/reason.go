package validation

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MinReasonLength is the minimum number of characters in a not-fasting reason.
const MinReasonLength = 5

var ErrReasonTooShort = errors.New("reason must be at least 5 characters")

// TrimReason strips surrounding white space and byte order marks.
func TrimReason(reason string) string {
	return strings.TrimFunc(reason, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

// ReasonLength counts characters in the NFC form, so a decomposed accent
// counts once.
func ReasonLength(reason string) int {
	return utf8.RuneCountInString(norm.NFC.String(reason))
}

// ValidateReason returns the trimmed reason as entered, or ErrReasonTooShort.
func ValidateReason(reason string) (string, error) {
	trimmed := TrimReason(reason)
	if ReasonLength(trimmed) < MinReasonLength {
		return "", ErrReasonTooShort
	}
	return trimmed, nil
}
