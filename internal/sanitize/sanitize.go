// Package sanitize normalizes and screens user-supplied text before it is
// allowed into a ledger record. All transformations are pure and
// idempotent.
package sanitize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// FieldKind selects the sanitation rules for a field.
type FieldKind int

const (
	// FieldPartyName keeps only letters, digits, whitespace, '.', '-', '\''.
	FieldPartyName FieldKind = iota
	// FieldItemDescription strips angle brackets and normalizes quotes.
	FieldItemDescription
	// FieldNotes removes script-related substrings, otherwise preserves text.
	FieldNotes
	// FieldAmount keeps only digits and the decimal point.
	FieldAmount
)

// Maximum lengths per field kind, in runes, applied after cleaning.
const (
	MaxPartyLen  = 100
	MaxItemLen   = 200
	MaxNotesLen  = 500
	maxAmountLen = 20
)

// Invisible code points stripped from every field before any other rule.
var invisibleRunes = map[rune]struct{}{
	'\u0000': {}, '\u200b': {}, '\u200c': {}, '\u200d': {},
	'\u2060': {}, '\ufeff': {}, '\u00ad': {}, '\u180e': {},
}

// scriptFragments are removed from notes-kind text case-insensitively.
var scriptFragments = []string{
	"<script", "</script", "javascript:", "vbscript:", "onerror=", "onload=",
}

// Sanitize cleans s according to the rules for kind: invisible and control
// code points are dropped, the text is NFC-normalized, kind-specific
// character rules apply, and the result is trimmed and truncated to the
// kind's maximum length.
func Sanitize(s string, kind FieldKind) string {
	s = stripInvisible(s)
	s = norm.NFC.String(s)

	switch kind {
	case FieldPartyName:
		s = keepRunes(s, func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r) ||
				unicode.IsSpace(r) || r == '.' || r == '-' || r == '\''
		})
		s = truncate(s, MaxPartyLen)
	case FieldItemDescription:
		s = strings.NewReplacer("<", "", ">", "", `"`, "'").Replace(s)
		s = truncate(s, MaxItemLen)
	case FieldNotes:
		s = stripFragments(s, scriptFragments)
		s = truncate(s, MaxNotesLen)
	case FieldAmount:
		s = keepRunes(s, func(r rune) bool {
			return (r >= '0' && r <= '9') || r == '.'
		})
		s = truncate(s, maxAmountLen)
	}
	return strings.TrimSpace(s)
}

func stripInvisible(s string) string {
	return keepRunes(s, func(r rune) bool {
		if _, bad := invisibleRunes[r]; bad {
			return false
		}
		// keep ordinary whitespace, drop all other control characters
		return !unicode.IsControl(r) || r == '\t' || r == '\n'
	})
}

func keepRunes(s string, keep func(rune) bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if keep(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripFragments removes every case-insensitive occurrence of the given
// substrings, looping until none remain so that removals cannot splice a
// fragment back together. Fragments are ASCII, so an ASCII-only lowering
// keeps byte offsets aligned with the original string.
func stripFragments(s string, fragments []string) string {
	for {
		lower := asciiLower(s)
		idx, n := -1, 0
		for _, f := range fragments {
			if i := strings.Index(lower, f); i >= 0 && (idx == -1 || i < idx) {
				idx, n = i, len(f)
			}
		}
		if idx == -1 {
			return s
		}
		s = s[:idx] + s[idx+n:]
	}
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
