// Package parser turns one line of free text into a ledger action. It is a
// rule-based extractor: a fixed sequence of keyword and regexp scans where
// the first match in each category wins. It makes no attempt at scoring or
// ambiguity resolution beyond that ordering.
package parser

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stonezone/lendshark/internal/ledger"
	"github.com/stonezone/lendshark/internal/sanitize"
)

// Parser extracts ledger actions from raw text. The zero value is not
// usable; construct with New.
type Parser struct {
	// Now supplies the creation timestamp and the base for relative due
	// dates. Injectable for tests.
	Now func() time.Time
	// DefaultRate is applied as the weekly interest rate when the input
	// names none. Zero disables.
	DefaultRate decimal.Decimal
}

// New returns a Parser using the wall clock and no default rate.
func New() *Parser {
	return &Parser{Now: time.Now}
}

// Parse classifies raw input as a settlement instruction or a new
// transaction and extracts its fields.
//
// Stages run in a fixed order: sanitize, settlement detection, direction,
// amount, item disambiguation, party, due date, notes. Settlement always
// wins over transaction parsing, so a sentence containing both a settle
// keyword and a lending verb settles.
func (p *Parser) Parse(raw string) (ledger.ParsedAction, error) {
	text := sanitize.Sanitize(raw, sanitize.FieldNotes)
	if text == "" {
		return nil, invalidFormat("nothing to parse")
	}
	lower := asciiFold(text)

	if kw := firstWord(lower, settleKeywords); kw != "" {
		if party := extractSettleParty(text, lower, kw); party != "" {
			return ledger.SettleAction{Party: party}, nil
		}
	}

	// Extended grammar runs before the base stages but only consumes
	// text the base grammar has no claim on: phone-shaped digit runs and
	// percent-suffixed rates. Excising them keeps phone digits out of
	// the amount scan and rate digits out of the party scan.
	var phone string
	if loc := phonePattern.FindStringIndex(lower); loc != nil {
		phone = strings.TrimSpace(text[loc[0]:loc[1]])
		text = excise(text, loc)
		lower = asciiFold(text)
	}
	rate := p.DefaultRate
	if m := ratePattern.FindStringSubmatchIndex(lower); m != nil {
		if pct, err := decimal.NewFromString(lower[m[2]:m[3]]); err == nil {
			rate = pct.Div(decimal.NewFromInt(100))
			text = excise(text, m[:2])
			lower = asciiFold(text)
		}
	}

	var direction ledger.Direction
	switch {
	case firstWord(lower, lentVerbs) != "":
		direction = ledger.Lent
	case firstWord(lower, borrowedVerbs) != "":
		direction = ledger.Borrowed
	default:
		return nil, invalidFormat(
			`could not find a lend or borrow verb; try "lent 50 to john" or "borrowed 20 from sarah"`)
	}

	var amount decimal.Decimal
	hasAmount := false
	if m := amountPattern.FindStringSubmatch(lower); m != nil {
		if a, err := decimal.NewFromString(m[1]); err == nil {
			amount, hasAmount = a, true
		}
	}

	var item string
	if !hasAmount {
		if ind := firstWord(lower, itemIndicators); ind != "" {
			item = sanitize.Sanitize(extractItemPhrase(text, lower, ind), sanitize.FieldItemDescription)
		}
	}
	isItem := item != ""

	preps := lentPreps
	if direction == ledger.Borrowed {
		preps = borrowedPreps
	}
	party := ""
	if prep := firstWord(lower, preps); prep != "" {
		loc := wordPattern[prep].FindStringIndex(lower)
		party = sanitize.Sanitize(captureWords(text[loc[1]:]), sanitize.FieldPartyName)
	}
	if party == "" {
		return nil, missingField("party name")
	}

	now := p.Now()
	due := extractDueDate(lower, now)

	notes := extractNotes(text, lower)

	if !isItem && !hasAmount {
		return nil, missingField("amount or item description")
	}

	rec := ledger.TransactionRecord{
		ID:           uuid.NewString(),
		Party:        party,
		Amount:       amount,
		Item:         item,
		Direction:    direction,
		IsItem:       isItem,
		Timestamp:    now,
		DueDate:      due,
		InterestRate: rate,
		Notes:        notes,
		PhoneNumber:  phone,
	}
	return ledger.AddAction{Record: rec}, nil
}

// extractSettleParty recovers the counterparty of a settlement from either
// "<keyword> with <name>" or "with <name> <keyword>". Offsets computed on
// the folded string index into the original because asciiFold preserves
// byte positions.
func extractSettleParty(text, lower, kw string) string {
	if loc := wordPattern[kw].FindStringIndex(lower); loc != nil {
		rest := lower[loc[1]:]
		if i := strings.Index(rest, "with "); i >= 0 && strings.TrimSpace(rest[:i]) == "" {
			start := loc[1] + i + len("with ")
			if name := sanitize.Sanitize(captureWords(text[start:]), sanitize.FieldPartyName); name != "" {
				return name
			}
		}
	}
	if i := strings.Index(lower, "with "); i >= 0 {
		start := i + len("with ")
		// the keyword must follow the name for this form
		if kwLoc := wordPattern[kw].FindStringIndex(lower[start:]); kwLoc != nil {
			candidate := captureWords(text[start : start+kwLoc[0]])
			return sanitize.Sanitize(candidate, sanitize.FieldPartyName)
		}
	}
	return ""
}

// extractItemPhrase returns the original-case phrase after the first item
// indicator, cut before any party preposition, due-date phrase, or note
// marker.
func extractItemPhrase(text, lower, indicator string) string {
	loc := wordPattern[indicator].FindStringIndex(lower)
	if loc == nil {
		return ""
	}
	start := loc[1]
	end := len(lower)
	for _, stop := range []string{
		" to ", " for ", " from ", " off ",
		" tomorrow", " next week", " next month",
		" note:", " notes:", " memo:", " //",
	} {
		if i := strings.Index(lower[start:], stop); i >= 0 && start+i < end {
			end = start + i
		}
	}
	if m := inDaysPattern.FindStringIndex(lower[start:]); m != nil && start+m[0] < end {
		end = start + m[0]
	}
	if m := inWeeksPattern.FindStringIndex(lower[start:]); m != nil && start+m[0] < end {
		end = start + m[0]
	}
	return strings.TrimSpace(text[start:end])
}

// extractDueDate matches the small fixed due-date vocabulary, first match
// wins in the documented order.
func extractDueDate(lower string, now time.Time) *time.Time {
	switch {
	case strings.Contains(lower, "tomorrow"):
		return timePtr(now.AddDate(0, 0, 1))
	case strings.Contains(lower, "next week"):
		return timePtr(now.AddDate(0, 0, 7))
	case strings.Contains(lower, "next month"):
		return timePtr(now.AddDate(0, 1, 0))
	}
	if m := inDaysPattern.FindStringSubmatch(lower); m != nil {
		if n, ok := parseInt(m[1]); ok {
			return timePtr(now.AddDate(0, 0, n))
		}
	}
	if m := inWeeksPattern.FindStringSubmatch(lower); m != nil {
		if n, ok := parseInt(m[1]); ok {
			return timePtr(now.AddDate(0, 0, n*7))
		}
	}
	return nil
}

// extractNotes prefers a double-quoted substring, then a note marker, then
// (extended grammar) a parenthetical aside.
func extractNotes(text, lower string) string {
	if m := quotedNotePattern.FindStringSubmatch(text); m != nil {
		return sanitize.Sanitize(m[1], sanitize.FieldNotes)
	}
	if m := noteMarkerPattern.FindStringSubmatch(text); m != nil {
		return sanitize.Sanitize(m[1], sanitize.FieldNotes)
	}
	if m := parentheticalPattern.FindStringSubmatch(text); m != nil {
		return sanitize.Sanitize(m[1], sanitize.FieldNotes)
	}
	return ""
}

// captureWords accumulates the run of alphabetic words at the start of
// rest, stopping at the first non-word token or reserved vocabulary word.
// Sentence-final punctuation is trimmed from each token so "john." still
// captures as john.
func captureWords(rest string) string {
	var words []string
	for _, w := range strings.Fields(rest) {
		w = strings.TrimRightFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && r != '\''
		})
		if _, reserved := stopWords[asciiFold(w)]; reserved {
			break
		}
		if !isAlphaWord(w) {
			break
		}
		words = append(words, w)
	}
	return strings.Join(words, " ")
}

func isAlphaWord(w string) bool {
	for _, r := range w {
		if !unicode.IsLetter(r) && r != '\'' {
			return false
		}
	}
	return w != ""
}

// asciiFold lowercases ASCII letters only, so byte offsets stay aligned
// with the original string.
func asciiFold(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func excise(s string, loc []int) string {
	return strings.TrimSpace(strings.Join(strings.Fields(s[:loc[0]]+" "+s[loc[1]:]), " "))
}

func parseInt(s string) (int, bool) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, s != ""
}

func timePtr(t time.Time) *time.Time { return &t }
