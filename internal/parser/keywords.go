package parser

import "regexp"

// Keyword vocabularies. Order matters everywhere below: scanning is
// first-match-wins, so an input containing several candidates resolves to
// whichever appears earlier in its table.

var settleKeywords = []string{
	"settle", "settled", "paid", "pay", "repaid", "repay",
	"clear", "cleared", "square", "squared",
}

var lentVerbs = []string{
	"lent", "lended", "loaned", "gave", "paid for", "spotted",
	"covered", "fronted",
}

var borrowedVerbs = []string{
	"borrowed", "owe", "owes", "got", "received", "took",
}

// itemIndicators mark an item loan when no amount was found.
var itemIndicators = []string{"my", "the", "a", "an", "their", "his", "her"}

// Prepositions introducing the counterparty, chosen by direction.
var (
	lentPreps     = []string{"to", "for"}
	borrowedPreps = []string{"from", "off"}
)

// stopWords terminate a party-name capture; they belong to the due-date
// and note vocabularies, not to names.
var stopWords = map[string]struct{}{
	"tomorrow": {}, "next": {}, "week": {}, "month": {}, "in": {},
	"note": {}, "notes": {}, "memo": {}, "at": {},
}

var (
	amountPattern = regexp.MustCompile(`\$?(\d+(?:\.\d+)?)`)

	quotedNotePattern = regexp.MustCompile(`"([^"]+)"`)
	noteMarkerPattern = regexp.MustCompile(`(?i)(?:\bnotes?:|\bmemo:|//)\s*(.+)$`)

	// due-date vocabulary, tried in this order
	inDaysPattern  = regexp.MustCompile(`\bin\s+(\d+)\s+days?\b`)
	inWeeksPattern = regexp.MustCompile(`\bin\s+(\d+)\s+weeks?\b`)

	// extended grammar: weekly interest rate and phone numbers
	ratePattern  = regexp.MustCompile(`(?:\bat\s+)?(\d+(?:\.\d+)?)\s*%(?:\s*(?:weekly|interest|a week|per week))?`)
	phonePattern = regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-.\s]?\d{4}|\b\d{3}[-.]\d{3}[-.]\d{4}\b|\+\d{10,15}\b`)

	parentheticalPattern = regexp.MustCompile(`\(([^)]+)\)`)
)

// wordPattern caches \b<keyword>\b matchers for every vocabulary word.
var wordPattern = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp)
	for _, table := range [][]string{
		settleKeywords, lentVerbs, borrowedVerbs, itemIndicators,
		lentPreps, borrowedPreps,
	} {
		for _, w := range table {
			if _, ok := m[w]; !ok {
				m[w] = regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`)
			}
		}
	}
	return m
}()

// firstWord returns the first word from table that appears in text as a
// whole word, or "".
func firstWord(text string, table []string) string {
	for _, w := range table {
		if wordPattern[w].MatchString(text) {
			return w
		}
	}
	return ""
}
