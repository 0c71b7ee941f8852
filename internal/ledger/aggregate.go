package ledger

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// graceDays is the implicit grace period for open-ended money loans and
// the default term for item loans without a due date.
const graceDays = 7

type partyFold struct {
	name        string
	principal   decimal.Decimal
	interest    decimal.Decimal
	oldest      time.Time
	earliestDue *time.Time
	notes       []string
	items       []BorrowedItem
}

// Summarize folds a snapshot of records into one DebtorSummary per
// counterparty as of the given instant. Party names are matched
// case-insensitively; the summary carries the first-seen casing. Settled
// records and records with an empty party are ignored. Parties whose principal nets to zero and
// who hold no items are dropped.
//
// The result is ordered for display: overdue parties first, then by
// TotalOwed descending, so the largest amounts the owner is owed lead and
// balances the owner owes trail. Summarize is a pure function of its
// inputs and safe to call concurrently on an immutable snapshot.
func Summarize(records []TransactionRecord, asOf time.Time) []DebtorSummary {
	folds := make(map[string]*partyFold)
	var order []string

	for _, r := range records {
		if r.Settled || strings.TrimSpace(r.Party) == "" {
			continue
		}
		// fold case-insensitively, matching how settlement resolves
		// parties; the first-seen casing is kept for display
		key := strings.ToLower(r.Party)
		f, ok := folds[key]
		if !ok {
			f = &partyFold{
				name:      r.Party,
				principal: decimal.Zero,
				interest:  decimal.Zero,
			}
			folds[key] = f
			order = append(order, key)
		}

		if r.IsItem {
			due := r.Timestamp.AddDate(0, 0, graceDays)
			if r.DueDate != nil {
				due = *r.DueDate
			}
			f.items = append(f.items, BorrowedItem{
				Name:        r.Item,
				DueDate:     due,
				HeldByParty: r.Direction == Lent,
			})
			continue
		}

		contribution := r.Signed()
		f.principal = f.principal.Add(contribution)
		if f.oldest.IsZero() || r.Timestamp.Before(f.oldest) {
			f.oldest = r.Timestamp
		}
		if r.DueDate != nil && (f.earliestDue == nil || r.DueDate.Before(*f.earliestDue)) {
			due := *r.DueDate
			f.earliestDue = &due
		}
		if n := strings.TrimSpace(r.Notes); n != "" {
			f.notes = append(f.notes, n)
		}
		// interest is charged per lending transaction, never on debts the
		// owner carries
		if contribution.IsPositive() {
			f.interest = f.interest.Add(InterestSoFar(r, asOf))
		}
	}

	summaries := make([]DebtorSummary, 0, len(order))
	for _, name := range order {
		f := folds[name]
		if f.principal.IsZero() && len(f.items) == 0 {
			continue
		}
		summaries = append(summaries, DebtorSummary{
			Name:            f.name,
			Principal:       f.principal,
			AccruedInterest: f.interest,
			DaysOverdue:     f.daysOverdue(asOf),
			Notes:           strings.Join(f.notes, "; "),
			Items:           f.items,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		oi, oj := summaries[i].OverdueAt(asOf), summaries[j].OverdueAt(asOf)
		if oi != oj {
			return oi
		}
		return summaries[i].TotalOwed().GreaterThan(summaries[j].TotalOwed())
	})
	return summaries
}

// daysOverdue applies the overdue rules for a party's money balance: an
// explicit due date governs when one exists, otherwise the oldest open
// transaction starts a 7-day grace period. Owed-to-party balances are
// never overdue.
func (f *partyFold) daysOverdue(asOf time.Time) int {
	if !f.principal.IsPositive() {
		return 0
	}
	if f.earliestDue != nil {
		if d := daysBetween(*f.earliestDue, asOf); d > 0 {
			return d
		}
		return 0
	}
	if f.oldest.IsZero() {
		return 0
	}
	if d := daysBetween(f.oldest, asOf) - graceDays; d > 0 {
		return d
	}
	return 0
}
