package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// BorrowedItem is an outstanding physical-item loan within a summary.
type BorrowedItem struct {
	Name    string
	DueDate time.Time
	// HeldByParty is true when the counterparty currently possesses
	// the owner's item (the item was lent out).
	HeldByParty bool
}

// DaysOverdue returns how many whole days the item is past its due date,
// never negative.
func (b BorrowedItem) DaysOverdue(asOf time.Time) int {
	d := daysBetween(b.DueDate, asOf)
	if d < 0 {
		return 0
	}
	return d
}

// Overdue reports whether the item is past due as of the given instant.
func (b BorrowedItem) Overdue(asOf time.Time) bool {
	return b.DaysOverdue(asOf) > 0
}

// DebtorSummary is the per-party rollup produced by Summarize. Principal is
// signed: positive means the party owes the owner. It is recomputed on
// demand and never stored.
type DebtorSummary struct {
	Name            string
	Principal       decimal.Decimal
	AccruedInterest decimal.Decimal
	DaysOverdue     int
	Notes           string
	Items           []BorrowedItem
}

// TotalOwed is principal plus accrued interest; its sign says who owes whom.
func (s DebtorSummary) TotalOwed() decimal.Decimal {
	return s.Principal.Add(s.AccruedInterest)
}

// OverdueAt reports whether the money balance or any outstanding item is
// past due as of the given instant.
func (s DebtorSummary) OverdueAt(asOf time.Time) bool {
	if s.DaysOverdue > 0 {
		return true
	}
	for _, it := range s.Items {
		if it.Overdue(asOf) {
			return true
		}
	}
	return false
}
