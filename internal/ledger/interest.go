package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

var daysPerWeek = decimal.NewFromInt(7)

// accrues reports whether a record can earn interest at all.
func accrues(r TransactionRecord) bool {
	return !r.IsItem &&
		r.InterestRate.IsPositive() &&
		r.Amount.IsPositive() &&
		!r.Timestamp.IsZero()
}

// InterestAtDueDate returns the total interest owed at the due date for a
// closed-term loan. Any partial week between creation and due date is
// charged as a full week. ok is false for open-ended or non-accruing
// records.
func InterestAtDueDate(r TransactionRecord) (total decimal.Decimal, ok bool) {
	if !accrues(r) || r.DueDate == nil || !r.DueDate.After(r.Timestamp) {
		return decimal.Zero, false
	}
	days := daysBetween(r.Timestamp, *r.DueDate)
	if days <= 0 {
		return decimal.Zero, false
	}
	weeks := (days + 6) / 7
	return r.Amount.Mul(r.InterestRate).Mul(decimal.NewFromInt(int64(weeks))), true
}

// InterestSoFar returns the interest accrued on r as of the given instant.
//
// Closed-term loans accrue linearly per day towards InterestAtDueDate,
// flat after the due date. Open-ended loans accrue simple weekly interest
// without a cap. Returns zero for item loans, zero rates, and records
// with no timestamp.
func InterestSoFar(r TransactionRecord, asOf time.Time) decimal.Decimal {
	if !accrues(r) {
		return decimal.Zero
	}

	if total, ok := InterestAtDueDate(r); ok {
		daysTotal := daysBetween(r.Timestamp, *r.DueDate)
		elapsed := daysBetween(r.Timestamp, asOf)
		if elapsed <= 0 {
			return decimal.Zero
		}
		if elapsed >= daysTotal {
			return total
		}
		// multiply before dividing so that elapsed == daysTotal would be
		// exact; per-day first loses precision on thirds of a cent
		return total.Mul(decimal.NewFromInt(int64(elapsed))).
			Div(decimal.NewFromInt(int64(daysTotal)))
	}

	elapsed := daysBetween(r.Timestamp, asOf)
	if elapsed <= 0 {
		return decimal.Zero
	}
	return r.Amount.Mul(r.InterestRate).
		Mul(decimal.NewFromInt(int64(elapsed))).
		Div(daysPerWeek)
}

// daysBetween counts whole 24h days from a to b, negative when b is
// before a.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
