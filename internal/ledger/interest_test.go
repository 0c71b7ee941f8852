package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func moneyRecord(amount, rate string, created time.Time, due *time.Time) TransactionRecord {
	return TransactionRecord{
		ID:           "t1",
		Party:        "john",
		Amount:       decimal.RequireFromString(amount),
		Direction:    Lent,
		Timestamp:    created,
		DueDate:      due,
		InterestRate: decimal.RequireFromString(rate),
	}
}

func TestInterestAtDueDate_RoundsPartialWeeksUp(t *testing.T) {
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	due := created.AddDate(0, 0, 10) // 10 days = 2 charged weeks

	rec := moneyRecord("100", "0.10", created, &due)
	total, ok := InterestAtDueDate(rec)
	require.True(t, ok)
	// 100 * 0.10 * 2 weeks
	require.True(t, total.Equal(decimal.RequireFromString("20")), "got %s", total)
}

func TestInterestSoFar_MatchesTotalAtDueDate(t *testing.T) {
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, days := range []int{1, 6, 7, 9, 14, 30} {
		due := created.AddDate(0, 0, days)
		rec := moneyRecord("350", "0.05", created, &due)

		total, ok := InterestAtDueDate(rec)
		require.True(t, ok)
		atDue := InterestSoFar(rec, due)
		require.True(t, atDue.Equal(total),
			"days=%d: so-far %s != at-due %s", days, atDue, total)
	}
}

func TestInterestSoFar_MonotonicThenFlat(t *testing.T) {
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	due := created.AddDate(0, 0, 21)
	rec := moneyRecord("1000", "0.10", created, &due)

	prev := decimal.Zero
	for day := 0; day <= 21; day++ {
		cur := InterestSoFar(rec, created.AddDate(0, 0, day))
		require.True(t, cur.GreaterThanOrEqual(prev), "day %d regressed: %s < %s", day, cur, prev)
		prev = cur
	}

	atDue := InterestSoFar(rec, due)
	afterDue := InterestSoFar(rec, due.AddDate(0, 2, 0))
	require.True(t, afterDue.Equal(atDue), "interest kept accruing past due date")
}

func TestInterestSoFar_OpenEndedGrowsUncapped(t *testing.T) {
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rec := moneyRecord("700", "0.10", created, nil)

	// 700 * 0.10 * (14/7) = 140 after two weeks
	twoWeeks := InterestSoFar(rec, created.AddDate(0, 0, 14))
	require.True(t, twoWeeks.Equal(decimal.RequireFromString("140")), "got %s", twoWeeks)

	// keeps growing a year on
	year := InterestSoFar(rec, created.AddDate(1, 0, 0))
	require.True(t, year.GreaterThan(twoWeeks))
}

func TestInterestSoFar_ZeroCases(t *testing.T) {
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	asOf := created.AddDate(0, 0, 30)

	noRate := moneyRecord("100", "0", created, nil)
	require.True(t, InterestSoFar(noRate, asOf).IsZero())

	item := TransactionRecord{
		Party: "bob", Item: "ladder", IsItem: true,
		Timestamp: created, InterestRate: decimal.RequireFromString("0.10"),
	}
	require.True(t, InterestSoFar(item, asOf).IsZero())

	beforeStart := moneyRecord("100", "0.10", created, nil)
	require.True(t, InterestSoFar(beforeStart, created.AddDate(0, 0, -3)).IsZero())

	noTimestamp := moneyRecord("100", "0.10", time.Time{}, nil)
	require.True(t, InterestSoFar(noTimestamp, asOf).IsZero())
}
