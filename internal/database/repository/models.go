package repository

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stonezone/lendshark/internal/ledger"
)

// Record represents a records row. Money columns are decimal strings, not
// floats, so amounts round-trip exactly.
type Record struct {
	ID           string
	Party        string
	Amount       *string
	Item         string
	Direction    string
	IsItem       bool
	Settled      bool
	CreatedAt    time.Time
	DueDate      *time.Time
	InterestRate *string
	Notes        string
	PhoneNumber  string
	UpdatedAt    time.Time
}

// FromDomain converts a ledger record into its row form.
func FromDomain(r ledger.TransactionRecord) Record {
	row := Record{
		ID:          r.ID,
		Party:       r.Party,
		Item:        r.Item,
		Direction:   string(r.Direction),
		IsItem:      r.IsItem,
		Settled:     r.Settled,
		CreatedAt:   r.Timestamp,
		DueDate:     r.DueDate,
		Notes:       r.Notes,
		PhoneNumber: r.PhoneNumber,
	}
	if !r.IsItem {
		s := r.Amount.String()
		row.Amount = &s
	}
	if r.InterestRate.IsPositive() {
		s := r.InterestRate.String()
		row.InterestRate = &s
	}
	return row
}

// ToDomain converts a row back into a ledger record.
func (row Record) ToDomain() (ledger.TransactionRecord, error) {
	rec := ledger.TransactionRecord{
		ID:          row.ID,
		Party:       row.Party,
		Item:        row.Item,
		Direction:   ledger.Direction(row.Direction),
		IsItem:      row.IsItem,
		Settled:     row.Settled,
		Timestamp:   row.CreatedAt,
		DueDate:     row.DueDate,
		Notes:       row.Notes,
		PhoneNumber: row.PhoneNumber,
	}
	if row.Amount != nil {
		a, err := decimal.NewFromString(*row.Amount)
		if err != nil {
			return rec, fmt.Errorf("record %s: bad amount %q: %w", row.ID, *row.Amount, err)
		}
		rec.Amount = a
	}
	if row.InterestRate != nil {
		r, err := decimal.NewFromString(*row.InterestRate)
		if err != nil {
			return rec, fmt.Errorf("record %s: bad interest rate %q: %w", row.ID, *row.InterestRate, err)
		}
		rec.InterestRate = r
	}
	return rec, nil
}
