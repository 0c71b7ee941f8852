// Package export renders ledger data as CSV for spreadsheets and backups.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/stonezone/lendshark/internal/ledger"
)

var recordHeader = []string{
	"id", "party", "direction", "amount", "item", "is_item", "settled",
	"created_at", "due_date", "interest_rate", "notes", "phone_number",
}

// WriteRecords writes the raw transaction history as CSV.
func WriteRecords(w io.Writer, records []ledger.TransactionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(recordHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		amount := ""
		if !r.IsItem {
			amount = r.Amount.String()
		}
		due := ""
		if r.DueDate != nil {
			due = r.DueDate.UTC().Format(time.RFC3339)
		}
		rate := ""
		if r.InterestRate.IsPositive() {
			rate = r.InterestRate.String()
		}
		row := []string{
			r.ID, r.Party, string(r.Direction), amount, r.Item,
			strconv.FormatBool(r.IsItem), strconv.FormatBool(r.Settled),
			r.Timestamp.UTC().Format(time.RFC3339), due, rate,
			r.Notes, r.PhoneNumber,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

var summaryHeader = []string{
	"party", "principal", "accrued_interest", "total_owed",
	"days_overdue", "overdue", "items_outstanding", "notes",
}

// WriteSummaries writes the per-party balance sheet as CSV, in the display
// order produced by the aggregator.
func WriteSummaries(w io.Writer, summaries []ledger.DebtorSummary, asOf time.Time) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range summaries {
		row := []string{
			s.Name,
			s.Principal.String(),
			s.AccruedInterest.String(),
			s.TotalOwed().String(),
			strconv.Itoa(s.DaysOverdue),
			strconv.FormatBool(s.OverdueAt(asOf)),
			strconv.Itoa(len(s.Items)),
			s.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write summary %s: %w", s.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
