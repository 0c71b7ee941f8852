package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/stonezone/lendshark/internal/ledger"
)

// RecordFilters defines list filters. Zero values mean "no filter".
type RecordFilters struct {
	Party     string
	Unsettled bool
	Search    string
}

// RecordRepo handles ledger records.
type RecordRepo struct {
	db *sql.DB
}

func NewRecordRepo(db *sql.DB) *RecordRepo { return &RecordRepo{db: db} }

const recordColumns = `id, party, amount, item, direction, is_item, settled,
 created_at, due_date, interest_rate, notes, phone_number, updated_at`

func (r *RecordRepo) Insert(ctx context.Context, rec ledger.TransactionRecord) error {
	row := FromDomain(rec)
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO records(
	 id, party, amount, item, direction, is_item, settled,
	 created_at, due_date, interest_rate, notes, phone_number, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`,
		row.ID, row.Party, row.Amount, row.Item, row.Direction,
		boolInt(row.IsItem), boolInt(row.Settled),
		row.CreatedAt.UTC().Format(time.RFC3339), timeStr(row.DueDate),
		row.InterestRate, row.Notes, row.PhoneNumber)
	return err
}

func (r *RecordRepo) Get(ctx context.Context, id string) (*ledger.TransactionRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns records matching the filters, oldest first so aggregation
// folds in creation order.
func (r *RecordRepo) List(ctx context.Context, f RecordFilters) ([]ledger.TransactionRecord, error) {
	var where []string
	var args []interface{}

	if f.Party != "" {
		where = append(where, "party = ? COLLATE NOCASE")
		args = append(args, f.Party)
	}
	if f.Unsettled {
		where = append(where, "settled = 0")
	}
	if f.Search != "" {
		where = append(where, "(notes LIKE ? OR item LIKE ?)")
		args = append(args, "%"+f.Search+"%", "%"+f.Search+"%")
	}

	query := `SELECT ` + recordColumns + ` FROM records`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.TransactionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SettleParty marks every unsettled record for party as settled and
// returns how many rows changed. Matching is case-insensitive.
func (r *RecordRepo) SettleParty(ctx context.Context, party string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	UPDATE records SET settled = 1, updated_at = CURRENT_TIMESTAMP
	WHERE settled = 0 AND party = ? COLLATE NOCASE`, party)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Parties returns the distinct counterparty names with unsettled records.
func (r *RecordRepo) Parties(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT party FROM records WHERE settled = 0 ORDER BY party`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *RecordRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s rowScanner) (ledger.TransactionRecord, error) {
	var row Record
	var createdAt, updatedAt string
	var dueDate sql.NullString
	if err := s.Scan(
		&row.ID, &row.Party, &row.Amount, &row.Item, &row.Direction,
		&row.IsItem, &row.Settled, &createdAt, &dueDate,
		&row.InterestRate, &row.Notes, &row.PhoneNumber, &updatedAt,
	); err != nil {
		return ledger.TransactionRecord{}, err
	}
	var err error
	if row.CreatedAt, err = parseDBTime(createdAt); err != nil {
		return ledger.TransactionRecord{}, err
	}
	if dueDate.Valid {
		t, err := parseDBTime(dueDate.String)
		if err != nil {
			return ledger.TransactionRecord{}, err
		}
		row.DueDate = &t
	}
	if row.UpdatedAt, err = parseDBTime(updatedAt); err != nil {
		return ledger.TransactionRecord{}, err
	}
	return row.ToDomain()
}

// parseDBTime accepts both RFC3339 (written by this repo) and SQLite's
// datetime('now') format (column defaults).
func parseDBTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateTime, s)
}

func timeStr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
