// Package service connects the parsing core to persistence: free text in,
// stored records and settlement updates out.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/stonezone/lendshark/internal/database/repository"
	"github.com/stonezone/lendshark/internal/ledger"
	"github.com/stonezone/lendshark/internal/parser"
	"github.com/stonezone/lendshark/internal/sanitize"
)

// maxPartyDistance is how far a settlement name may drift from a stored
// party name and still match ("jon" settles "John").
const maxPartyDistance = 2

// BookService runs the parse -> validate -> persist pipeline and produces
// balance summaries.
type BookService struct {
	Records *repository.RecordRepo
	Parser  *parser.Parser
	Log     zerolog.Logger

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// SubmitResult describes what one line of input did.
type SubmitResult struct {
	Action ledger.ParsedAction
	// RecordID is set when a record was created.
	RecordID string
	// Party is the resolved counterparty.
	Party string
	// SettledCount is how many records a settlement resolved.
	SettledCount int64
}

// Submit parses one line of user input and applies it: new transactions
// are validated and inserted, settlements resolve and mark all of a
// party's outstanding records.
func (s *BookService) Submit(ctx context.Context, raw string) (SubmitResult, error) {
	p := s.Parser
	if p == nil {
		p = parser.New()
	}
	action, err := p.Parse(raw)
	if err != nil {
		return SubmitResult{}, err
	}

	switch a := action.(type) {
	case ledger.AddAction:
		if err := sanitize.ValidateRecord(a.Record); err != nil {
			return SubmitResult{}, err
		}
		if err := s.Records.Insert(ctx, a.Record); err != nil {
			return SubmitResult{}, fmt.Errorf("insert record: %w", err)
		}
		s.Log.Info().
			Str("id", a.Record.ID).
			Str("party", a.Record.Party).
			Str("direction", string(a.Record.Direction)).
			Msg("recorded")
		return SubmitResult{Action: a, RecordID: a.Record.ID, Party: a.Record.Party}, nil

	case ledger.SettleAction:
		party, err := s.resolveParty(ctx, a.Party)
		if err != nil {
			return SubmitResult{}, err
		}
		n, err := s.Records.SettleParty(ctx, party)
		if err != nil {
			return SubmitResult{}, fmt.Errorf("settle %s: %w", party, err)
		}
		s.Log.Info().Str("party", party).Int64("records", n).Msg("settled")
		return SubmitResult{Action: a, Party: party, SettledCount: n}, nil

	default:
		return SubmitResult{}, fmt.Errorf("unhandled action %T", action)
	}
}

// Record validates and stores an already-built record, for entry paths
// that bypass the natural-language parser.
func (s *BookService) Record(ctx context.Context, rec ledger.TransactionRecord) error {
	if err := sanitize.ValidateRecord(rec); err != nil {
		return err
	}
	return s.Records.Insert(ctx, rec)
}

// Summaries loads the unsettled snapshot and folds it into per-party
// balances as of now.
func (s *BookService) Summaries(ctx context.Context) ([]ledger.DebtorSummary, time.Time, error) {
	records, err := s.Records.List(ctx, repository.RecordFilters{Unsettled: true})
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load records: %w", err)
	}
	asOf := s.now()
	return ledger.Summarize(records, asOf), asOf, nil
}

// resolveParty matches a settlement name against stored parties: exact
// case-insensitive first, then closest levenshtein distance within
// maxPartyDistance.
func (s *BookService) resolveParty(ctx context.Context, name string) (string, error) {
	parties, err := s.Records.Parties(ctx)
	if err != nil {
		return "", fmt.Errorf("list parties: %w", err)
	}
	folded := strings.ToLower(name)
	for _, p := range parties {
		if strings.ToLower(p) == folded {
			return p, nil
		}
	}
	best, bestDist := "", maxPartyDistance+1
	for _, p := range parties {
		if d := levenshtein.ComputeDistance(folded, strings.ToLower(p)); d < bestDist {
			best, bestDist = p, d
		}
	}
	if best == "" {
		return "", fmt.Errorf("no outstanding records for %q", name)
	}
	return best, nil
}

func (s *BookService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// DefaultRateParser builds a parser carrying the configured default weekly
// rate. An empty or invalid rate string yields a plain parser.
func DefaultRateParser(rate string) *parser.Parser {
	p := parser.New()
	if rate = strings.TrimSpace(rate); rate == "" {
		return p
	}
	if d, err := decimal.NewFromString(rate); err == nil && d.IsPositive() {
		p.DefaultRate = d
	}
	return p
}
