package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stonezone/lendshark/internal/ledger"
)

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func testParser() *Parser {
	return &Parser{Now: func() time.Time { return testNow }}
}

func mustAdd(t *testing.T, p *Parser, input string) ledger.TransactionRecord {
	t.Helper()
	action, err := p.Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	add, ok := action.(ledger.AddAction)
	if !ok {
		t.Fatalf("expected AddAction, got %T", action)
	}
	return add.Record
}

func TestParse_BasicLend(t *testing.T) {
	rec := mustAdd(t, testParser(), "lent 50 to john")

	if rec.Direction != ledger.Lent {
		t.Errorf("direction = %s, want lent", rec.Direction)
	}
	if !rec.Amount.Equal(decimal.RequireFromString("50")) {
		t.Errorf("amount = %s, want 50", rec.Amount)
	}
	if rec.Party != "john" {
		t.Errorf("party = %q, want john", rec.Party)
	}
	if rec.IsItem {
		t.Error("IsItem = true, want false")
	}
	if rec.ID == "" || !rec.Timestamp.Equal(testNow) {
		t.Errorf("expected fresh id and injected timestamp, got id=%q ts=%v", rec.ID, rec.Timestamp)
	}
}

func TestParse_BasicBorrow(t *testing.T) {
	rec := mustAdd(t, testParser(), "borrowed 25.50 from sarah")

	if rec.Direction != ledger.Borrowed {
		t.Errorf("direction = %s, want borrowed", rec.Direction)
	}
	if !rec.Amount.Equal(decimal.RequireFromString("25.50")) {
		t.Errorf("amount = %s, want 25.50", rec.Amount)
	}
	if rec.Party != "sarah" {
		t.Errorf("party = %q, want sarah", rec.Party)
	}
}

func TestParse_Settlement(t *testing.T) {
	tests := []struct {
		input string
		party string
	}{
		{"settle with bob", "bob"},
		{"settled with Mary Jane", "Mary Jane"},
		{"squared with dave", "dave"},
		{"with bob squared", "bob"},
		{"repaid with ana", "ana"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			action, err := testParser().Parse(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			settle, ok := action.(ledger.SettleAction)
			if !ok {
				t.Fatalf("expected SettleAction, got %T", action)
			}
			if settle.Party != tt.party {
				t.Errorf("party = %q, want %q", settle.Party, tt.party)
			}
		})
	}
}

func TestParse_SettlementBeatsTransaction(t *testing.T) {
	// contains the lending verb "lent" but the settle keyword wins
	action, err := testParser().Parse("settle with john who I lent 50")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := action.(ledger.SettleAction); !ok {
		t.Fatalf("expected SettleAction, got %T", action)
	}
}

func TestParse_DirectionVariants(t *testing.T) {
	tests := []struct {
		input     string
		direction ledger.Direction
	}{
		{"spotted 20 for lisa", ledger.Lent},
		{"fronted 80 for the crew to marco", ledger.Lent},
		{"gave 15 to sam", ledger.Lent},
		{"owe 40 from rent to split from dan", ledger.Borrowed},
		{"took 10 from petty cash box from kim", ledger.Borrowed},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			rec := mustAdd(t, testParser(), tt.input)
			if rec.Direction != tt.direction {
				t.Errorf("direction = %s, want %s", rec.Direction, tt.direction)
			}
		})
	}
}

func TestParse_ConflictingVerbsFirstTableWins(t *testing.T) {
	// both "lent" and "got" appear; the lent table is scanned first
	rec := mustAdd(t, testParser(), "lent 30 to rob who got lunch")
	if rec.Direction != ledger.Lent {
		t.Errorf("direction = %s, want lent", rec.Direction)
	}
}

func TestParse_ItemLoan(t *testing.T) {
	rec := mustAdd(t, testParser(), "borrowed my ladder from james")

	if !rec.IsItem {
		t.Fatal("IsItem = false, want true")
	}
	if rec.Item != "ladder" {
		t.Errorf("item = %q, want ladder", rec.Item)
	}
	if rec.Party != "james" {
		t.Errorf("party = %q, want james", rec.Party)
	}
	if !rec.Amount.IsZero() {
		t.Errorf("amount = %s, want zero", rec.Amount)
	}
}

func TestParse_ItemLoanLent(t *testing.T) {
	rec := mustAdd(t, testParser(), "lent the power drill to sam next week")

	if !rec.IsItem || rec.Item != "power drill" {
		t.Errorf("item = %q isItem=%v", rec.Item, rec.IsItem)
	}
	if rec.Party != "sam" {
		t.Errorf("party = %q, want sam", rec.Party)
	}
	if rec.DueDate == nil || !rec.DueDate.Equal(testNow.AddDate(0, 0, 7)) {
		t.Errorf("due date = %v, want next week", rec.DueDate)
	}
}

func TestParse_DueDates(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"lent 10 to al tomorrow", testNow.AddDate(0, 0, 1)},
		{"lent 10 to al next week", testNow.AddDate(0, 0, 7)},
		{"lent 10 to al next month", testNow.AddDate(0, 1, 0)},
		{"lent 10 to al in 3 days", testNow.AddDate(0, 0, 3)},
		{"lent 10 to al in 2 weeks", testNow.AddDate(0, 0, 14)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			rec := mustAdd(t, testParser(), tt.input)
			if rec.DueDate == nil || !rec.DueDate.Equal(tt.want) {
				t.Errorf("due date = %v, want %v", rec.DueDate, tt.want)
			}
			if rec.Party != "al" {
				t.Errorf("party = %q, want al (due-date words leaked into name)", rec.Party)
			}
		})
	}
}

func TestParse_Notes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"quoted", `lent 5 to tim "for coffee"`, "for coffee"},
		{"note marker", "lent 5 to tim note: birthday dinner", "birthday dinner"},
		{"memo marker", "lent 5 to tim memo: poker night", "poker night"},
		{"slash marker", "lent 5 to tim // weekend trip", "weekend trip"},
		{"no note", "lent 5 to tim", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := mustAdd(t, testParser(), tt.input)
			if rec.Notes != tt.want {
				t.Errorf("notes = %q, want %q", rec.Notes, tt.want)
			}
		})
	}
}

func TestParse_ExtendedGrammar(t *testing.T) {
	rec := mustAdd(t, testParser(), "lent 100 to alex at 10% (has my watch) (555) 123-4567")

	if rec.Direction != ledger.Lent {
		t.Errorf("direction = %s, want lent", rec.Direction)
	}
	if !rec.Amount.Equal(decimal.RequireFromString("100")) {
		t.Errorf("amount = %s, want 100", rec.Amount)
	}
	if rec.Party != "alex" {
		t.Errorf("party = %q, want alex", rec.Party)
	}
	if !rec.InterestRate.Equal(decimal.RequireFromString("0.1")) {
		t.Errorf("rate = %s, want 0.1", rec.InterestRate)
	}
	if rec.Notes != "has my watch" {
		t.Errorf("notes = %q, want collateral note", rec.Notes)
	}
	if rec.PhoneNumber != "(555) 123-4567" {
		t.Errorf("phone = %q", rec.PhoneNumber)
	}
}

func TestParse_RateDoesNotEatAmount(t *testing.T) {
	rec := mustAdd(t, testParser(), "lent 100 to alex at 10%")
	if !rec.Amount.Equal(decimal.RequireFromString("100")) {
		t.Errorf("amount = %s, want 100", rec.Amount)
	}
	if !rec.InterestRate.Equal(decimal.RequireFromString("0.1")) {
		t.Errorf("rate = %s, want 0.1", rec.InterestRate)
	}
}

func TestParse_DefaultRate(t *testing.T) {
	p := testParser()
	p.DefaultRate = decimal.RequireFromString("0.05")

	rec := mustAdd(t, p, "lent 50 to john")
	if !rec.InterestRate.Equal(decimal.RequireFromString("0.05")) {
		t.Errorf("rate = %s, want default 0.05", rec.InterestRate)
	}

	rec = mustAdd(t, p, "lent 50 to john at 20%")
	if !rec.InterestRate.Equal(decimal.RequireFromString("0.2")) {
		t.Errorf("rate = %s, want explicit 0.2", rec.InterestRate)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  ParseCode
	}{
		{"empty", "", CodeInvalidFormat},
		{"whitespace only", "   \t ", CodeInvalidFormat},
		{"no verb", "sandwiches 50 john", CodeInvalidFormat},
		{"no party", "lent 50", CodeMissingField},
		{"no amount or item", "lent to john", CodeMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testParser().Parse(tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if perr.Code != tt.code {
				t.Errorf("code = %s, want %s", perr.Code, tt.code)
			}
		})
	}
}

func TestParse_TrailingPunctuationOnParty(t *testing.T) {
	rec := mustAdd(t, testParser(), "lent 50 to john.")
	if rec.Party != "john" {
		t.Errorf("party = %q, want john", rec.Party)
	}

	rec = mustAdd(t, testParser(), "borrowed 20 from Mary Jane!")
	if rec.Party != "Mary Jane" {
		t.Errorf("party = %q, want Mary Jane", rec.Party)
	}

	action, err := testParser().Parse("settle with dave.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	settle, ok := action.(ledger.SettleAction)
	if !ok {
		t.Fatalf("expected SettleAction, got %T", action)
	}
	if settle.Party != "dave" {
		t.Errorf("party = %q, want dave", settle.Party)
	}
}

func TestParse_AmountWithDollarSign(t *testing.T) {
	rec := mustAdd(t, testParser(), "lent $75.25 to nina")
	if !rec.Amount.Equal(decimal.RequireFromString("75.25")) {
		t.Errorf("amount = %s, want 75.25", rec.Amount)
	}
}
