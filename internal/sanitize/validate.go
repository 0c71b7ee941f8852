package sanitize

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/stonezone/lendshark/internal/ledger"
)

// ValidationCode identifies which constraint a record violated.
type ValidationCode string

const (
	CodeInvalidPartyName ValidationCode = "invalid_party_name"
	CodeExcessiveLength  ValidationCode = "excessive_length"
	CodeInjectionAttempt ValidationCode = "injection_attempt"
	CodeInvalidAmount    ValidationCode = "invalid_amount"
)

// ValidationError reports a single failed constraint. The Reason text is
// written to be shown to the user as-is.
type ValidationError struct {
	Code   ValidationCode
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// injectionTokens are rejected wherever they appear in a lowercased text
// field. The list deliberately targets script tags, classic SQL tokens,
// and path traversal.
var injectionTokens = []string{
	"<script", "</script", "javascript:",
	"drop table", "delete from", "insert into", "union select", "' or '",
	"../", "..\\",
	"\x00",
}

// ValidateRecord checks a record against the field constraints. It returns
// nil or a *ValidationError naming the first violated constraint.
func ValidateRecord(r ledger.TransactionRecord) error {
	party := strings.TrimSpace(r.Party)
	if party == "" {
		return &ValidationError{
			Code:   CodeInvalidPartyName,
			Field:  "party",
			Reason: "party name cannot be empty",
		}
	}
	if utf8.RuneCountInString(party) > MaxPartyLen {
		return lengthErr("party", MaxPartyLen)
	}
	if utf8.RuneCountInString(r.Item) > MaxItemLen {
		return lengthErr("item", MaxItemLen)
	}
	if utf8.RuneCountInString(r.Notes) > MaxNotesLen {
		return lengthErr("notes", MaxNotesLen)
	}

	for _, f := range []struct {
		field, text string
	}{
		{"party", r.Party}, {"item", r.Item}, {"notes", r.Notes},
	} {
		if tok := firstInjectionToken(f.text); tok != "" {
			return &ValidationError{
				Code:   CodeInjectionAttempt,
				Field:  f.field,
				Reason: fmt.Sprintf("contains disallowed sequence %q", tok),
			}
		}
	}

	if r.IsItem {
		if strings.TrimSpace(r.Item) == "" {
			return &ValidationError{
				Code:   CodeInvalidAmount,
				Field:  "item",
				Reason: "item loan needs an item description",
			}
		}
	} else {
		if !r.Amount.IsPositive() {
			return &ValidationError{
				Code:   CodeInvalidAmount,
				Field:  "amount",
				Reason: "amount must be greater than zero",
			}
		}
		if r.Amount.GreaterThan(ledger.MaxAmount) {
			return &ValidationError{
				Code:   CodeInvalidAmount,
				Field:  "amount",
				Reason: fmt.Sprintf("amount cannot exceed %s", ledger.MaxAmount),
			}
		}
	}

	if r.InterestRate.IsNegative() {
		return &ValidationError{
			Code:   CodeInvalidAmount,
			Field:  "interest_rate",
			Reason: "interest rate cannot be negative",
		}
	}
	return nil
}

func firstInjectionToken(s string) string {
	lower := strings.ToLower(s)
	for _, tok := range injectionTokens {
		if strings.Contains(lower, tok) {
			return tok
		}
	}
	return ""
}

func lengthErr(field string, max int) *ValidationError {
	return &ValidationError{
		Code:   CodeExcessiveLength,
		Field:  field,
		Reason: fmt.Sprintf("must be at most %d characters", max),
	}
}
