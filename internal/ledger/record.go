package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction indicates which way value moved.
type Direction string

const (
	// Lent means value flowed from the ledger owner to the party (they owe us).
	Lent Direction = "lent"
	// Borrowed means value flowed from the party to the ledger owner (we owe them).
	Borrowed Direction = "borrowed"
)

// MaxAmount is the largest amount a single record may carry.
var MaxAmount = decimal.NewFromInt(999_999_999)

// TransactionRecord is a single lend/borrow event between the ledger owner
// and one counterparty. Amount is meaningful only when IsItem is false;
// Item only when IsItem is true. A zero InterestRate means no interest.
type TransactionRecord struct {
	ID           string
	Party        string
	Amount       decimal.Decimal
	Item         string
	Direction    Direction
	IsItem       bool
	Settled      bool
	Timestamp    time.Time
	DueDate      *time.Time
	InterestRate decimal.Decimal
	Notes        string
	PhoneNumber  string
}

// Signed returns the record's contribution to a party's principal:
// positive when the party owes the owner, negative when the owner owes.
// Zero for item loans.
func (r TransactionRecord) Signed() decimal.Decimal {
	if r.IsItem {
		return decimal.Zero
	}
	if r.Direction == Borrowed {
		return r.Amount.Neg()
	}
	return r.Amount
}

// ParsedAction is the outcome of parsing one line of user input: either a
// new transaction to record or an instruction to settle up with a party.
type ParsedAction interface {
	isParsedAction()
}

// AddAction holds a freshly constructed, not yet persisted record.
type AddAction struct {
	Record TransactionRecord
}

// SettleAction asks for all outstanding records with Party to be settled.
type SettleAction struct {
	Party string
}

func (AddAction) isParsedAction()    {}
func (SettleAction) isParsedAction() {}
