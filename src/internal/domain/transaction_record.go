package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	TransactionKindDeposit    TransactionKind = "deposit"
	TransactionKindWithdrawal TransactionKind = "withdrawal"
	TransactionKindTransfer   TransactionKind = "transfer"
)

type TransactionOutcome string

const (
	TransactionOutcomeCommitted  TransactionOutcome = "committed"
	TransactionOutcomeRolledBack TransactionOutcome = "rolledBack"
)

const NoteInsufficientFunds = "insufficient funds"

// TransactionRecord is one entry of the append-only log. A deposit carries only a
// destination, a withdrawal only a source, a transfer both.
type TransactionRecord struct {
	ID                   int64
	Kind                 TransactionKind
	SourceAccountID      *string
	DestinationAccountID *string
	Amount               decimal.Decimal
	Outcome              TransactionOutcome
	Note                 string
	CreatedAt            time.Time
}

// Involves reports whether accountID is the source or the destination of the record.
func (r TransactionRecord) Involves(accountID string) bool {
	if r.SourceAccountID != nil && *r.SourceAccountID == accountID {
		return true
	}
	return r.DestinationAccountID != nil && *r.DestinationAccountID == accountID
}

type TransactionView struct {
	TransactionRecord
	SourceName      string
	DestinationName string
}
