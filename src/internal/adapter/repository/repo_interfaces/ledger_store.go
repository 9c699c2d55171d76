package repo_interfaces

import (
	"context"

	"github.com/api-sage/atomic-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

// LedgerStore owns the accounts table and the transaction log. Balances change
// only through a Boundary obtained from Begin; at most one Boundary is open at a
// time and Begin blocks until the previous one has finished.
type LedgerStore interface {
	GetAccount(ctx context.Context, id string) (domain.Account, error)
	GetAccountByName(ctx context.Context, displayName string) (domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	CreateAccount(ctx context.Context, account domain.Account) (domain.Account, error)

	Begin(ctx context.Context) (Boundary, error)

	// AppendRecord writes a record on its own persistence path, independent of
	// any open Boundary.
	AppendRecord(ctx context.Context, record domain.TransactionRecord) (domain.TransactionRecord, error)
	ListRecords(ctx context.Context, participantID *string) ([]domain.TransactionRecord, error)
}

// Boundary is a unit of work over the LedgerStore. Exactly one of Commit or
// Abort may be called; Release aborts unless the boundary already finished.
type Boundary interface {
	GetAccount(ctx context.Context, id string) (domain.Account, error)
	GetAccountByName(ctx context.Context, displayName string) (domain.Account, error)
	SetBalance(ctx context.Context, id string, balance decimal.Decimal) error
	AppendRecord(ctx context.Context, record domain.TransactionRecord) (domain.TransactionRecord, error)

	Commit(ctx context.Context) error
	Abort(ctx context.Context) error
	Release(ctx context.Context)
}
