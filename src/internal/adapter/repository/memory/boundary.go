package memory

import (
	"context"

	"github.com/api-sage/atomic-ledger/src/internal/adapter/repository/boundary"
	"github.com/api-sage/atomic-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

type memoryBoundary struct {
	store    *LedgerStore
	guard    *boundary.Guard
	balances map[string]decimal.Decimal
	records  []domain.TransactionRecord
}

func (b *memoryBoundary) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	b.guard.MustBeOpen("get account")

	account, err := b.store.GetAccount(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}
	return b.overlay(account), nil
}

func (b *memoryBoundary) GetAccountByName(ctx context.Context, displayName string) (domain.Account, error) {
	b.guard.MustBeOpen("get account by name")

	account, err := b.store.GetAccountByName(ctx, displayName)
	if err != nil {
		return domain.Account{}, err
	}
	return b.overlay(account), nil
}

func (b *memoryBoundary) SetBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	b.guard.MustBeOpen("set balance")

	if balance.IsNegative() {
		return domain.ErrNegativeBalance
	}
	if _, err := b.store.GetAccount(ctx, id); err != nil {
		return err
	}

	b.balances[id] = balance
	return nil
}

func (b *memoryBoundary) AppendRecord(_ context.Context, record domain.TransactionRecord) (domain.TransactionRecord, error) {
	b.guard.MustBeOpen("append record")

	if err := validateRecord(record); err != nil {
		return domain.TransactionRecord{}, err
	}

	b.store.mu.Lock()
	record = b.store.stampLocked(record)
	b.store.mu.Unlock()

	b.records = append(b.records, record)
	return cloneRecord(record), nil
}

func (b *memoryBoundary) Commit(_ context.Context) error {
	return b.guard.Finish(boundary.StateCommitted, func() error {
		s := b.store
		s.mu.Lock()
		defer s.mu.Unlock()

		now := s.now()
		for id, balance := range b.balances {
			account := s.accounts[id]
			account.Balance = balance
			account.UpdatedAt = now
			s.accounts[id] = account
		}
		s.records = append(s.records, b.records...)
		return nil
	})
}

func (b *memoryBoundary) Abort(_ context.Context) error {
	return b.guard.Finish(boundary.StateAborted, b.discard)
}

func (b *memoryBoundary) Release(_ context.Context) {
	_, _ = b.guard.TryFinish(b.discard)
}

func (b *memoryBoundary) discard() error {
	b.balances = nil
	b.records = nil
	return nil
}

func (b *memoryBoundary) overlay(account domain.Account) domain.Account {
	if balance, ok := b.balances[account.ID]; ok {
		account.Balance = balance
	}
	return account
}
