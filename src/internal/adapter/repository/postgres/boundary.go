package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/api-sage/atomic-ledger/src/internal/adapter/repository/boundary"
	"github.com/api-sage/atomic-ledger/src/internal/domain"
	"github.com/api-sage/atomic-ledger/src/internal/logger"
	"github.com/shopspring/decimal"
)

type postgresBoundary struct {
	tx    *sql.Tx
	ctx   context.Context
	guard *boundary.Guard
}

func (b *postgresBoundary) GetAccount(_ context.Context, id string) (domain.Account, error) {
	b.guard.MustBeOpen("get account")
	return getAccount(b.ctx, b.tx, `WHERE id::text = $1 FOR UPDATE`, strings.TrimSpace(id))
}

func (b *postgresBoundary) GetAccountByName(_ context.Context, displayName string) (domain.Account, error) {
	b.guard.MustBeOpen("get account by name")
	return getAccount(b.ctx, b.tx, `WHERE display_name = $1 FOR UPDATE`, strings.TrimSpace(displayName))
}

func (b *postgresBoundary) SetBalance(_ context.Context, id string, balance decimal.Decimal) error {
	b.guard.MustBeOpen("set balance")

	if balance.IsNegative() {
		return domain.ErrNegativeBalance
	}

	const query = `
UPDATE accounts
SET balance = $2::numeric,
    updated_at = NOW()
WHERE id::text = $1`

	result, err := b.tx.ExecContext(b.ctx, query, id, balance)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrNegativeBalance
		}
		logger.Error("ledger boundary set balance failed", err, logger.Fields{
			"accountId": id,
		})
		return fmt.Errorf("set balance: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set balance rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (b *postgresBoundary) AppendRecord(_ context.Context, record domain.TransactionRecord) (domain.TransactionRecord, error) {
	b.guard.MustBeOpen("append record")
	return appendRecord(b.ctx, b.tx, record)
}

func (b *postgresBoundary) Commit(_ context.Context) error {
	return b.guard.Finish(boundary.StateCommitted, func() error {
		if err := b.tx.Commit(); err != nil {
			logger.Error("ledger boundary commit failed", err, nil)
			return fmt.Errorf("commit ledger boundary: %w", err)
		}
		return nil
	})
}

func (b *postgresBoundary) Abort(_ context.Context) error {
	return b.guard.Finish(boundary.StateAborted, b.rollback)
}

func (b *postgresBoundary) Release(_ context.Context) {
	if _, err := b.guard.TryFinish(b.rollback); err != nil {
		logger.Error("ledger boundary release failed", err, nil)
	}
}

func (b *postgresBoundary) rollback() error {
	if err := b.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return fmt.Errorf("rollback ledger boundary: %w", err)
	}
	return nil
}
