package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/api-sage/atomic-ledger/src/internal/adapter/repository/boundary"
	"github.com/api-sage/atomic-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/atomic-ledger/src/internal/domain"
	"github.com/api-sage/atomic-ledger/src/internal/logger"
	"github.com/google/uuid"
)

// ledgerWriterLockKey is the pg_advisory_xact_lock key held by every boundary, so
// processes sharing one database are serialized as well.
const ledgerWriterLockKey int64 = 0x4c454447

const accountColumns = `id, display_name, balance, password_hash, created_at, updated_at`

const recordColumns = `id, kind, source_account_id, destination_account_id, amount, outcome, note, created_at`

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type LedgerStore struct {
	db   *sql.DB
	slot *boundary.WriterSlot
}

var _ repo_interfaces.LedgerStore = (*LedgerStore)(nil)

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db, slot: boundary.NewWriterSlot()}
}

func (s *LedgerStore) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	return getAccount(ctx, s.db, `WHERE id::text = $1`, strings.TrimSpace(id))
}

func (s *LedgerStore) GetAccountByName(ctx context.Context, displayName string) (domain.Account, error) {
	return getAccount(ctx, s.db, `WHERE display_name = $1`, strings.TrimSpace(displayName))
}

func (s *LedgerStore) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY display_name`)
	if err != nil {
		logger.Error("ledger store list accounts failed", err, nil)
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(
			&account.ID,
			&account.DisplayName,
			&account.Balance,
			&account.PasswordHash,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return out, nil
}

func (s *LedgerStore) CreateAccount(ctx context.Context, account domain.Account) (domain.Account, error) {
	account.DisplayName = strings.TrimSpace(account.DisplayName)
	if account.DisplayName == "" {
		return domain.Account{}, fmt.Errorf("displayName is required: %w", domain.ErrInvalidInput)
	}
	if account.Balance.IsNegative() {
		return domain.Account{}, domain.ErrNegativeBalance
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	logger.Info("ledger store create account", logger.Fields{
		"accountId":   account.ID,
		"displayName": account.DisplayName,
	})

	const query = `
INSERT INTO accounts (id, display_name, balance, password_hash)
VALUES ($1, $2, $3, $4)
RETURNING created_at, updated_at`

	if err := s.db.QueryRowContext(
		ctx,
		query,
		account.ID,
		account.DisplayName,
		account.Balance,
		account.PasswordHash,
	).Scan(&account.CreatedAt, &account.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.Account{}, domain.ErrDuplicateAccount
		}
		logger.Error("ledger store create account failed", err, logger.Fields{
			"displayName": account.DisplayName,
		})
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	return account, nil
}

// Begin waits for the writer slot, then opens a database transaction holding the
// ledger advisory lock. The transaction runs on a context detached from ctx:
// once granted, a boundary ends only through Commit, Abort or Release.
func (s *LedgerStore) Begin(ctx context.Context) (repo_interfaces.Boundary, error) {
	if err := s.slot.Acquire(ctx); err != nil {
		return nil, err
	}
	guard := boundary.NewGuard(s.slot)

	txCtx := context.WithoutCancel(ctx)
	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		_, _ = guard.TryFinish(nil)
		logger.Error("ledger store begin boundary failed", err, nil)
		return nil, fmt.Errorf("begin ledger boundary: %w", err)
	}

	if _, err := tx.ExecContext(txCtx, `SELECT pg_advisory_xact_lock($1)`, ledgerWriterLockKey); err != nil {
		_, _ = guard.TryFinish(tx.Rollback)
		logger.Error("ledger store acquire writer lock failed", err, nil)
		return nil, fmt.Errorf("acquire ledger writer lock: %w", err)
	}

	return &postgresBoundary{tx: tx, ctx: txCtx, guard: guard}, nil
}

func (s *LedgerStore) AppendRecord(ctx context.Context, record domain.TransactionRecord) (domain.TransactionRecord, error) {
	return appendRecord(context.WithoutCancel(ctx), s.db, record)
}

func (s *LedgerStore) ListRecords(ctx context.Context, participantID *string) ([]domain.TransactionRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM transaction_records`
	var args []any
	if participantID != nil {
		query += ` WHERE source_account_id::text = $1 OR destination_account_id::text = $1`
		args = append(args, strings.TrimSpace(*participantID))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("ledger store list records failed", err, nil)
		return nil, fmt.Errorf("list transaction records: %w", err)
	}
	defer rows.Close()

	var out []domain.TransactionRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction records: %w", err)
	}

	return out, nil
}

func getAccount(ctx context.Context, q querier, where string, arg string) (domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ` + where

	var account domain.Account
	if err := q.QueryRowContext(ctx, query, arg).Scan(
		&account.ID,
		&account.DisplayName,
		&account.Balance,
		&account.PasswordHash,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrRecordNotFound
		}
		logger.Error("ledger store get account failed", err, logger.Fields{
			"lookup": arg,
		})
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}

	return account, nil
}

func appendRecord(ctx context.Context, q querier, record domain.TransactionRecord) (domain.TransactionRecord, error) {
	const query = `
INSERT INTO transaction_records (
	kind,
	source_account_id,
	destination_account_id,
	amount,
	outcome,
	note
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`

	if err := q.QueryRowContext(
		ctx,
		query,
		record.Kind,
		record.SourceAccountID,
		record.DestinationAccountID,
		record.Amount,
		record.Outcome,
		record.Note,
	).Scan(&record.ID, &record.CreatedAt); err != nil {
		logger.Error("ledger store append record failed", err, logger.Fields{
			"kind":    record.Kind,
			"outcome": record.Outcome,
		})
		return domain.TransactionRecord{}, fmt.Errorf("append transaction record: %w", err)
	}

	return record, nil
}

func scanRecord(rows *sql.Rows) (domain.TransactionRecord, error) {
	var (
		record      domain.TransactionRecord
		source      sql.NullString
		destination sql.NullString
	)

	if err := rows.Scan(
		&record.ID,
		&record.Kind,
		&source,
		&destination,
		&record.Amount,
		&record.Outcome,
		&record.Note,
		&record.CreatedAt,
	); err != nil {
		return domain.TransactionRecord{}, fmt.Errorf("scan transaction record: %w", err)
	}

	if source.Valid {
		value := source.String
		record.SourceAccountID = &value
	}
	if destination.Valid {
		value := destination.String
		record.DestinationAccountID = &value
	}

	return record, nil
}
