package postgres

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/api-sage/atomic-ledger/src/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestMigrationFilesSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_b.sql", "0001_a.SQL", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "0003_dir.sql"), 0o700))

	files, err := migrationFiles(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"0001_a.SQL", "0002_b.sql"}, files)
}

func TestMigrationFilesMissingDir(t *testing.T) {
	_, err := migrationFiles(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}

// openTestDB connects to the database named by LEDGER_TEST_DSN and applies the
// repository migrations. Tests that need it are skipped when it is unset.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("LEDGER_TEST_DSN")
	if dsn == "" {
		t.Skip("LEDGER_TEST_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(ctx, db, filepath.Join("..", "..", "..", "..", "migrations")))
	return db
}

func TestLedgerStoreBoundaryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := NewLedgerStore(db)

	suffix := uuid.NewString()[:8]
	alice, err := store.CreateAccount(ctx, domain.Account{DisplayName: "alice-" + suffix, Balance: decimal.NewFromInt(100)})
	require.NoError(t, err)

	_, err = store.CreateAccount(ctx, domain.Account{DisplayName: "alice-" + suffix})
	require.ErrorIs(t, err, domain.ErrDuplicateAccount)

	b, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, b.SetBalance(ctx, alice.ID, decimal.NewFromInt(70)))
	_, err = b.AppendRecord(ctx, domain.TransactionRecord{
		Kind:            domain.TransactionKindWithdrawal,
		SourceAccountID: &alice.ID,
		Amount:          decimal.NewFromInt(30),
		Outcome:         domain.TransactionOutcomeCommitted,
	})
	require.NoError(t, err)

	outside, err := store.GetAccount(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, outside.Balance.Equal(decimal.NewFromInt(100)))

	require.NoError(t, b.Commit(ctx))
	require.Panics(t, func() { _ = b.Abort(ctx) })

	after, err := store.GetAccount(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, after.Balance.Equal(decimal.NewFromInt(70)))

	b, err = store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, b.SetBalance(ctx, alice.ID, decimal.Zero))
	require.NoError(t, b.Abort(ctx))

	after, err = store.GetAccount(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, after.Balance.Equal(decimal.NewFromInt(70)))

	records, err := store.ListRecords(ctx, &alice.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, domain.TransactionOutcomeCommitted, records[0].Outcome)
}

func TestLedgerStoreRecordsAreAppendOnly(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := NewLedgerStore(db)

	alice, err := store.CreateAccount(ctx, domain.Account{DisplayName: "append-" + uuid.NewString()[:8]})
	require.NoError(t, err)

	record, err := store.AppendRecord(ctx, domain.TransactionRecord{
		Kind:                 domain.TransactionKindDeposit,
		DestinationAccountID: &alice.ID,
		Amount:               decimal.NewFromInt(1),
		Outcome:              domain.TransactionOutcomeRolledBack,
		Note:                 "append only",
	})
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `UPDATE transaction_records SET note = 'x' WHERE id = $1`, record.ID)
	require.Error(t, err)
}
