package memory

import (
	"context"
	"testing"
	"time"

	"github.com/api-sage/atomic-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *LedgerStore, name string, balance int64) domain.Account {
	t.Helper()
	account, err := s.CreateAccount(context.Background(), domain.Account{
		DisplayName: name,
		Balance:     decimal.NewFromInt(balance),
	})
	require.NoError(t, err)
	return account
}

func TestCreateAccountRejectsDuplicateName(t *testing.T) {
	s := NewLedgerStore()
	seed(t, s, "alice", 0)

	_, err := s.CreateAccount(context.Background(), domain.Account{DisplayName: " alice "})
	require.ErrorIs(t, err, domain.ErrDuplicateAccount)
}

func TestBoundaryWritesInvisibleUntilCommit(t *testing.T) {
	ctx := context.Background()
	s := NewLedgerStore()
	alice := seed(t, s, "alice", 100)

	b, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, b.SetBalance(ctx, alice.ID, decimal.NewFromInt(40)))

	inside, err := b.GetAccount(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, inside.Balance.Equal(decimal.NewFromInt(40)))

	outside, err := s.GetAccount(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, outside.Balance.Equal(decimal.NewFromInt(100)))

	require.NoError(t, b.Commit(ctx))

	after, err := s.GetAccount(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, after.Balance.Equal(decimal.NewFromInt(40)))
}

func TestBoundaryAbortDiscardsWritesAndRecords(t *testing.T) {
	ctx := context.Background()
	s := NewLedgerStore()
	alice := seed(t, s, "alice", 100)

	b, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, b.SetBalance(ctx, alice.ID, decimal.NewFromInt(1)))
	_, err = b.AppendRecord(ctx, domain.TransactionRecord{
		Kind:            domain.TransactionKindWithdrawal,
		SourceAccountID: &alice.ID,
		Amount:          decimal.NewFromInt(99),
		Outcome:         domain.TransactionOutcomeCommitted,
	})
	require.NoError(t, err)
	require.NoError(t, b.Abort(ctx))

	after, err := s.GetAccount(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, after.Balance.Equal(decimal.NewFromInt(100)))

	records, err := s.ListRecords(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestBoundaryRejectsNegativeBalance(t *testing.T) {
	ctx := context.Background()
	s := NewLedgerStore()
	alice := seed(t, s, "alice", 10)

	b, err := s.Begin(ctx)
	require.NoError(t, err)
	defer b.Release(ctx)

	require.ErrorIs(t, b.SetBalance(ctx, alice.ID, decimal.NewFromInt(-1)), domain.ErrNegativeBalance)
}

func TestBoundaryCommitAfterAbortPanics(t *testing.T) {
	ctx := context.Background()
	s := NewLedgerStore()

	b, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, b.Abort(ctx))

	require.Panics(t, func() { _ = b.Commit(ctx) })
	require.Panics(t, func() { _ = b.Abort(ctx) })
	require.NotPanics(t, func() { b.Release(ctx) })
}

func TestBeginBlocksWhileBoundaryOpen(t *testing.T) {
	ctx := context.Background()
	s := NewLedgerStore()

	first, err := s.Begin(ctx)
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancel()
	_, err = s.Begin(waitCtx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	first.Release(ctx)

	second, err := s.Begin(ctx)
	require.NoError(t, err)
	second.Release(ctx)
}

func TestListRecordsNewestFirstAndFiltered(t *testing.T) {
	ctx := context.Background()
	s := NewLedgerStore()
	alice := seed(t, s, "alice", 0)
	bob := seed(t, s, "bob", 0)

	tick := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	for _, rec := range []domain.TransactionRecord{
		{Kind: domain.TransactionKindDeposit, DestinationAccountID: &alice.ID},
		{Kind: domain.TransactionKindDeposit, DestinationAccountID: &bob.ID},
		{Kind: domain.TransactionKindTransfer, SourceAccountID: &alice.ID, DestinationAccountID: &bob.ID},
	} {
		rec.Amount = decimal.NewFromInt(5)
		rec.Outcome = domain.TransactionOutcomeCommitted
		_, err := s.AppendRecord(ctx, rec)
		require.NoError(t, err)
	}

	all, err := s.ListRecords(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, int64(3), all[0].ID)
	require.Equal(t, int64(1), all[2].ID)

	mine, err := s.ListRecords(ctx, &alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, domain.TransactionKindTransfer, mine[0].Kind)
	require.Equal(t, domain.TransactionKindDeposit, mine[1].Kind)
}

func TestAppendRecordValidates(t *testing.T) {
	s := NewLedgerStore()
	_, err := s.AppendRecord(context.Background(), domain.TransactionRecord{
		Kind:    domain.TransactionKindDeposit,
		Amount:  decimal.NewFromInt(1),
		Outcome: domain.TransactionOutcomeCommitted,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
