package services_test

import (
	"context"
	"testing"

	"github.com/api-sage/atomic-ledger/src/internal/usecase/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestListTransactionsResolvesNamesNewestFirst(t *testing.T) {
	f := newLedgerFixture(t, 1000, 500)
	ctx := context.Background()
	history := services.NewHistoryService(f.store)

	_, err := f.ledger.Transfer(ctx, f.alice.ID, "B", decimal.NewFromInt(200))
	require.NoError(t, err)
	_, err = f.ledger.Deposit(ctx, f.bob.ID, decimal.NewFromInt(5))
	require.NoError(t, err)
	_, err = f.ledger.Withdraw(ctx, f.alice.ID, decimal.NewFromInt(5000))
	require.Error(t, err)

	resp, err := history.ListTransactions(ctx, nil)
	require.NoError(t, err)
	all := *resp.Data
	require.Len(t, all, 3)
	require.Equal(t, "withdrawal", all[0].Kind)
	require.Equal(t, "rolledBack", all[0].Outcome)
	require.Equal(t, "transfer", all[2].Kind)
	require.Equal(t, "A", all[2].SourceName)
	require.Equal(t, "B", all[2].DestinationName)

	resp, err = history.ListTransactions(ctx, &f.bob.ID)
	require.NoError(t, err)
	bobOnly := *resp.Data
	require.Len(t, bobOnly, 2)
	require.Equal(t, "deposit", bobOnly[0].Kind)
	require.Empty(t, bobOnly[0].SourceName)
	require.Nil(t, bobOnly[0].SourceAccountID)
}

func TestListTransactionsEmptyForUnknownParticipant(t *testing.T) {
	f := newLedgerFixture(t, 10, 10)
	history := services.NewHistoryService(f.store)

	unknown := "missing"
	resp, err := history.ListTransactions(context.Background(), &unknown)
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Empty(t, *resp.Data)
}
