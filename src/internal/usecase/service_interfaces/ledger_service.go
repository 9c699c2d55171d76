package service_interfaces

import (
	"context"

	"github.com/api-sage/atomic-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/atomic-ledger/src/internal/commons"
	"github.com/shopspring/decimal"
)

type LedgerService interface {
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (commons.Response[models.BalanceResponse], error)
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (commons.Response[models.BalanceResponse], error)
	Transfer(ctx context.Context, sourceAccountID string, destinationName string, amount decimal.Decimal) (commons.Response[models.TransferResponse], error)
}
