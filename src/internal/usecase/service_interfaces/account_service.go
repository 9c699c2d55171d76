package service_interfaces

import (
	"context"

	"github.com/api-sage/atomic-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/atomic-ledger/src/internal/commons"
	"github.com/shopspring/decimal"
)

type AccountService interface {
	RegisterAccount(ctx context.Context, req models.RegisterAccountRequest) (commons.Response[models.AccountResponse], error)
	SeedAccount(ctx context.Context, displayName string, password string, balance decimal.Decimal) (commons.Response[models.AccountResponse], error)
	GetBalance(ctx context.Context, accountID string) (commons.Response[models.BalanceResponse], error)
	ListAccounts(ctx context.Context) (commons.Response[[]models.AccountResponse], error)
	Authenticate(ctx context.Context, displayName string, password string) (string, error)
}
