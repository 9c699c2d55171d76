package service_interfaces

import (
	"context"

	"github.com/api-sage/atomic-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/atomic-ledger/src/internal/commons"
)

type HistoryService interface {
	ListTransactions(ctx context.Context, participantID *string) (commons.Response[[]models.TransactionResponse], error)
}
