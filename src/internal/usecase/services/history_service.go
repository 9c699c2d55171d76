package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/atomic-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/atomic-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/atomic-ledger/src/internal/commons"
	"github.com/api-sage/atomic-ledger/src/internal/domain"
	"github.com/api-sage/atomic-ledger/src/internal/logger"
)

// HistoryService answers read-only questions about the transaction log. It never
// opens a boundary, so it only sees committed state.
type HistoryService struct {
	store repo_interfaces.LedgerStore
}

func NewHistoryService(store repo_interfaces.LedgerStore) *HistoryService {
	return &HistoryService{store: store}
}

// ListTransactions returns the records involving participantID, or every record
// when participantID is nil, newest first and with display names resolved.
func (s *HistoryService) ListTransactions(ctx context.Context, participantID *string) (commons.Response[[]models.TransactionResponse], error) {
	fields := logger.Fields{"participantId": "all"}
	if participantID != nil {
		trimmed := strings.TrimSpace(*participantID)
		participantID = &trimmed
		fields["participantId"] = trimmed
	}
	logger.Info("history service list transactions request", fields)

	views, err := s.views(ctx, participantID)
	if err != nil {
		logger.Error("history service list transactions failed", err, fields)
		return commons.FailureResponse[[]models.TransactionResponse](err), err
	}

	out := make([]models.TransactionResponse, 0, len(views))
	for _, view := range views {
		out = append(out, mapTransactionView(view))
	}

	fields["count"] = len(out)
	logger.Info("history service list transactions success", fields)
	return commons.SuccessResponse("transactions fetched successfully", out), nil
}

func (s *HistoryService) views(ctx context.Context, participantID *string) ([]domain.TransactionView, error) {
	records, err := s.store.ListRecords(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("%w: list records: %w", domain.ErrInternalFailure, err)
	}

	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list accounts: %w", domain.ErrInternalFailure, err)
	}

	names := make(map[string]string, len(accounts))
	for _, account := range accounts {
		names[account.ID] = account.DisplayName
	}

	views := make([]domain.TransactionView, 0, len(records))
	for _, record := range records {
		view := domain.TransactionView{TransactionRecord: record}
		if record.SourceAccountID != nil {
			view.SourceName = names[*record.SourceAccountID]
		}
		if record.DestinationAccountID != nil {
			view.DestinationName = names[*record.DestinationAccountID]
		}
		views = append(views, view)
	}

	return views, nil
}

func mapTransactionView(view domain.TransactionView) models.TransactionResponse {
	return models.TransactionResponse{
		ID:                   view.ID,
		Kind:                 string(view.Kind),
		SourceAccountID:      view.SourceAccountID,
		SourceName:           view.SourceName,
		DestinationAccountID: view.DestinationAccountID,
		DestinationName:      view.DestinationName,
		Amount:               view.Amount,
		Outcome:              string(view.Outcome),
		Note:                 view.Note,
		CreatedAt:            view.CreatedAt.Format(time.RFC3339Nano),
	}
}
