package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/atomic-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/atomic-ledger/src/internal/usecase/service_interfaces"
)

type HistoryController struct {
	service service_interfaces.HistoryService
}

func NewHistoryController(service service_interfaces.HistoryService) *HistoryController {
	return &HistoryController{service: service}
}

func (c *HistoryController) RegisterRoutes(mux *http.ServeMux, channelAuth, accountAuth func(http.Handler) http.Handler) {
	mux.Handle("/transactions", guard(c.accountTransactions, accountAuth))
	mux.Handle("/ledger/transactions", guard(c.allTransactions, channelAuth))
}

func (c *HistoryController) accountTransactions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if !allowMethod[[]models.TransactionResponse](w, r, http.MethodGet, start) {
		return
	}

	accountID, ok := callerAccountID[[]models.TransactionResponse](w, r, start)
	if !ok {
		return
	}

	response, err := c.service.ListTransactions(r.Context(), &accountID)
	writeResult(w, r, response, err, http.StatusOK, start)
}

func (c *HistoryController) allTransactions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if !allowMethod[[]models.TransactionResponse](w, r, http.MethodGet, start) {
		return
	}

	response, err := c.service.ListTransactions(r.Context(), nil)
	writeResult(w, r, response, err, http.StatusOK, start)
}
