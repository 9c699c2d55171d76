package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/api-sage/atomic-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/atomic-ledger/src/internal/commons"
	"github.com/api-sage/atomic-ledger/src/internal/usecase/service_interfaces"
	"github.com/shopspring/decimal"
)

type LedgerController struct {
	service service_interfaces.LedgerService
}

func NewLedgerController(service service_interfaces.LedgerService) *LedgerController {
	return &LedgerController{service: service}
}

func (c *LedgerController) RegisterRoutes(mux *http.ServeMux, _, accountAuth func(http.Handler) http.Handler) {
	mux.Handle("/deposit", guard(c.deposit, accountAuth))
	mux.Handle("/withdraw", guard(c.withdraw, accountAuth))
	mux.Handle("/transfer", guard(c.transfer, accountAuth))
}

func (c *LedgerController) deposit(w http.ResponseWriter, r *http.Request) {
	c.applyAmount(w, r, c.service.Deposit)
}

func (c *LedgerController) withdraw(w http.ResponseWriter, r *http.Request) {
	c.applyAmount(w, r, c.service.Withdraw)
}

type amountMutation func(ctx context.Context, accountID string, amount decimal.Decimal) (commons.Response[models.BalanceResponse], error)

func (c *LedgerController) applyAmount(w http.ResponseWriter, r *http.Request, apply amountMutation) {
	start := time.Now()
	if !allowMethod[models.BalanceResponse](w, r, http.MethodPost, start) {
		return
	}

	accountID, ok := callerAccountID[models.BalanceResponse](w, r, start)
	if !ok {
		return
	}

	var req models.AmountRequest
	if !decodeBody[models.BalanceResponse](w, r, &req, start) {
		return
	}
	if err := req.Validate(); err != nil {
		rejectInvalid[models.BalanceResponse](w, r, err, start)
		return
	}
	logRequest(r, req)

	response, err := apply(r.Context(), accountID, *req.Amount)
	writeResult(w, r, response, err, http.StatusOK, start)
}

func (c *LedgerController) transfer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !allowMethod[models.TransferResponse](w, r, http.MethodPost, start) {
		return
	}

	accountID, ok := callerAccountID[models.TransferResponse](w, r, start)
	if !ok {
		return
	}

	var req models.TransferRequest
	if !decodeBody[models.TransferResponse](w, r, &req, start) {
		return
	}
	if err := req.Validate(); err != nil {
		rejectInvalid[models.TransferResponse](w, r, err, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Transfer(r.Context(), accountID, req.ToAccountName, *req.Amount)
	writeResult(w, r, response, err, http.StatusOK, start)
}
