package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/atomic-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/atomic-ledger/src/internal/usecase/service_interfaces"
)

type AccountController struct {
	service service_interfaces.AccountService
}

func NewAccountController(service service_interfaces.AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux, channelAuth, accountAuth func(http.Handler) http.Handler) {
	mux.Handle("/accounts", guard(c.registerAccount, channelAuth))
	mux.Handle("/ledger/accounts", guard(c.listAccounts, channelAuth))
	mux.Handle("/balance", guard(c.getBalance, accountAuth))
}

func (c *AccountController) registerAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !allowMethod[models.AccountResponse](w, r, http.MethodPost, start) {
		return
	}

	var req models.RegisterAccountRequest
	if !decodeBody[models.AccountResponse](w, r, &req, start) {
		return
	}

	if err := req.Validate(); err != nil {
		rejectInvalid[models.AccountResponse](w, r, err, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.RegisterAccount(r.Context(), req)
	writeResult(w, r, response, err, http.StatusCreated, start)
}

func (c *AccountController) getBalance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if !allowMethod[models.BalanceResponse](w, r, http.MethodGet, start) {
		return
	}

	accountID, ok := callerAccountID[models.BalanceResponse](w, r, start)
	if !ok {
		return
	}

	response, err := c.service.GetBalance(r.Context(), accountID)
	writeResult(w, r, response, err, http.StatusOK, start)
}

func (c *AccountController) listAccounts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if !allowMethod[[]models.AccountResponse](w, r, http.MethodGet, start) {
		return
	}

	response, err := c.service.ListAccounts(r.Context())
	writeResult(w, r, response, err, http.StatusOK, start)
}
