package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type AmountRequest struct {
	Amount *decimal.Decimal `json:"amount" validate:"required"`
}

func (r AmountRequest) Validate() error {
	errs := collect(validateStruct(r))
	errs = append(errs, validateAmount(r.Amount)...)
	return joinErrors(errs)
}

type TransferRequest struct {
	ToAccountName string           `json:"toAccountName" validate:"required,max=64"`
	Amount        *decimal.Decimal `json:"amount" validate:"required"`
}

func (r TransferRequest) Validate() error {
	r.ToAccountName = strings.TrimSpace(r.ToAccountName)
	errs := collect(validateStruct(r))
	errs = append(errs, validateAmount(r.Amount)...)
	return joinErrors(errs)
}

type TransferResponse struct {
	SourceAccountID      string          `json:"sourceAccountId"`
	DestinationAccountID string          `json:"destinationAccountId"`
	DestinationName      string          `json:"destinationName"`
	Amount               decimal.Decimal `json:"amount"`
	SourceBalance        decimal.Decimal `json:"sourceBalance"`
	DestinationBalance   decimal.Decimal `json:"destinationBalance"`
}

func collect(err error) []string {
	if err == nil {
		return nil
	}
	return strings.Split(err.Error(), "; ")
}

func joinErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.New(strings.Join(errs, "; "))
}
