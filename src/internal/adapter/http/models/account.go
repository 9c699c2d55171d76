package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type RegisterAccountRequest struct {
	DisplayName string `json:"displayName" validate:"required,min=3,max=64,printascii"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
}

func (r RegisterAccountRequest) Validate() error {
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	if err := validateStruct(r); err != nil {
		return err
	}
	if strings.ContainsAny(r.DisplayName, ":") {
		return errors.New("displayName cannot contain ':'")
	}
	return nil
}

type AccountResponse struct {
	ID          string          `json:"id"`
	DisplayName string          `json:"displayName"`
	Balance     decimal.Decimal `json:"balance"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

type BalanceResponse struct {
	AccountID string          `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
}
