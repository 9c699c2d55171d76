package models

import "github.com/shopspring/decimal"

type TransactionResponse struct {
	ID                   int64           `json:"id"`
	Kind                 string          `json:"kind"`
	SourceAccountID      *string         `json:"sourceAccountId,omitempty"`
	SourceName           string          `json:"sourceName,omitempty"`
	DestinationAccountID *string         `json:"destinationAccountId,omitempty"`
	DestinationName      string          `json:"destinationName,omitempty"`
	Amount               decimal.Decimal `json:"amount"`
	Outcome              string          `json:"outcome"`
	Note                 string          `json:"note,omitempty"`
	CreatedAt            string          `json:"createdAt"`
}
