package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID           string
	DisplayName  string
	Balance      decimal.Decimal
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
