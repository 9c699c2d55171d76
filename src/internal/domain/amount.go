package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of fractional digits of the ledger's unit of account.
const AmountScale = 2

// maxAmountDigits matches the NUMERIC(20,2) balance column.
const maxAmountDigits = 20

var maxAmount = decimal.New(1, maxAmountDigits-AmountScale)

// AmountError describes why an amount or balance was rejected. It matches
// ErrInvalidInput.
type AmountError struct {
	Reason string
}

func (e *AmountError) Error() string { return e.Reason }

func (e *AmountError) Unwrap() error { return ErrInvalidInput }

// ValidateAmount accepts strictly positive amounts representable in the ledger.
func ValidateAmount(amount decimal.Decimal) error {
	if err := checkRepresentable("amount", amount); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return &AmountError{Reason: "amount must be greater than zero"}
	}
	return nil
}

// ValidateBalance accepts zero or positive balances representable in the ledger.
func ValidateBalance(balance decimal.Decimal) error {
	if err := checkRepresentable("balance", balance); err != nil {
		return err
	}
	if balance.IsNegative() {
		return &AmountError{Reason: "balance cannot be negative"}
	}
	return nil
}

// checkRepresentable bounds the coefficient and exponent before any arithmetic,
// so values like 1e-20000000 never get rescaled.
func checkRepresentable(field string, value decimal.Decimal) error {
	exp := value.Exponent()
	if value.NumDigits() > maxAmountDigits || exp < -maxAmountDigits || exp > maxAmountDigits {
		return &AmountError{Reason: fmt.Sprintf("%s is out of range", field)}
	}
	if !value.Equal(value.Round(AmountScale)) {
		return &AmountError{Reason: fmt.Sprintf("%s cannot have more than %d decimal places", field, AmountScale)}
	}
	if value.Abs().GreaterThanOrEqual(maxAmount) {
		return &AmountError{Reason: fmt.Sprintf("%s is out of range", field)}
	}
	return nil
}
