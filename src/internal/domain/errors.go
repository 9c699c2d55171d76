package domain

import "errors"

var ErrRecordNotFound = errors.New("Record not found")
var ErrInsufficientFunds = errors.New("insufficient funds")
var ErrInvalidInput = errors.New("invalid input")
var ErrDuplicateAccount = errors.New("account already exists")
var ErrNegativeBalance = errors.New("balance cannot be negative")
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternalFailure marks faults raised by the system rather than by the request.
var ErrInternalFailure = errors.New("internal failure")
