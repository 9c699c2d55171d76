package commons

import (
	"errors"
	"net/http"

	"github.com/api-sage/atomic-ledger/src/internal/domain"
)

type ErrorInfo struct {
	Code       string
	Message    string
	HTTPStatus int
}

var (
	InvalidInputInfo      = ErrorInfo{Code: "INVALID_INPUT", Message: "validation failed", HTTPStatus: http.StatusBadRequest}
	NotFoundInfo          = ErrorInfo{Code: "NOT_FOUND", Message: "Account not found", HTTPStatus: http.StatusNotFound}
	InsufficientFundsInfo = ErrorInfo{Code: "INSUFFICIENT_FUNDS", Message: "Insufficient funds", HTTPStatus: http.StatusUnprocessableEntity}
	DuplicateAccountInfo  = ErrorInfo{Code: "DUPLICATE_ACCOUNT", Message: "Account already exists", HTTPStatus: http.StatusConflict}
	UnauthorizedInfo      = ErrorInfo{Code: "UNAUTHORIZED", Message: "unauthorized", HTTPStatus: http.StatusUnauthorized}
	InternalFailureInfo   = ErrorInfo{Code: "INTERNAL_FAILURE", Message: "Unable to process request right now", HTTPStatus: http.StatusInternalServerError}
)

// Classify maps an error returned by the services to its stable code, message and
// HTTP status. Anything unrecognised is an internal failure.
func Classify(err error) ErrorInfo {
	switch {
	case err == nil:
		return ErrorInfo{HTTPStatus: http.StatusOK}
	case errors.Is(err, domain.ErrInternalFailure):
		return InternalFailureInfo
	case errors.Is(err, domain.ErrInvalidInput):
		return InvalidInputInfo
	case errors.Is(err, domain.ErrRecordNotFound):
		return NotFoundInfo
	case errors.Is(err, domain.ErrInsufficientFunds):
		return InsufficientFundsInfo
	case errors.Is(err, domain.ErrDuplicateAccount):
		return DuplicateAccountInfo
	case errors.Is(err, domain.ErrUnauthorized):
		return UnauthorizedInfo
	default:
		return InternalFailureInfo
	}
}
