package controller

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/api-sage/atomic-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/atomic-ledger/src/internal/commons"
	"github.com/api-sage/atomic-ledger/src/internal/domain"
	"github.com/api-sage/atomic-ledger/src/internal/logger"
)

const maxBodyBytes = 1 << 16

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// guard wraps handler with mw when one is configured.
func guard(handler http.HandlerFunc, mw func(http.Handler) http.Handler) http.Handler {
	if mw == nil {
		return handler
	}
	return mw(handler)
}

func allowMethod[T any](w http.ResponseWriter, r *http.Request, method string, start time.Time) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	response := commons.ErrorResponse[T]("method not allowed")
	writeJSON(w, http.StatusMethodNotAllowed, response)
	logResponse(r, http.StatusMethodNotAllowed, response, start)
	return false
}

// decodeBody does not log dst; callers log it once it has been validated.
func decodeBody[T any](w http.ResponseWriter, r *http.Request, dst any, start time.Time) bool {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[T]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return false
	}
	return true
}

func rejectInvalid[T any](w http.ResponseWriter, r *http.Request, err error, start time.Time) {
	logError(r, err, nil)
	response := commons.FailureResponse[T](fmt.Errorf("%w: %w", domain.ErrInvalidInput, err), err.Error())
	writeJSON(w, http.StatusBadRequest, response)
	logResponse(r, http.StatusBadRequest, response, start)
}

// writeResult writes a service outcome, deriving the status from err.
func writeResult[T any](w http.ResponseWriter, r *http.Request, response commons.Response[T], err error, okStatus int, start time.Time) {
	if err != nil {
		info := commons.Classify(err)
		logError(r, err, logger.Fields{"code": info.Code, "message": response.Message})
		writeJSON(w, info.HTTPStatus, response)
		logResponse(r, info.HTTPStatus, response, start)
		return
	}

	writeJSON(w, okStatus, response)
	logResponse(r, okStatus, response, start)
}

func callerAccountID[T any](w http.ResponseWriter, r *http.Request, start time.Time) (string, bool) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		response := commons.FailureResponse[T](domain.ErrUnauthorized)
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return "", false
	}
	return accountID, true
}
