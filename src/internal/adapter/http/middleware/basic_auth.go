package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/api-sage/atomic-ledger/src/internal/commons"
	"github.com/api-sage/atomic-ledger/src/internal/domain"
	"github.com/api-sage/atomic-ledger/src/internal/logger"
)

// Authenticator resolves account credentials to an account id.
type Authenticator interface {
	Authenticate(ctx context.Context, displayName string, password string) (string, error)
}

type accountIDKey struct{}

// AccountIDFromContext returns the authenticated account id placed by AccountAuth.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey{}).(string)
	return id, ok && id != ""
}

// WithAccountID returns a copy of ctx carrying an authenticated account id.
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountIDKey{}, accountID)
}

// BasicAuth guards operator routes with the configured channel credentials.
func BasicAuth(channelID, channelKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if channelID == "" || channelKey == "" {
				err := errors.New("channel credentials are not configured")
				logger.Error("basic auth middleware missing server configuration", err, logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				writeFailure(w, domain.ErrInternalFailure)
				return
			}

			id, key, ok := r.BasicAuth()
			if !ok || !secureEqual(id, channelID) || !secureEqual(key, channelKey) {
				logger.Info("basic auth middleware unauthorized request", logger.Fields{
					"method":      r.Method,
					"path":        r.URL.Path,
					"credentials": "invalid_or_missing",
				})
				writeFailure(w, domain.ErrUnauthorized)
				return
			}

			logger.Info("basic auth middleware authorized request", logger.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
			})
			next.ServeHTTP(w, r)
		})
	}
}

// AccountAuth verifies account credentials sent as HTTP Basic auth and stores the
// resulting account id in the request context.
func AccountAuth(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name, password, ok := r.BasicAuth()
			if !ok {
				logger.Info("account auth middleware missing credentials", logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				writeFailure(w, domain.ErrUnauthorized)
				return
			}

			accountID, err := authenticator.Authenticate(r.Context(), name, password)
			if err != nil {
				if !errors.Is(err, domain.ErrUnauthorized) {
					logger.Error("account auth middleware authenticate failed", err, logger.Fields{
						"method": r.Method,
						"path":   r.URL.Path,
					})
				}
				writeFailure(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccountID(r.Context(), accountID)))
		})
	}
}

func writeFailure(w http.ResponseWriter, err error) {
	info := commons.Classify(err)
	w.Header().Set("Content-Type", "application/json")
	if info.HTTPStatus == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Basic realm="ledger"`)
	}
	w.WriteHeader(info.HTTPStatus)
	_ = json.NewEncoder(w).Encode(commons.FailureResponse[struct{}](err))
}

func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
