package controller

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/api-sage/atomic-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/atomic-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/atomic-ledger/src/internal/logger"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogsCarryCallerAndMaskSecrets(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := logger.Use(zap.New(core))
	defer restore()

	req := httptest.NewRequest(http.MethodPost, "/accounts?dry=1", nil)
	req = req.WithContext(middleware.WithAccountID(req.Context(), "acc-1"))

	logRequest(req, models.RegisterAccountRequest{DisplayName: "carol", Password: "correct-horse"})
	logResponse(req, http.StatusCreated, map[string]string{"ok": "yes"}, time.Now())
	logError(req, errors.New("boom"), logger.Fields{"code": "INTERNAL_FAILURE"})

	entries := logs.All()
	require.Len(t, entries, 3)
	for _, entry := range entries {
		fields := entry.ContextMap()
		require.Equal(t, "acc-1", fields["accountId"])
		require.Equal(t, "/accounts", fields["path"])
		require.Equal(t, "dry=1", fields["query"])
	}

	payload, ok := entries[0].ContextMap()["payload"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "******", payload["password"])
	require.EqualValues(t, http.StatusCreated, entries[1].ContextMap()["status"])
	require.Equal(t, "boom", entries[2].ContextMap()["error"])
}

func TestRequestLogsWithoutCaller(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := logger.Use(zap.New(core))
	defer restore()

	logRequest(httptest.NewRequest(http.MethodGet, "/health", nil), nil)

	fields := logs.All()[0].ContextMap()
	require.NotContains(t, fields, "accountId")
	require.NotContains(t, fields, "query")
	require.NotContains(t, fields, "payload")
}
