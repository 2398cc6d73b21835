package health

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		pingErr        error
		expectedStatus int
		expectedBody   string
	}{
		{name: "storage up", expectedStatus: http.StatusOK, expectedBody: `{"ok":true,"service":"nemtsvar"}`},
		{name: "storage down", pingErr: errors.New("conn refused"), expectedStatus: http.StatusServiceUnavailable, expectedBody: `{"ok":false,"service":"nemtsvar"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(logger, pingerFunc(func(context.Context) error { return tt.pingErr }))
			w := httptest.NewRecorder()

			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestLiveness(t *testing.T) {
	w := httptest.NewRecorder()
	Liveness(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
