package entitlements

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/nemtsvar/internal/models"
	"github.com/magabrotheeeer/nemtsvar/internal/services/admin"
	"github.com/magabrotheeeer/nemtsvar/internal/storage"
)

const targetUID = "3d1c9a8e-7c62-4a3f-8f55-1e0f3b2a9c44"

type MockService struct {
	mock.Mock
}

func (m *MockService) UpdateEntitlements(ctx context.Context, targetUID string, upd models.EntitlementsUpdate) error {
	return m.Called(ctx, targetUID, upd).Error(0)
}

func TestEntitlementsHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	two := 2
	ends := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		id             string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "set counter and period",
			id:   targetUID,
			body: `{"freeQuestionsRemaining":2,"freePeriodEndsAt":"2025-07-01T00:00:00Z"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateEntitlements", mock.Anything, targetUID, mock.MatchedBy(func(u models.EntitlementsUpdate) bool {
					return *u.FreeQuestionsRemaining == two && u.FreePeriodEndsAt.Equal(ends) && !u.ClearFreePeriod
				})).Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "null clears free period",
			id:   targetUID,
			body: `{"freePeriodEndsAt":null}`,
			setupMock: func(m *MockService) {
				m.On("UpdateEntitlements", mock.Anything, targetUID, models.EntitlementsUpdate{ClearFreePeriod: true}).Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "empty body has no changes",
			id:   targetUID,
			body: `{}`,
			setupMock: func(m *MockService) {
				m.On("UpdateEntitlements", mock.Anything, targetUID, models.EntitlementsUpdate{}).Return(admin.ErrNoChanges)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"no changes provided"}`,
		},
		{
			name:           "negative counter rejected",
			id:             targetUID,
			body:           `{"freeQuestionsRemaining":-1}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `must be at least 0`,
		},
		{
			name:           "malformed date",
			id:             targetUID,
			body:           `{"freePeriodEndsAt":"tomorrow"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name: "unknown user",
			id:   targetUID,
			body: `{"freeQuestionsRemaining":2}`,
			setupMock: func(m *MockService) {
				m.On("UpdateEntitlements", mock.Anything, targetUID, mock.Anything).Return(storage.ErrUserNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"user not found"}`,
		},
		{
			name:           "malformed user id",
			id:             "7",
			body:           `{"freeQuestionsRemaining":2}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "service failure",
			id:   targetUID,
			body: `{"freeQuestionsRemaining":2}`,
			setupMock: func(m *MockService) {
				m.On("UpdateEntitlements", mock.Anything, targetUID, mock.Anything).Return(errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not update entitlements"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodPatch, "/api/admin/users/"+tt.id+"/entitlements", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			New(logger, mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
