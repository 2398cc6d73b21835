package block

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/nemtsvar/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nemtsvar/internal/models"
	"github.com/magabrotheeeer/nemtsvar/internal/services/admin"
	"github.com/magabrotheeeer/nemtsvar/internal/storage"
)

const (
	adminUID  = "0b6f5f0e-5a43-4c53-9d0b-2f4f3d7f6a10"
	targetUID = "3d1c9a8e-7c62-4a3f-8f55-1e0f3b2a9c44"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Block(ctx context.Context, actorUID, targetUID string) error {
	return m.Called(ctx, actorUID, targetUID).Error(0)
}

func TestBlockHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		id             string
		serviceErr     error
		callsService   bool
		expectedStatus int
		expectedBody   string
	}{
		{name: "blocked", id: targetUID, callsService: true, expectedStatus: http.StatusNoContent},
		{name: "self block refused", id: adminUID, serviceErr: admin.ErrSelfAction, callsService: true,
			expectedStatus: http.StatusBadRequest, expectedBody: "you cannot block your own account"},
		{name: "unknown user", id: targetUID, serviceErr: storage.ErrUserNotFound, callsService: true,
			expectedStatus: http.StatusNotFound, expectedBody: "user not found"},
		{name: "malformed id", id: "abc", expectedStatus: http.StatusNotFound, expectedBody: "user not found"},
		{name: "service failure", id: targetUID, serviceErr: errors.New("db error"), callsService: true,
			expectedStatus: http.StatusInternalServerError, expectedBody: "could not block user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			if tt.callsService {
				mockService.On("Block", mock.Anything, adminUID, tt.id).Return(tt.serviceErr).Once()
			}

			req := httptest.NewRequest(http.MethodPatch, "/api/admin/users/"+tt.id+"/block", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			req = req.WithContext(middlewarectx.WithUser(ctx, &models.User{UUID: adminUID, Role: models.RoleAdmin}))
			w := httptest.NewRecorder()

			New(logger, mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
