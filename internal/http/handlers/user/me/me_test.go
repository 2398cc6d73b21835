package me

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/nemtsvar/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nemtsvar/internal/models"
	"github.com/magabrotheeeer/nemtsvar/internal/services/account"
	"github.com/magabrotheeeer/nemtsvar/internal/storage"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Me(ctx context.Context, userUID string) (*account.Profile, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.(*account.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestMeHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "profile returned",
			setupMock: func(m *MockService) {
				m.On("Me", mock.Anything, "u1").Return(&account.Profile{
					ID: "u1", SubscriptionStatus: "canceled", FreeQuestionsRemaining: 1,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"free_questions_remaining":1`,
		},
		{
			name: "user vanished",
			setupMock: func(m *MockService) {
				m.On("Me", mock.Anything, "u1").Return(nil, storage.ErrUserNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"user not found"}`,
		},
		{
			name: "service failure",
			setupMock: func(m *MockService) {
				m.On("Me", mock.Anything, "u1").Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not load profile"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			req = req.WithContext(middlewarectx.WithUser(req.Context(), &models.User{UUID: "u1"}))
			w := httptest.NewRecorder()

			New(logger, mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
