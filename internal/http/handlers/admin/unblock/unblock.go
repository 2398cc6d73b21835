// Package unblock реализует HTTP-обработчик снятия блокировки пользователя.
package unblock

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/nemtsvar/internal/http/response"
	"github.com/magabrotheeeer/nemtsvar/internal/lib/sl"
	"github.com/magabrotheeeer/nemtsvar/internal/storage"
)

// Handler снимает блокировку.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс снятия блокировки.
type Service interface {
	Unblock(ctx context.Context, targetUID string) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Разблокировать пользователя
// @Tags Admin
// @Param id path string true "ID пользователя"
// @Success 204 "Блокировка снята"
// @Failure 403 {object} response.ErrorResponse "Нет прав администратора"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /admin/users/{id}/unblock [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.unblock"

	targetUID := chi.URLParam(r, "id")
	if err := h.validate.Var(targetUID, "required,uuid"); err != nil {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	}

	err := h.service.Unblock(r.Context(), targetUID)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, storage.ErrUserNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
	default:
		h.log.Error("failed to unblock user",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not unblock user"))
	}
}
