// Package block реализует HTTP-обработчик блокировки пользователя.
package block

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/nemtsvar/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nemtsvar/internal/http/response"
	"github.com/magabrotheeeer/nemtsvar/internal/lib/sl"
	"github.com/magabrotheeeer/nemtsvar/internal/services/admin"
	"github.com/magabrotheeeer/nemtsvar/internal/storage"
)

// Handler блокирует пользователя.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс блокировки.
type Service interface {
	Block(ctx context.Context, actorUID, targetUID string) error
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
// @Summary Заблокировать пользователя
// @Description Блокирует пользователя. Заблокировать себя нельзя.
// @Tags Admin
// @Param id path string true "ID пользователя"
// @Success 204 "Пользователь заблокирован"
// @Failure 400 {object} response.ErrorResponse "Попытка заблокировать себя"
// @Failure 403 {object} response.ErrorResponse "Нет прав администратора"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /admin/users/{id}/block [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.block"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	targetUID := chi.URLParam(r, "id")
	if err := h.validate.Var(targetUID, "required,uuid"); err != nil {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	}

	err := h.service.Block(r.Context(), actor.UUID, targetUID)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, admin.ErrSelfAction):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("you cannot block your own account"))
	case errors.Is(err, storage.ErrUserNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
	default:
		log.Error("failed to block user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not block user"))
	}
}
