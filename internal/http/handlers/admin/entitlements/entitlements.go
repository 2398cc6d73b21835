// Package entitlements реализует HTTP-обработчик ручной установки прав пользователя.
//
// Поля устанавливаются абсолютно. freePeriodEndsAt: null сбрасывает бесплатный период,
// отсутствие поля оставляет его без изменений.
package entitlements

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/nemtsvar/internal/http/response"
	"github.com/magabrotheeeer/nemtsvar/internal/lib/sl"
	"github.com/magabrotheeeer/nemtsvar/internal/models"
	"github.com/magabrotheeeer/nemtsvar/internal/services/admin"
	"github.com/magabrotheeeer/nemtsvar/internal/storage"
)

// Handler управляет запросами на изменение прав пользователя.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс изменения прав.
type Service interface {
	UpdateEntitlements(ctx context.Context, targetUID string, upd models.EntitlementsUpdate) error
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
// @Summary Изменить права пользователя
// @Description Устанавливает счётчик бесплатных вопросов и/или окончание бесплатного периода.
// @Tags Admin
// @Accept  json
// @Param id path string true "ID пользователя"
// @Param request body models.EntitlementsRequest true "Новые значения"
// @Success 204 "Права изменены"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или нет изменений"
// @Failure 403 {object} response.ErrorResponse "Нет прав администратора"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /admin/users/{id}/entitlements [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.entitlements"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	targetUID := chi.URLParam(r, "id")
	if err := h.validate.Var(targetUID, "required,uuid"); err != nil {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	}

	var req models.EntitlementsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	err := h.service.UpdateEntitlements(r.Context(), targetUID, req.ToUpdate())
	switch {
	case err == nil:
		log.Info("entitlements updated", slog.String("user_uid", targetUID))
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, admin.ErrNoChanges):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("no changes provided"))
	case errors.Is(err, admin.ErrInvalidValue):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid value"))
	case errors.Is(err, storage.ErrUserNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
	default:
		log.Error("failed to update entitlements", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update entitlements"))
	}
}
