// Package userlist реализует HTTP-обработчик списка пользователей для администратора.
package userlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nemtsvar/internal/http/response"
	"github.com/magabrotheeeer/nemtsvar/internal/lib/sl"
	"github.com/magabrotheeeer/nemtsvar/internal/models"
)

// Handler обрабатывает запрос списка пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения пользователей.
type Service interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Description Возвращает всех пользователей, новые сверху. Только для администраторов.
// @Tags Admin
// @Produce  json
// @Success 200 {object} map[string]any "Пользователи"
// @Failure 403 {object} response.ErrorResponse "Нет прав администратора"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /admin/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.userlist"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list users"))
		return
	}
	if users == nil {
		users = []*models.User{}
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"users": users,
	}))
}
