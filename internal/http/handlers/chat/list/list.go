// Package list реализует HTTP-обработчик получения списка чатов пользователя
// с последним сообщением и числом сообщений в каждом.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nemtsvar/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nemtsvar/internal/http/response"
	"github.com/magabrotheeeer/nemtsvar/internal/lib/sl"
	"github.com/magabrotheeeer/nemtsvar/internal/models"
)

// Handler обрабатывает запросы на получение списка чатов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики получения списка чатов.
type Service interface {
	ListChats(ctx context.Context, userUID string, limit, offset int) ([]*models.ChatSummary, int, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список чатов
// @Description Возвращает чаты пользователя, новые сверху. limit по умолчанию 20, максимум 50.
// @Tags Chats
// @Produce  json
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Чаты и их общее количество"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /chats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	// некорректные значения трактуются как отсутствующие
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	chats, total, err := h.service.ListChats(r.Context(), user.UUID, limit, offset)
	if err != nil {
		log.Error("failed to list chats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list chats"))
		return
	}
	if chats == nil {
		chats = []*models.ChatSummary{}
	}

	log.Debug("chats listed", slog.Int("count", len(chats)), slog.Int("total", total))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"chats": chats,
		"total": total,
	}))
}
