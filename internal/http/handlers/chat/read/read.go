// Package read реализует HTTP-обработчик получения чата с историей сообщений.
//
// Чужой и несуществующий чат неразличимы: в обоих случаях ответ 404.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/nemtsvar/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nemtsvar/internal/http/response"
	"github.com/magabrotheeeer/nemtsvar/internal/lib/sl"
	"github.com/magabrotheeeer/nemtsvar/internal/models"
	"github.com/magabrotheeeer/nemtsvar/internal/storage"
)

// Handler обрабатывает запросы на получение чата по идентификатору.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики чатов
	validate *validator.Validate // Валидатор идентификатора чата
}

// Service описывает интерфейс бизнес-логики чтения чата.
type Service interface {
	GetChat(ctx context.Context, userUID, chatID string, limit, offset int) (*models.Chat, []*models.Message, int, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Получить чат
// @Description Возвращает чат и страницу его сообщений по возрастанию времени. limit по умолчанию 100, максимум 200.
// @Tags Chats
// @Produce  json
// @Param id path string true "ID чата"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Чат, сообщения и их общее количество"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Чат не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /chats/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.read"
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

	chatID := chi.URLParam(r, "id")
	if err := h.validate.Var(chatID, "required,uuid"); err != nil {
		log.Info("malformed chat id", slog.String("chat_id", chatID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("chat not found"))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	chat, messages, total, err := h.service.GetChat(r.Context(), user.UUID, chatID, limit, offset)
	if errors.Is(err, storage.ErrChatNotFound) {
		log.Info("chat not found", slog.String("chat_id", chatID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("chat not found"))
		return
	}
	if err != nil {
		log.Error("failed to read chat", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read chat"))
		return
	}
	if messages == nil {
		messages = []*models.Message{}
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"chat":     chat,
		"messages": messages,
		"total":    total,
	}))
}
