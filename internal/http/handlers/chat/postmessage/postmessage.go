// Package postmessage реализует HTTP-обработчик добавления сообщения в чат.
//
// Для бесплатного чата сервис допускает ровно один вопрос пользователя и один ответ
// ассистента. Администраторы проверку доступа не проходят.
package postmessage

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

	"github.com/magabrotheeeer/nemtsvar/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nemtsvar/internal/http/response"
	"github.com/magabrotheeeer/nemtsvar/internal/lib/sl"
	"github.com/magabrotheeeer/nemtsvar/internal/models"
	"github.com/magabrotheeeer/nemtsvar/internal/services/entitlement"
	"github.com/magabrotheeeer/nemtsvar/internal/storage"
)

// Handler управляет HTTP-запросами на добавление сообщения.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики чатов
	validate *validator.Validate // Валидатор тела запроса
}

// Service описывает интерфейс бизнес-логики добавления сообщения.
type Service interface {
	PostMessage(ctx context.Context, caller models.Caller, chatID string, req models.MessageRequest) (*models.Message, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить сообщение
// @Description Добавляет сообщение пользователя или ассистента в чат.
// @Tags Chats
// @Accept  json
// @Produce  json
// @Param id path string true "ID чата"
// @Param request body models.MessageRequest true "Сообщение"
// @Success 201 {object} response.Response{data=models.Message} "Сообщение добавлено"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ответ до вопроса"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 402 {object} response.ErrorResponse "Требуется подписка или бесплатный вопрос израсходован"
// @Failure 404 {object} response.ErrorResponse "Чат не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /chats/{id}/messages [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.postmessage"
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

	var req models.MessageRequest
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

	msg, err := h.service.PostMessage(r.Context(), models.CallerFromUser(user), chatID, req)
	if err != nil {
		status, text := errorStatus(err)
		if status == http.StatusInternalServerError {
			log.Error("failed to post message", sl.Err(err))
		} else {
			log.Info("message refused", slog.String("chat_id", chatID), slog.String("reason", text))
		}
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(text))
		return
	}

	log.Info("message posted", slog.String("chat_id", chatID), slog.String("role", string(msg.Role)))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(msg))
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, storage.ErrChatNotFound):
		return http.StatusNotFound, "chat not found"
	case errors.Is(err, entitlement.ErrPaymentRequired):
		return http.StatusPaymentRequired, "active subscription required"
	case errors.Is(err, entitlement.ErrFreeQuestionExhausted):
		return http.StatusPaymentRequired, "free question already used"
	case errors.Is(err, entitlement.ErrNoUserMessageYet):
		return http.StatusBadRequest, "assistant cannot answer before the user asks"
	default:
		return http.StatusInternalServerError, "could not post message"
	}
}
