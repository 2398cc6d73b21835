// Package create реализует HTTP-обработчик создания чата.
//
// Решение о доступе принимает сервис: при активной подписке или бесплатном периоде
// создаётся обычный чат, иначе списывается бесплатный вопрос. Если доступа нет,
// обработчик отвечает 402 Payment Required.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nemtsvar/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nemtsvar/internal/http/response"
	"github.com/magabrotheeeer/nemtsvar/internal/lib/sl"
	"github.com/magabrotheeeer/nemtsvar/internal/models"
	"github.com/magabrotheeeer/nemtsvar/internal/services/entitlement"
)

// Handler управляет HTTP-запросами на создание чата.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики создания чата.
type Service interface {
	CreateChat(ctx context.Context, userUID string) (*models.Chat, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Создать чат
// @Description Создает чат текущего пользователя. Без подписки и бесплатного периода списывает бесплатный вопрос.
// @Tags Chats
// @Produce  json
// @Success 201 {object} response.Response{data=models.Chat} "Чат создан"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 402 {object} response.ErrorResponse "Требуется подписка"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /chats [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.create"
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

	chat, err := h.service.CreateChat(r.Context(), user.UUID)
	if errors.Is(err, entitlement.ErrPaymentRequired) {
		log.Info("chat creation refused", slog.String("user_uid", user.UUID))
		w.WriteHeader(http.StatusPaymentRequired)
		render.JSON(w, r, response.Error("active subscription required"))
		return
	}
	if err != nil {
		log.Error("failed to create chat", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create chat"))
		return
	}

	log.Info("chat created", slog.String("chat_id", chat.ID), slog.Bool("is_free", chat.IsFree))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(chat))
}
