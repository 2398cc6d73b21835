// Package health реализует проверки живости сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nemtsvar/internal/lib/sl"
)

// ServiceName имя сервиса в ответе /api/health.
const ServiceName = "nemtsvar"

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler отвечает на /api/health.
type Handler struct {
	log *slog.Logger
	db  Pinger
}

// New создает новый Handler.
func New(log *slog.Logger, db Pinger) *Handler {
	return &Handler{
		log: log,
		db:  db,
	}
}

// ServeHTTP godoc
// @Summary Проверка состояния
// @Description Проверяет доступность базы данных.
// @Tags Health
// @Produce  json
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.log.Error("storage is unavailable", slog.String("op", op), sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]any{"ok": false, "service": ServiceName})
		return
	}
	render.JSON(w, r, map[string]any{"ok": true, "service": ServiceName})
}

// Liveness отвечает "ok" без обращения к зависимостям.
func Liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
