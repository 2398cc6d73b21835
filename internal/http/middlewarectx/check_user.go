package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nemtsvar/internal/http/response"
	"github.com/magabrotheeeer/nemtsvar/internal/lib/sl"
	"github.com/magabrotheeeer/nemtsvar/internal/models"
	"github.com/magabrotheeeer/nemtsvar/internal/storage"
)

// UserGetter загружает пользователя по идентификатору.
type UserGetter interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// CheckUser загружает пользователя из токена. Удалённый пользователь получает 401,
// заблокированный 403. Роль берётся из базы, а не из токена.
func CheckUser(log *slog.Logger, users UserGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.CheckUser"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			user, err := users.GetUser(r.Context(), userUID)
			if errors.Is(err, storage.ErrUserNotFound) {
				log.Warn("token refers to unknown user", slog.String("user_uid", userUID))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user not found"))
				return
			}
			if err != nil {
				log.Error("failed to load user", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			if user.IsBlocked() {
				log.Warn("blocked user rejected", slog.String("user_uid", userUID))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("user is blocked"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin пропускает только администраторов. Ставится после CheckUser.
func RequireAdmin(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || !user.IsAdmin() {
				log.Warn("admin route denied",
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.Any("user_uid", r.Context().Value(UserUID)),
				)
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
