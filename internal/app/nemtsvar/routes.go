// Package nemtsvar собирает HTTP-приложение: хранилище, кеш, брокер, сервисы и маршруты.
package nemtsvar

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/magabrotheeeer/nemtsvar/docs" // регистрирует swagger-спецификацию
	"github.com/magabrotheeeer/nemtsvar/internal/http/handlers/admin/block"
	"github.com/magabrotheeeer/nemtsvar/internal/http/handlers/admin/entitlements"
	"github.com/magabrotheeeer/nemtsvar/internal/http/handlers/admin/remove"
	"github.com/magabrotheeeer/nemtsvar/internal/http/handlers/admin/unblock"
	"github.com/magabrotheeeer/nemtsvar/internal/http/handlers/admin/userlist"
	"github.com/magabrotheeeer/nemtsvar/internal/http/handlers/chat/create"
	"github.com/magabrotheeeer/nemtsvar/internal/http/handlers/chat/list"
	"github.com/magabrotheeeer/nemtsvar/internal/http/handlers/chat/postmessage"
	"github.com/magabrotheeeer/nemtsvar/internal/http/handlers/chat/read"
	"github.com/magabrotheeeer/nemtsvar/internal/http/handlers/health"
	"github.com/magabrotheeeer/nemtsvar/internal/http/handlers/user/me"
	"github.com/magabrotheeeer/nemtsvar/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nemtsvar/internal/services/account"
	adminservice "github.com/magabrotheeeer/nemtsvar/internal/services/admin"
	chatservice "github.com/magabrotheeeer/nemtsvar/internal/services/chat"
)

// Deps зависимости маршрутов.
type Deps struct {
	Logger      *slog.Logger
	Tokens      middlewarectx.TokenParser
	Users       middlewarectx.UserGetter
	DB          health.Pinger
	UserLimiter middlewarectx.WindowLimiter
	IPLimiter   *middlewarectx.IPRateLimiter
	Chats       *chatservice.Service
	Accounts    *account.Service
	Admin       *adminservice.Service
	CookieName  string
	UserLimit   int
	UserWindow  time.Duration
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	logger := d.Logger

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.Metrics,
	)

	r.Get("/healthz", health.Liveness)

	r.Route("/api", func(r chi.Router) {
		r.Use(d.IPLimiter.Middleware(logger))

		r.Get("/health", health.New(logger, d.DB).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(d.Tokens, d.CookieName, logger))
			r.Use(middlewarectx.CheckUser(logger, d.Users))
			r.Use(middlewarectx.UserRateLimitMiddleware(logger, d.UserLimiter, d.UserLimit, d.UserWindow))

			r.Get("/users/me", me.New(logger, d.Accounts).ServeHTTP)

			r.Post("/chats", create.New(logger, d.Chats).ServeHTTP)
			r.Get("/chats", list.New(logger, d.Chats).ServeHTTP)
			r.Get("/chats/{id}", read.New(logger, d.Chats).ServeHTTP)
			r.Post("/chats/{id}/messages", postmessage.New(logger, d.Chats).ServeHTTP)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middlewarectx.RequireAdmin(logger))
				r.Get("/users", userlist.New(logger, d.Admin).ServeHTTP)
				r.Patch("/users/{id}/entitlements", entitlements.New(logger, d.Admin).ServeHTTP)
				r.Patch("/users/{id}/block", block.New(logger, d.Admin).ServeHTTP)
				r.Patch("/users/{id}/unblock", unblock.New(logger, d.Admin).ServeHTTP)
				r.Delete("/users/{id}", remove.New(logger, d.Admin).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
