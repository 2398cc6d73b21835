package nemtsvar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/nemtsvar/internal/cache"
	"github.com/magabrotheeeer/nemtsvar/internal/config"
	"github.com/magabrotheeeer/nemtsvar/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nemtsvar/internal/lib/jwt"
	"github.com/magabrotheeeer/nemtsvar/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/nemtsvar/internal/lib/sl"
	"github.com/magabrotheeeer/nemtsvar/internal/migrations"
	"github.com/magabrotheeeer/nemtsvar/internal/services/account"
	adminservice "github.com/magabrotheeeer/nemtsvar/internal/services/admin"
	chatservice "github.com/magabrotheeeer/nemtsvar/internal/services/chat"
	"github.com/magabrotheeeer/nemtsvar/internal/storage/repository"
)

// EventPublisher публикует события и освобождает соединение с брокером.
type EventPublisher interface {
	chatservice.Publisher
	io.Closer
}

// App HTTP-приложение со всеми зависимостями.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *repository.Storage
	cache     *cache.Cache
	publisher EventPublisher
	ipLimiter *middlewarectx.IPRateLimiter
}

// New поднимает зависимости, применяет миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.New"

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var publisher EventPublisher = rabbitmq.NoopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		publisher, err = rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.Exchange, cfg.Retries, cfg.RetryDelay)
		if err != nil {
			_ = db.Close()
			_ = cacheRedis.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else {
		logger.Warn("rabbitmq url is empty, events are not published")
	}

	chats := chatservice.NewChatService(db, cacheRedis, publisher, cfg.ChatTTL, logger)
	accounts := account.NewAccountService(db, logger)
	admins := adminservice.NewAdminService(db, logger)
	ipLimiter := middlewarectx.NewIPRateLimiter(cfg.IPRate, cfg.IPBurst)

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Logger:      logger,
		Tokens:      jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL),
		Users:       db,
		DB:          db,
		UserLimiter: cacheRedis,
		IPLimiter:   ipLimiter,
		Chats:       chats,
		Accounts:    accounts,
		Admin:       admins,
		CookieName:  cfg.CookieName,
		UserLimit:   cfg.UserLimit,
		UserWindow:  cfg.UserWindow,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:    srv,
		logger:    logger,
		db:        db,
		cache:     cacheRedis,
		publisher: publisher,
		ipLimiter: ipLimiter,
	}, nil
}

// Run запускает сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	go a.ipLimiter.RunCleanup(ctx, time.Minute, 10*time.Minute)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}
	a.close()
	return err
}

func (a *App) close() {
	if err := a.publisher.Close(); err != nil {
		a.logger.Warn("failed to close publisher", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", sl.Err(err))
	}
}
