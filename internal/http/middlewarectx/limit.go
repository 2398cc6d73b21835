package middlewarectx

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/nemtsvar/internal/http/response"
	"github.com/magabrotheeeer/nemtsvar/internal/lib/sl"
	"github.com/magabrotheeeer/nemtsvar/internal/metrics"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter хранит токенный лимитер на каждый IP.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

// NewIPRateLimiter создает лимитер на r запросов в секунду с запасом burst.
func NewIPRateLimiter(r float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(r),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow сообщает, можно ли пропустить очередной запрос с адреса ip.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = l.now()
	l.mu.Unlock()

	return v.limiter.Allow()
}

// Cleanup удаляет лимитеры адресов, не появлявшихся дольше idle.
func (l *IPRateLimiter) Cleanup(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	deadline := l.now().Add(-idle)
	for ip, v := range l.visitors {
		if v.lastSeen.Before(deadline) {
			delete(l.visitors, ip)
			removed++
		}
	}
	return removed
}

// RunCleanup периодически чистит лимитеры до отмены ctx.
func (l *IPRateLimiter) RunCleanup(ctx context.Context, every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Cleanup(idle)
		}
	}
}

// Middleware ограничивает частоту запросов с одного IP.
func (l *IPRateLimiter) Middleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !l.Allow(ip) {
				log.Warn("too many requests", slog.String("scope", "ip"), slog.String("ip", ip))
				metrics.RateLimitedTotal.WithLabelValues("ip").Inc()
				w.WriteHeader(http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// WindowLimiter счётчик запросов в окне фиксированной длины.
type WindowLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// UserRateLimitMiddleware ограничивает число запросов пользователя за окно window.
// Ставится после CheckUser. Если хранилище счётчиков недоступно, запрос пропускается.
func UserRateLimitMiddleware(log *slog.Logger, limiter WindowLimiter, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userUID, _ := r.Context().Value(UserUID).(string)
			if userUID == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed, err := limiter.Allow(r.Context(), "ratelimit:user:"+userUID, limit, window)
			if err != nil {
				log.Warn("user rate limiter unavailable", sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				log.Warn("too many requests", slog.String("scope", "user"), slog.String("user_uid", userUID))
				metrics.RateLimitedTotal.WithLabelValues("user").Inc()
				w.WriteHeader(http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
