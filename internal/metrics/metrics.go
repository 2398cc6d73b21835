// Package metrics объявляет метрики Prometheus сервиса. Все метрики
// регистрируются в реестре по умолчанию при импорте пакета и отдаются на /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nemtsvar"

// EntitlementDecisionsTotal решения движка доступа.
// Метки:
//   - operation: "create_chat" или "post_message"
//   - verdict: "paid", "free", "free_question", "bypass", "payment_required",
//     "free_question_exhausted", "no_user_message"
var EntitlementDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entitlement_decisions_total",
		Help:      "Total number of access decisions, by operation and verdict.",
	},
	[]string{"operation", "verdict"},
)

// FreeQuestionsConsumedTotal списанные бесплатные вопросы.
var FreeQuestionsConsumedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "free_questions_consumed_total",
		Help:      "Total number of free questions consumed by chat creation.",
	},
)

// MessagesPostedTotal добавленные сообщения.
// Метки:
//   - role: "user" или "assistant"
//   - path: "unrestricted", "free_question" или "bypass"
var MessagesPostedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_posted_total",
		Help:      "Total number of messages appended to chats.",
	},
	[]string{"role", "path"},
)

// RateLimitedTotal отклонённые лимитером запросы.
// Метка scope: "ip" или "user".
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by rate limiters.",
	},
	[]string{"scope"},
)

// HTTPRequestDuration длительность обработки HTTP-запросов.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by route pattern, method and status.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route", "method", "status"},
)
