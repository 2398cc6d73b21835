// Package chat содержит бизнес-логику чатов: создание с проверкой доступа,
// добавление сообщений, чтение и список чатов пользователя.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/nemtsvar/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/nemtsvar/internal/lib/sl"
	"github.com/magabrotheeeer/nemtsvar/internal/metrics"
	"github.com/magabrotheeeer/nemtsvar/internal/models"
	"github.com/magabrotheeeer/nemtsvar/internal/services/entitlement"
	"github.com/magabrotheeeer/nemtsvar/internal/storage"
)

// Значения по умолчанию и границы пагинации.
const (
	DefaultChatsLimit    = 20
	MaxChatsLimit        = 50
	DefaultMessagesLimit = 100
	MaxMessagesLimit     = 200
)

// Repository методы хранилища, нужные сервису чатов.
type Repository interface {
	entitlement.Source
	CreateChat(ctx context.Context, userUID string, isFree bool) (*models.Chat, error)
	CreateFreeChat(ctx context.Context, userUID string) (*models.Chat, error)
	GetChat(ctx context.Context, chatID, userUID string) (*models.Chat, error)
	ListChats(ctx context.Context, userUID string, limit, offset int) ([]*models.ChatSummary, int, error)
	ListMessages(ctx context.Context, chatID string, limit, offset int) ([]*models.Message, int, error)
	AppendMessage(ctx context.Context, chatID string, role models.MessageRole, content string) (*models.Message, error)
	AppendMessageGuarded(ctx context.Context, chatID string, role models.MessageRole, content string,
		guard func(models.RoleCounts) error) (*models.Message, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Publisher публикует доменные события.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// Service реализует операции над чатами.
type Service struct {
	repo      Repository
	cache     Cache
	publisher Publisher
	builder   *entitlement.Builder
	chatTTL   time.Duration
	log       *slog.Logger
}

// NewChatService создает новый экземпляр Service.
func NewChatService(repo Repository, cache Cache, publisher Publisher, chatTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		builder:   entitlement.NewBuilder(repo),
		chatTTL:   chatTTL,
		log:       log,
	}
}

// CreateChat создает чат, если у пользователя есть доступ. Бесплатный чат
// создается вместе со списанием бесплатного вопроса в одной транзакции.
func (s *Service) CreateChat(ctx context.Context, userUID string) (*models.Chat, error) {
	const op = "services.chat.CreateChat"

	snapshot, err := s.builder.Build(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	decision, err := entitlement.AuthorizeChat(snapshot)
	if err != nil {
		metrics.EntitlementDecisionsTotal.WithLabelValues("create_chat", verdict(err)).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var chat *models.Chat
	if decision.ConsumeFreeQuestion {
		chat, err = s.repo.CreateFreeChat(ctx, userUID)
		if errors.Is(err, storage.ErrNoFreeQuestions) {
			// счётчик обнулил параллельный запрос
			metrics.EntitlementDecisionsTotal.WithLabelValues("create_chat", "payment_required").Inc()
			return nil, fmt.Errorf("%s: %w", op, entitlement.ErrPaymentRequired)
		}
	} else {
		chat, err = s.repo.CreateChat(ctx, userUID, decision.IsFree)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if decision.ConsumeFreeQuestion {
		metrics.FreeQuestionsConsumedTotal.Inc()
		metrics.EntitlementDecisionsTotal.WithLabelValues("create_chat", "free").Inc()
	} else {
		metrics.EntitlementDecisionsTotal.WithLabelValues("create_chat", "paid").Inc()
	}
	s.log.Info("chat created",
		slog.String("chat_id", chat.ID),
		slog.String("user_uid", userUID),
		slog.Bool("is_free", chat.IsFree))

	s.cacheChat(ctx, chat)
	s.publish(ctx, rabbitmq.RoutingKeyChatCreated, ChatCreatedEvent{
		ChatID:    chat.ID,
		UserUID:   userUID,
		IsFree:    chat.IsFree,
		CreatedAt: chat.CreatedAt,
	})
	return chat, nil
}

// PostMessage добавляет сообщение в чат вызывающего. Администраторы
// проходят без проверки доступа, но только в свои чаты.
func (s *Service) PostMessage(ctx context.Context, caller models.Caller, chatID string, req models.MessageRequest) (*models.Message, error) {
	const op = "services.chat.PostMessage"

	chat, err := s.getChat(ctx, chatID, caller.UserUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var msg *models.Message
	pathLabel := "bypass"
	if caller.BypassesEntitlement {
		metrics.EntitlementDecisionsTotal.WithLabelValues("post_message", "bypass").Inc()
		msg, err = s.repo.AppendMessage(ctx, chat.ID, req.Role, req.Content)
	} else {
		msg, pathLabel, err = s.appendChecked(ctx, caller.UserUID, chat, req)
	}
	if errors.Is(err, storage.ErrChatNotFound) {
		// чат удалён между чтением и записью
		s.invalidateChat(ctx, chat.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.MessagesPostedTotal.WithLabelValues(string(msg.Role), pathLabel).Inc()
	s.publish(ctx, rabbitmq.RoutingKeyMessagePosted, MessagePostedEvent{
		MessageID: msg.ID,
		ChatID:    msg.ChatID,
		UserUID:   caller.UserUID,
		Role:      msg.Role,
		Path:      pathLabel,
		CreatedAt: msg.CreatedAt,
	})
	return msg, nil
}

func (s *Service) appendChecked(ctx context.Context, userUID string, chat *models.Chat,
	req models.MessageRequest) (*models.Message, string, error) {
	snapshot, err := s.builder.Build(ctx, userUID)
	if err != nil {
		return nil, "", err
	}

	path, err := entitlement.AuthorizeMessage(snapshot, chat.IsFree)
	if err != nil {
		metrics.EntitlementDecisionsTotal.WithLabelValues("post_message", verdict(err)).Inc()
		return nil, "", err
	}

	var msg *models.Message
	if path == entitlement.PathUnrestricted {
		msg, err = s.repo.AppendMessage(ctx, chat.ID, req.Role, req.Content)
	} else {
		msg, err = s.repo.AppendMessageGuarded(ctx, chat.ID, req.Role, req.Content,
			entitlement.FreeMessageGuard(req.Role))
	}
	if err != nil {
		if v := verdict(err); v != "error" {
			metrics.EntitlementDecisionsTotal.WithLabelValues("post_message", v).Inc()
		}
		return nil, "", err
	}
	metrics.EntitlementDecisionsTotal.WithLabelValues("post_message", path.String()).Inc()
	return msg, path.String(), nil
}

// GetChat возвращает чат пользователя и страницу его сообщений.
func (s *Service) GetChat(ctx context.Context, userUID, chatID string, limit, offset int) (*models.Chat, []*models.Message, int, error) {
	const op = "services.chat.GetChat"

	chat, err := s.getChat(ctx, chatID, userUID)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	messages, total, err := s.repo.ListMessages(ctx, chat.ID,
		ClampLimit(limit, DefaultMessagesLimit, MaxMessagesLimit), max(offset, 0))
	if err != nil {
		return nil, nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return chat, messages, total, nil
}

// ListChats возвращает страницу чатов пользователя и их общее количество.
func (s *Service) ListChats(ctx context.Context, userUID string, limit, offset int) ([]*models.ChatSummary, int, error) {
	const op = "services.chat.ListChats"

	chats, total, err := s.repo.ListChats(ctx, userUID,
		ClampLimit(limit, DefaultChatsLimit, MaxChatsLimit), max(offset, 0))
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return chats, total, nil
}

// ClampLimit подставляет значение по умолчанию для неположительного limit
// и ограничивает его сверху.
func ClampLimit(limit, def, upper int) int {
	if limit <= 0 {
		return def
	}
	return min(limit, upper)
}

func verdict(err error) string {
	switch {
	case errors.Is(err, entitlement.ErrPaymentRequired):
		return "payment_required"
	case errors.Is(err, entitlement.ErrFreeQuestionExhausted):
		return "free_question_exhausted"
	case errors.Is(err, entitlement.ErrNoUserMessageYet):
		return "no_user_message"
	default:
		return "error"
	}
}

func (s *Service) publish(ctx context.Context, routingKey string, event any) {
	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("routing_key", routingKey), sl.Err(err))
	}
}
