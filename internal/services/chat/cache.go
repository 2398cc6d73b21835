package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/nemtsvar/internal/lib/sl"
	"github.com/magabrotheeeer/nemtsvar/internal/models"
	"github.com/magabrotheeeer/nemtsvar/internal/storage"
)

// cachedChat заголовок чата в кеше. Владелец и признак is_free не меняются
// после создания, поэтому запись инвалидируется только при удалении чата.
type cachedChat struct {
	ID        string    `json:"id"`
	UserUID   string    `json:"user_uid"`
	CreatedAt time.Time `json:"created_at"`
	IsFree    bool      `json:"is_free"`
}

func chatKey(chatID string) string {
	return "chat:" + chatID
}

// getChat возвращает чат владельца. Чужой и несуществующий чат неразличимы.
func (s *Service) getChat(ctx context.Context, chatID, userUID string) (*models.Chat, error) {
	var cached cachedChat
	found, err := s.cache.Get(ctx, chatKey(chatID), &cached)
	if err != nil {
		s.log.Warn("failed to read chat from cache", slog.String("chat_id", chatID), sl.Err(err))
	}
	if found && err == nil {
		if cached.UserUID != userUID {
			return nil, storage.ErrChatNotFound
		}
		return &models.Chat{
			ID:        cached.ID,
			UserUID:   cached.UserUID,
			CreatedAt: cached.CreatedAt,
			IsFree:    cached.IsFree,
		}, nil
	}

	chat, err := s.repo.GetChat(ctx, chatID, userUID)
	if err != nil {
		return nil, err
	}
	s.cacheChat(ctx, chat)
	return chat, nil
}

func (s *Service) cacheChat(ctx context.Context, chat *models.Chat) {
	value := cachedChat{
		ID:        chat.ID,
		UserUID:   chat.UserUID,
		CreatedAt: chat.CreatedAt,
		IsFree:    chat.IsFree,
	}
	if err := s.cache.Set(ctx, chatKey(chat.ID), value, s.chatTTL); err != nil {
		s.log.Warn("failed to cache chat", slog.String("chat_id", chat.ID), sl.Err(err))
	}
}

func (s *Service) invalidateChat(ctx context.Context, chatID string) {
	if err := s.cache.Invalidate(ctx, chatKey(chatID)); err != nil {
		s.log.Warn("failed to invalidate chat", slog.String("chat_id", chatID), sl.Err(err))
	}
}
