package chat

import (
	"time"

	"github.com/magabrotheeeer/nemtsvar/internal/models"
)

// ChatCreatedEvent публикуется после создания чата.
type ChatCreatedEvent struct {
	ChatID    string    `json:"chat_id"`
	UserUID   string    `json:"user_id"`
	IsFree    bool      `json:"is_free"`
	CreatedAt time.Time `json:"created_at"`
}

// MessagePostedEvent публикуется после добавления сообщения. Содержимое не передаётся.
type MessagePostedEvent struct {
	MessageID string             `json:"message_id"`
	ChatID    string             `json:"chat_id"`
	UserUID   string             `json:"user_id"`
	Role      models.MessageRole `json:"role"`
	Path      string             `json:"path"`
	CreatedAt time.Time          `json:"created_at"`
}
