package models

import "time"

// MessageRole автор сообщения в чате.
type MessageRole string

const (
	// MessageRoleUser сообщение пользователя
	MessageRoleUser MessageRole = "user"
	// MessageRoleAssistant ответ ассистента
	MessageRoleAssistant MessageRole = "assistant"
)

// MaxMessageLength максимальная длина содержимого сообщения.
const MaxMessageLength = 4000

// Chat диалог пользователя. IsFree фиксируется при создании и больше не меняется.
type Chat struct {
	ID        string    `json:"id"`
	UserUID   string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	IsFree    bool      `json:"is_free"`
}

// Message сообщение в чате.
type Message struct {
	ID        string      `json:"id"`
	ChatID    string      `json:"chat_id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}

// ChatSummary элемент списка чатов с превью последнего сообщения.
type ChatSummary struct {
	ID            string     `json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	IsFree        bool       `json:"is_free"`
	LastMessage   *string    `json:"last_message"`
	LastMessageAt *time.Time `json:"last_message_at"`
	MessageCount  int        `json:"message_count"`
}

// RoleCounts количество сообщений в чате по ролям.
type RoleCounts struct {
	User      int
	Assistant int
}

// MessageRequest тело запроса на добавление сообщения.
type MessageRequest struct {
	Role    MessageRole `json:"role" validate:"required,oneof=user assistant"`
	Content string      `json:"content" validate:"required,max=4000"`
}

// EntitlementsRequest тело запроса администратора на изменение доступа.
// FreePeriodEndsAt принимает RFC3339 или null, отсутствие поля означает "не менять".
type EntitlementsRequest struct {
	FreeQuestionsRemaining *int         `json:"freeQuestionsRemaining" validate:"omitempty,min=0"`
	FreePeriodEndsAt       OptionalTime `json:"freePeriodEndsAt"`
}

// OptionalTime различает отсутствующее поле, явный null и значение.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

// UnmarshalJSON вызывается только если поле присутствует в документе.
func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := t.UnmarshalJSON(data); err != nil {
		return err
	}
	o.Value = &t
	return nil
}

// ToUpdate переводит запрос в EntitlementsUpdate.
func (r EntitlementsRequest) ToUpdate() EntitlementsUpdate {
	upd := EntitlementsUpdate{FreeQuestionsRemaining: r.FreeQuestionsRemaining}
	if r.FreePeriodEndsAt.Set {
		if r.FreePeriodEndsAt.Value == nil {
			upd.ClearFreePeriod = true
		} else {
			upd.FreePeriodEndsAt = r.FreePeriodEndsAt.Value
		}
	}
	return upd
}
