// Package models содержит доменные структуры сервиса: пользователя,
// подписку платёжного провайдера, чат и сообщения.
package models

import "time"

const (
	// RoleUser роль обычного пользователя
	RoleUser = "user"
	// RoleAdmin роль администратора
	RoleAdmin = "admin"
)

// User представляет зарегистрированного пользователя вместе с его
// счётчиком бесплатных вопросов и окном бесплатного периода.
type User struct {
	UUID                   string     `json:"id"`
	Email                  string     `json:"email"`
	PasswordHash           string     `json:"-"`
	Role                   string     `json:"role"`
	CreatedAt              time.Time  `json:"created_at"`
	BlockedAt              *time.Time `json:"blocked_at"`
	FreeQuestionsRemaining int        `json:"free_questions_remaining"`
	FreePeriodEndsAt       *time.Time `json:"free_period_ends_at"`
}

// IsBlocked сообщает, заблокирован ли пользователь администратором.
func (u *User) IsBlocked() bool {
	return u.BlockedAt != nil
}

// IsAdmin сообщает, является ли пользователь администратором.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Caller описывает аутентифицированного отправителя запроса.
// BypassesEntitlement вычисляется один раз на границе HTTP по роли
// и отключает проверку доступа целиком.
type Caller struct {
	UserUID             string
	BypassesEntitlement bool
}

// CallerFromUser строит Caller по загруженному пользователю.
func CallerFromUser(u *User) Caller {
	return Caller{
		UserUID:             u.UUID,
		BypassesEntitlement: u.IsAdmin(),
	}
}

// EntitlementsUpdate абсолютная установка полей доступа пользователя.
// Nil-поле не меняется. ClearFreePeriod сбрасывает окно бесплатного периода в NULL.
type EntitlementsUpdate struct {
	FreeQuestionsRemaining *int
	FreePeriodEndsAt       *time.Time
	ClearFreePeriod        bool
}

// Empty сообщает, что обновление ничего не меняет.
func (u EntitlementsUpdate) Empty() bool {
	return u.FreeQuestionsRemaining == nil && u.FreePeriodEndsAt == nil && !u.ClearFreePeriod
}
