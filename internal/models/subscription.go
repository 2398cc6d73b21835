package models

import "time"

// Статусы подписки, которые выставляет платёжный провайдер.
const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusTrialing = "trialing"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusCanceled = "canceled"
)

// Subscription запись о подписке пользователя у внешнего провайдера.
// Сервис только читает эти записи, авторитетной считается последняя по UpdatedAt.
type Subscription struct {
	ID                     string
	UserUID                string
	Provider               string
	ProviderSubscriptionID string
	ProviderCustomerID     string
	Status                 string
	CurrentPeriodEnd       *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
