// Package entitlement вычисляет права пользователя на создание чатов и отправку
// сообщений. Снимок прав собирается из хранилища, решения принимаются чистыми
// функциями без ввода-вывода.
package entitlement

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/nemtsvar/internal/models"
)

// Snapshot состояние прав пользователя на момент сборки.
type Snapshot struct {
	SubscriptionStatus     string
	SubscriptionPeriodEnd  *time.Time
	FreeQuestionsRemaining int
	FreePeriodEndsAt       *time.Time
	FreePeriodActive       bool
}

// HasSubscription сообщает, даёт ли статус подписки полный доступ.
func (s Snapshot) HasSubscription() bool {
	return s.SubscriptionStatus == models.SubscriptionStatusActive ||
		s.SubscriptionStatus == models.SubscriptionStatusTrialing
}

// Source источник данных для снимка.
type Source interface {
	// GetUser возвращает storage.ErrUserNotFound, если пользователя нет.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// GetLatestSubscription возвращает nil, nil, если подписок нет.
	GetLatestSubscription(ctx context.Context, userUID string) (*models.Subscription, error)
}

// Builder собирает Snapshot. Часы подменяются в тестах.
type Builder struct {
	source Source
	now    func() time.Time
}

// NewBuilder создает Builder с системными часами.
func NewBuilder(source Source) *Builder {
	return &Builder{
		source: source,
		now:    time.Now,
	}
}

// WithClock возвращает копию Builder с заданными часами.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	return &Builder{
		source: b.source,
		now:    now,
	}
}

// Build собирает снимок прав пользователя. Побочных эффектов нет.
func (b *Builder) Build(ctx context.Context, userUID string) (Snapshot, error) {
	const op = "entitlement.Build"

	user, err := b.source.GetUser(ctx, userUID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", op, err)
	}
	sub, err := b.source.GetLatestSubscription(ctx, userUID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", op, err)
	}

	return FromRecords(user, sub, b.now()), nil
}

// FromRecords строит снимок по уже загруженным записям.
// Отсутствие подписки трактуется как статус canceled.
func FromRecords(user *models.User, sub *models.Subscription, now time.Time) Snapshot {
	s := Snapshot{
		SubscriptionStatus:     models.SubscriptionStatusCanceled,
		FreeQuestionsRemaining: user.FreeQuestionsRemaining,
		FreePeriodEndsAt:       user.FreePeriodEndsAt,
	}
	if sub != nil {
		s.SubscriptionStatus = sub.Status
		s.SubscriptionPeriodEnd = sub.CurrentPeriodEnd
	}
	s.FreePeriodActive = user.FreePeriodEndsAt != nil && user.FreePeriodEndsAt.After(now)
	return s
}
