// Package account отдаёт профиль текущего пользователя вместе с его правами доступа.
package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/nemtsvar/internal/models"
	"github.com/magabrotheeeer/nemtsvar/internal/services/entitlement"
)

// Profile профиль пользователя и снимок его прав.
type Profile struct {
	ID                     string     `json:"id"`
	Email                  string     `json:"email"`
	Role                   string     `json:"role"`
	CreatedAt              time.Time  `json:"created_at"`
	SubscriptionStatus     string     `json:"subscription_status"`
	CurrentPeriodEnd       *time.Time `json:"current_period_end"`
	FreeQuestionsRemaining int        `json:"free_questions_remaining"`
	FreePeriodEndsAt       *time.Time `json:"free_period_ends_at"`
	FreePeriodActive       bool       `json:"free_period_active"`
}

// Service собирает профиль пользователя.
type Service struct {
	source entitlement.Source
	now    func() time.Time
	log    *slog.Logger
}

// NewAccountService создает новый экземпляр Service.
func NewAccountService(source entitlement.Source, log *slog.Logger) *Service {
	return &Service{
		source: source,
		now:    time.Now,
		log:    log,
	}
}

// Me возвращает профиль пользователя. Неизвестный пользователь даёт storage.ErrUserNotFound.
func (s *Service) Me(ctx context.Context, userUID string) (*Profile, error) {
	const op = "services.account.Me"

	user, err := s.source.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sub, err := s.source.GetLatestSubscription(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	snapshot := entitlement.FromRecords(user, sub, s.now())

	return newProfile(user, snapshot), nil
}

func newProfile(user *models.User, snapshot entitlement.Snapshot) *Profile {
	return &Profile{
		ID:                     user.UUID,
		Email:                  user.Email,
		Role:                   user.Role,
		CreatedAt:              user.CreatedAt,
		SubscriptionStatus:     snapshot.SubscriptionStatus,
		CurrentPeriodEnd:       snapshot.SubscriptionPeriodEnd,
		FreeQuestionsRemaining: snapshot.FreeQuestionsRemaining,
		FreePeriodEndsAt:       snapshot.FreePeriodEndsAt,
		FreePeriodActive:       snapshot.FreePeriodActive,
	}
}
