// Package admin содержит операции администратора над пользователями:
// список, ручная установка прав, блокировка и удаление.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/nemtsvar/internal/models"
)

var (
	// ErrSelfAction администратор пытается заблокировать или удалить себя
	ErrSelfAction = errors.New("action not allowed on own account")
	// ErrNoChanges в запросе на изменение прав нет ни одного поля
	ErrNoChanges = errors.New("no changes provided")
	// ErrInvalidValue недопустимое значение поля
	ErrInvalidValue = errors.New("invalid value")
)

// Repository методы хранилища для администрирования пользователей.
type Repository interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateEntitlements(ctx context.Context, userUID string, upd models.EntitlementsUpdate) error
	SetBlockedAt(ctx context.Context, userUID string, blockedAt *time.Time) error
	DeleteUser(ctx context.Context, userUID string) error
}

// Service реализует операции администратора.
type Service struct {
	repo Repository
	now  func() time.Time
	log  *slog.Logger
}

// NewAdminService создает новый экземпляр Service.
func NewAdminService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
		log:  log,
	}
}

// ListUsers возвращает всех пользователей.
func (s *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "services.admin.ListUsers"
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// UpdateEntitlements абсолютно выставляет счётчик бесплатных вопросов и/или окно бесплатного периода.
func (s *Service) UpdateEntitlements(ctx context.Context, targetUID string, upd models.EntitlementsUpdate) error {
	const op = "services.admin.UpdateEntitlements"
	if upd.Empty() {
		return fmt.Errorf("%s: %w", op, ErrNoChanges)
	}
	if upd.FreeQuestionsRemaining != nil && *upd.FreeQuestionsRemaining < 0 {
		return fmt.Errorf("%s: free questions must be non-negative: %w", op, ErrInvalidValue)
	}
	if err := s.repo.UpdateEntitlements(ctx, targetUID, upd); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("entitlements updated", slog.String("user_uid", targetUID))
	return nil
}

// Block блокирует пользователя. Заблокировать себя нельзя.
func (s *Service) Block(ctx context.Context, actorUID, targetUID string) error {
	const op = "services.admin.Block"
	if actorUID == targetUID {
		return fmt.Errorf("%s: %w", op, ErrSelfAction)
	}
	now := s.now()
	if err := s.repo.SetBlockedAt(ctx, targetUID, &now); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user blocked", slog.String("user_uid", targetUID), slog.String("by", actorUID))
	return nil
}

// Unblock снимает блокировку.
func (s *Service) Unblock(ctx context.Context, targetUID string) error {
	const op = "services.admin.Unblock"
	if err := s.repo.SetBlockedAt(ctx, targetUID, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user unblocked", slog.String("user_uid", targetUID))
	return nil
}

// Delete удаляет пользователя со всеми данными. Удалить себя нельзя.
func (s *Service) Delete(ctx context.Context, actorUID, targetUID string) error {
	const op = "services.admin.Delete"
	if actorUID == targetUID {
		return fmt.Errorf("%s: %w", op, ErrSelfAction)
	}
	if err := s.repo.DeleteUser(ctx, targetUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user deleted", slog.String("user_uid", targetUID), slog.String("by", actorUID))
	return nil
}
