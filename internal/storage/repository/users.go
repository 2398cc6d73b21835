package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/nemtsvar/internal/models"
	"github.com/magabrotheeeer/nemtsvar/internal/storage"
)

const userColumns = `id, email, password_hash, role, created_at, blocked_at,
			      free_questions_remaining, free_period_ends_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var blockedAt, freePeriodEndsAt sql.NullTime
	if err := row.Scan(&u.UUID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt,
		&blockedAt, &u.FreeQuestionsRemaining, &freePeriodEndsAt); err != nil {
		return nil, err
	}
	if blockedAt.Valid {
		u.BlockedAt = &blockedAt.Time
	}
	if freePeriodEndsAt.Valid {
		u.FreePeriodEndsAt = &freePeriodEndsAt.Time
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if errors.Is(err, sql.ErrNoRows) || isMissingRef(err) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsers возвращает всех пользователей, новые первыми.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DecrementFreeQuestions уменьшает счётчик на единицу, только если он больше нуля.
// Возвращает false, если уменьшать было нечего.
func (s *Storage) DecrementFreeQuestions(ctx context.Context, userUID string) (bool, error) {
	const op = "storage.DecrementFreeQuestions"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}

	affected, err := decrementFreeQuestions(ctx, s.DB, userUID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func decrementFreeQuestions(ctx context.Context, db execer, userUID string) (bool, error) {
	res, err := db.ExecContext(ctx, `UPDATE users
		      SET free_questions_remaining = free_questions_remaining - 1
		      WHERE id = $1 AND free_questions_remaining > 0`, userUID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// UpdateEntitlements выставляет переданные поля доступа пользователя.
func (s *Storage) UpdateEntitlements(ctx context.Context, userUID string, upd models.EntitlementsUpdate) error {
	const op = "storage.UpdateEntitlements"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	var sets []string
	var args []any
	if upd.FreeQuestionsRemaining != nil {
		args = append(args, *upd.FreeQuestionsRemaining)
		sets = append(sets, fmt.Sprintf("free_questions_remaining = $%d", len(args)))
	}
	switch {
	case upd.ClearFreePeriod:
		sets = append(sets, "free_period_ends_at = NULL")
	case upd.FreePeriodEndsAt != nil:
		args = append(args, *upd.FreePeriodEndsAt)
		sets = append(sets, fmt.Sprintf("free_period_ends_at = $%d", len(args)))
	}
	if len(sets) == 0 {
		return fmt.Errorf("%s: nothing to update", op)
	}

	args = append(args, userUID)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	return s.execOne(ctx, op, query, args...)
}

// SetBlockedAt блокирует пользователя при blockedAt != nil и разблокирует иначе.
func (s *Storage) SetBlockedAt(ctx context.Context, userUID string, blockedAt *time.Time) error {
	const op = "storage.SetBlockedAt"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	return s.execOne(ctx, op, `UPDATE users SET blocked_at = $1 WHERE id = $2`, blockedAt, userUID)
}

// DeleteUser удаляет пользователя вместе с его чатами, сообщениями и подписками.
func (s *Storage) DeleteUser(ctx context.Context, userUID string) error {
	const op = "storage.DeleteUser"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	return s.execOne(ctx, op, `DELETE FROM users WHERE id = $1`, userUID)
}

func (s *Storage) execOne(ctx context.Context, op, query string, args ...any) error {
	res, err := s.DB.ExecContext(ctx, query, args...)
	if isMissingRef(err) {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	return nil
}
