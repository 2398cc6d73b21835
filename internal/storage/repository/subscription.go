package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/nemtsvar/internal/models"
)

// GetLatestSubscription возвращает подписку пользователя с наибольшим updated_at
// или nil, если подписок нет.
func (s *Storage) GetLatestSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.GetLatestSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, user_id, provider, provider_subscription_id,
			      COALESCE(provider_customer_id, ''), status, current_period_end,
			      created_at, updated_at
			  FROM subscriptions
			  WHERE user_id = $1
			  ORDER BY updated_at DESC
			  LIMIT 1`
	sub := &models.Subscription{}
	var periodEnd sql.NullTime
	err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&sub.ID, &sub.UserUID, &sub.Provider,
		&sub.ProviderSubscriptionID, &sub.ProviderCustomerID, &sub.Status, &periodEnd,
		&sub.CreatedAt, &sub.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) || isMissingRef(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if periodEnd.Valid {
		sub.CurrentPeriodEnd = &periodEnd.Time
	}
	return sub, nil
}
