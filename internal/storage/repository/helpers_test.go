package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/nemtsvar/internal/migrations"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя и возвращает его id
func (f *TestDataFactory) CreateUser(t *testing.T, email, role string, freeQuestions int) string {
	var id string
	err := f.storage.DB.QueryRow(`INSERT INTO users (email, password_hash, role, free_questions_remaining)
		VALUES ($1, 'hash', $2, $3) RETURNING id`, email, role, freeQuestions).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateSubscription создает запись подписки провайдера
func (f *TestDataFactory) CreateSubscription(t *testing.T, userUID, providerID, status string, updatedAt time.Time) {
	_, err := f.storage.DB.Exec(`INSERT INTO subscriptions
		(user_id, provider, provider_subscription_id, status, current_period_end, updated_at)
		VALUES ($1, 'stripe', $2, $3, $4, $5)`,
		userUID, providerID, status, updatedAt.AddDate(0, 1, 0), updatedAt)
	require.NoError(t, err)
}

// CreateMessageAt добавляет сообщение с явным временем
func (f *TestDataFactory) CreateMessageAt(t *testing.T, chatID, role, content string, at time.Time) {
	_, err := f.storage.DB.Exec(`INSERT INTO messages (chat_id, role, content, created_at)
		VALUES ($1, $2, $3, $4)`, chatID, role, content, at)
	require.NoError(t, err)
}

func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)

	projectRoot, err := filepath.Abs("../../..")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, filepath.Join(projectRoot, "migrations")))

	cleanup := func() {
		_ = storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return storage, cleanup
}
