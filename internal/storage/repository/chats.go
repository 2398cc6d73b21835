package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/nemtsvar/internal/models"
	"github.com/magabrotheeeer/nemtsvar/internal/storage"
)

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertChat(ctx context.Context, db queryRower, userUID string, isFree bool) (*models.Chat, error) {
	chat := &models.Chat{UserUID: userUID, IsFree: isFree}
	err := db.QueryRowContext(ctx, `INSERT INTO chats (user_id, is_free)
			  VALUES ($1, $2)
			  RETURNING id, created_at`, userUID, isFree).Scan(&chat.ID, &chat.CreatedAt)
	if isMissingRef(err) {
		return nil, storage.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// CreateChat создает чат пользователя с заданным признаком бесплатности.
func (s *Storage) CreateChat(ctx context.Context, userUID string, isFree bool) (*models.Chat, error) {
	const op = "storage.CreateChat"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	chat, err := insertChat(ctx, s.DB, userUID, isFree)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return chat, nil
}

// CreateFreeChat в одной транзакции списывает бесплатный вопрос и создает
// бесплатный чат. Если счётчик уже нулевой, чат не создается и
// возвращается storage.ErrNoFreeQuestions.
func (s *Storage) CreateFreeChat(ctx context.Context, userUID string) (*models.Chat, error) {
	const op = "storage.CreateFreeChat"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var chat *models.Chat
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := decrementFreeQuestions(ctx, tx, userUID)
		if err != nil {
			return err
		}
		if !ok {
			return storage.ErrNoFreeQuestions
		}
		chat, err = insertChat(ctx, tx, userUID, true)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return chat, nil
}

// GetChat возвращает чат, если он принадлежит пользователю.
func (s *Storage) GetChat(ctx context.Context, chatID, userUID string) (*models.Chat, error) {
	const op = "storage.GetChat"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	chat := &models.Chat{}
	err := s.DB.QueryRowContext(ctx, `SELECT id, user_id, created_at, is_free
			  FROM chats
			  WHERE id = $1 AND user_id = $2`, chatID, userUID).
		Scan(&chat.ID, &chat.UserUID, &chat.CreatedAt, &chat.IsFree)
	if errors.Is(err, sql.ErrNoRows) || isMissingRef(err) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrChatNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return chat, nil
}

// ListChats возвращает страницу чатов пользователя с последним сообщением,
// отсортированную по времени последней активности, и общее число чатов.
func (s *Storage) ListChats(ctx context.Context, userUID string, limit, offset int) ([]*models.ChatSummary, int, error) {
	const op = "storage.ListChats"
	if err := checkCtx(ctx, op); err != nil {
		return nil, 0, err
	}

	query := `SELECT c.id, c.created_at, c.is_free, lm.content, lm.created_at, mc.cnt
			  FROM chats c
			  LEFT JOIN LATERAL (
			      SELECT m.content, m.created_at
			      FROM messages m
			      WHERE m.chat_id = c.id
			      ORDER BY m.created_at DESC, m.id DESC
			      LIMIT 1
			  ) lm ON TRUE
			  LEFT JOIN LATERAL (
			      SELECT COUNT(*) AS cnt FROM messages m WHERE m.chat_id = c.id
			  ) mc ON TRUE
			  WHERE c.user_id = $1
			  ORDER BY COALESCE(lm.created_at, c.created_at) DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []*models.ChatSummary{}
	for rows.Next() {
		c := &models.ChatSummary{}
		var lastMessage sql.NullString
		var lastMessageAt sql.NullTime
		if err = rows.Scan(&c.ID, &c.CreatedAt, &c.IsFree, &lastMessage, &lastMessageAt, &c.MessageCount); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		if lastMessage.Valid {
			c.LastMessage = &lastMessage.String
		}
		if lastMessageAt.Valid {
			c.LastMessageAt = &lastMessageAt.Time
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	var total int
	if err = s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM chats WHERE user_id = $1`, userUID).
		Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}
