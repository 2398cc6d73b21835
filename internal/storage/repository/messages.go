package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/nemtsvar/internal/models"
	"github.com/magabrotheeeer/nemtsvar/internal/storage"
)

// CountMessages возвращает число сообщений заданной роли в чате.
func (s *Storage) CountMessages(ctx context.Context, chatID string, role models.MessageRole) (int, error) {
	const op = "storage.CountMessages"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages WHERE chat_id = $1 AND role = $2`,
		chatID, string(role)).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// CountMessagesByRole возвращает число сообщений чата по обеим ролям.
func (s *Storage) CountMessagesByRole(ctx context.Context, chatID string) (models.RoleCounts, error) {
	const op = "storage.CountMessagesByRole"
	if err := checkCtx(ctx, op); err != nil {
		return models.RoleCounts{}, err
	}

	counts, err := countByRole(ctx, s.DB, chatID)
	if err != nil {
		return models.RoleCounts{}, fmt.Errorf("%s: %w", op, err)
	}
	return counts, nil
}

func countByRole(ctx context.Context, db queryRower, chatID string) (models.RoleCounts, error) {
	var c models.RoleCounts
	err := db.QueryRowContext(ctx, `SELECT
			      COUNT(*) FILTER (WHERE role = 'user'),
			      COUNT(*) FILTER (WHERE role = 'assistant')
			  FROM messages
			  WHERE chat_id = $1`, chatID).Scan(&c.User, &c.Assistant)
	return c, err
}

func insertMessage(ctx context.Context, db queryRower, chatID string, role models.MessageRole, content string) (*models.Message, error) {
	msg := &models.Message{ChatID: chatID, Role: role, Content: content}
	err := db.QueryRowContext(ctx, `INSERT INTO messages (chat_id, role, content)
			  VALUES ($1, $2, $3)
			  RETURNING id, created_at`, chatID, string(role), content).Scan(&msg.ID, &msg.CreatedAt)
	if isMissingRef(err) {
		return nil, storage.ErrChatNotFound
	}
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// AppendMessage добавляет сообщение в чат. Время проставляется в момент вставки.
func (s *Storage) AppendMessage(ctx context.Context, chatID string, role models.MessageRole, content string) (*models.Message, error) {
	const op = "storage.AppendMessage"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	msg, err := insertMessage(ctx, s.DB, chatID, role, content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return msg, nil
}

// AppendMessageGuarded блокирует строку чата, считает сообщения по ролям и
// добавляет сообщение, только если guard вернул nil. Ошибка guard
// возвращается как есть, обёрнутая op.
func (s *Storage) AppendMessageGuarded(ctx context.Context, chatID string, role models.MessageRole, content string,
	guard func(models.RoleCounts) error) (*models.Message, error) {
	const op = "storage.AppendMessageGuarded"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var msg *models.Message
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var id string
		err := tx.QueryRowContext(ctx, `SELECT id FROM chats WHERE id = $1 FOR UPDATE`, chatID).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) || isMissingRef(err) {
			return storage.ErrChatNotFound
		}
		if err != nil {
			return err
		}

		counts, err := countByRole(ctx, tx, chatID)
		if err != nil {
			return err
		}
		if err = guard(counts); err != nil {
			return err
		}

		msg, err = insertMessage(ctx, tx, chatID, role, content)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return msg, nil
}

// ListMessages возвращает страницу сообщений чата по возрастанию времени и их общее число.
func (s *Storage) ListMessages(ctx context.Context, chatID string, limit, offset int) ([]*models.Message, int, error) {
	const op = "storage.ListMessages"
	if err := checkCtx(ctx, op); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id, chat_id, role, content, created_at
			  FROM messages
			  WHERE chat_id = $1
			  ORDER BY created_at ASC, id ASC
			  LIMIT $2 OFFSET $3`, chatID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []*models.Message{}
	for rows.Next() {
		m := &models.Message{}
		var role string
		if err = rows.Scan(&m.ID, &m.ChatID, &role, &m.Content, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		m.Role = models.MessageRole(role)
		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	var total int
	if err = s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages WHERE chat_id = $1`, chatID).
		Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}
