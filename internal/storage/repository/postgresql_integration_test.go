package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/nemtsvar/internal/models"
	"github.com/magabrotheeeer/nemtsvar/internal/services/entitlement"
	"github.com/magabrotheeeer/nemtsvar/internal/storage"
)

func TestStorage_Users(t *testing.T) {
	s, cleanup := setupTestDatabase(t)
	defer cleanup()
	f := NewTestDataFactory(s)
	ctx := context.Background()

	uid := f.CreateUser(t, "user@example.com", "user", 1)

	t.Run("get user", func(t *testing.T) {
		u, err := s.GetUser(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", u.Email)
		assert.Equal(t, 1, u.FreeQuestionsRemaining)
		assert.Nil(t, u.BlockedAt)
		assert.Nil(t, u.FreePeriodEndsAt)
	})

	t.Run("unknown and malformed ids", func(t *testing.T) {
		_, err := s.GetUser(ctx, uuid.NewString())
		assert.ErrorIs(t, err, storage.ErrUserNotFound)
		_, err = s.GetUser(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, storage.ErrUserNotFound)
	})

	t.Run("update entitlements", func(t *testing.T) {
		five := 5
		ends := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)
		require.NoError(t, s.UpdateEntitlements(ctx, uid, models.EntitlementsUpdate{
			FreeQuestionsRemaining: &five,
			FreePeriodEndsAt:       &ends,
		}))
		u, err := s.GetUser(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, 5, u.FreeQuestionsRemaining)
		require.NotNil(t, u.FreePeriodEndsAt)
		assert.True(t, ends.Equal(*u.FreePeriodEndsAt))

		require.NoError(t, s.UpdateEntitlements(ctx, uid, models.EntitlementsUpdate{ClearFreePeriod: true}))
		u, err = s.GetUser(ctx, uid)
		require.NoError(t, err)
		assert.Nil(t, u.FreePeriodEndsAt)
		assert.Equal(t, 5, u.FreeQuestionsRemaining)

		zero := 0
		err = s.UpdateEntitlements(ctx, uuid.NewString(), models.EntitlementsUpdate{FreeQuestionsRemaining: &zero})
		assert.ErrorIs(t, err, storage.ErrUserNotFound)
	})

	t.Run("block and unblock", func(t *testing.T) {
		now := time.Now()
		require.NoError(t, s.SetBlockedAt(ctx, uid, &now))
		u, err := s.GetUser(ctx, uid)
		require.NoError(t, err)
		assert.True(t, u.IsBlocked())

		require.NoError(t, s.SetBlockedAt(ctx, uid, nil))
		u, err = s.GetUser(ctx, uid)
		require.NoError(t, err)
		assert.False(t, u.IsBlocked())
	})

	t.Run("list and delete", func(t *testing.T) {
		other := f.CreateUser(t, "other@example.com", "admin", 0)
		users, err := s.ListUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 2)

		require.NoError(t, s.DeleteUser(ctx, other))
		assert.ErrorIs(t, s.DeleteUser(ctx, other), storage.ErrUserNotFound)
	})
}

func TestStorage_GetLatestSubscription(t *testing.T) {
	s, cleanup := setupTestDatabase(t)
	defer cleanup()
	f := NewTestDataFactory(s)
	ctx := context.Background()

	uid := f.CreateUser(t, "sub@example.com", "user", 0)

	sub, err := s.GetLatestSubscription(ctx, uid)
	require.NoError(t, err)
	assert.Nil(t, sub)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f.CreateSubscription(t, uid, "sub_old", "active", base)
	f.CreateSubscription(t, uid, "sub_new", "canceled", base.Add(time.Hour))

	sub, err = s.GetLatestSubscription(ctx, uid)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, "sub_new", sub.ProviderSubscriptionID)
	assert.Equal(t, "canceled", sub.Status)
	require.NotNil(t, sub.CurrentPeriodEnd)
}

func TestStorage_FreeQuestionLedger(t *testing.T) {
	s, cleanup := setupTestDatabase(t)
	defer cleanup()
	f := NewTestDataFactory(s)
	ctx := context.Background()

	uid := f.CreateUser(t, "free@example.com", "user", 1)

	chat, err := s.CreateFreeChat(ctx, uid)
	require.NoError(t, err)
	assert.True(t, chat.IsFree)
	assert.NotEmpty(t, chat.ID)

	u, err := s.GetUser(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 0, u.FreeQuestionsRemaining)

	_, err = s.CreateFreeChat(ctx, uid)
	assert.ErrorIs(t, err, storage.ErrNoFreeQuestions)

	chats, total, err := s.ListChats(ctx, uid, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, chats, 1)

	ok, err := s.DecrementFreeQuestions(ctx, uid)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStorage_CreateFreeChatConcurrently(t *testing.T) {
	s, cleanup := setupTestDatabase(t)
	defer cleanup()
	f := NewTestDataFactory(s)
	ctx := context.Background()

	uid := f.CreateUser(t, "race@example.com", "user", 1)

	const workers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.CreateFreeChat(ctx, uid); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	u, err := s.GetUser(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 0, u.FreeQuestionsRemaining)
}

func TestStorage_ChatsAndMessages(t *testing.T) {
	s, cleanup := setupTestDatabase(t)
	defer cleanup()
	f := NewTestDataFactory(s)
	ctx := context.Background()

	owner := f.CreateUser(t, "owner@example.com", "user", 0)
	stranger := f.CreateUser(t, "stranger@example.com", "user", 0)

	older, err := s.CreateChat(ctx, owner, false)
	require.NoError(t, err)
	newer, err := s.CreateChat(ctx, owner, false)
	require.NoError(t, err)

	t.Run("ownership", func(t *testing.T) {
		got, err := s.GetChat(ctx, older.ID, owner)
		require.NoError(t, err)
		assert.False(t, got.IsFree)

		_, err = s.GetChat(ctx, older.ID, stranger)
		assert.ErrorIs(t, err, storage.ErrChatNotFound)
		_, err = s.GetChat(ctx, "garbage", owner)
		assert.ErrorIs(t, err, storage.ErrChatNotFound)
	})

	t.Run("append and count", func(t *testing.T) {
		msg, err := s.AppendMessage(ctx, older.ID, models.MessageRoleUser, "hello")
		require.NoError(t, err)
		assert.Equal(t, older.ID, msg.ChatID)
		assert.False(t, msg.CreatedAt.IsZero())

		n, err := s.CountMessages(ctx, older.ID, models.MessageRoleUser)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		counts, err := s.CountMessagesByRole(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RoleCounts{User: 1}, counts)

		_, err = s.AppendMessage(ctx, uuid.NewString(), models.MessageRoleUser, "x")
		assert.ErrorIs(t, err, storage.ErrChatNotFound)
	})

	t.Run("list orders by last activity", func(t *testing.T) {
		chats, total, err := s.ListChats(ctx, owner, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, chats, 2)
		assert.Equal(t, older.ID, chats[0].ID, "chat with a fresh message comes first")
		require.NotNil(t, chats[0].LastMessage)
		assert.Equal(t, "hello", *chats[0].LastMessage)
		assert.Equal(t, 1, chats[0].MessageCount)
		assert.Equal(t, newer.ID, chats[1].ID)
		assert.Nil(t, chats[1].LastMessage)

		page, total, err := s.ListChats(ctx, owner, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, page, 1)
	})

	t.Run("messages ascending", func(t *testing.T) {
		base := time.Now().Add(-time.Hour)
		f.CreateMessageAt(t, newer.ID, "assistant", "second", base.Add(time.Minute))
		f.CreateMessageAt(t, newer.ID, "user", "first", base)

		msgs, total, err := s.ListMessages(ctx, newer.ID, 100, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, msgs, 2)
		assert.Equal(t, "first", msgs[0].Content)
		assert.Equal(t, models.MessageRoleAssistant, msgs[1].Role)
	})

	t.Run("cascade on user delete", func(t *testing.T) {
		require.NoError(t, s.DeleteUser(ctx, owner))
		var n int
		require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&n))
		assert.Equal(t, 0, n)
	})
}

func TestStorage_AppendMessageGuarded(t *testing.T) {
	s, cleanup := setupTestDatabase(t)
	defer cleanup()
	f := NewTestDataFactory(s)
	ctx := context.Background()

	uid := f.CreateUser(t, "guard@example.com", "user", 1)
	chat, err := s.CreateFreeChat(ctx, uid)
	require.NoError(t, err)

	post := func(role models.MessageRole) error {
		_, err := s.AppendMessageGuarded(ctx, chat.ID, role, "text", entitlement.FreeMessageGuard(role))
		return err
	}

	assert.ErrorIs(t, post(models.MessageRoleAssistant), entitlement.ErrNoUserMessageYet)
	require.NoError(t, post(models.MessageRoleUser))
	assert.ErrorIs(t, post(models.MessageRoleUser), entitlement.ErrFreeQuestionExhausted)
	require.NoError(t, post(models.MessageRoleAssistant))
	assert.ErrorIs(t, post(models.MessageRoleAssistant), entitlement.ErrFreeQuestionExhausted)

	counts, err := s.CountMessagesByRole(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCounts{User: 1, Assistant: 1}, counts)

	_, err = s.AppendMessageGuarded(ctx, uuid.NewString(), models.MessageRoleUser, "x",
		entitlement.FreeMessageGuard(models.MessageRoleUser))
	assert.ErrorIs(t, err, storage.ErrChatNotFound)
}

func TestStorage_AppendMessageGuardedConcurrently(t *testing.T) {
	s, cleanup := setupTestDatabase(t)
	defer cleanup()
	f := NewTestDataFactory(s)
	ctx := context.Background()

	uid := f.CreateUser(t, "guard-race@example.com", "user", 1)
	chat, err := s.CreateFreeChat(ctx, uid)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.AppendMessageGuarded(ctx, chat.ID, models.MessageRoleUser, "q",
				entitlement.FreeMessageGuard(models.MessageRoleUser))
		}()
	}
	wg.Wait()

	n, err := s.CountMessages(ctx, chat.ID, models.MessageRoleUser)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
