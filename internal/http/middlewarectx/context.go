package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/nemtsvar/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID ключ для идентификатора пользователя из токена
	UserUID Key = "user_uid"
	// Role ключ для роли пользователя из токена
	Role Key = "role"
	// CurrentUser ключ для загруженного из базы пользователя
	CurrentUser Key = "current_user"
)

// UserFromContext возвращает пользователя, загруженного CheckUser.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(CurrentUser).(*models.User)
	return user, ok && user != nil
}

// WithUser кладёт пользователя в контекст.
func WithUser(ctx context.Context, user *models.User) context.Context {
	ctx = context.WithValue(ctx, UserUID, user.UUID)
	ctx = context.WithValue(ctx, Role, user.Role)
	return context.WithValue(ctx, CurrentUser, user)
}
