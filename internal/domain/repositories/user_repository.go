package repositories

import (
	"context"

	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
)

type UserRepository interface {
	CreateUser(ctx context.Context, login, password, displayName, handle string) (user.ID, error)
	GetUserByID(ctx context.Context, id user.ID) (*user.User, error)
	GetUserByLogin(ctx context.Context, login string) (*user.User, error)
}
