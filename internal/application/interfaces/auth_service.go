package interfaces

import (
	"context"

	"github.com/mpetrenko/ordermart/internal/application/params"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
)

// AuthService represents registration, login and token resolution.
type AuthService interface {
	Register(ctx context.Context, p *params.Register) (token string, err error)
	Login(ctx context.Context, login, password string) (token string, err error)
	GetUserFromToken(ctx context.Context, token string) (*user.User, error)
}
