package entities

import (
	"github.com/golang-jwt/jwt/v4"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
)

type AuthClaims struct {
	jwt.RegisteredClaims
	UserID user.ID
}
