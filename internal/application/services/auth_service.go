package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mpetrenko/ordermart/internal/application/errs"
	"github.com/mpetrenko/ordermart/internal/application/interfaces"
	"github.com/mpetrenko/ordermart/internal/application/params"
	"github.com/mpetrenko/ordermart/internal/config"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
	"github.com/mpetrenko/ordermart/internal/domain/repositories"
	"github.com/mpetrenko/ordermart/internal/jwt"
	"github.com/mpetrenko/ordermart/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo repositories.UserRepository
	logger   logger.Logger
	config   *config.Config
}

func NewAuthService(
	userRepo repositories.UserRepository, config *config.Config, logger logger.Logger,
) (*AuthService, error) {
	if config == nil {
		return nil, errors.New("nil dependency: config")
	}
	return &AuthService{userRepo: userRepo, config: config, logger: logger}, nil
}

var _ interfaces.AuthService = (*AuthService)(nil)

// Register creates a user and returns an authentication token.
func (s *AuthService) Register(ctx context.Context, p *params.Register) (string, error) {
	hashPassword, err := bcrypt.GenerateFromPassword(
		[]byte(p.Password), s.config.PasswordHashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	id, err := s.userRepo.CreateUser(ctx, p.Login, string(hashPassword), p.DisplayName, p.Handle)
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	return jwt.BuildString(id, s.config.JWT.SigningKey, s.config.JWT.Expiration)
}

// Login checks the credentials and returns an authentication token.
func (s *AuthService) Login(ctx context.Context, login, password string) (string, error) {
	u, err := s.userRepo.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return "", fmt.Errorf("%w: user with login %q not found",
				errs.ErrInvalidCredentials, login)
		}
		return "", fmt.Errorf("get user %q: %w", login, err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", fmt.Errorf("%w: password", errs.ErrInvalidCredentials)
		}
		return "", fmt.Errorf("compare passwords: %w", err)
	}

	return jwt.BuildString(u.ID, s.config.JWT.SigningKey, s.config.JWT.Expiration)
}

// GetUserFromToken resolves the token into a stored user.
func (s *AuthService) GetUserFromToken(ctx context.Context, token string) (*user.User, error) {
	userID, err := jwt.GetUserID(token, s.config.JWT.SigningKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCredentials, err)
	}

	u, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}

	return u, nil
}
