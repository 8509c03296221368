package services

import (
	"context"
	"testing"
	"time"

	"github.com/mpetrenko/ordermart/internal/application/errs"
	"github.com/mpetrenko/ordermart/internal/application/params"
	"github.com/mpetrenko/ordermart/internal/config"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
	"github.com/mpetrenko/ordermart/internal/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		PasswordHashCost: 4,
		JWT: config.JWT{
			SigningKey: "Kyoto",
			Expiration: 3 * time.Hour,
		},
	}
}

// Hash of "gopher" with cost 14.
const gopherHash = "$2a$14$exSjgqssYnKcJdJY0wJcTeqdpdrH7e4tz8wM3brPZaVtoDV/75UW6"

func TestRegister(t *testing.T) {
	t.Parallel()

	cfg := testAuthConfig()
	repo := &mockUserRepository{}

	service, err := NewAuthService(repo, cfg, newTestLogger())
	require.NoError(t, err, "failed to init service")

	ctx := context.Background()

	token, err := service.Register(ctx,
		params.NewRegister("gopher", "gopher", "Gopher", "@gopher"))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// The token must resolve back to the stored user.
	id, err := jwt.GetUserID(token, cfg.JWT.SigningKey)
	require.NoError(t, err)

	u, err := repo.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "gopher", u.Login)
	assert.Equal(t, "Gopher", u.DisplayName)
	assert.NotEqual(t, "gopher", u.Password, "password must be stored hashed")

	// Duplicate login.
	_, err = service.Register(ctx,
		params.NewRegister("gopher", "other", "Other", ""))
	assert.ErrorIs(t, err, errs.ErrAlreadyExists)

	// Repository failure.
	_, err = service.Register(ctx,
		params.NewRegister("panic", "oh-my-zsh", "Panic", ""))
	require.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		login    string
		password string
		repo     *mockUserRepository
		wantErr  error
	}{
		{
			name:     "OK",
			login:    "gopher",
			password: "gopher",
			repo: &mockUserRepository{
				items: []user.User{
					{ID: 1, Login: "gopher", Password: gopherHash},
				},
			},
			wantErr: nil,
		},
		{
			name:     "no such user",
			login:    "gopher",
			password: "gopher",
			repo:     &mockUserRepository{},
			wantErr:  errs.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			login:    "gopher",
			password: "no_gopher",
			repo: &mockUserRepository{
				items: []user.User{
					{ID: 1, Login: "gopher", Password: gopherHash},
				},
			},
			wantErr: errs.ErrInvalidCredentials,
		},
	}
	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testAuthConfig()

			service, err := NewAuthService(tt.repo, cfg, newTestLogger())
			require.NoError(t, err, "failed to init service")

			token, err := service.Login(context.Background(), tt.login, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)

			id, err := jwt.GetUserID(token, cfg.JWT.SigningKey)
			require.NoError(t, err)
			assert.Equal(t, user.ID(1), id)
		})
	}
}

func TestGetUserFromToken(t *testing.T) {
	t.Parallel()

	cfg := testAuthConfig()
	repo := &mockUserRepository{
		items: []user.User{
			{ID: 1, Login: "gopher", Password: gopherHash},
		},
	}

	service, err := NewAuthService(repo, cfg, newTestLogger())
	require.NoError(t, err, "failed to init service")

	ctx := context.Background()

	token, err := jwt.BuildString(1, cfg.JWT.SigningKey, cfg.JWT.Expiration)
	require.NoError(t, err)

	u, err := service.GetUserFromToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID(1), u.ID)
	assert.Equal(t, "gopher", u.Login)

	// Token signed with another key.
	forged, err := jwt.BuildString(1, "not-Kyoto", cfg.JWT.Expiration)
	require.NoError(t, err)

	_, err = service.GetUserFromToken(ctx, forged)
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)

	// Valid token for a user that no longer exists.
	missing, err := jwt.BuildString(999, cfg.JWT.SigningKey, cfg.JWT.Expiration)
	require.NoError(t, err)

	_, err = service.GetUserFromToken(ctx, missing)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
