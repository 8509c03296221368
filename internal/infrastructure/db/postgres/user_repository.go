package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mpetrenko/ordermart/internal/application/errs"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
	"github.com/mpetrenko/ordermart/internal/domain/repositories"
	"github.com/mpetrenko/ordermart/pkg/logger"
)

type UserRepository struct {
	db     *sql.DB
	getter *trmsql.CtxGetter
	logger logger.Logger
}

func NewUserRepository(db *sql.DB, getter *trmsql.CtxGetter, logger logger.Logger) (*UserRepository, error) {
	if db == nil {
		return nil, errors.New("nil dependency: database")
	}
	if getter == nil {
		return nil, errors.New("nil dependency: transaction getter")
	}

	return &UserRepository{db: db, getter: getter, logger: logger}, nil
}

var _ repositories.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) CreateUser(
	ctx context.Context, login, password, displayName, handle string,
) (user.ID, error) {
	const query = `
		INSERT INTO users (login, password, display_name, handle)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`

	var id user.ID

	err := r.getter.DefaultTrOrDB(ctx, r.db).
		QueryRowContext(ctx, query, login, password, displayName, handle).
		Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return -1, &errs.AlreadyExistsError{FieldName: "login"}
		}
		return -1, fmt.Errorf("create user: %w", err)
	}

	return id, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id user.ID) (*user.User, error) {
	const query = `
		SELECT id, login, password, display_name, handle, created_at, updated_at
		FROM users WHERE id = $1;
	`

	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetUserByLogin(ctx context.Context, login string) (*user.User, error) {
	const query = `
		SELECT id, login, password, display_name, handle, created_at, updated_at
		FROM users WHERE login = $1;
	`

	return r.scanUser(r.db.QueryRowContext(ctx, query, login))
}

func (r *UserRepository) scanUser(row *sql.Row) (*user.User, error) {
	u := new(user.User)

	err := row.Scan(
		&u.ID,
		&u.Login,
		&u.Password,
		&u.DisplayName,
		&u.Handle,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	return u, nil
}
