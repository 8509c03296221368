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
	"github.com/mpetrenko/ordermart/internal/domain/entities"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
	"github.com/mpetrenko/ordermart/internal/domain/repositories"
	"github.com/mpetrenko/ordermart/pkg/logger"
)

type OrderRepository struct {
	db     *sql.DB
	getter *trmsql.CtxGetter
	logger logger.Logger
}

func NewOrderRepository(db *sql.DB, getter *trmsql.CtxGetter, logger logger.Logger) (*OrderRepository, error) {
	if db == nil {
		return nil, errors.New("nil dependency: database")
	}
	if getter == nil {
		return nil, errors.New("nil dependency: transaction getter")
	}

	return &OrderRepository{db: db, getter: getter, logger: logger}, nil
}

var _ repositories.OrderRepository = (*OrderRepository)(nil)

// CreateOrder inserts the order with the next sequential zero-padded
// id, allocated and written in a single statement. A concurrent create
// racing for the same id trips the primary key and surfaces as
// errs.ErrDataConflict so the caller may retry.
func (r *OrderRepository) CreateOrder(
	ctx context.Context, order *entities.Order,
) (entities.OrderID, error) {
	const query = `
		INSERT INTO orders (id, client_id, subject, work_type, details, status, created_at)
		SELECT lpad((COALESCE(MAX(id)::integer, 0) + 1)::text, $1, '0'),
			$2, $3, $4, $5, $6, NOW()
		FROM orders
		RETURNING id;
	`

	var id entities.OrderID

	err := r.getter.DefaultTrOrDB(ctx, r.db).
		QueryRowContext(ctx, query,
			entities.OrderIDWidth,
			order.ClientID,
			order.Subject,
			order.WorkType,
			order.Details,
			entities.StatusNew,
		).
		Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return "", errs.ErrDataConflict
		}
		return "", fmt.Errorf("create order: %w", err)
	}

	return id, nil
}

func (r *OrderRepository) GetOrderByID(
	ctx context.Context, id entities.OrderID,
) (*entities.Order, error) {
	const query = `
		SELECT id, client_id, worker_id, subject, work_type, details,
			status, created_at, taken_at, completed_at, updated_at
		FROM orders WHERE id = $1;
	`

	order := new(entities.Order)

	err := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.ClientID,
		&order.WorkerID,
		&order.Subject,
		&order.WorkType,
		&order.Details,
		&order.Status,
		&order.CreatedAt,
		&order.TakenAt,
		&order.CompletedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	return order, nil
}

// ClaimOrder is the single conditional update arbitrating concurrent
// claims: the WHERE clause checks the NEW status, rows affected is the
// source of truth for who won.
func (r *OrderRepository) ClaimOrder(
	ctx context.Context, id entities.OrderID, workerID user.ID,
) error {
	const query = `
		UPDATE orders
		SET worker_id = $2, status = $3, taken_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = $4;
	`

	result, err := r.getter.DefaultTrOrDB(ctx, r.db).
		ExecContext(ctx, query, id, workerID, entities.StatusInProgress, entities.StatusNew)
	if err != nil {
		return fmt.Errorf("claim order: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("claim order: rows affected: %w", err)
	}
	if affected == 1 {
		return nil
	}

	// Zero rows: either the order never existed or somebody else won.
	return r.explainZeroRows(ctx, id, errs.ErrOrderTaken)
}

// CompleteOrder transitions IN_PROGRESS -> COMPLETED with the same
// guarded-update discipline.
func (r *OrderRepository) CompleteOrder(ctx context.Context, id entities.OrderID) error {
	const query = `
		UPDATE orders
		SET status = $2, completed_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = $3;
	`

	result, err := r.getter.DefaultTrOrDB(ctx, r.db).
		ExecContext(ctx, query, id, entities.StatusCompleted, entities.StatusInProgress)
	if err != nil {
		return fmt.Errorf("complete order: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete order: rows affected: %w", err)
	}
	if affected == 1 {
		return nil
	}

	return r.explainZeroRows(ctx, id, errs.ErrInvalidTransition)
}

// explainZeroRows distinguishes a missing row from a lost race after a
// conditional update touched nothing. The follow-up read never
// substitutes for the guard, it only picks the error to return.
func (r *OrderRepository) explainZeroRows(
	ctx context.Context, id entities.OrderID, conflict error,
) error {
	var status entities.OrderStatus

	err := r.getter.DefaultTrOrDB(ctx, r.db).
		QueryRowContext(ctx, "SELECT status FROM orders WHERE id = $1", id).
		Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errs.ErrNotFound
		}
		return err
	}

	return fmt.Errorf("%w: order %s is %s", conflict, id, status)
}

func (r *OrderRepository) GetOrdersByStatus(
	ctx context.Context, status entities.OrderStatus,
) ([]*entities.Order, error) {
	const query = `
		SELECT id, client_id, worker_id, subject, work_type, details,
			status, created_at, taken_at, completed_at, updated_at
		FROM orders
		WHERE status = $1
		ORDER BY created_at DESC;
	`

	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}

	return r.scanOrders(rows)
}

// GetActiveOrdersByWorkerID returns the worker's own IN_PROGRESS
// orders first, then the unclaimed NEW pool, each tier newest first.
func (r *OrderRepository) GetActiveOrdersByWorkerID(
	ctx context.Context, workerID user.ID,
) ([]*entities.Order, error) {
	const query = `
		SELECT id, client_id, worker_id, subject, work_type, details,
			status, created_at, taken_at, completed_at, updated_at
		FROM orders
		WHERE (worker_id = $1 AND status = $2) OR status = $3
		ORDER BY status DESC, created_at DESC;
	`

	rows, err := r.db.QueryContext(ctx, query,
		workerID, entities.StatusInProgress, entities.StatusNew)
	if err != nil {
		return nil, err
	}

	return r.scanOrders(rows)
}

func (r *OrderRepository) scanOrders(rows *sql.Rows) ([]*entities.Order, error) {
	orders := make([]*entities.Order, 0)

	var err error

	for rows.Next() {
		order := new(entities.Order)
		err = rows.Scan(
			&order.ID,
			&order.ClientID,
			&order.WorkerID,
			&order.Subject,
			&order.WorkType,
			&order.Details,
			&order.Status,
			&order.CreatedAt,
			&order.TakenAt,
			&order.CompletedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		orders = append(orders, order)
	}

	defer func() {
		if err = rows.Close(); err != nil {
			r.logger.Errorf("close rows: %s", err)
		}
	}()

	// Rows.Err will report the last error encountered by Rows.Scan.
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
