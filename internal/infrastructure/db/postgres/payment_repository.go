package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	"github.com/mpetrenko/ordermart/internal/application/errs"
	"github.com/mpetrenko/ordermart/internal/domain/entities"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
	"github.com/mpetrenko/ordermart/internal/domain/repositories"
	"github.com/mpetrenko/ordermart/pkg/logger"
	"github.com/shopspring/decimal"
)

type PaymentRepository struct {
	db     *sql.DB
	getter *trmsql.CtxGetter
	logger logger.Logger
}

func NewPaymentRepository(db *sql.DB, getter *trmsql.CtxGetter, logger logger.Logger) (*PaymentRepository, error) {
	if db == nil {
		return nil, errors.New("nil dependency: database")
	}
	if getter == nil {
		return nil, errors.New("nil dependency: transaction getter")
	}

	return &PaymentRepository{db: db, getter: getter, logger: logger}, nil
}

var _ repositories.PaymentRepository = (*PaymentRepository)(nil)

// CreatePayment inserts the unpaid companion row. Runs inside the
// order-creation transaction via the context getter.
func (r *PaymentRepository) CreatePayment(
	ctx context.Context, orderID entities.OrderID, clientID user.ID,
) error {
	const query = `
		INSERT INTO payments (order_id, client_id, status, price, paid)
		VALUES ($1, $2, $3, 0, 0);
	`

	_, err := r.getter.DefaultTrOrDB(ctx, r.db).
		ExecContext(ctx, query, orderID, clientID, entities.PaymentUnpaid)
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}

	return nil
}

func (r *PaymentRepository) GetPaymentByOrderID(
	ctx context.Context, orderID entities.OrderID,
) (*entities.Payment, error) {
	const query = `
		SELECT op_id, order_id, client_id, status, price, paid, created_at, paid_at
		FROM payments WHERE order_id = $1;
	`

	payment := new(entities.Payment)

	err := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx, query, orderID).Scan(
		&payment.OpID,
		&payment.OrderID,
		&payment.ClientID,
		&payment.Status,
		&payment.Price,
		&payment.Paid,
		&payment.CreatedAt,
		&payment.PaidAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	return payment, nil
}

func (r *PaymentRepository) SetPrice(
	ctx context.Context, orderID entities.OrderID, price decimal.Decimal,
) error {
	const query = "UPDATE payments SET price = $2 WHERE order_id = $1;"

	result, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query, orderID, price)
	if err != nil {
		return fmt.Errorf("set price: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set price: rows affected: %w", err)
	}
	if affected == 0 {
		return errs.ErrNotFound
	}

	return nil
}

// ConfirmPayment flips UNPAID -> PAID guarded by the current status.
// A duplicate confirm or an absent payment touches zero rows and
// reports false without error, so paid_at is stamped exactly once.
func (r *PaymentRepository) ConfirmPayment(
	ctx context.Context, orderID entities.OrderID,
) (bool, error) {
	const query = `
		UPDATE payments
		SET status = $2, paid = price, paid_at = NOW()
		WHERE order_id = $1 AND status = $3;
	`

	result, err := r.getter.DefaultTrOrDB(ctx, r.db).
		ExecContext(ctx, query, orderID, entities.PaymentPaid, entities.PaymentUnpaid)
	if err != nil {
		return false, fmt.Errorf("confirm payment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("confirm payment: rows affected: %w", err)
	}

	return affected == 1, nil
}

func (r *PaymentRepository) GetUnpaidByClientID(
	ctx context.Context, clientID user.ID,
) ([]*entities.UnpaidOrder, error) {
	const query = `
		SELECT p.op_id, p.order_id, p.client_id, p.status, p.price, p.paid,
			p.created_at, p.paid_at, o.subject, o.work_type, o.created_at
		FROM payments p
		JOIN orders o ON o.id = p.order_id
		WHERE p.client_id = $1 AND p.status = $2
		ORDER BY p.created_at DESC;
	`

	rows, err := r.db.QueryContext(ctx, query, clientID, entities.PaymentUnpaid)
	if err != nil {
		return nil, err
	}

	unpaid := make([]*entities.UnpaidOrder, 0)

	for rows.Next() {
		u := new(entities.UnpaidOrder)
		err = rows.Scan(
			&u.OpID,
			&u.OrderID,
			&u.ClientID,
			&u.Status,
			&u.Price,
			&u.Paid,
			&u.CreatedAt,
			&u.PaidAt,
			&u.Subject,
			&u.WorkType,
			&u.OrderCreatedAt,
		)
		if err != nil {
			return nil, err
		}

		unpaid = append(unpaid, u)
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

	return unpaid, nil
}
