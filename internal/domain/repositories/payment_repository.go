package repositories

import (
	"context"

	"github.com/mpetrenko/ordermart/internal/domain/entities"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
	"github.com/shopspring/decimal"
)

// PaymentRepository persists payment reconciliation state.
type PaymentRepository interface {
	// CreatePayment inserts the unpaid companion row with zero price.
	// Called inside the same transaction as the order insert.
	CreatePayment(ctx context.Context, orderID entities.OrderID, clientID user.ID) error
	GetPaymentByOrderID(ctx context.Context, orderID entities.OrderID) (*entities.Payment, error)
	SetPrice(ctx context.Context, orderID entities.OrderID, price decimal.Decimal) error
	// ConfirmPayment transitions UNPAID -> PAID guarded by the current
	// status. Returns false without error when the payment is already
	// paid or absent.
	ConfirmPayment(ctx context.Context, orderID entities.OrderID) (bool, error)
	GetUnpaidByClientID(ctx context.Context, clientID user.ID) ([]*entities.UnpaidOrder, error)
}
