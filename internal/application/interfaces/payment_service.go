package interfaces

import (
	"context"

	"github.com/mpetrenko/ordermart/internal/domain/entities"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
	"github.com/shopspring/decimal"
)

// PaymentService represents all payment reconciliation actions.
type PaymentService interface {
	SetPrice(ctx context.Context, orderID entities.OrderID, price decimal.Decimal) error
	GetUnpaidOrders(ctx context.Context, clientID user.ID) ([]*entities.UnpaidOrder, error)
	// ConfirmPayment reports whether this call performed the
	// UNPAID -> PAID transition. False means already paid or absent.
	ConfirmPayment(ctx context.Context, orderID entities.OrderID) (bool, error)
	// RejectPayment produces the re-verify notification intent without
	// touching stored state.
	RejectPayment(ctx context.Context, orderID entities.OrderID) (*entities.Notification, error)
}
