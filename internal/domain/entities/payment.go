package entities

import (
	"time"

	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
	"github.com/shopspring/decimal"
)

// PaymentStatus models the one-way UNPAID -> PAID transition. A reject
// is a notification-only event and never flips the stored status back.
type PaymentStatus int

const (
	PaymentUnpaid PaymentStatus = iota
	PaymentPaid
)

func (s PaymentStatus) String() string {
	if s == PaymentPaid {
		return "PAID"
	}
	return "UNPAID"
}

// Payment is the 1:1 companion record of an Order, created in the same
// transaction. Price stays zero until the admin sets it.
type Payment struct {
	CreatedAt time.Time       `db:"created_at"`
	PaidAt    *time.Time      `db:"paid_at"`
	OrderID   OrderID         `db:"order_id"`
	Price     decimal.Decimal `db:"price"`
	Paid      decimal.Decimal `db:"paid"`
	OpID      int64           `db:"op_id"`
	ClientID  user.ID         `db:"client_id"`
	Status    PaymentStatus   `db:"status"`
}

// Outstanding is the amount still owed: the full price while unpaid,
// zero once confirmed.
func (p *Payment) Outstanding() decimal.Decimal {
	if p.Status == PaymentPaid {
		return decimal.Zero
	}
	return p.Price
}

// UnpaidOrder is the read-side join of a Payment with the display
// fields of its Order.
type UnpaidOrder struct {
	Payment
	Subject        string    `db:"subject"`
	WorkType       string    `db:"work_type"`
	OrderCreatedAt time.Time `db:"order_created_at"`
}
