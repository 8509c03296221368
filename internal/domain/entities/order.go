package entities

import (
	"time"

	"github.com/mpetrenko/ordermart/internal/application/errs"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
)

// OrderStatus is a closed set of order lifecycle states. Stored as an
// integer column; the numeric values are part of the persisted format
// and must not be reordered.
type OrderStatus int

const (
	StatusNew OrderStatus = iota + 1
	StatusInProgress
	StatusCompleted
	StatusCancelled
	StatusPendingConfirmation
)

func (s OrderStatus) String() string {
	switch s {
	case StatusNew:
		return "NEW"
	case StatusInProgress:
		return "IN_PROGRESS"
	case StatusCompleted:
		return "COMPLETED"
	case StatusCancelled:
		return "CANCELLED"
	case StatusPendingConfirmation:
		return "PENDING_CONFIRMATION"
	}
	return "UNKNOWN"
}

// Valid reports whether s is a member of the closed set.
func (s OrderStatus) Valid() bool {
	return s >= StatusNew && s <= StatusPendingConfirmation
}

// OrderIDWidth is the fixed width of the zero-padded order identifier.
const OrderIDWidth = 6

// OrderID is a sequential, zero-padded order identifier ("000042").
type OrderID string

// NewOrderID creates a selfvalidating order id from raw input.
func NewOrderID(raw string) (OrderID, error) {
	if len(raw) != OrderIDWidth {
		return "", errs.ErrInvalidRequest
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return "", errs.ErrInvalidRequest
		}
	}
	return OrderID(raw), nil
}

// Order is a unit of requested work. WorkerID is set if and only if
// the order has been claimed (status IN_PROGRESS or later).
type Order struct {
	CreatedAt   time.Time    `db:"created_at"`
	TakenAt     *time.Time   `db:"taken_at"`
	CompletedAt *time.Time   `db:"completed_at"`
	UpdatedAt   *time.Time   `db:"updated_at"`
	WorkerID    *user.ID     `db:"worker_id"`
	ID          OrderID      `db:"id"`
	Subject     string       `db:"subject"`
	WorkType    string       `db:"work_type"`
	Details     string       `db:"details"`
	ClientID    user.ID      `db:"client_id"`
	Status      OrderStatus  `db:"status"`
}

func NewOrder(clientID user.ID, subject, workType, details string) *Order {
	return &Order{
		ClientID: clientID,
		Subject:  subject,
		WorkType: workType,
		Details:  details,
		Status:   StatusNew,
	}
}

// Active reports whether the order still occupies a worker slot.
func (o *Order) Active() bool {
	return o.Status == StatusNew || o.Status == StatusInProgress
}
