package repositories

import (
	"context"

	"github.com/mpetrenko/ordermart/internal/domain/entities"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
)

// OrderRepository persists the order lifecycle. Claim and Complete are
// single conditional updates: the repository inspects rows affected
// and never does a read-then-write status check.
type OrderRepository interface {
	// CreateOrder allocates the next sequential id, inserts the order
	// in NEW state and returns the assigned id.
	CreateOrder(ctx context.Context, order *entities.Order) (entities.OrderID, error)
	GetOrderByID(ctx context.Context, id entities.OrderID) (*entities.Order, error)
	// ClaimOrder transitions NEW -> IN_PROGRESS setting the worker.
	// Exactly one concurrent caller succeeds; the rest get
	// errs.ErrOrderTaken (or errs.ErrNotFound if no such order).
	ClaimOrder(ctx context.Context, id entities.OrderID, workerID user.ID) error
	// CompleteOrder transitions IN_PROGRESS -> COMPLETED.
	CompleteOrder(ctx context.Context, id entities.OrderID) error
	GetOrdersByStatus(ctx context.Context, status entities.OrderStatus) ([]*entities.Order, error)
	// GetActiveOrdersByWorkerID returns the worker's IN_PROGRESS
	// orders followed by the unclaimed NEW pool, each tier newest
	// first.
	GetActiveOrdersByWorkerID(ctx context.Context, workerID user.ID) ([]*entities.Order, error)
}
