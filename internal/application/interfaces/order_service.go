package interfaces

import (
	"context"

	"github.com/mpetrenko/ordermart/internal/application/params"
	"github.com/mpetrenko/ordermart/internal/domain/entities"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
)

// OrderService represents all order lifecycle actions.
type OrderService interface {
	CreateOrder(ctx context.Context, p *params.CreateOrder) (entities.OrderID, error)
	ClaimOrder(ctx context.Context, id entities.OrderID, workerID user.ID) error
	CompleteOrder(ctx context.Context, id entities.OrderID) error
	GetOrder(ctx context.Context, id entities.OrderID) (*entities.Order, error)
	GetOrdersByStatus(ctx context.Context, status entities.OrderStatus) ([]*entities.Order, error)
	GetActiveOrders(ctx context.Context, workerID user.ID) ([]*entities.Order, error)
}
