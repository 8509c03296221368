package response

import (
	"time"

	"github.com/mpetrenko/ordermart/internal/domain/entities"
)

type GetUnpaidOrder struct {
	OrderCreatedAt time.Time        `json:"order_created_at"`
	OrderID        entities.OrderID `json:"order_id"`
	Subject        string           `json:"subject"`
	WorkType       string           `json:"work_type"`
	Price          float64          `json:"price"`
	Owed           float64          `json:"owed"`
}

func NewGetUnpaidOrder(e *entities.UnpaidOrder) *GetUnpaidOrder {
	return &GetUnpaidOrder{
		OrderID:        e.OrderID,
		Subject:        e.Subject,
		WorkType:       e.WorkType,
		Price:          e.Price.InexactFloat64(),
		Owed:           e.Outstanding().InexactFloat64(),
		OrderCreatedAt: e.OrderCreatedAt,
	}
}

type ConfirmPayment struct {
	Confirmed bool `json:"confirmed"`
}
