package response

import (
	"time"

	"github.com/mpetrenko/ordermart/internal/domain/entities"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
)

type GetOrder struct {
	CreatedAt   time.Time          `json:"created_at"`
	TakenAt     *time.Time         `json:"taken_at,omitempty"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
	WorkerID    *user.ID           `json:"worker_id,omitempty"`
	ID          entities.OrderID   `json:"id"`
	Status      string             `json:"status"`
	Subject     string             `json:"subject"`
	WorkType    string             `json:"work_type"`
	Details     string             `json:"details"`
	ClientID    user.ID            `json:"client_id"`
}

func NewGetOrderFromOrderEntity(e *entities.Order) *GetOrder {
	return &GetOrder{
		ID:          e.ID,
		ClientID:    e.ClientID,
		WorkerID:    e.WorkerID,
		Subject:     e.Subject,
		WorkType:    e.WorkType,
		Details:     e.Details,
		Status:      e.Status.String(),
		CreatedAt:   e.CreatedAt,
		TakenAt:     e.TakenAt,
		CompletedAt: e.CompletedAt,
	}
}

type CreateOrder struct {
	ID entities.OrderID `json:"id"`
}
