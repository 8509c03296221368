package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
)

// NotificationTemplate names the message to render. Rendering and
// delivery belong to the messaging channel, not to the engines.
type NotificationTemplate string

const (
	TemplateOrderCreated     NotificationTemplate = "order_created"
	TemplateOrderClaimed     NotificationTemplate = "order_claimed"
	TemplateOrderCompleted   NotificationTemplate = "order_completed"
	TemplatePriceSet         NotificationTemplate = "price_set"
	TemplatePaymentConfirmed NotificationTemplate = "payment_confirmed"
	TemplatePaymentRejected  NotificationTemplate = "payment_rejected"
)

// Notification is an abstract delivery intent emitted by the engines.
type Notification struct {
	CreatedAt   time.Time            `json:"created_at"`
	Payload     map[string]string    `json:"payload"`
	Template    NotificationTemplate `json:"template"`
	ID          uuid.UUID            `json:"id"`
	RecipientID user.ID              `json:"recipient_id"`
}

func NewNotification(
	recipientID user.ID, template NotificationTemplate, payload map[string]string,
) *Notification {
	return &Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		Template:    template,
		Payload:     payload,
		CreatedAt:   time.Now(),
	}
}
