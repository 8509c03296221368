package interfaces

import (
	"context"

	"github.com/mpetrenko/ordermart/internal/domain/entities"
)

// Notifier is the external messaging collaborator. The engines hand it
// abstract intents; rendering and delivery are not their concern.
type Notifier interface {
	Notify(ctx context.Context, n *entities.Notification) error
}
