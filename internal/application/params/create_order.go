package params

import (
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
)

type CreateOrder struct {
	Subject  string
	WorkType string
	Details  string
	ClientID user.ID
}

func NewCreateOrder(clientID user.ID, subject, workType, details string) *CreateOrder {
	return &CreateOrder{
		ClientID: clientID,
		Subject:  subject,
		WorkType: workType,
		Details:  details,
	}
}
