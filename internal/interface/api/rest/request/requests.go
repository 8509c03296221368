package request

import "github.com/shopspring/decimal"

// Register defines parameters for Register.
type Register struct {
	Login       string `json:"login"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Handle      string `json:"handle"`
}

// Login defines parameters for Login.
type Login struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// CreateOrder defines parameters for order creation.
type CreateOrder struct {
	Subject  string `json:"subject"`
	WorkType string `json:"work_type"`
	Details  string `json:"details"`
}

// SetPrice defines parameters for price setting.
type SetPrice struct {
	Price decimal.Decimal `json:"price"`
}
