package dto

import "github.com/shopspring/decimal"

type CreateCustomerRequest struct {
	Name    string  `json:"name" validate:"required"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address"`
}

type CustomerResponse struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Phone   *string         `json:"phone,omitempty"`
	Email   *string         `json:"email,omitempty"`
	Address *string         `json:"address,omitempty"`
	Balance decimal.Decimal `json:"balance"`
	Active  bool            `json:"active"`
}
