package dto

import "github.com/shopspring/decimal"

type CreateSupplierRequest struct {
	Name    string  `json:"name" validate:"required"`
	Contact *string `json:"contact"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address"`
}

type SupplierResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Contact        *string         `json:"contact,omitempty"`
	Email          *string         `json:"email,omitempty"`
	Address        *string         `json:"address,omitempty"`
	AdvanceBalance decimal.Decimal `json:"advance_balance"`
	Active         bool            `json:"active"`
}

// SupplierBalanceResponse is the collaborator contract consumed by the
// intake form: the advance available against a new invoice.
type SupplierBalanceResponse struct {
	SupplierID       string          `json:"supplier_id"`
	AvailableAdvance decimal.Decimal `json:"available_advance"`
}

type SupplierLedgerResponse struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Note         string          `json:"note,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

// SearchFilter is the shared query-string shape of the typeahead endpoints.
type SearchFilter struct {
	Q     string `form:"q"     validate:"required,min=1"`
	Limit int    `form:"limit,default=10" validate:"min=1,max=50"`
}
