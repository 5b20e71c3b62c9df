package dto

import "github.com/shopspring/decimal"

type CreateAccountRequest struct {
	Name          string  `json:"name" validate:"required"`
	Type          string  `json:"type" validate:"required,oneof=cash bank wallet"`
	AccountNumber *string `json:"account_number"`
}

// AdjustBalanceRequest is a manual deposit or withdrawal.
type AdjustBalanceRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Description string          `json:"description"`
}

type AccountResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	AccountNumber *string         `json:"account_number,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
	Active        bool            `json:"active"`
}

type TransactionResponse struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"account_id"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Description  string          `json:"description,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

type TransactionListResponse struct {
	Data  []TransactionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

type TransactionFilter struct {
	Type  string `form:"type"`
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}
