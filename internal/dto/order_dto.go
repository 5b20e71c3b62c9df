package dto

import "github.com/shopspring/decimal"

type OrderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	VariantID *string         `json:"variant_id" validate:"omitempty,uuid"`
	Qty       int             `json:"qty"        validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"required"`
}

type CreateOrderRequest struct {
	CustomerID string             `json:"customer_id" validate:"required,uuid"`
	Items      []OrderItemRequest `json:"items"       validate:"required,min=1,dive"`
	Notes      *string            `json:"notes"`
}

// VerifyPaymentRequest marks an order's payment as verified against a
// payment account after the proof has been checked manually.
type VerifyPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"     validate:"required"`
	AccountID string          `json:"account_id" validate:"required,uuid"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// OrderFilter is bound from the query string of GET /v1/orders.
type OrderFilter struct {
	CustomerID string `form:"customer_id" validate:"omitempty,uuid"`
	Status     string `form:"status"      validate:"omitempty,oneof=pending confirmed dispatched delivered cancelled all"`
	From       string `form:"from"        validate:"omitempty,datetime=2006-01-02"`
	To         string `form:"to"          validate:"omitempty,datetime=2006-01-02"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type OrderItemResponse struct {
	ProductID string          `json:"product_id"`
	VariantID *string         `json:"variant_id,omitempty"`
	Product   string          `json:"product"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	OrderNumber     string              `json:"order_number"`
	CustomerID      string              `json:"customer_id"`
	CustomerName    string              `json:"customer_name"`
	Status          string              `json:"status"`
	Total           decimal.Decimal     `json:"total"`
	PaymentVerified bool                `json:"payment_verified"`
	PaymentAmount   decimal.Decimal     `json:"payment_amount"`
	Items           []OrderItemResponse `json:"items"`
	DispatchedAt    *string             `json:"dispatched_at,omitempty"`
	DeliveredAt     *string             `json:"delivered_at,omitempty"`
	CreatedAt       string              `json:"created_at"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
