package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// PurchaseLineRequest is one purchased row as entered on the intake form.
// Qty and UnitPrice are pointers so half-typed rows survive binding; the
// settlement pass coerces missing values to zero for aggregation and decides
// submittability itself.
type PurchaseLineRequest struct {
	Name        string           `json:"name"`
	Qty         *int64           `json:"qty"         validate:"omitempty,min=0"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	SKU         *string          `json:"sku"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
	// VariantName, when set, resolves (or auto-creates) a variant under the
	// named product.
	VariantName *string `json:"variant_name"`
}

// ReturnLineRequest is one returned row; same shape plus a reason.
type ReturnLineRequest struct {
	Name      string           `json:"name"`
	Qty       *int64           `json:"qty"        validate:"omitempty,min=0"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	SKU       *string          `json:"sku"`
	Reason    string           `json:"reason"`
}

// CreatePurchaseRequest is POST /v1/purchases. Optional fields follow the
// settlement kind: a pure purchase needs no return handling, a refund needs
// an account, a payment needs a payment account.
type CreatePurchaseRequest struct {
	InvoiceNumber    *string               `json:"invoice_number"`
	SupplierName     string                `json:"supplier_name" validate:"required"`
	InvoiceDate      string                `json:"invoice_date"  validate:"required,datetime=2006-01-02"`
	Items            []PurchaseLineRequest `json:"items"         validate:"dive"`
	ReturnItems      []ReturnLineRequest   `json:"return_items"  validate:"dive"`
	UseAdvance       bool                  `json:"use_advance_balance"`
	PaymentAmount    decimal.Decimal       `json:"payment_amount"`
	PaymentAccountID *string               `json:"payment_account_id"    validate:"omitempty,uuid"`
	PaymentStatus    string                `json:"payment_status"        validate:"omitempty,oneof=unpaid partial paid"`
	ReturnMethod     *string               `json:"return_handling_method" validate:"omitempty,oneof=REDUCE_PAYABLE REFUND"`
	RefundAccountID  *string               `json:"return_refund_account_id" validate:"omitempty,uuid"`
	Notes            *string               `json:"notes"`
}

// UpdatePurchasePaymentRequest records an additional payment against an
// existing invoice (payment verification flow).
type UpdatePurchasePaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"     validate:"required"`
	AccountID string          `json:"account_id" validate:"required,uuid"`
}

type CancelPurchaseRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// PurchaseFilter is bound from the query string of GET /v1/purchases.
type PurchaseFilter struct {
	SupplierID    string `form:"supplier_id"    validate:"omitempty,uuid"`
	PaymentStatus string `form:"payment_status" validate:"omitempty,oneof=unpaid partial paid"`
	Status        string `form:"status,default=active"` // active | cancelled | all
	From          string `form:"from"           validate:"omitempty,datetime=2006-01-02"`
	To            string `form:"to"             validate:"omitempty,datetime=2006-01-02"`
	Page          int    `form:"page,default=1"   validate:"min=1"`
	Limit         int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PurchaseItemResponse struct {
	ProductID   string          `json:"product_id"`
	VariantID   *string         `json:"variant_id,omitempty"`
	Name        string          `json:"name"`
	Qty         int             `json:"qty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	AutoCreated bool            `json:"product_auto_created,omitempty"`
}

type ReturnItemResponse struct {
	ProductID *string         `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	Reason    string          `json:"reason,omitempty"`
}

type PurchaseResponse struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	SupplierID    string          `json:"supplier_id"`
	SupplierName  string          `json:"supplier_name"`
	InvoiceDate   string          `json:"invoice_date"`
	PurchaseTotal decimal.Decimal `json:"purchase_total"`
	ReturnTotal   decimal.Decimal `json:"return_total"`
	NetTotal      decimal.Decimal `json:"net_total"`
	AdvanceUsed   decimal.Decimal `json:"advance_used"`
	PaymentAmount decimal.Decimal `json:"payment_amount"`
	PaymentStatus string          `json:"payment_status"`
	ReturnMethod  *string         `json:"return_handling_method,omitempty"`
	Status        string          `json:"status"`
	Items         []PurchaseItemResponse `json:"items"`
	ReturnItems   []ReturnItemResponse   `json:"return_items,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

type PurchaseListResponse struct {
	Data  []PurchaseResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
