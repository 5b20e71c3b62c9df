package dto

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	SKU         *string `json:"sku"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

type CreateVariantRequest struct {
	Name string  `json:"name" validate:"required"`
	SKU  *string `json:"sku"`
}

type ProductResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	SKU               *string         `json:"sku,omitempty"`
	Category          *string         `json:"category,omitempty"`
	Description       *string         `json:"description,omitempty"`
	LastPurchasePrice decimal.Decimal `json:"last_purchase_price"`
	StockQty          int             `json:"stock_qty"`
	HasVariants       bool            `json:"has_variants"`
	AutoCreated       bool            `json:"auto_created,omitempty"`
	Active            bool            `json:"active"`
}

type VariantResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	Name              string          `json:"name"`
	SKU               *string         `json:"sku,omitempty"`
	LastPurchasePrice decimal.Decimal `json:"last_purchase_price"`
	StockQty          int             `json:"stock_qty"`
}

type ProductFilter struct {
	Name     string `form:"name"`
	Category string `form:"category"`
	Active   string `form:"active"` // "false" = inactive, "all" = everything, default active
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
