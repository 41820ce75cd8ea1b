package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name         string          `json:"name"          validate:"required,min=1,max=120"`
	BuyingPrice  decimal.Decimal `json:"buying_price"  validate:"required,gt=0"`
	SellingPrice decimal.Decimal `json:"selling_price" validate:"required,gt=0"`
	CurrentStock int             `json:"current_stock" validate:"min=0"`
	ReorderLevel *int            `json:"reorder_level" validate:"omitempty,min=0"`
	ImageURL     *string         `json:"image_url"     validate:"omitempty,max=255"`
}

// UpdateProductRequest overwrites every field; there is no partial update.
type UpdateProductRequest struct {
	Name         string          `json:"name"          validate:"required,min=1,max=120"`
	BuyingPrice  decimal.Decimal `json:"buying_price"  validate:"required,gt=0"`
	SellingPrice decimal.Decimal `json:"selling_price" validate:"required,gt=0"`
	CurrentStock int             `json:"current_stock" validate:"min=0"`
	ReorderLevel int             `json:"reorder_level" validate:"min=0"`
	ImageURL     *string         `json:"image_url"     validate:"omitempty,max=255"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type ProductFilter struct {
	Name     string `form:"name"`
	LowStock bool   `form:"low_stock"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID           uint            `json:"product_id"`
	Name         string          `json:"name"`
	BuyingPrice  decimal.Decimal `json:"buying_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	MarginPct    decimal.Decimal `json:"margin_pct"`
	CurrentStock int             `json:"current_stock"`
	ReorderLevel int             `json:"reorder_level"`
	NeedsReorder bool            `json:"needs_reorder"`
	ImageURL     *string         `json:"image_url"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// StockAlertsResponse groups products by how urgently they need restocking.
// A product can appear in more than one group.
type StockAlertsResponse struct {
	Critical       []ProductResponse `json:"critical"`        // stock < 10
	Low            []ProductResponse `json:"low"`             // 10 <= stock < 25
	BelowReorder   []ProductResponse `json:"below_reorder"`   // stock <= reorder level
	TotalProducts  int               `json:"total_products"`
	TotalAlertable int               `json:"total_alertable"` // distinct products in any group
}

type PriceComparisonRow struct {
	ProductID       uint            `json:"product_id"`
	Name            string          `json:"name"`
	BuyingPrice     decimal.Decimal `json:"buying_price"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	ProfitPerUnit   decimal.Decimal `json:"profit_per_unit"`
	MarginPct       decimal.Decimal `json:"margin_pct"`
	CurrentStock    int             `json:"current_stock"`
	StockValue      decimal.Decimal `json:"stock_value"`      // at cost
	RetailValue     decimal.Decimal `json:"retail_value"`     // at selling price
	PotentialProfit decimal.Decimal `json:"potential_profit"` // retail - stock value
}

type PriceComparisonResponse struct {
	Products             []PriceComparisonRow `json:"products"`
	TotalStockValue      decimal.Decimal      `json:"total_stock_value"`
	TotalRetailValue     decimal.Decimal      `json:"total_retail_value"`
	TotalPotentialProfit decimal.Decimal      `json:"total_potential_profit"`
	AverageMarginPct     decimal.Decimal      `json:"average_margin_pct"`
	TopByMargin          []PriceComparisonRow `json:"top_by_margin"`
}

type UploadResponse struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
}
