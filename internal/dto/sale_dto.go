package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type RecordSaleRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"   validate:"required,gt=0"`
	// SaleDate defaults to the server clock.
	SaleDate *time.Time `json:"sale_date"`
}

// SaleFilter narrows the sales history. Start and End are calendar days; End
// is inclusive through the end of its day in the report time zone.
type SaleFilter struct {
	Start     *time.Time
	End       *time.Time
	ProductID *uint
}

type SaleResponse struct {
	ID          uint            `json:"sale_id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	SaleDate    time.Time       `json:"sale_date"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	Revenue     decimal.Decimal `json:"revenue"`
	Profit      decimal.Decimal `json:"profit"`
}

type SaleHistoryResponse struct {
	Sales             []SaleResponse  `json:"sales"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalProfit       decimal.Decimal `json:"total_profit"`
	TotalUnits        int             `json:"total_units"`
	TotalTransactions int             `json:"total_transactions"`
	// ProfitMarginPct is total profit over total revenue; zero without revenue.
	ProfitMarginPct decimal.Decimal `json:"profit_margin_pct"`
	// Breakdown groups the filtered sales by product, ordered by name.
	Breakdown []ProductProfit `json:"breakdown"`
}
