package dto

import "github.com/shopspring/decimal"

// MonthlyStats aggregates every sale inside one calendar month.
type MonthlyStats struct {
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalProfit       decimal.Decimal `json:"total_profit"`
	TotalTransactions int             `json:"total_transactions"`
	TotalUnits        int             `json:"total_units"`
}

// Period renders the month as "2006-01".
func (m MonthlyStats) Period() string {
	return monthLabel(m.Year, m.Month)
}

type MonthlyReportResponse struct {
	Stats MonthlyStats   `json:"stats"`
	Sales []SaleResponse `json:"sales"`
}

type TrendPoint struct {
	MonthlyStats
	Label           string          `json:"label"`
	ProfitMarginPct decimal.Decimal `json:"profit_margin_pct"`
}

type TrendsResponse struct {
	Months            []TrendPoint    `json:"months"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalProfit       decimal.Decimal `json:"total_profit"`
	TotalTransactions int             `json:"total_transactions"`
	TotalUnits        int             `json:"total_units"`
	// BestMonth is the label of the month with the highest profit; empty when
	// the whole period has no sales.
	BestMonth string `json:"best_month"`
	// WorstMonth is the lowest-profit month, with the same emptiness rule.
	WorstMonth        string          `json:"worst_month"`
	WorstMonthIsLoss  bool            `json:"worst_month_is_loss"`
	AvgMonthlyRevenue decimal.Decimal `json:"avg_monthly_revenue"`
	AvgMonthlyProfit  decimal.Decimal `json:"avg_monthly_profit"`
}

type ProductProfit struct {
	ProductID uint            `json:"product_id"   db:"product_id"`
	Name      string          `json:"name"         db:"name"`
	Units     int             `json:"units"        db:"units"`
	Revenue   decimal.Decimal `json:"revenue"      db:"revenue"`
	Profit    decimal.Decimal `json:"profit"       db:"profit"`
}

type InventoryValue struct {
	Products        int             `json:"products"         db:"products"`
	Units           int             `json:"units"            db:"units"`
	CostValue       decimal.Decimal `json:"cost_value"       db:"cost_value"`
	RetailValue     decimal.Decimal `json:"retail_value"     db:"retail_value"`
	PotentialProfit decimal.Decimal `json:"potential_profit"`
}

type DashboardResponse struct {
	CurrentMonth    MonthlyStats    `json:"current_month"`
	ProfitMarginPct decimal.Decimal `json:"profit_margin_pct"`
	// Status is "profit", "loss" or "break-even" for the current month.
	Status      string          `json:"status"`
	Inventory   InventoryValue  `json:"inventory"`
	TopProducts []ProductProfit `json:"top_products"`
}
