package repository

import (
	"context"
	"time"

	"stockdesk/internal/dto"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// SalesTotals is one aggregate row over a sale_date range.
type SalesTotals struct {
	Revenue      decimal.Decimal `db:"revenue"`
	Profit       decimal.Decimal `db:"profit"`
	Transactions int             `db:"transactions"`
	Units        int             `db:"units"`
}

// ReportRepository runs the aggregate queries behind the reports through sqlx.
// Ranges are half-open [from, to) in UTC.
type ReportRepository interface {
	SalesTotals(ctx context.Context, from, to time.Time) (SalesTotals, error)
	TopProductsByProfit(ctx context.Context, from, to time.Time, limit int) ([]dto.ProductProfit, error)
	InventoryValue(ctx context.Context) (dto.InventoryValue, error)
}

type reportRepo struct{ db *sqlx.DB }

func NewReportRepository(db *sqlx.DB) ReportRepository { return &reportRepo{db: db} }

const salesTotalsQuery = `
SELECT COALESCE(SUM(quantity * sale_price), 0)                AS revenue,
       COALESCE(SUM(quantity * (sale_price - cost_price)), 0) AS profit,
       COUNT(*)                                               AS transactions,
       COALESCE(SUM(quantity), 0)                             AS units
  FROM sales
 WHERE sale_date >= ? AND sale_date < ?`

func (r *reportRepo) SalesTotals(ctx context.Context, from, to time.Time) (SalesTotals, error) {
	var t SalesTotals
	err := r.db.GetContext(ctx, &t, r.db.Rebind(salesTotalsQuery), from.UTC(), to.UTC())
	return t, err
}

const topProductsQuery = `
SELECT p.product_id                                   AS product_id,
       p.name                                         AS name,
       SUM(s.quantity)                                AS units,
       SUM(s.quantity * s.sale_price)                 AS revenue,
       SUM(s.quantity * (s.sale_price - s.cost_price)) AS profit
  FROM sales s
  JOIN products p ON p.product_id = s.product_id
 WHERE s.sale_date >= ? AND s.sale_date < ?
 GROUP BY p.product_id, p.name
 ORDER BY profit DESC, p.product_id ASC
 LIMIT ?`

func (r *reportRepo) TopProductsByProfit(ctx context.Context, from, to time.Time, limit int) ([]dto.ProductProfit, error) {
	rows := []dto.ProductProfit{}
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(topProductsQuery), from.UTC(), to.UTC(), limit)
	return rows, err
}

const inventoryValueQuery = `
SELECT COUNT(*)                                        AS products,
       COALESCE(SUM(current_stock), 0)                 AS units,
       COALESCE(SUM(current_stock * buying_price), 0)  AS cost_value,
       COALESCE(SUM(current_stock * selling_price), 0) AS retail_value
  FROM products`

func (r *reportRepo) InventoryValue(ctx context.Context) (dto.InventoryValue, error) {
	var v dto.InventoryValue
	err := r.db.GetContext(ctx, &v, inventoryValueQuery)
	return v, err
}
