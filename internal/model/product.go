package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultReorderLevel applies when a product is created without a reorder level.
const DefaultReorderLevel = 10

// Product is a stocked item. CurrentStock only changes through an explicit
// update, a recorded sale (decrement) or a received purchase order (increment).
type Product struct {
	ID           uint            `gorm:"column:product_id;primaryKey;autoIncrement"`
	Name         string          `gorm:"index;not null"`
	BuyingPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// No default tag on the ints: gorm would swap an explicit 0 for the DB default.
	CurrentStock int     `gorm:"not null;check:current_stock >= 0"`
	ReorderLevel int     `gorm:"not null;check:reorder_level >= 0"`
	ImageURL     *string `gorm:"column:image_url"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MarginPct is (selling - buying) / buying * 100, or zero when buying is zero.
func (p *Product) MarginPct() decimal.Decimal {
	if p.BuyingPrice.IsZero() {
		return decimal.Zero
	}
	return p.SellingPrice.Sub(p.BuyingPrice).Div(p.BuyingPrice).Mul(decimal.NewFromInt(100)).Round(2)
}

// ProfitPerUnit is selling minus buying price.
func (p *Product) ProfitPerUnit() decimal.Decimal {
	return p.SellingPrice.Sub(p.BuyingPrice)
}

// NeedsReorder reports whether stock has fallen to or below the reorder level.
func (p *Product) NeedsReorder() bool {
	return p.CurrentStock <= p.ReorderLevel
}
