package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an immutable record of units sold. SalePrice and CostPrice are
// snapshots of the product's prices when the sale was recorded.
type Sale struct {
	ID        uint            `gorm:"column:sale_id;primaryKey;autoIncrement"`
	ProductID uint            `gorm:"not null;index"`
	Quantity  int             `gorm:"not null;check:quantity > 0"`
	SaleDate  time.Time       `gorm:"not null"`
	SalePrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CostPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID;references:ID;constraint:OnDelete:RESTRICT"`
}

// Revenue is quantity * sale price.
func (s *Sale) Revenue() decimal.Decimal {
	return s.SalePrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

// Profit is quantity * (sale price - cost price).
func (s *Sale) Profit() decimal.Decimal {
	return s.SalePrice.Sub(s.CostPrice).Mul(decimal.NewFromInt(int64(s.Quantity)))
}
