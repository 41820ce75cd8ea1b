package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus is the closed set of purchase order states.
type PurchaseOrderStatus string

const (
	StatusPending   PurchaseOrderStatus = "Pending"
	StatusReceived  PurchaseOrderStatus = "Received"
	StatusCancelled PurchaseOrderStatus = "Cancelled"
)

// ParsePurchaseOrderStatus accepts any casing of a known status.
func ParsePurchaseOrderStatus(s string) (PurchaseOrderStatus, error) {
	for _, st := range []PurchaseOrderStatus{StatusPending, StatusReceived, StatusCancelled} {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown purchase order status %q", s)
}

func (s PurchaseOrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusReceived, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition may leave s.
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == StatusReceived || s == StatusCancelled
}

// CanTransitionTo: Pending → Received | Cancelled, nothing else.
func (s PurchaseOrderStatus) CanTransitionTo(next PurchaseOrderStatus) bool {
	return s == StatusPending && (next == StatusReceived || next == StatusCancelled)
}

// PurchaseOrder is a restock order for one product. TotalCost is fixed at
// creation as Quantity * CostPerUnit.
type PurchaseOrder struct {
	ID               uint                `gorm:"column:order_id;primaryKey;autoIncrement"`
	ProductID        uint                `gorm:"not null;index"`
	Quantity         int                 `gorm:"not null;check:quantity > 0"`
	OrderDate        time.Time           `gorm:"not null"`
	ExpectedDelivery *time.Time
	Status           PurchaseOrderStatus `gorm:"type:varchar(16);not null"`
	CostPerUnit      decimal.Decimal     `gorm:"type:decimal(10,2);not null"`
	TotalCost        decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	UpdatedAt        time.Time

	Product *Product `gorm:"foreignKey:ProductID;references:ID;constraint:OnDelete:RESTRICT"`
}
