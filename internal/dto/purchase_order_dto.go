package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreatePurchaseOrderRequest struct {
	ProductID        uint            `json:"product_id"        validate:"required"`
	Quantity         int             `json:"quantity"          validate:"required,gt=0"`
	CostPerUnit      decimal.Decimal `json:"cost_per_unit"     validate:"required,gt=0"`
	OrderDate        *time.Time      `json:"order_date"`
	ExpectedDelivery *time.Time      `json:"expected_delivery"`
}

type PurchaseOrderFilter struct {
	Status string `form:"status"`
}

type PurchaseOrderResponse struct {
	ID               uint            `json:"order_id"`
	ProductID        uint            `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Quantity         int             `json:"quantity"`
	OrderDate        time.Time       `json:"order_date"`
	ExpectedDelivery *time.Time      `json:"expected_delivery"`
	CostPerUnit      decimal.Decimal `json:"cost_per_unit"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	Status           string          `json:"status"`
}
