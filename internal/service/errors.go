package service

import (
	"errors"
	"fmt"
)

// Business rejections. Handlers map these onto 4xx statuses with errors.Is;
// anything else is a storage failure.
var (
	ErrProductNotFound       = errors.New("product not found")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrPurchaseOrderNotFound = errors.New("purchase order not found")
	ErrOrderNotPending       = errors.New("purchase order is not pending")
	ErrProductInUse          = errors.New("product has recorded sales or purchase orders")
	ErrInvalidPeriod         = errors.New("invalid period")
	ErrInvalidQuantity       = errors.New("quantity must be greater than zero")
	ErrInvalidPrice          = errors.New("price must be greater than zero")
	ErrInvalidStatus         = errors.New("invalid purchase order status")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidToken          = errors.New("invalid or expired token")
)

// StockError reports a sale that asked for more units than are on hand.
type StockError struct {
	ProductID uint
	Available int
	Requested int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }
