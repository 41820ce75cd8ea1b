package service

import (
	"stockdesk/internal/dto"
	"stockdesk/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// pct is part/whole*100 rounded to 2 places; zero when whole is zero.
func pct(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}

func productToResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		BuyingPrice:  p.BuyingPrice,
		SellingPrice: p.SellingPrice,
		MarginPct:    p.MarginPct(),
		CurrentStock: p.CurrentStock,
		ReorderLevel: p.ReorderLevel,
		NeedsReorder: p.NeedsReorder(),
		ImageURL:     p.ImageURL,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func saleToResponse(s *model.Sale) dto.SaleResponse {
	resp := dto.SaleResponse{
		ID:        s.ID,
		ProductID: s.ProductID,
		Quantity:  s.Quantity,
		SaleDate:  s.SaleDate,
		SalePrice: s.SalePrice,
		CostPrice: s.CostPrice,
		Revenue:   s.Revenue().Round(2),
		Profit:    s.Profit().Round(2),
	}
	if s.Product != nil {
		resp.ProductName = s.Product.Name
	}
	return resp
}

func salesToResponse(sales []model.Sale) []dto.SaleResponse {
	out := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		out = append(out, saleToResponse(&sales[i]))
	}
	return out
}

func orderToResponse(o *model.PurchaseOrder) dto.PurchaseOrderResponse {
	resp := dto.PurchaseOrderResponse{
		ID:               o.ID,
		ProductID:        o.ProductID,
		Quantity:         o.Quantity,
		OrderDate:        o.OrderDate,
		ExpectedDelivery: o.ExpectedDelivery,
		CostPerUnit:      o.CostPerUnit,
		TotalCost:        o.TotalCost,
		Status:           string(o.Status),
	}
	if o.Product != nil {
		resp.ProductName = o.Product.Name
	}
	return resp
}
