package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"stockdesk/internal/dto"
	"stockdesk/internal/infra"
	"stockdesk/internal/model"
	"stockdesk/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	criticalStockBelow = 10
	lowStockBelow      = 25
	topMarginCount     = 5
)

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uint) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, error)
	Update(ctx context.Context, id uint, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uint) error
	StockAlerts(ctx context.Context) (*dto.StockAlertsResponse, error)
	PriceComparison(ctx context.Context) (*dto.PriceComparisonResponse, error)
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func validPrices(buying, selling decimal.Decimal) error {
	if !buying.IsPositive() || !selling.IsPositive() {
		return ErrInvalidPrice
	}
	return nil
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validPrices(req.BuyingPrice, req.SellingPrice); err != nil {
		return nil, err
	}
	if req.CurrentStock < 0 {
		return nil, ErrInvalidQuantity
	}
	reorder := model.DefaultReorderLevel
	if req.ReorderLevel != nil {
		if *req.ReorderLevel < 0 {
			return nil, ErrInvalidQuantity
		}
		reorder = *req.ReorderLevel
	}

	p := model.Product{
		Name:         req.Name,
		BuyingPrice:  req.BuyingPrice.Round(2),
		SellingPrice: req.SellingPrice.Round(2),
		CurrentStock: req.CurrentStock,
		ReorderLevel: reorder,
		ImageURL:     req.ImageURL,
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.CreateTx(tx, &p)
	})
	if err != nil {
		return nil, fmt.Errorf("add product: %w", err)
	}
	resp := productToResponse(&p)
	return &resp, nil
}

func (s *productService) Get(ctx context.Context, id uint) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, error) {
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, productToResponse(&products[i]))
	}
	return out, nil
}

// Update overwrites every mutable field of the product.
func (s *productService) Update(ctx context.Context, id uint, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := validPrices(req.BuyingPrice, req.SellingPrice); err != nil {
		return nil, err
	}
	if req.CurrentStock < 0 || req.ReorderLevel < 0 {
		return nil, ErrInvalidQuantity
	}

	var p *model.Product
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		p, err = s.repo.FindByIDTx(tx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}
		p.Name = req.Name
		p.BuyingPrice = req.BuyingPrice.Round(2)
		p.SellingPrice = req.SellingPrice.Round(2)
		p.CurrentStock = req.CurrentStock
		p.ReorderLevel = req.ReorderLevel
		p.ImageURL = req.ImageURL
		return s.repo.SaveTx(tx, p)
	})
	if errors.Is(err, ErrProductNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}
	resp := productToResponse(p)
	return &resp, nil
}

// Delete refuses to remove a product that sales or purchase orders still
// reference; the FK RESTRICT constraint backs the check up.
func (s *productService) Delete(ctx context.Context, id uint) error {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.repo.FindByIDTx(tx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		inUse, err := s.repo.HasHistoryTx(tx, id)
		if err != nil {
			return err
		}
		if inUse {
			return ErrProductInUse
		}
		return s.repo.DeleteTx(tx, id)
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrProductInUse):
		return err
	case infra.IsForeignKeyViolation(err):
		return ErrProductInUse
	default:
		return fmt.Errorf("delete product %d: %w", id, err)
	}
}

func (s *productService) StockAlerts(ctx context.Context) (*dto.StockAlertsResponse, error) {
	products, err := s.repo.List(ctx, dto.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("stock alerts: %w", err)
	}

	resp := &dto.StockAlertsResponse{
		Critical:      []dto.ProductResponse{},
		Low:           []dto.ProductResponse{},
		BelowReorder:  []dto.ProductResponse{},
		TotalProducts: len(products),
	}
	for i := range products {
		p := &products[i]
		alertable := false
		switch {
		case p.CurrentStock < criticalStockBelow:
			resp.Critical = append(resp.Critical, productToResponse(p))
			alertable = true
		case p.CurrentStock < lowStockBelow:
			resp.Low = append(resp.Low, productToResponse(p))
			alertable = true
		}
		if p.NeedsReorder() {
			resp.BelowReorder = append(resp.BelowReorder, productToResponse(p))
			alertable = true
		}
		if alertable {
			resp.TotalAlertable++
		}
	}
	return resp, nil
}

func (s *productService) PriceComparison(ctx context.Context) (*dto.PriceComparisonResponse, error) {
	products, err := s.repo.List(ctx, dto.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("price comparison: %w", err)
	}

	resp := &dto.PriceComparisonResponse{
		Products:             make([]dto.PriceComparisonRow, 0, len(products)),
		TotalStockValue:      decimal.Zero,
		TotalRetailValue:     decimal.Zero,
		TotalPotentialProfit: decimal.Zero,
		AverageMarginPct:     decimal.Zero,
	}
	marginSum := decimal.Zero
	for i := range products {
		p := &products[i]
		stock := decimal.NewFromInt(int64(p.CurrentStock))
		row := dto.PriceComparisonRow{
			ProductID:     p.ID,
			Name:          p.Name,
			BuyingPrice:   p.BuyingPrice,
			SellingPrice:  p.SellingPrice,
			ProfitPerUnit: p.ProfitPerUnit().Round(2),
			MarginPct:     p.MarginPct(),
			CurrentStock:  p.CurrentStock,
			StockValue:    p.BuyingPrice.Mul(stock).Round(2),
			RetailValue:   p.SellingPrice.Mul(stock).Round(2),
		}
		row.PotentialProfit = row.RetailValue.Sub(row.StockValue)

		resp.Products = append(resp.Products, row)
		resp.TotalStockValue = resp.TotalStockValue.Add(row.StockValue)
		resp.TotalRetailValue = resp.TotalRetailValue.Add(row.RetailValue)
		resp.TotalPotentialProfit = resp.TotalPotentialProfit.Add(row.PotentialProfit)
		marginSum = marginSum.Add(row.MarginPct)
	}
	if n := len(products); n > 0 {
		resp.AverageMarginPct = marginSum.Div(decimal.NewFromInt(int64(n))).Round(2)
	}

	top := make([]dto.PriceComparisonRow, len(resp.Products))
	copy(top, resp.Products)
	sort.SliceStable(top, func(i, j int) bool { return top[i].MarginPct.GreaterThan(top[j].MarginPct) })
	if len(top) > topMarginCount {
		top = top[:topMarginCount]
	}
	resp.TopByMargin = top
	return resp, nil
}
