package handler

import (
	"context"

	"stockdesk/internal/dto"
)

type stubProducts struct {
	created  *dto.CreateProductRequest
	products []dto.ProductResponse
	err      error
}

func (s *stubProducts) Create(_ context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = &req
	return &dto.ProductResponse{ID: 1, Name: req.Name, BuyingPrice: req.BuyingPrice, SellingPrice: req.SellingPrice}, nil
}

func (s *stubProducts) Get(_ context.Context, id uint) (*dto.ProductResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ProductResponse{ID: id}, nil
}

func (s *stubProducts) List(context.Context, dto.ProductFilter) ([]dto.ProductResponse, error) {
	return s.products, s.err
}

func (s *stubProducts) Update(_ context.Context, id uint, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ProductResponse{ID: id, Name: req.Name}, nil
}

func (s *stubProducts) Delete(context.Context, uint) error { return s.err }

func (s *stubProducts) StockAlerts(context.Context) (*dto.StockAlertsResponse, error) {
	return &dto.StockAlertsResponse{}, s.err
}

func (s *stubProducts) PriceComparison(context.Context) (*dto.PriceComparisonResponse, error) {
	return &dto.PriceComparisonResponse{}, s.err
}

type stubSales struct {
	filter  dto.SaleFilter
	history *dto.SaleHistoryResponse
	err     error
}

func (s *stubSales) Record(_ context.Context, req dto.RecordSaleRequest) (*dto.SaleResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SaleResponse{ID: 1, ProductID: req.ProductID, Quantity: req.Quantity}, nil
}

func (s *stubSales) MonthlySales(context.Context, int, int) ([]dto.SaleResponse, error) {
	return []dto.SaleResponse{}, s.err
}

func (s *stubSales) History(_ context.Context, f dto.SaleFilter) (*dto.SaleHistoryResponse, error) {
	s.filter = f
	if s.err != nil {
		return nil, s.err
	}
	return s.history, nil
}

type stubOrders struct {
	err  error
	path string
}

func (s *stubOrders) Create(_ context.Context, req dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.PurchaseOrderResponse{ID: 1, ProductID: req.ProductID, Status: "Pending"}, nil
}

func (s *stubOrders) Get(_ context.Context, id uint) (*dto.PurchaseOrderResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.PurchaseOrderResponse{ID: id}, nil
}

func (s *stubOrders) List(context.Context, dto.PurchaseOrderFilter) ([]dto.PurchaseOrderResponse, error) {
	return []dto.PurchaseOrderResponse{}, s.err
}

func (s *stubOrders) Receive(_ context.Context, id uint) (*dto.PurchaseOrderResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.PurchaseOrderResponse{ID: id, Status: "Received"}, nil
}

func (s *stubOrders) Cancel(_ context.Context, id uint) (*dto.PurchaseOrderResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.PurchaseOrderResponse{ID: id, Status: "Cancelled"}, nil
}

func (s *stubOrders) Document(context.Context, uint) (string, error) { return s.path, s.err }

type stubReports struct {
	months int
	report *dto.MonthlyReportResponse
	err    error
}

func (s *stubReports) MonthlyStats(_ context.Context, year, month int) (dto.MonthlyStats, error) {
	return dto.MonthlyStats{Year: year, Month: month}, s.err
}

func (s *stubReports) MultiMonthStats(_ context.Context, n int) ([]dto.MonthlyStats, error) {
	s.months = n
	return make([]dto.MonthlyStats, n), s.err
}

func (s *stubReports) MonthlyReport(context.Context, int, int) (*dto.MonthlyReportResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

func (s *stubReports) Dashboard(context.Context) (*dto.DashboardResponse, error) {
	return &dto.DashboardResponse{Status: "break-even"}, s.err
}

func (s *stubReports) Trends(_ context.Context, n int) (*dto.TrendsResponse, error) {
	s.months = n
	return &dto.TrendsResponse{}, s.err
}
