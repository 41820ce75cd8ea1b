package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"stockdesk/internal/dto"
	"stockdesk/internal/infra"
	"stockdesk/internal/repository"
	"stockdesk/internal/worker"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testNow is the frozen service clock: mid-March 2024.
var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type recordingAlerts struct {
	mu   sync.Mutex
	sent []worker.StockAlertPayload
}

func (r *recordingAlerts) EnqueueStockAlert(_ context.Context, p worker.StockAlertPayload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, p)
	return nil
}

type fixture struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	products    ProductService
	sales       SaleService
	orders      PurchaseOrderService
	reports     ReportService
	alerts      *recordingAlerts
	pdfDir      string
}

func newFixture(t *testing.T) *fixture {
	return newFixtureIn(t, time.UTC)
}

func newFixtureIn(t *testing.T, loc *time.Location) *fixture {
	t.Helper()
	dir := t.TempDir()
	db, err := infra.NewDatabase("sqlite://" + filepath.Join(dir, "stockdesk.db"))
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	reportDB, err := infra.NewReportDB(db)
	require.NoError(t, err)

	opts := Options{Now: func() time.Time { return testNow }, Location: loc}
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	orderRepo := repository.NewPurchaseOrderRepository(db)
	alerts := &recordingAlerts{}
	pdfDir := filepath.Join(dir, "pdfs")

	return &fixture{
		db:          db,
		productRepo: productRepo,
		products:    NewProductService(productRepo),
		sales:       NewSaleService(saleRepo, productRepo, alerts, opts),
		orders: NewPurchaseOrderService(orderRepo, productRepo, DocumentConfig{
			Header:      infra.DocumentHeader{ShopName: "Test Shop", CurrencySymbol: "Rs."},
			StoragePath: pdfDir,
		}, opts),
		reports: NewReportService(repository.NewReportRepository(reportDB), saleRepo, opts),
		alerts:  alerts,
		pdfDir:  pdfDir,
	}
}

func (f *fixture) addProduct(t *testing.T, name, buying, selling string, stock int) *dto.ProductResponse {
	t.Helper()
	p, err := f.products.Create(context.Background(), dto.CreateProductRequest{
		Name:         name,
		BuyingPrice:  decimal.RequireFromString(buying),
		SellingPrice: decimal.RequireFromString(selling),
		CurrentStock: stock,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) sellAt(t *testing.T, productID uint, qty int, at time.Time) *dto.SaleResponse {
	t.Helper()
	s, err := f.sales.Record(context.Background(), dto.RecordSaleRequest{ProductID: productID, Quantity: qty, SaleDate: &at})
	require.NoError(t, err)
	return s
}

func (f *fixture) stockOf(t *testing.T, productID uint) int {
	t.Helper()
	p, err := f.products.Get(context.Background(), productID)
	require.NoError(t, err)
	return p.CurrentStock
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}
