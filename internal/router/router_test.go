package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"stockdesk/internal/config"
	"stockdesk/internal/dto"
	"stockdesk/internal/infra"
	"stockdesk/internal/repository"
	"stockdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stack struct {
	engine *gin.Engine
	db     *gorm.DB
}

func testConfig(t *testing.T, auth bool) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Env:                "test",
		AuthEnabled:        auth,
		JWTSecret:          "router-test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
		AdminUsername:      "owner",
		UploadDir:          t.TempDir(),
		PDFStoragePath:     t.TempDir(),
		ShopName:           "Corner Shop",
		CurrencySymbol:     "Rs.",
	}
	if auth {
		hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
		require.NoError(t, err)
		cfg.AdminPasswordHash = string(hash)
	}
	return cfg
}

// buildStack wires the same graph as cmd/server, without Redis.
func buildStack(t *testing.T, cfg *config.Config, db *gorm.DB, opts service.Options) *stack {
	t.Helper()
	require.NoError(t, infra.RunMigrations(db))
	reportDB, err := infra.NewReportDB(db)
	require.NoError(t, err)

	products := repository.NewProductRepository(db)
	sales := repository.NewSaleRepository(db)
	svcs := Services{
		Products: service.NewProductService(products),
		Sales:    service.NewSaleService(sales, products, nil, opts),
		PurchaseOrders: service.NewPurchaseOrderService(repository.NewPurchaseOrderRepository(db), products,
			service.DocumentConfig{
				Header:      infra.DocumentHeader{ShopName: cfg.ShopName, CurrencySymbol: cfg.CurrencySymbol},
				StoragePath: cfg.PDFStoragePath,
			}, opts),
		Reports: service.NewReportService(repository.NewReportRepository(reportDB), sales, opts),
	}
	if cfg.AuthEnabled {
		svcs.Auth = service.NewAuthService(cfg)
	}
	return &stack{engine: New(cfg, svcs, Infra{DB: db}), db: db}
}

func sqliteStack(t *testing.T, auth bool) *stack {
	t.Helper()
	db, err := infra.NewDatabase("sqlite://" + filepath.Join(t.TempDir(), "router.db"))
	require.NoError(t, err)
	return buildStack(t, testConfig(t, auth), db, service.Options{})
}

func (s *stack) call(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestAuthProtectsDomainRoutes(t *testing.T) {
	s := sqliteStack(t, true)

	assert.Equal(t, http.StatusUnauthorized, s.call(t, http.MethodGet, "/v1/products", nil, "").Code)
	assert.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/health", nil, "").Code)

	w := s.call(t, http.MethodPost, "/v1/auth/login", map[string]string{"username": "owner", "password": "wrong-pass"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.call(t, http.MethodPost, "/v1/auth/login", map[string]string{"username": "owner", "password": "hunter22"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[dto.LoginResponse](t, w)

	assert.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/v1/products", nil, login.AccessToken).Code)
	assert.Equal(t, http.StatusUnauthorized, s.call(t, http.MethodGet, "/v1/products", nil, login.RefreshToken).Code)

	w = s.call(t, http.MethodPost, "/v1/auth/refresh", map[string]string{"refresh_token": login.RefreshToken}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthDisabledLeavesRoutesOpen(t *testing.T) {
	s := sqliteStack(t, false)
	assert.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/v1/products", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, s.call(t, http.MethodPost, "/v1/auth/login", map[string]string{}, "").Code)
}

// widgetFlow runs the restock cycle over HTTP: add, order, receive, sell,
// oversell, delete-in-use.
func widgetFlow(t *testing.T, s *stack) {
	w := s.call(t, http.MethodPost, "/v1/products", map[string]any{
		"name": "Widget", "buying_price": "5.00", "selling_price": "8.00", "current_stock": 0,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	product := decode[dto.ProductResponse](t, w)
	assert.Equal(t, 10, product.ReorderLevel)

	w = s.call(t, http.MethodPost, "/v1/purchase-orders", map[string]any{
		"product_id": product.ID, "quantity": 20, "cost_per_unit": "5.00",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode[dto.PurchaseOrderResponse](t, w)
	assert.Equal(t, "Pending", order.Status)
	assert.Equal(t, "100", order.TotalCost.String())

	path := "/v1/purchase-orders/" + jsonID(order.ID)
	require.Equal(t, http.StatusOK, s.call(t, http.MethodPost, path+"/receive", nil, "").Code)
	assert.Equal(t, http.StatusConflict, s.call(t, http.MethodPost, path+"/receive", nil, "").Code)
	assert.Equal(t, http.StatusConflict, s.call(t, http.MethodPost, path+"/cancel", nil, "").Code)

	w = s.call(t, http.MethodPost, "/v1/sales", map[string]any{"product_id": product.ID, "quantity": 15}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sale := decode[dto.SaleResponse](t, w)
	assert.Equal(t, "120", sale.Revenue.String())
	assert.Equal(t, "45", sale.Profit.String())

	w = s.call(t, http.MethodPost, "/v1/sales", map[string]any{"product_id": product.ID, "quantity": 6}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.call(t, http.MethodGet, "/v1/products/"+jsonID(product.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, decode[dto.ProductResponse](t, w).CurrentStock)

	w = s.call(t, http.MethodGet, "/v1/inventory/alerts", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	alerts := decode[dto.StockAlertsResponse](t, w)
	require.Len(t, alerts.BelowReorder, 1)

	now := time.Now().UTC()
	w = s.call(t, http.MethodGet, "/v1/reports/monthly?year="+jsonID(uint(now.Year()))+"&month="+jsonID(uint(now.Month())), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[dto.MonthlyReportResponse](t, w)
	assert.Equal(t, 1, report.Stats.TotalTransactions)
	assert.Equal(t, "45", report.Stats.TotalProfit.String())

	assert.Equal(t, http.StatusConflict, s.call(t, http.MethodDelete, "/v1/products/"+jsonID(product.ID), nil, "").Code)
	assert.Equal(t, http.StatusNotFound, s.call(t, http.MethodDelete, "/v1/products/9999", nil, "").Code)
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestWidgetFlowSQLite(t *testing.T) {
	widgetFlow(t, sqliteStack(t, false))
}

func TestDashboardAndTrends(t *testing.T) {
	s := sqliteStack(t, false)
	w := s.call(t, http.MethodGet, "/v1/reports/trends?months=3", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[dto.TrendsResponse](t, w).Months, 3)

	assert.Equal(t, http.StatusBadRequest, s.call(t, http.MethodGet, "/v1/reports/stats?months=0", nil, "").Code)

	w = s.call(t, http.MethodGet, "/v1/reports/dashboard", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "break-even", decode[dto.DashboardResponse](t, w).Status)
}

func TestRequestIDOnResponses(t *testing.T) {
	s := sqliteStack(t, false)
	w := s.call(t, http.MethodGet, "/health", nil, "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
