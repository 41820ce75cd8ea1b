package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"stockdesk/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSaleDecrementsStockAndSnapshotsPrices(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Widget", "5.00", "8.00", 20)

	sale, err := f.sales.Record(context.Background(), dto.RecordSaleRequest{ProductID: p.ID, Quantity: 5})
	require.NoError(t, err)

	assert.Equal(t, 15, f.stockOf(t, p.ID))
	assert.True(t, sale.SaleDate.Equal(testNow), "sale date defaults to the service clock")
	assertDecimal(t, "8", sale.SalePrice)
	assertDecimal(t, "5", sale.CostPrice)
	assertDecimal(t, "40", sale.Revenue)
	assertDecimal(t, "15", sale.Profit)
	assert.Equal(t, "Widget", sale.ProductName)
}

func TestRecordSaleRejectsOversell(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Widget", "5", "8", 5)

	_, err := f.sales.Record(context.Background(), dto.RecordSaleRequest{ProductID: p.ID, Quantity: 6})
	require.ErrorIs(t, err, ErrInsufficientStock)

	var stockErr *StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 6, stockErr.Requested)

	assert.Equal(t, 5, f.stockOf(t, p.ID), "rejected sale must not change stock")
	history, err := f.sales.History(context.Background(), dto.SaleFilter{})
	require.NoError(t, err)
	assert.Empty(t, history.Sales)
}

func TestRecordSaleUnknownProductAndBadQuantity(t *testing.T) {
	f := newFixture(t)
	_, err := f.sales.Record(context.Background(), dto.RecordSaleRequest{ProductID: 42, Quantity: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)

	p := f.addProduct(t, "Widget", "5", "8", 5)
	_, err = f.sales.Record(context.Background(), dto.RecordSaleRequest{ProductID: p.ID, Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestSaleSnapshotSurvivesPriceChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(t, "Widget", "5.00", "8.00", 20)
	f.sellAt(t, p.ID, 2, testNow)

	_, err := f.products.Update(ctx, p.ID, dto.UpdateProductRequest{
		Name: "Widget", BuyingPrice: decimal.NewFromInt(7), SellingPrice: decimal.NewFromInt(12), CurrentStock: 18, ReorderLevel: 10,
	})
	require.NoError(t, err)

	sales, err := f.sales.MonthlySales(ctx, 2024, 3)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assertDecimal(t, "8", sales[0].SalePrice)
	assertDecimal(t, "5", sales[0].CostPrice)
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Widget", "5", "8", 5)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, rejected := 0, 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.sales.Record(context.Background(), dto.RecordSaleRequest{ProductID: p.ID, Quantity: 1})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, ErrInsufficientStock) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	assert.Equal(t, 5, rejected)
	assert.Equal(t, 0, f.stockOf(t, p.ID))
}

func TestRecordSaleEnqueuesReorderAlert(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Widget", "5", "8", 15) // reorder level defaults to 10

	f.sellAt(t, p.ID, 2, testNow)
	assert.Empty(t, f.alerts.sent, "13 units left is above the reorder level")

	f.sellAt(t, p.ID, 3, testNow)
	require.Len(t, f.alerts.sent, 1)
	assert.Equal(t, p.ID, f.alerts.sent[0].ProductID)
	assert.Equal(t, 10, f.alerts.sent[0].CurrentStock)
}

func TestMonthlySalesBounds(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Widget", "6", "10", 100)
	f.sellAt(t, p.ID, 1, time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC))
	f.sellAt(t, p.ID, 3, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	f.sellAt(t, p.ID, 2, time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC))
	f.sellAt(t, p.ID, 4, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))

	sales, err := f.sales.MonthlySales(context.Background(), 2024, 3)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, 2, sales[0].Quantity, "newest first")
	assert.Equal(t, 3, sales[1].Quantity)

	empty, err := f.sales.MonthlySales(context.Background(), 2023, 1)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = f.sales.MonthlySales(context.Background(), 2024, 13)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestSalesHistoryFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	widget := f.addProduct(t, "Widget", "6", "10", 100)
	gadget := f.addProduct(t, "Gadget", "1", "2", 100)

	f.sellAt(t, widget.ID, 1, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	f.sellAt(t, widget.ID, 2, time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC))
	f.sellAt(t, gadget.ID, 5, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))
	f.sellAt(t, widget.ID, 3, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC))

	start := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	h, err := f.sales.History(ctx, dto.SaleFilter{Start: &start, End: &end})
	require.NoError(t, err)
	require.Len(t, h.Sales, 2, "end date covers its whole day, the next midnight is out")
	assert.Equal(t, "Widget", h.Sales[0].ProductName)
	assert.Equal(t, 7, h.TotalUnits)
	assertDecimal(t, "30", h.TotalRevenue) // 2*10 + 5*2
	assertDecimal(t, "13", h.TotalProfit)  // 2*4 + 5*1
	assertDecimal(t, "43.33", h.ProfitMarginPct)
	require.Len(t, h.Breakdown, 2)
	assert.Equal(t, "Gadget", h.Breakdown[0].Name)
	assert.Equal(t, gadget.ID, h.Breakdown[0].ProductID)
	assert.Equal(t, 5, h.Breakdown[0].Units)
	assertDecimal(t, "10", h.Breakdown[0].Revenue)
	assertDecimal(t, "5", h.Breakdown[0].Profit)
	assert.Equal(t, "Widget", h.Breakdown[1].Name)
	assert.Equal(t, 2, h.Breakdown[1].Units)
	assertDecimal(t, "20", h.Breakdown[1].Revenue)
	assertDecimal(t, "8", h.Breakdown[1].Profit)

	pid := widget.ID
	h, err = f.sales.History(ctx, dto.SaleFilter{ProductID: &pid})
	require.NoError(t, err)
	assert.Equal(t, 3, h.TotalTransactions)
	require.Len(t, h.Breakdown, 1)
	assert.Equal(t, 6, h.Breakdown[0].Units)

	none := uint(777)
	h, err = f.sales.History(ctx, dto.SaleFilter{ProductID: &none})
	require.NoError(t, err)
	assert.Empty(t, h.Sales)
	assert.NotNil(t, h.Breakdown)
	assert.Empty(t, h.Breakdown)
	assert.True(t, h.ProfitMarginPct.IsZero())

	_, err = f.sales.History(ctx, dto.SaleFilter{Start: &end, End: &start})
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}
