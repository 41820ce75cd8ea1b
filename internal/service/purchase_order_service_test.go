package service

import (
	"context"
	"os"
	"testing"
	"time"

	"stockdesk/internal/dto"
	"stockdesk/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) order(t *testing.T, productID uint, qty int, cost string) *dto.PurchaseOrderResponse {
	t.Helper()
	o, err := f.orders.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		ProductID: productID, Quantity: qty, CostPerUnit: decimal.RequireFromString(cost),
	})
	require.NoError(t, err)
	return o
}

func TestCreatePurchaseOrder(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Widget", "5", "8", 0)

	due := testNow.AddDate(0, 0, 7)
	o, err := f.orders.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		ProductID: p.ID, Quantity: 30, CostPerUnit: decimal.RequireFromString("5.00"), ExpectedDelivery: &due,
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusPending), o.Status)
	assertDecimal(t, "150", o.TotalCost)
	assert.True(t, o.OrderDate.Equal(testNow))
	assert.Equal(t, "Widget", o.ProductName)
	assert.Equal(t, 0, f.stockOf(t, p.ID), "creating an order does not touch stock")

	_, err = f.orders.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		ProductID: 404, Quantity: 1, CostPerUnit: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = f.orders.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		ProductID: p.ID, Quantity: 0, CostPerUnit: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestReceiveIncrementsStockOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(t, "Widget", "5", "8", 15)
	o := f.order(t, p.ID, 30, "5")

	received, err := f.orders.Receive(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusReceived), received.Status)
	assert.Equal(t, 45, f.stockOf(t, p.ID))

	_, err = f.orders.Receive(ctx, o.ID)
	assert.ErrorIs(t, err, ErrOrderNotPending)
	assert.Equal(t, 45, f.stockOf(t, p.ID), "second receive must not add stock again")

	_, err = f.orders.Receive(ctx, 9999)
	assert.ErrorIs(t, err, ErrPurchaseOrderNotFound)
}

func TestCancelOnlyFromPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(t, "Widget", "5", "8", 10)

	pending := f.order(t, p.ID, 5, "5")
	cancelled, err := f.orders.Cancel(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusCancelled), cancelled.Status)
	assert.Equal(t, 10, f.stockOf(t, p.ID))

	_, err = f.orders.Receive(ctx, pending.ID)
	assert.ErrorIs(t, err, ErrOrderNotPending)
	assert.Equal(t, 10, f.stockOf(t, p.ID))

	received := f.order(t, p.ID, 5, "5")
	_, err = f.orders.Receive(ctx, received.ID)
	require.NoError(t, err)
	_, err = f.orders.Cancel(ctx, received.ID)
	assert.ErrorIs(t, err, ErrOrderNotPending)

	got, err := f.orders.Get(ctx, received.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusReceived), got.Status, "cancel on a received order is a no-op")
}

func TestListPurchaseOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(t, "Widget", "5", "8", 10)

	older := testNow.Add(-48 * time.Hour)
	_, err := f.orders.Create(ctx, dto.CreatePurchaseOrderRequest{ProductID: p.ID, Quantity: 1, CostPerUnit: decimal.NewFromInt(5), OrderDate: &older})
	require.NoError(t, err)
	newest := f.order(t, p.ID, 2, "5")
	_, err = f.orders.Cancel(ctx, newest.ID)
	require.NoError(t, err)

	all, err := f.orders.List(ctx, dto.PurchaseOrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newest.ID, all[0].ID, "order date descending")

	pending, err := f.orders.List(ctx, dto.PurchaseOrderFilter{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].Quantity)

	_, err = f.orders.List(ctx, dto.PurchaseOrderFilter{Status: "shipped"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestPurchaseOrderDocument(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Widget", "5", "8", 10)
	o := f.order(t, p.ID, 30, "5")

	path, err := f.orders.Document(context.Background(), o.ID)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	_, err = f.orders.Document(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrPurchaseOrderNotFound)
}

// Widget walk-through: add, sell, reorder, receive.
func TestWidgetEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.addProduct(t, "Widget", "5.00", "8.00", 20)

	sale, err := f.sales.Record(ctx, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 15, f.stockOf(t, p.ID))
	assertDecimal(t, "8.00", sale.SalePrice)
	assertDecimal(t, "5.00", sale.CostPrice)

	sales, err := f.sales.MonthlySales(ctx, testNow.Year(), int(testNow.Month()))
	require.NoError(t, err)
	assert.Len(t, sales, 1)

	due := testNow.AddDate(0, 0, 14)
	o, err := f.orders.Create(ctx, dto.CreatePurchaseOrderRequest{
		ProductID: p.ID, Quantity: 30, CostPerUnit: decimal.RequireFromString("5.00"), ExpectedDelivery: &due,
	})
	require.NoError(t, err)
	assertDecimal(t, "150.00", o.TotalCost)
	assert.Equal(t, "Pending", o.Status)

	received, err := f.orders.Receive(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Received", received.Status)
	assert.Equal(t, 45, f.stockOf(t, p.ID))
}
