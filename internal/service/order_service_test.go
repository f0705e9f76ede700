package service

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/metrics"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/models"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/repository"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/utils"
)

func newTestOrderService(t *testing.T) (*OrderService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	svc := NewOrderService(store, store, metrics.NewRegistry())
	return svc, store
}

func seedProduct(t *testing.T, store *repository.MemoryStore, name string, price, stock int) int {
	t.Helper()
	batch := []models.Product{{Name: name, Description: "test", Price: price, Image: "img", Stock: stock}}
	applied, err := store.UpsertProducts(context.Background(), batch)
	require.NoError(t, err)
	require.Equal(t, 1, applied)
	return batch[0].ID
}

func validRequest(productID int) *CreateOrderRequest {
	return &CreateOrderRequest{
		ProductID:     json.Number(strconv.Itoa(productID)),
		CustomerName:  "Asha Verma",
		CustomerPhone: "9876543210",
		PaymentMethod: "upi",
		Quantity:      json.Number("2"),
	}
}

func TestCreateOrderComputesTotalAndDecrementsStock(t *testing.T) {
	svc, store := newTestOrderService(t)
	ctx := context.Background()
	id := seedProduct(t, store, "Tawa", 300, 5)

	order, err := svc.CreateOrder(ctx, validRequest(id))
	require.NoError(t, err)

	assert.Equal(t, 600, order.TotalAmount)
	assert.Equal(t, 2, order.Quantity)
	assert.Equal(t, "Tawa", order.ProductName)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, models.OrderPending, order.OrderStatus)
	assert.False(t, order.CreatedAt.IsZero())
	assert.Equal(t, order.CreatedAt, order.UpdatedAt)

	p, err := store.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)

	got, err := store.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.TotalAmount, got.TotalAmount)
}

func TestCreateOrderQuantityDefaultsToOne(t *testing.T) {
	svc, store := newTestOrderService(t)
	ctx := context.Background()
	id := seedProduct(t, store, "Kadhai", 599, 5)

	req := validRequest(id)
	req.Quantity = json.Number("")
	order, err := svc.CreateOrder(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, 1, order.Quantity)
	assert.Equal(t, 599, order.TotalAmount)
}

func TestCreateOrderAcceptsStringNumbers(t *testing.T) {
	svc, store := newTestOrderService(t)
	ctx := context.Background()
	id := seedProduct(t, store, "Tawa", 300, 5)

	// The storefront form posts ids and quantities as strings.
	req := validRequest(id)
	req.ProductID = json.Number(strconv.Itoa(id))
	req.Quantity = json.Number("3")
	order, err := svc.CreateOrder(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 900, order.TotalAmount)
}

func TestCreateOrderMissingFields(t *testing.T) {
	svc, store := newTestOrderService(t)
	ctx := context.Background()
	id := seedProduct(t, store, "Tawa", 300, 5)

	tests := []struct {
		name   string
		mutate func(*CreateOrderRequest)
		field  string
	}{
		{"product_id", func(r *CreateOrderRequest) { r.ProductID = json.Number("") }, "product_id"},
		{"customer_name", func(r *CreateOrderRequest) { r.CustomerName = "  " }, "customer_name"},
		{"customer_phone", func(r *CreateOrderRequest) { r.CustomerPhone = "" }, "customer_phone"},
		{"payment_method", func(r *CreateOrderRequest) { r.PaymentMethod = "" }, "payment_method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(id)
			tt.mutate(req)

			_, err := svc.CreateOrder(ctx, req)
			require.Error(t, err)
			assert.True(t, utils.IsValidation(err))
			assert.Contains(t, err.Error(), tt.field)

			// Validation failures must not touch the catalog.
			p, gerr := store.GetProduct(ctx, id)
			require.NoError(t, gerr)
			assert.Equal(t, 5, p.Stock)
		})
	}
}

func TestCreateOrderInvalidQuantity(t *testing.T) {
	svc, store := newTestOrderService(t)
	ctx := context.Background()
	id := seedProduct(t, store, "Tawa", 300, 5)

	for _, qty := range []string{"abc", "0", "-3", "1.5"} {
		req := validRequest(id)
		req.Quantity = json.Number(qty)

		_, err := svc.CreateOrder(ctx, req)
		require.Error(t, err, "quantity %q", qty)
		assert.True(t, utils.IsValidation(err), "quantity %q", qty)
	}

	p, err := store.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)
}

func TestCreateOrderProductNotFound(t *testing.T) {
	svc, _ := newTestOrderService(t)

	req := validRequest(9999)
	_, err := svc.CreateOrder(context.Background(), req)
	assert.ErrorIs(t, err, utils.ErrProductNotFound)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	svc, store := newTestOrderService(t)
	ctx := context.Background()
	id := seedProduct(t, store, "Tawa", 300, 3)

	req := validRequest(id)
	req.Quantity = json.Number("10")

	_, err := svc.CreateOrder(ctx, req)
	require.Error(t, err)
	assert.True(t, utils.IsInsufficientStock(err))
	assert.Contains(t, err.Error(), "3")

	// No mutation on failure: stock intact, ledger empty.
	p, err := store.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)

	orders, err := store.ListOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

// failingLedger wraps a real ledger and fails every append.
type failingLedger struct {
	repository.Ledger
}

func (f *failingLedger) AppendOrder(ctx context.Context, order *models.Order) error {
	return assert.AnError
}

func TestCreateOrderRestocksWhenAppendFails(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewOrderService(store, &failingLedger{Ledger: store}, metrics.NewRegistry())
	ctx := context.Background()
	id := seedProduct(t, store, "Tawa", 300, 5)

	_, err := svc.CreateOrder(ctx, validRequest(id))
	assert.ErrorIs(t, err, utils.ErrStorageUnavailable)

	// The decrement must have been compensated.
	p, gerr := store.GetProduct(ctx, id)
	require.NoError(t, gerr)
	assert.Equal(t, 5, p.Stock)
}

func TestConcurrentOrdersNeverOversell(t *testing.T) {
	svc, store := newTestOrderService(t)
	ctx := context.Background()
	const stock = 10
	const attempts = 25
	id := seedProduct(t, store, "Pressure Cooker", 1899, stock)

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := validRequest(id)
			req.Quantity = json.Number("1")
			_, err := svc.CreateOrder(ctx, req)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes, shortages := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case utils.IsInsufficientStock(err):
			shortages++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, stock, successes)
	assert.Equal(t, attempts-stock, shortages)

	p, err := store.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)

	orders, err := store.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, stock)
}

func TestTrackOrdersNewestFirstAndIdempotent(t *testing.T) {
	svc, store := newTestOrderService(t)
	ctx := context.Background()
	id := seedProduct(t, store, "Tawa", 300, 50)

	// Freeze the clock so ordering falls back to id descending.
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, istZone)
	svc.nowFunc = func() time.Time { return fixed }

	for i := 0; i < 3; i++ {
		_, err := svc.CreateOrder(ctx, validRequest(id))
		require.NoError(t, err)
	}
	other := validRequest(id)
	other.CustomerPhone = "1112223334"
	_, err := svc.CreateOrder(ctx, other)
	require.NoError(t, err)

	orders, err := svc.TrackOrders(ctx, "9876543210")
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Greater(t, orders[0].ID, orders[1].ID)
	assert.Greater(t, orders[1].ID, orders[2].ID)

	again, err := svc.TrackOrders(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, orders, again)
}

func TestTrackOrdersNoMatchesIsEmptyResult(t *testing.T) {
	svc, _ := newTestOrderService(t)

	orders, err := svc.TrackOrders(context.Background(), "9999999999")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestTrackOrdersRequiresPhone(t *testing.T) {
	svc, _ := newTestOrderService(t)

	_, err := svc.TrackOrders(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, utils.IsValidation(err))
}

func TestUpdateOrderPatchesOnlyAllowedFields(t *testing.T) {
	svc, store := newTestOrderService(t)
	ctx := context.Background()
	id := seedProduct(t, store, "Tawa", 300, 5)

	order, err := svc.CreateOrder(ctx, validRequest(id))
	require.NoError(t, err)

	paid := "received"
	shipped := "shipped"
	err = svc.UpdateOrder(ctx, order.ID, &models.OrderPatch{
		PaymentStatus: &paid,
		OrderStatus:   &shipped,
	})
	require.NoError(t, err)

	got, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentReceived, got.PaymentStatus)
	assert.Equal(t, models.OrderShipped, got.OrderStatus)
	assert.Nil(t, got.Notes)
	// Frozen fields keep their creation-time snapshot.
	assert.Equal(t, 600, got.TotalAmount)
	assert.Equal(t, "Tawa", got.ProductName)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))
}

func TestUpdateOrderNotFound(t *testing.T) {
	svc, _ := newTestOrderService(t)

	notes := "late"
	err := svc.UpdateOrder(context.Background(), 42, &models.OrderPatch{Notes: &notes})
	assert.ErrorIs(t, err, utils.ErrOrderNotFound)
}

func TestDeleteOrder(t *testing.T) {
	svc, store := newTestOrderService(t)
	ctx := context.Background()
	id := seedProduct(t, store, "Tawa", 300, 5)

	order, err := svc.CreateOrder(ctx, validRequest(id))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(ctx, order.ID))
	_, err = svc.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, utils.ErrOrderNotFound)

	assert.ErrorIs(t, svc.DeleteOrder(ctx, order.ID), utils.ErrOrderNotFound)
}

func TestOrderTimestampsUseISTOffset(t *testing.T) {
	svc, store := newTestOrderService(t)
	ctx := context.Background()
	id := seedProduct(t, store, "Tawa", 300, 5)

	order, err := svc.CreateOrder(ctx, validRequest(id))
	require.NoError(t, err)

	_, offset := order.CreatedAt.Zone()
	assert.Equal(t, 5*3600+30*60, offset)
}
