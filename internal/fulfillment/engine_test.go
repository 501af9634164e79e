package fulfillment

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/personal-ufcg-projects/compia-bookstore-api/internal/domain"
)

func placeInput(name string, lines ...Line) PlaceOrderInput {
	return PlaceOrderInput{
		CustomerName:  name,
		CustomerEmail: "customer@example.com",
		Items:         lines,
	}
}

func TestPlaceOrder_HappyPath(t *testing.T) {
	eng, db := newTestEngine(t)
	a := seedProduct(t, db, "Foundations of AI", "50.00", 2)

	order, err := eng.PlaceOrder(context.Background(), placeInput("Maria", Line{ProductId: a.ID, Quantity: 2}))

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, domain.StatusProcessing, order.Status)
	assert.Equal(t, "100.00", order.Total.StringFixed(2))
	require.Len(t, order.Items, 1)
	assert.Equal(t, a.ID, order.Items[0].ProductId)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "50.00", order.Items[0].PriceAtTime.StringFixed(2))

	got := reloadProduct(t, db, a.ID)
	assert.Equal(t, 0, got.StockCount)
	assert.False(t, got.InStock)

	var entry domain.ActivityLog
	require.NoError(t, db.Where("entity = ? AND entity_id = ?", domain.EntityOrder, order.ID).First(&entry).Error)
	assert.Equal(t, domain.ActionCreate, entry.Action)
	assert.Equal(t, "Maria - 100.00", entry.Details)
}

func TestPlaceOrder_UnlimitedSentinelNeverDecrements(t *testing.T) {
	eng, db := newTestEngine(t)
	b := seedProduct(t, db, "Deep Learning in Practice", "64.90", domain.UnlimitedStockSentinel)

	order, err := eng.PlaceOrder(context.Background(), placeInput("Joana", Line{ProductId: b.ID, Quantity: 50}))

	require.NoError(t, err)
	assert.Equal(t, "3245.00", order.Total.StringFixed(2))

	got := reloadProduct(t, db, b.ID)
	assert.Equal(t, domain.UnlimitedStockSentinel, got.StockCount)
	assert.True(t, got.InStock)
}

func TestPlaceOrder_MultiItemAllOrNothing(t *testing.T) {
	eng, db := newTestEngine(t)
	a := seedProduct(t, db, "Available Book", "10.00", 10)
	b := seedProduct(t, db, "Scarce Book", "20.00", 1)

	_, err := eng.PlaceOrder(context.Background(), placeInput("Pedro",
		Line{ProductId: a.ID, Quantity: 2},
		Line{ProductId: b.ID, Quantity: 5},
	))

	require.Error(t, err)
	assert.True(t, IsInsufficientStock(err))
	assert.ErrorContains(t, err, "Scarce Book")

	// No side effects at all: no order, no items, no stock change, no audit.
	assert.EqualValues(t, 0, countRows(t, db, &domain.Order{}))
	assert.EqualValues(t, 0, countRows(t, db, &domain.OrderItem{}))
	assert.EqualValues(t, 0, countRows(t, db, &domain.ActivityLog{}))
	assert.Equal(t, 10, reloadProduct(t, db, a.ID).StockCount)
	assert.Equal(t, 1, reloadProduct(t, db, b.ID).StockCount)
}

func TestPlaceOrder_UnknownProduct(t *testing.T) {
	eng, db := newTestEngine(t)
	a := seedProduct(t, db, "Known Book", "10.00", 10)

	_, err := eng.PlaceOrder(context.Background(), placeInput("Rita",
		Line{ProductId: a.ID, Quantity: 1},
		Line{ProductId: a.ID + 1, Quantity: 1},
	))

	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.EqualValues(t, 0, countRows(t, db, &domain.Order{}))
	assert.Equal(t, 10, reloadProduct(t, db, a.ID).StockCount)
}

func TestPlaceOrder_RequestValidation(t *testing.T) {
	eng, db := newTestEngine(t)
	a := seedProduct(t, db, "Known Book", "10.00", 10)

	tests := []struct {
		name  string
		input PlaceOrderInput
	}{
		{
			name:  "empty items",
			input: PlaceOrderInput{CustomerName: "Maria", CustomerEmail: "m@example.com"},
		},
		{
			name: "blank customer name",
			input: PlaceOrderInput{CustomerName: "  ", CustomerEmail: "m@example.com",
				Items: []Line{{ProductId: a.ID, Quantity: 1}}},
		},
		{
			name: "malformed email",
			input: PlaceOrderInput{CustomerName: "Maria", CustomerEmail: "not-an-email",
				Items: []Line{{ProductId: a.ID, Quantity: 1}}},
		},
		{
			name: "non-positive quantity",
			input: PlaceOrderInput{CustomerName: "Maria", CustomerEmail: "m@example.com",
				Items: []Line{{ProductId: a.ID, Quantity: 0}}},
		},
		{
			name: "duplicate product",
			input: PlaceOrderInput{CustomerName: "Maria", CustomerEmail: "m@example.com",
				Items: []Line{{ProductId: a.ID, Quantity: 1}, {ProductId: a.ID, Quantity: 2}}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := eng.PlaceOrder(context.Background(), tc.input)
			assert.True(t, IsValidation(err), "expected validation error, got %v", err)
		})
	}

	assert.EqualValues(t, 0, countRows(t, db, &domain.Order{}))
	assert.Equal(t, 10, reloadProduct(t, db, a.ID).StockCount)
}

func TestPlaceOrder_PriceSnapshotSurvivesPriceChange(t *testing.T) {
	eng, db := newTestEngine(t)
	a := seedProduct(t, db, "Repriced Book", "89.90", 10)

	order, err := eng.PlaceOrder(context.Background(), placeInput("Luis", Line{ProductId: a.ID, Quantity: 1}))
	require.NoError(t, err)

	require.NoError(t, db.Model(&domain.Product{}).Where("id = ?", a.ID).
		Update("price", decimal.RequireFromString("999.99")).Error)

	var stored domain.Order
	require.NoError(t, db.Preload("Items").Where("id = ?", order.ID).First(&stored).Error)
	assert.Equal(t, "89.90", stored.Items[0].PriceAtTime.StringFixed(2))
	assert.Equal(t, "89.90", stored.Total.StringFixed(2))
}

func TestPlaceOrder_AuditFailureDoesNotFailOrder(t *testing.T) {
	eng, db := newTestEngine(t)
	a := seedProduct(t, db, "Logged Book", "10.00", 5)

	require.NoError(t, db.Migrator().DropTable(&domain.ActivityLog{}))

	order, err := eng.PlaceOrder(context.Background(), placeInput("Ana", Line{ProductId: a.ID, Quantity: 1}))

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, 4, reloadProduct(t, db, a.ID).StockCount)
}

// stealStock registers an update callback that fires right before the guarded
// stock decrement and takes units away, the same interleaving a concurrent
// checkout committing between snapshot read and write would produce. The steal
// runs inside the caller's transaction, so a rolled-back attempt undoes it.
func stealStock(t *testing.T, db *gorm.DB, productID int64, qty int, times int) {
	t.Helper()
	fired := 0
	err := db.Callback().Update().Before("gorm:update").Register("test:steal_stock", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Model.(*domain.Product); !ok {
			return
		}
		if times >= 0 && fired >= times {
			return
		}
		fired++
		tx.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE products SET stock_count = stock_count - ? WHERE id = ?", qty, productID)
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Callback().Update().Remove("test:steal_stock"))
	})
}

func TestPlaceOrder_RetriesAfterGuardedDecrementMiss(t *testing.T) {
	eng, db := newTestEngine(t)
	a := seedProduct(t, db, "Contested Book", "25.00", 3)

	// First attempt loses two units to a competing writer, misses the
	// stock_count guard and rolls back; the retry starts from a clean
	// snapshot and succeeds.
	stealStock(t, db, a.ID, 2, 1)

	order, err := eng.PlaceOrder(context.Background(), placeInput("Vera", Line{ProductId: a.ID, Quantity: 2}))

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, "50.00", order.Total.StringFixed(2))
	assert.EqualValues(t, 1, countRows(t, db, &domain.Order{}))

	got := reloadProduct(t, db, a.ID)
	assert.Equal(t, 1, got.StockCount)
	assert.True(t, got.InStock)
}

func TestPlaceOrder_PersistentConflictSurfaces(t *testing.T) {
	eng, db := newTestEngine(t)
	a := seedProduct(t, db, "Contested Book", "25.00", 2)

	// Every attempt loses a unit before the guarded decrement, so the single
	// retry also misses and the conflict reaches the caller.
	stealStock(t, db, a.ID, 1, -1)

	_, err := eng.PlaceOrder(context.Background(), placeInput("Vera", Line{ProductId: a.ID, Quantity: 2}))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	// Both attempts rolled back completely.
	assert.EqualValues(t, 0, countRows(t, db, &domain.Order{}))
	assert.EqualValues(t, 0, countRows(t, db, &domain.OrderItem{}))
	assert.EqualValues(t, 0, countRows(t, db, &domain.ActivityLog{}))
	assert.Equal(t, 2, reloadProduct(t, db, a.ID).StockCount)
}

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, isSerializationFailure(ErrConflict))
	assert.True(t, isSerializationFailure(fmt.Errorf("ERROR: could not serialize access (SQLSTATE 40001)")))
	assert.True(t, isSerializationFailure(fmt.Errorf("ERROR: deadlock detected (SQLSTATE 40P01)")))
	assert.False(t, isSerializationFailure(fmt.Errorf("connection refused")))
}

func TestPlaceOrder_TrimsCustomerName(t *testing.T) {
	eng, db := newTestEngine(t)
	a := seedProduct(t, db, "Tidy Book", "10.00", 5)

	order, err := eng.PlaceOrder(context.Background(), placeInput("  Sofia  ", Line{ProductId: a.ID, Quantity: 1}))

	require.NoError(t, err)
	assert.Equal(t, "Sofia", order.CustomerName)

	// The audit detail carries the same trimmed name as the stored order.
	var entry domain.ActivityLog
	require.NoError(t, db.Where("entity = ? AND entity_id = ?", domain.EntityOrder, order.ID).First(&entry).Error)
	assert.Equal(t, "Sofia - 10.00", entry.Details)
}

func TestPlaceOrder_ConcurrentLastUnit(t *testing.T) {
	eng, db := newTestEngine(t)
	a := seedProduct(t, db, "Last Copy", "30.00", 1)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = eng.PlaceOrder(context.Background(), placeInput("Racer", Line{ProductId: a.ID, Quantity: 1}))
		}(i)
	}
	wg.Wait()

	succeeded, outOfStock := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case IsInsufficientStock(err):
			outOfStock++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, n-1, outOfStock)

	got := reloadProduct(t, db, a.ID)
	assert.Equal(t, 0, got.StockCount)
	assert.False(t, got.InStock)
	assert.EqualValues(t, 1, countRows(t, db, &domain.Order{}))
}
