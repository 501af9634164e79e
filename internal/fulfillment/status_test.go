package fulfillment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personal-ufcg-projects/compia-bookstore-api/internal/domain"
)

func placeTestOrder(t *testing.T, eng *Engine, productID int64) *domain.Order {
	t.Helper()
	order, err := eng.PlaceOrder(context.Background(), placeInput("Clara", Line{ProductId: productID, Quantity: 1}))
	require.NoError(t, err)
	return order
}

func TestSetStatus_AppliesAndAudits(t *testing.T) {
	eng, db := newTestEngine(t)
	p := seedProduct(t, db, "Status Book", "10.00", 5)
	order := placeTestOrder(t, eng, p.ID)

	updated, err := eng.SetStatus(context.Background(), order.ID, domain.StatusDelivered)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, updated.Status)

	stored := domain.Order{}
	require.NoError(t, db.Where("id = ?", order.ID).First(&stored).Error)
	assert.Equal(t, domain.StatusDelivered, stored.Status)

	var entry domain.ActivityLog
	require.NoError(t, db.Where("action = ? AND entity_id = ?", domain.ActionUpdate, order.ID).First(&entry).Error)
	assert.Equal(t, "Status → Delivered", entry.Details)
}

func TestSetStatus_AnyTransitionAllowed(t *testing.T) {
	// Delivered back to Processing is valid under the permissive model.
	eng, db := newTestEngine(t)
	p := seedProduct(t, db, "Status Book", "10.00", 5)
	order := placeTestOrder(t, eng, p.ID)

	_, err := eng.SetStatus(context.Background(), order.ID, domain.StatusDelivered)
	require.NoError(t, err)

	updated, err := eng.SetStatus(context.Background(), order.ID, domain.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, updated.Status)

	var entry domain.ActivityLog
	require.NoError(t, db.Where("details = ?", "Status → Processing").First(&entry).Error)
}

func TestSetStatus_UnknownStatus(t *testing.T) {
	eng, db := newTestEngine(t)
	p := seedProduct(t, db, "Status Book", "10.00", 5)
	order := placeTestOrder(t, eng, p.ID)

	_, err := eng.SetStatus(context.Background(), order.ID, "Shipped")

	assert.True(t, IsValidation(err))
}

func TestSetStatus_UnknownOrder(t *testing.T) {
	eng, _ := newTestEngine(t)

	_, err := eng.SetStatus(context.Background(), 12345, domain.StatusCancelled)

	assert.ErrorIs(t, err, ErrOrderNotFound)
}
