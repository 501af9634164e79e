package fulfillment

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/personal-ufcg-projects/compia-bookstore-api/internal/domain"
)

// SetStatus applies a post-creation status change. Any status is reachable
// from any other; the request only has to name a known status and order.
func (e *Engine) SetStatus(ctx context.Context, orderID int64, status string) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, &ValidationError{Field: "status", Reason: "unknown order status"}
	}

	var order domain.Order
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").Where("id = ?", orderID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return errors.Wrap(err, "failed to load order")
		}
		if err := tx.Model(&domain.Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error; err != nil {
			return errors.Wrap(err, "failed to update order status")
		}
		order.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.Audit(domain.ActionUpdate, domain.EntityOrder, orderID, "Status → "+status)
	return &order, nil
}
