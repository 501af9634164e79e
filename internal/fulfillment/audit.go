package fulfillment

import (
	"go.uber.org/zap"

	"github.com/personal-ufcg-projects/compia-bookstore-api/internal/domain"
	"github.com/personal-ufcg-projects/compia-bookstore-api/pkg/common"
)

// Audit appends an activity-log row. Log writes are best effort: a failure is
// reported but never rolls back or fails the action it records, which is why
// this runs outside the fulfillment transaction and without the request
// context.
func (e *Engine) Audit(action, entity string, entityId int64, details string) {
	entry := &domain.ActivityLog{
		ID:       common.UUIDint64(),
		Action:   action,
		Entity:   entity,
		EntityId: entityId,
		Details:  details,
	}
	if err := e.db.Create(entry).Error; err != nil {
		zap.L().Warn("activity log write failed",
			zap.String("action", action),
			zap.String("entity", entity),
			zap.Int64("entity_id", entityId),
			zap.Error(err))
	}
}
