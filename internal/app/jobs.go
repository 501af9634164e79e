package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/personal-ufcg-projects/compia-bookstore-api/internal/domain"
)

// initJob registers background maintenance jobs. The activity log is
// append-only in normal operation; only the retention job may trim it.
func (a *Application) initJob() {
	a.sched = cron.New()

	if a.appConfig.Orders.LogRetentionDays > 0 {
		_, err := a.sched.AddFunc("@daily", a.trimActivityLogs)
		if err != nil {
			zap.L().Error("failed to register activity log retention job", zap.Error(err))
		}
	}
}

func (a *Application) trimActivityLogs() {
	days := a.appConfig.Orders.LogRetentionDays
	if days <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	res := a.gormDB.Where("created_at < ?", cutoff).Delete(&domain.ActivityLog{})
	if res.Error != nil {
		zap.L().Error("activity log retention failed", zap.Error(res.Error))
		return
	}
	if res.RowsAffected > 0 {
		zap.L().Info("trimmed activity logs",
			zap.Int64("rows", res.RowsAffected),
			zap.Time("cutoff", cutoff))
	}
}
