package adminapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/personal-ufcg-projects/compia-bookstore-api/internal/domain"
	"github.com/personal-ufcg-projects/compia-bookstore-api/internal/webserver"
)

// registerStatsRoutes registers the admin dashboard aggregation endpoint
func registerStatsRoutes() {
	webserver.ApiGET("/api/stats", getStats)
}

type revenueRow struct {
	Total decimal.Decimal
}

func monthRevenue(c echo.Context, from, to time.Time) (decimal.Decimal, error) {
	db := GetDB(c).Model(&domain.Order{}).
		Where("created_at >= ? AND status <> ?", from, domain.StatusCancelled)
	if !to.IsZero() {
		db = db.Where("created_at <= ?", to)
	}
	var row revenueRow
	err := db.Select("COALESCE(SUM(total), 0) AS total").Scan(&row).Error
	return row.Total, err
}

func getStats(c echo.Context) error {
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfLastMonth := startOfMonth.AddDate(0, -1, 0)
	endOfLastMonth := startOfMonth.Add(-time.Nanosecond)

	var totalProducts int64
	if err := GetDB(c).Model(&domain.Product{}).Count(&totalProducts).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query stats", err.Error())
	}

	var ordersThisMonth int64
	if err := GetDB(c).Model(&domain.Order{}).
		Where("created_at >= ?", startOfMonth).
		Count(&ordersThisMonth).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query stats", err.Error())
	}

	revenueThisMonth, err := monthRevenue(c, startOfMonth, time.Time{})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query stats", err.Error())
	}
	revenueLastMonth, err := monthRevenue(c, startOfLastMonth, endOfLastMonth)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query stats", err.Error())
	}

	// Growth vs previous month; null when there is no baseline.
	var growth interface{}
	if !revenueLastMonth.IsZero() {
		pct := revenueThisMonth.Sub(revenueLastMonth).
			Div(revenueLastMonth).
			Mul(decimal.NewFromInt(100))
		sign := ""
		if pct.IsPositive() {
			sign = "+"
		}
		growth = fmt.Sprintf("%s%s%%", sign, pct.StringFixed(1))
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var statusRows []statusCount
	if err := GetDB(c).Model(&domain.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&statusRows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query stats", err.Error())
	}
	ordersByStatus := make(map[string]int64, len(statusRows))
	for _, row := range statusRows {
		ordersByStatus[row.Status] = row.Count
	}

	var recentLogs []domain.ActivityLog
	if err := GetDB(c).Order("created_at DESC").Limit(20).Find(&recentLogs).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query stats", err.Error())
	}

	return ok(c, map[string]interface{}{
		"total_products":     totalProducts,
		"orders_this_month":  ordersThisMonth,
		"revenue_this_month": revenueThisMonth,
		"growth":             growth,
		"orders_by_status":   ordersByStatus,
		"recent_logs":        recentLogs,
	})
}
