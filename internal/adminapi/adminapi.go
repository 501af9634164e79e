package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/personal-ufcg-projects/compia-bookstore-api/internal/fulfillment"
	"github.com/personal-ufcg-projects/compia-bookstore-api/internal/webserver"
)

var engine *fulfillment.Engine

// InitRouter wires the fulfillment engine and registers every admin API
// route. webserver.Init must have run first.
func InitRouter(eng *fulfillment.Engine) {
	engine = eng
	registerProductRoutes()
	registerOrderRoutes()
	registerStatsRoutes()
}

// GetDB returns the request-scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(webserver.DBContextKey).(*gorm.DB)
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

func fail(c echo.Context, status int, code string, message string, detail interface{}) error {
	body := map[string]interface{}{
		"error": message,
		"code":  code,
	}
	if detail != nil {
		body["detail"] = detail
	}
	return c.JSON(status, body)
}

func paged(c echo.Context, key string, rows interface{}, total int64, page, limit int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		key:     rows,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func parsePagination(c echo.Context) (page, limit int) {
	page = 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	limit = 20
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 500 {
		limit = l
	}
	return page, limit
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
