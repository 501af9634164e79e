package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/personal-ufcg-projects/compia-bookstore-api/internal/domain"
	"github.com/personal-ufcg-projects/compia-bookstore-api/internal/fulfillment"
	"github.com/personal-ufcg-projects/compia-bookstore-api/internal/webserver"
)

// registerOrderRoutes registers checkout and order admin endpoints
func registerOrderRoutes() {
	webserver.ApiGET("/api/orders", listOrders)
	webserver.ApiGET("/api/orders/:id", getOrder)
	webserver.ApiPOST("/api/orders", createOrder)
	webserver.ApiPATCH("/api/orders/:id/status", patchOrderStatus)
}

func listOrders(c echo.Context) error {
	page, limit := parsePagination(c)

	db := GetDB(c).Model(&domain.Order{})
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	var rows []domain.Order
	if err := db.Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return paged(c, "orders", rows, total, page, limit)
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var order domain.Order
	if err := GetDB(c).Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", err.Error())
	}
	return ok(c, order)
}

// createOrder is the checkout endpoint. All validation, pricing and stock
// mutation happens inside the fulfillment engine.
func createOrder(c echo.Context) error {
	var input fulfillment.PlaceOrderInput
	if err := c.Bind(&input); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order", err.Error())
	}
	if err := c.Validate(&input); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid order payload", err.Error())
	}

	order, err := engine.PlaceOrder(c.Request().Context(), input)
	if err != nil {
		return failFulfillment(c, err)
	}
	return created(c, order)
}

func patchOrderStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var payload struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse status", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Missing status", err.Error())
	}

	order, err := engine.SetStatus(c.Request().Context(), id, payload.Status)
	if err != nil {
		return failFulfillment(c, err)
	}
	return ok(c, order)
}

// failFulfillment maps the fulfillment error taxonomy onto HTTP responses.
func failFulfillment(c echo.Context, err error) error {
	switch {
	case fulfillment.IsValidation(err):
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case fulfillment.IsInsufficientStock(err):
		return fail(c, http.StatusBadRequest, "INSUFFICIENT_STOCK", err.Error(), nil)
	case errors.Is(err, fulfillment.ErrProductNotFound):
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "One or more products not found", nil)
	case errors.Is(err, fulfillment.ErrOrderNotFound):
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	case errors.Is(err, fulfillment.ErrProductMismatch):
		return fail(c, http.StatusBadRequest, "PRODUCT_MISMATCH", err.Error(), nil)
	case errors.Is(err, fulfillment.ErrConflict):
		return fail(c, http.StatusConflict, "CONFLICT", "Concurrent stock update, please retry", nil)
	default:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to process order", nil)
	}
}
