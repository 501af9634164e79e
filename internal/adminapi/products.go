package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/personal-ufcg-projects/compia-bookstore-api/internal/domain"
	"github.com/personal-ufcg-projects/compia-bookstore-api/internal/webserver"
	"github.com/personal-ufcg-projects/compia-bookstore-api/pkg/common"
)

type productPayload struct {
	Title         string           `json:"title" validate:"required,min=1,max=200"`
	Author        string           `json:"author" validate:"required,min=1,max=200"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	Format        string           `json:"format"`
	Category      string           `json:"category"`
	ImageUrl      string           `json:"image_url"`
	StockCount    int              `json:"stock_count"`
	Description   string           `json:"description"`
}

func (p *productPayload) check() (string, bool) {
	p.Title = strings.TrimSpace(p.Title)
	p.Author = strings.TrimSpace(p.Author)
	if p.Title == "" {
		return "Title is required", false
	}
	if p.Author == "" {
		return "Author is required", false
	}
	if !p.Price.IsPositive() {
		return "Price must be positive", false
	}
	if p.OriginalPrice != nil && !p.OriginalPrice.IsPositive() {
		return "Original price must be positive", false
	}
	if !domain.ValidFormat(p.Format) {
		return "Format must be one of Physical, Ebook, Kit", false
	}
	if !domain.ValidCategory(p.Category) {
		return "Unknown category", false
	}
	if p.StockCount < 0 {
		return "Stock count must not be negative", false
	}
	return "", true
}

// registerProductRoutes registers catalog CRUD endpoints
func registerProductRoutes() {
	webserver.ApiGET("/api/products", listProducts)
	webserver.ApiGET("/api/products/:id", getProduct)
	webserver.ApiPOST("/api/products", createProduct)
	webserver.ApiPUT("/api/products/:id", updateProduct)
	webserver.ApiDELETE("/api/products/:id", deleteProduct)
}

func listProducts(c echo.Context) error {
	db := GetDB(c).Model(&domain.Product{})

	if category := strings.TrimSpace(c.QueryParam("category")); category != "" {
		db = db.Where("category = ?", category)
	}
	if format := strings.TrimSpace(c.QueryParam("format")); format != "" {
		db = db.Where("format = ?", format)
	}
	if inStock := strings.TrimSpace(c.QueryParam("in_stock")); inStock != "" {
		db = db.Where("in_stock = ?", inStock == "true")
	}
	if q := strings.TrimSpace(c.QueryParam("search")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("title ILIKE ? OR author ILIKE ? OR description ILIKE ?",
				"%"+q+"%", "%"+q+"%", "%"+q+"%")
		} else {
			lq := "%" + strings.ToLower(q) + "%"
			db = db.Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(description) LIKE ?", lq, lq, lq)
		}
	}

	var rows []domain.Product
	if err := db.Order("created_at DESC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return ok(c, rows)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, p)
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid product payload", err.Error())
	}
	if msg, valid := payload.check(); !valid {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}

	now := time.Now()
	p := domain.Product{
		ID:          common.UUIDint64(),
		Title:       payload.Title,
		Author:      payload.Author,
		Price:       payload.Price,
		Format:      payload.Format,
		Category:    payload.Category,
		ImageUrl:    strings.TrimSpace(payload.ImageUrl),
		StockCount:  payload.StockCount,
		InStock:     payload.StockCount > 0 || payload.StockCount >= domain.UnlimitedStockSentinel,
		Description: payload.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if payload.OriginalPrice != nil {
		p.OriginalPrice = decimal.NewNullDecimal(*payload.OriginalPrice)
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}

	engine.Audit(domain.ActionCreate, domain.EntityProduct, p.ID, p.Title)
	return created(c, p)
}

type productUpdatePayload struct {
	Title         *string          `json:"title"`
	Author        *string          `json:"author"`
	Price         *decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	Format        *string          `json:"format"`
	Category      *string          `json:"category"`
	ImageUrl      *string          `json:"image_url"`
	StockCount    *int             `json:"stock_count"`
	Description   *string          `json:"description"`
}

// updateProduct applies a partial update ("admin restock" path included).
// in_stock is always derived from the resulting stock count, never accepted
// from the caller.
func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	var payload productUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}

	if payload.Title != nil {
		if strings.TrimSpace(*payload.Title) == "" {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Title is required", nil)
		}
		p.Title = strings.TrimSpace(*payload.Title)
	}
	if payload.Author != nil {
		if strings.TrimSpace(*payload.Author) == "" {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Author is required", nil)
		}
		p.Author = strings.TrimSpace(*payload.Author)
	}
	if payload.Price != nil {
		if !payload.Price.IsPositive() {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Price must be positive", nil)
		}
		p.Price = *payload.Price
	}
	if payload.OriginalPrice != nil {
		if !payload.OriginalPrice.IsPositive() {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Original price must be positive", nil)
		}
		p.OriginalPrice = decimal.NewNullDecimal(*payload.OriginalPrice)
	}
	if payload.Format != nil {
		if !domain.ValidFormat(*payload.Format) {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Format must be one of Physical, Ebook, Kit", nil)
		}
		p.Format = *payload.Format
	}
	if payload.Category != nil {
		if !domain.ValidCategory(*payload.Category) {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown category", nil)
		}
		p.Category = *payload.Category
	}
	if payload.ImageUrl != nil {
		p.ImageUrl = strings.TrimSpace(*payload.ImageUrl)
	}
	if payload.StockCount != nil {
		if *payload.StockCount < 0 {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Stock count must not be negative", nil)
		}
		p.StockCount = *payload.StockCount
	}
	if payload.Description != nil {
		p.Description = *payload.Description
	}
	p.InStock = p.StockCount > 0 || p.StockCount >= domain.UnlimitedStockSentinel
	p.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}

	engine.Audit(domain.ActionUpdate, domain.EntityProduct, p.ID, p.Title)
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	// Historical orders keep their own price/quantity snapshots, so deleting
	// a referenced product leaves them valid.
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Product{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}

	engine.Audit(domain.ActionDelete, domain.EntityProduct, id, p.Title)
	return c.NoContent(http.StatusNoContent)
}
