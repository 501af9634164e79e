package adminapi

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/personal-ufcg-projects/compia-bookstore-api/config"
	"github.com/personal-ufcg-projects/compia-bookstore-api/internal/domain"
	"github.com/personal-ufcg-projects/compia-bookstore-api/internal/fulfillment"
	"github.com/personal-ufcg-projects/compia-bookstore-api/internal/webserver"
	"github.com/personal-ufcg-projects/compia-bookstore-api/pkg/common"

	"github.com/shopspring/decimal"
)

// newTestServer wires an isolated database, engine and router and returns
// the echo instance handler tests drive through httptest.
func newTestServer(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrator().AutoMigrate(domain.Tables...))

	webserver.Init(config.DefaultAppConfig, db)
	InitRouter(fulfillment.NewEngine(db))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, title, price string, stock int) domain.Product {
	t.Helper()
	p := domain.Product{
		ID:          common.UUIDint64(),
		Title:       title,
		Author:      "Test Author",
		Price:       decimal.RequireFromString(price),
		Format:      domain.FormatEbook,
		Category:    domain.CategoryDataScience,
		StockCount:  stock,
		InStock:     stock > 0 || stock >= domain.UnlimitedStockSentinel,
		Description: "test product",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func doJSON(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	webserver.Echo().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
