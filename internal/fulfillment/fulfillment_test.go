package fulfillment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/personal-ufcg-projects/compia-bookstore-api/internal/domain"
	"github.com/personal-ufcg-projects/compia-bookstore-api/pkg/common"
)

// newTestDB opens an isolated in-memory database. The pool is capped at one
// connection so concurrent transactions serialize the way a single postgres
// row lock would, which keeps the concurrency tests deterministic.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrator().AutoMigrate(domain.Tables...))
	return db
}

func newTestEngine(t *testing.T) (*Engine, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewEngine(db), db
}

func seedProduct(t *testing.T, db *gorm.DB, title, price string, stock int) domain.Product {
	t.Helper()
	p := domain.Product{
		ID:          common.UUIDint64(),
		Title:       title,
		Author:      "Test Author",
		Price:       decimal.RequireFromString(price),
		Format:      domain.FormatPhysical,
		Category:    domain.CategoryAI,
		StockCount:  stock,
		InStock:     stock > 0 || stock >= domain.UnlimitedStockSentinel,
		Description: "test product",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func reloadProduct(t *testing.T, db *gorm.DB, id int64) domain.Product {
	t.Helper()
	var p domain.Product
	require.NoError(t, db.Where("id = ?", id).First(&p).Error)
	return p
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
