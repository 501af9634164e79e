package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book formats
const (
	FormatPhysical = "Physical"
	FormatEbook    = "Ebook"
	FormatKit      = "Kit"
)

// Catalog categories (closed set)
const (
	CategoryAI              = "Artificial_Intelligence"
	CategoryBlockchain      = "Blockchain"
	CategoryCybersecurity   = "Cybersecurity"
	CategoryMachineLearning = "Machine_Learning"
	CategoryDataScience     = "Data_Science"
)

// UnlimitedStockSentinel marks digital inventory. A stock_count at or above
// this value means unlimited availability and is never decremented.
const UnlimitedStockSentinel = 999

var Formats = []string{FormatPhysical, FormatEbook, FormatKit}

var Categories = []string{
	CategoryAI,
	CategoryBlockchain,
	CategoryCybersecurity,
	CategoryMachineLearning,
	CategoryDataScience,
}

// Product represents a catalog book
type Product struct {
	ID            int64               `json:"id,string" form:"id"`
	Title         string              `gorm:"index" json:"title" form:"title"`
	Author        string              `gorm:"index" json:"author" form:"author"`
	Price         decimal.Decimal     `gorm:"type:decimal(12,2)" json:"price"`
	OriginalPrice decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"original_price"`
	Format        string              `gorm:"size:32;index" json:"format" form:"format"`
	Category      string              `gorm:"size:64;index" json:"category" form:"category"`
	ImageUrl      string              `gorm:"size:1024" json:"image_url" form:"image_url"`
	InStock       bool                `json:"in_stock" form:"in_stock"`
	StockCount    int                 `json:"stock_count" form:"stock_count"`
	Description   string              `json:"description" form:"description"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}

// Unlimited reports whether the product carries the digital stock sentinel.
func (p *Product) Unlimited() bool {
	return p.StockCount >= UnlimitedStockSentinel
}

// ValidFormat reports whether f belongs to the closed format set.
func ValidFormat(f string) bool {
	for _, v := range Formats {
		if v == f {
			return true
		}
	}
	return false
}

// ValidCategory reports whether c belongs to the closed category set.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}
