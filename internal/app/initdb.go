package app

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/personal-ufcg-projects/compia-bookstore-api/internal/domain"
	"github.com/personal-ufcg-projects/compia-bookstore-api/pkg/common"
)

func price(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func originalPrice(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(v))
}

// checkProducts seeds a default catalog when the products table is empty
func (a *Application) checkProducts() {
	var count int64
	a.gormDB.Model(&domain.Product{}).Count(&count)
	if count > 0 {
		return
	}

	defaultProducts := []domain.Product{
		{
			Title:         "Foundations of Artificial Intelligence",
			Author:        "Carlos Mendes",
			Price:         price("89.90"),
			OriginalPrice: originalPrice("129.90"),
			Format:        domain.FormatPhysical,
			Category:      domain.CategoryAI,
			StockCount:    45,
			Description:   "A complete introduction to the core concepts of AI.",
		},
		{
			Title:       "Deep Learning in Practice",
			Author:      "Ana Paula Silva",
			Price:       price("64.90"),
			Format:      domain.FormatEbook,
			Category:    domain.CategoryMachineLearning,
			StockCount:  domain.UnlimitedStockSentinel,
			Description: "A hands-on guide to building deep neural networks.",
		},
		{
			Title:         "Blockchain: From Zero to Advanced",
			Author:        "Ricardo Oliveira",
			Price:         price("149.90"),
			OriginalPrice: originalPrice("199.90"),
			Format:        domain.FormatKit,
			Category:      domain.CategoryBlockchain,
			StockCount:    12,
			Description:   "Complete kit with print book, e-book and exercises.",
		},
		{
			Title:       "Modern Cybersecurity",
			Author:      "Fernanda Costa",
			Price:       price("79.90"),
			Format:      domain.FormatPhysical,
			Category:    domain.CategoryCybersecurity,
			StockCount:  0,
			Description: "Advanced digital protection techniques.",
		},
		{
			Title:       "Python for Data Science",
			Author:      "Marcos Almeida",
			Price:       price("54.90"),
			Format:      domain.FormatEbook,
			Category:    domain.CategoryDataScience,
			StockCount:  domain.UnlimitedStockSentinel,
			Description: "Python applied to data science, from the ground up.",
		},
	}

	for _, p := range defaultProducts {
		p.ID = common.UUIDint64()
		p.InStock = p.StockCount > 0 || p.StockCount >= domain.UnlimitedStockSentinel
		p.CreatedAt = time.Now()
		p.UpdatedAt = time.Now()
		if err := a.gormDB.Create(&p).Error; err != nil {
			zap.L().Error("failed to create default product", zap.String("title", p.Title), zap.Error(err))
		} else {
			zap.L().Info("initialized default product", zap.String("title", p.Title))
		}
	}
}
