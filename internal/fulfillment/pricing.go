package fulfillment

import (
	"github.com/shopspring/decimal"

	"github.com/personal-ufcg-projects/compia-bookstore-api/internal/domain"
)

// Line is one (product, quantity) pair of an order request.
type Line struct {
	ProductId int64 `json:"productId,string" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// LineSnapshot carries the price captured for one line at order time.
type LineSnapshot struct {
	ProductId   int64
	Quantity    int
	PriceAtTime decimal.Decimal
}

// PriceOrder computes per-line price snapshots and the order total from the
// catalog snapshot taken in the same transaction as the availability check.
// Prices always come from the catalog, never from the caller.
func PriceOrder(snapshot []domain.Product, items []Line) ([]LineSnapshot, decimal.Decimal, error) {
	byID := make(map[int64]*domain.Product, len(snapshot))
	for i := range snapshot {
		byID[snapshot[i].ID] = &snapshot[i]
	}

	lines := make([]LineSnapshot, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		p, found := byID[item.ProductId]
		if !found {
			return nil, decimal.Zero, ErrProductMismatch
		}
		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		// Validated catalog data should never produce a negative line; guard anyway.
		if lineTotal.IsNegative() {
			return nil, decimal.Zero, ErrProductMismatch
		}
		lines = append(lines, LineSnapshot{
			ProductId:   item.ProductId,
			Quantity:    item.Quantity,
			PriceAtTime: p.Price,
		})
		total = total.Add(lineTotal)
	}
	return lines, total, nil
}
