package fulfillment

import (
	"github.com/personal-ufcg-projects/compia-bookstore-api/internal/domain"
)

// StockUpdate is the stock state a successful reservation would commit.
// Unlimited updates are no-ops: sentinel stock is never decremented.
type StockUpdate struct {
	ProductId  int64
	StockCount int
	InStock    bool
	Unlimited  bool
}

// CheckAndReserve decides availability for one line item against the product
// state read in the current transaction snapshot. Pure: the caller applies
// the resulting update, and only after every line in the request passed.
func CheckAndReserve(p *domain.Product, quantity int) (StockUpdate, error) {
	if quantity <= 0 {
		return StockUpdate{}, &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if p.Unlimited() {
		return StockUpdate{
			ProductId:  p.ID,
			StockCount: p.StockCount,
			InStock:    true,
			Unlimited:  true,
		}, nil
	}
	if !p.InStock || p.StockCount < quantity {
		return StockUpdate{}, &InsufficientStockError{ProductTitle: p.Title}
	}
	remaining := p.StockCount - quantity
	return StockUpdate{
		ProductId:  p.ID,
		StockCount: remaining,
		InStock:    remaining > 0,
	}, nil
}
