package fulfillment

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/personal-ufcg-projects/compia-bookstore-api/internal/domain"
	"github.com/personal-ufcg-projects/compia-bookstore-api/pkg/common"
)

// Engine is the only writer of orders, order items and product stock as a
// combined unit. Every checkout flows through PlaceOrder; no handler touches
// stock_count or in_stock directly.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// PlaceOrderInput is a checkout request.
type PlaceOrderInput struct {
	CustomerName  string `json:"customerName" validate:"required,min=1,max=200"`
	CustomerEmail string `json:"customerEmail" validate:"required,email"`
	Items         []Line `json:"items" validate:"required,min=1,dive"`
}

func (in *PlaceOrderInput) validate() error {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	if in.CustomerName == "" {
		return &ValidationError{Field: "customerName", Reason: "is required"}
	}
	if _, err := mail.ParseAddress(in.CustomerEmail); err != nil {
		return &ValidationError{Field: "customerEmail", Reason: "must be a well-formed email"}
	}
	if len(in.Items) == 0 {
		return &ValidationError{Field: "items", Reason: "must not be empty"}
	}
	seen := make(map[int64]bool, len(in.Items))
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return &ValidationError{Field: "items.quantity", Reason: "must be positive"}
		}
		if seen[item.ProductId] {
			return &ValidationError{Field: "items.productId", Reason: "duplicate product in request"}
		}
		seen[item.ProductId] = true
	}
	return nil
}

func (in *PlaceOrderInput) productIds() []int64 {
	ids := make([]int64, 0, len(in.Items))
	for _, item := range in.Items {
		ids = append(ids, item.ProductId)
	}
	return ids
}

// PlaceOrder validates the request, snapshots the referenced products, runs
// admission and pricing, and commits order + items + stock decrements as one
// transaction. A storage conflict is retried once; the audit entry is written
// after commit and never affects the order result.
func (e *Engine) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*domain.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	order, err := e.placeOrderOnce(ctx, &in)
	if errors.Is(err, ErrConflict) {
		order, err = e.placeOrderOnce(ctx, &in)
	}
	if err != nil {
		return nil, err
	}

	e.Audit(domain.ActionCreate, domain.EntityOrder, order.ID,
		fmt.Sprintf("%s - %s", in.CustomerName, order.Total.StringFixed(2)))
	return order, nil
}

func (e *Engine) placeOrderOnce(ctx context.Context, in *PlaceOrderInput) (*domain.Order, error) {
	ids := in.productIds()
	var order *domain.Order

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "postgres" {
			// Row locks serialize concurrent checkouts touching the same
			// products; the guarded decrement below stays the last line of
			// defense on backends without FOR UPDATE.
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var products []domain.Product
		if err := q.Where("id IN ?", ids).Find(&products).Error; err != nil {
			return errors.Wrap(err, "failed to load products")
		}
		if len(products) != len(ids) {
			return ErrProductNotFound
		}

		byID := make(map[int64]*domain.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}

		// Admission: every line must pass before anything is written.
		for _, item := range in.Items {
			if _, err := CheckAndReserve(byID[item.ProductId], item.Quantity); err != nil {
				return err
			}
		}

		lines, total, err := PriceOrder(products, in.Items)
		if err != nil {
			return err
		}

		newOrder := &domain.Order{
			ID:            common.UUIDint64(),
			CustomerName:  in.CustomerName,
			CustomerEmail: in.CustomerEmail,
			Status:        domain.StatusProcessing,
			Total:         total,
		}
		for _, line := range lines {
			newOrder.Items = append(newOrder.Items, domain.OrderItem{
				ID:          common.UUIDint64(),
				OrderId:     newOrder.ID,
				ProductId:   line.ProductId,
				Quantity:    line.Quantity,
				PriceAtTime: line.PriceAtTime,
			})
		}
		if err := tx.Create(newOrder).Error; err != nil {
			return errors.Wrap(err, "failed to create order")
		}

		// Guarded decrement: the stock_count predicate re-checks availability
		// at write time so two concurrent checkouts can never oversell even
		// if both passed admission on the same snapshot.
		for _, item := range in.Items {
			if byID[item.ProductId].Unlimited() {
				continue
			}
			res := tx.Model(&domain.Product{}).
				Where("id = ? AND stock_count >= ?", item.ProductId, item.Quantity).
				Updates(map[string]interface{}{
					"stock_count": gorm.Expr("stock_count - ?", item.Quantity),
					"in_stock":    gorm.Expr("stock_count - ? > 0", item.Quantity),
					"updated_at":  time.Now(),
				})
			if res.Error != nil {
				return errors.Wrap(res.Error, "failed to update stock")
			}
			if res.RowsAffected == 0 {
				return ErrConflict
			}
		}

		order = newOrder
		return nil
	})
	if err != nil {
		if isSerializationFailure(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return order, nil
}

// isSerializationFailure detects postgres serialization/deadlock aborts that
// should be retried like a guarded-decrement miss.
func isSerializationFailure(err error) bool {
	if errors.Is(err, ErrConflict) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 40001") ||
		strings.Contains(msg, "SQLSTATE 40P01") ||
		strings.Contains(msg, "deadlock detected")
}
