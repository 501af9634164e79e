package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses
const (
	StatusProcessing = "Processing"
	StatusInTransit  = "InTransit"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

var OrderStatuses = []string{
	StatusProcessing,
	StatusInTransit,
	StatusDelivered,
	StatusCancelled,
}

// ValidOrderStatus reports whether s belongs to the status set.
func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Order is created only by the fulfillment engine; after creation the only
// mutable field is Status.
type Order struct {
	ID            int64           `json:"id,string" form:"id"`
	CustomerName  string          `gorm:"index" json:"customer_name" form:"customer_name"`
	CustomerEmail string          `gorm:"index" json:"customer_email" form:"customer_email"`
	Status        string          `gorm:"size:32;index" json:"status" form:"status"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2)" json:"total"`
	Items         []OrderItem     `gorm:"foreignKey:OrderId;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one priced line of an order. PriceAtTime is the catalog price
// captured when the order was placed and never changes afterwards, so the
// order survives later price edits and even product deletion.
type OrderItem struct {
	ID          int64           `json:"id,string"`
	OrderId     int64           `gorm:"index" json:"order_id,string"`
	ProductId   int64           `gorm:"index" json:"product_id,string"`
	Quantity    int             `json:"quantity"`
	PriceAtTime decimal.Decimal `gorm:"type:decimal(12,2)" json:"price_at_time"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TableName Specify table name
func (OrderItem) TableName() string {
	return "order_items"
}
