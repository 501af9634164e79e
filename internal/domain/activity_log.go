package domain

import "time"

// Activity-log actions
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Activity-log entities
const (
	EntityOrder   = "Order"
	EntityProduct = "Product"
)

// ActivityLog is an append-only audit record of state-changing actions.
// Rows are never updated; the retention job may trim old rows.
type ActivityLog struct {
	ID        int64     `json:"id,string"`
	Action    string    `gorm:"size:16;index" json:"action"`
	Entity    string    `gorm:"size:32;index" json:"entity"`
	EntityId  int64     `gorm:"index" json:"entity_id,string"`
	Details   string    `gorm:"size:512" json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (ActivityLog) TableName() string {
	return "activity_logs"
}
