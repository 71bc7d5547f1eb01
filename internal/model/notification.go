package model

import "github.com/google/uuid"

// Notification types.
const (
	NotifyLowStock = "low_stock"
	NotifySale     = "sale"
	NotifyOrder    = "order"
	NotifyCash     = "cash"
)

type Notification struct {
	BaseModel
	UserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Type    string    `gorm:"type:varchar(50)" json:"type"`
	Title   string    `gorm:"type:varchar(200)" json:"title"`
	Message string    `gorm:"type:text" json:"message"`
	Read    bool      `gorm:"default:false;index" json:"read"`
}
