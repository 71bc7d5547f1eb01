package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment records money received against a sale, or paid out against a
// purchase order. Sale payments credit the cash balance; supplier payments are
// tracked but settle outside the cash drawer.
type Payment struct {
	BaseModel
	SaleID          *uuid.UUID      `gorm:"type:uuid;index" json:"sale_id,omitempty"`
	PurchaseOrderID *uuid.UUID      `gorm:"type:uuid;index" json:"purchase_order_id,omitempty"`
	Amount          decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Mode            string          `gorm:"type:varchar(20);default:'cash'" json:"mode"`
	Reference       string          `gorm:"type:varchar(100)" json:"reference,omitempty"`
	Notes           string          `gorm:"type:text" json:"notes,omitempty"`
}
