package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"
	MovementReturn     MovementType = "return"
)

// StockMovement is the immutable audit record written for every change to a
// product's on-hand quantity. Rows are created once and never updated or
// deleted; QuantityBefore/QuantityAfter snapshot the stock around the change.
type StockMovement struct {
	BaseModel
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product        *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Type           MovementType    `gorm:"type:varchar(20);not null;index" json:"type"`
	Quantity       int             `gorm:"not null" json:"quantity"`
	QuantityBefore int             `gorm:"not null" json:"quantity_before"`
	QuantityAfter  int             `gorm:"not null" json:"quantity_after"`
	Reason         string          `gorm:"type:varchar(200)" json:"reason"`
	UnitCost       decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"unit_cost"`
	ReferenceDoc   string          `gorm:"type:varchar(100);index" json:"reference_doc,omitempty"`
	UserID         *uuid.UUID      `gorm:"type:uuid;index" json:"user_id,omitempty"`
}
