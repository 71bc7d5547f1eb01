package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderReceived  OrderStatus = "received"
	OrderCancelled OrderStatus = "cancelled"
)

type PurchaseOrder struct {
	BaseModel
	OrderNumber   string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_number"`
	SupplierID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"supplier_id" validate:"uuid_required"`
	Supplier      *Supplier       `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	UserID        *uuid.UUID      `gorm:"type:uuid;index" json:"user_id,omitempty"`
	ExpectedDate  *time.Time      `json:"expected_date,omitempty"`
	DeliveredAt   *time.Time      `json:"delivered_at,omitempty"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_amount"`
	Currency      string          `gorm:"type:varchar(10);default:'XOF'" json:"currency"`
	Status        OrderStatus     `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(20);default:'unpaid'" json:"payment_status"`
	PaymentMode   string          `gorm:"type:varchar(20)" json:"payment_mode,omitempty"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`

	Items []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID" json:"items,omitempty"`
}

type PurchaseOrderItem struct {
	BaseModel
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product          *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	QuantityOrdered  int             `gorm:"not null" json:"quantity_ordered"`
	QuantityReceived int             `gorm:"default:0" json:"quantity_received"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"unit_price"`
	LineTotal        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"line_total"`
}
