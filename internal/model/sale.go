package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SaleStatus string

const (
	SaleConfirmed SaleStatus = "confirmed"
	SaleCancelled SaleStatus = "cancelled"
	SalePending   SaleStatus = "pending"
)

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
)

// Sale is created once and mutated only for status transitions; it is never
// hard-deleted. Line items are the only sale schema: one row per product sold.
type Sale struct {
	BaseModel
	InvoiceNumber string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"invoice_number"`
	ClientID      *uuid.UUID      `gorm:"type:uuid;index" json:"client_id,omitempty"`
	Client        *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	UserID        *uuid.UUID      `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Currency      string          `gorm:"type:varchar(10);default:'XOF'" json:"currency"`
	PaymentMode   string          `gorm:"type:varchar(20);default:'cash'" json:"payment_mode"`
	Status        SaleStatus      `gorm:"type:varchar(20);default:'confirmed';index" json:"status"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(20);default:'unpaid'" json:"payment_status"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_amount"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`

	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

type SaleItem struct {
	BaseModel
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"unit_price"`
	Discount  decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"discount"`
	TaxRate   decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"tax_rate"`
	LineTotal decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"line_total"`
}

// ComputeLineTotal applies the percentage discount to quantity x unit price.
func ComputeLineTotal(quantity int, unitPrice, discount decimal.Decimal) decimal.Decimal {
	gross := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	factor := decimal.NewFromInt(1).Sub(discount.Div(decimal.NewFromInt(100)))
	return gross.Mul(factor).Round(2)
}
