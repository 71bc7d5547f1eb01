package model

import "github.com/shopspring/decimal"

// Expense debits the cash balance. The only debit path in the ledger.
type Expense struct {
	BaseModel
	Label       string          `gorm:"type:varchar(120);not null" json:"label" validate:"required"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
}
