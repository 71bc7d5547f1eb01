package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CashMovementType string

const (
	CashCredit CashMovementType = "credit"
	CashDebit  CashMovementType = "debit"
)

// CashMovement is the append-only ledger of changes to the cash balance.
// BalanceBefore/BalanceAfter snapshot the stored balance around the change so
// the trail chains: each row's BalanceBefore equals the previous BalanceAfter.
type CashMovement struct {
	BaseModel
	Type          CashMovementType `gorm:"type:varchar(20);not null;index" json:"type"`
	Amount        decimal.Decimal  `gorm:"type:decimal(14,2);not null" json:"amount"`
	Reference     string           `gorm:"type:varchar(100)" json:"reference,omitempty"`
	PaymentID     *uuid.UUID       `gorm:"type:uuid;index" json:"payment_id,omitempty"`
	SaleID        *uuid.UUID       `gorm:"type:uuid;index" json:"sale_id,omitempty"`
	UserID        *uuid.UUID       `gorm:"type:uuid" json:"user_id,omitempty"`
	BalanceBefore decimal.Decimal  `gorm:"type:decimal(14,2);not null" json:"balance_before"`
	BalanceAfter  decimal.Decimal  `gorm:"type:decimal(14,2);not null" json:"balance_after"`
	Notes         string           `gorm:"type:text" json:"notes,omitempty"`
}
