package service

import (
	"gestiostock-backend/internal/model"
	"gestiostock-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CashLedger owns the stored cash balance and its append-only movement trail.
// The balance row is read under a row lock and written back in the same
// transaction as the movement, so concurrent writers cannot lose an update.
type CashLedger struct {
	settings  repository.SettingRepository
	movements repository.CashMovementRepository
}

func NewCashLedger(settings repository.SettingRepository, movements repository.CashMovementRepository) *CashLedger {
	return &CashLedger{settings: settings, movements: movements}
}

// Credit adds amount to the balance and appends a credit movement carrying
// before/after snapshots.
func (l *CashLedger) Credit(tx *gorm.DB, amount decimal.Decimal, reference string, paymentID, saleID, userID *uuid.UUID, notes string) (*model.CashMovement, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	before, err := l.settings.BalanceForUpdate(tx)
	if err != nil {
		return nil, err
	}
	after := before.Add(amount)
	if err := l.settings.SetBalance(tx, after); err != nil {
		return nil, err
	}

	movement := &model.CashMovement{
		Type:          model.CashCredit,
		Amount:        amount,
		Reference:     reference,
		PaymentID:     paymentID,
		SaleID:        saleID,
		UserID:        userID,
		BalanceBefore: before,
		BalanceAfter:  after,
		Notes:         notes,
	}
	if err := l.movements.Create(tx, movement); err != nil {
		return nil, err
	}
	return movement, nil
}

// Debit removes amount from the balance. The drawer can never go negative; a
// debit larger than the balance is rejected before anything is written.
func (l *CashLedger) Debit(tx *gorm.DB, amount decimal.Decimal, reference string, userID *uuid.UUID, notes string) (*model.CashMovement, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	before, err := l.settings.BalanceForUpdate(tx)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(before) {
		return nil, ErrInsufficientFunds
	}
	after := before.Sub(amount)
	if err := l.settings.SetBalance(tx, after); err != nil {
		return nil, err
	}

	movement := &model.CashMovement{
		Type:          model.CashDebit,
		Amount:        amount,
		Reference:     reference,
		UserID:        userID,
		BalanceBefore: before,
		BalanceAfter:  after,
		Notes:         notes,
	}
	if err := l.movements.Create(tx, movement); err != nil {
		return nil, err
	}
	return movement, nil
}
