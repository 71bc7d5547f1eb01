package repository

import (
	"time"

	"gestiostock-backend/internal/model"

	"gorm.io/gorm"
)

// CashMovementFilter narrows the cash ledger listing.
type CashMovementFilter struct {
	Type  model.CashMovementType
	Since *time.Time
	Until *time.Time
	Limit int
}

type CashMovementRepository interface {
	Create(tx *gorm.DB, movement *model.CashMovement) error
	FindAll(filter CashMovementFilter) ([]model.CashMovement, error)
}

type cashMovementRepo struct {
	db *gorm.DB
}

func NewCashMovementRepo(db *gorm.DB) CashMovementRepository {
	return &cashMovementRepo{db}
}

// Create appends a ledger row. There is deliberately no Update or Delete.
func (r *cashMovementRepo) Create(tx *gorm.DB, movement *model.CashMovement) error {
	return tx.Create(movement).Error
}

func (r *cashMovementRepo) FindAll(filter CashMovementFilter) ([]model.CashMovement, error) {
	query := r.db.Session(&gorm.Session{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", *filter.Since)
	}
	if filter.Until != nil {
		query = query.Where("created_at <= ?", *filter.Until)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}

	var movements []model.CashMovement
	err := query.Order("created_at DESC").Limit(limit).Find(&movements).Error
	return movements, err
}
