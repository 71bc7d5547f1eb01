package repository

import (
	"time"

	"gestiostock-backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(tx *gorm.DB, expense *model.Expense) error
	FindAll(since, until *time.Time, limit int) ([]model.Expense, error)
	TotalAmount(tx *gorm.DB) (decimal.Decimal, error)
}

type expenseRepo struct {
	db *gorm.DB
}

func NewExpenseRepo(db *gorm.DB) ExpenseRepository {
	return &expenseRepo{db}
}

func (r *expenseRepo) Create(tx *gorm.DB, expense *model.Expense) error {
	return tx.Create(expense).Error
}

func (r *expenseRepo) FindAll(since, until *time.Time, limit int) ([]model.Expense, error) {
	query := r.db.Session(&gorm.Session{})
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	if until != nil {
		query = query.Where("created_at <= ?", *until)
	}
	if limit <= 0 {
		limit = 200
	}
	var expenses []model.Expense
	err := query.Order("created_at DESC").Limit(limit).Find(&expenses).Error
	return expenses, err
}

// TotalAmount sums every expense ever recorded; reconciliation input.
func (r *expenseRepo) TotalAmount(tx *gorm.DB) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := sumDecimal(tx.Model(&model.Expense{}).
		Select("COALESCE(SUM(amount), 0)"), &total)
	return total, err
}
