package repository

import (
	"time"

	"gestiostock-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(tx *gorm.DB, payment *model.Payment) error
	FindAll(limit int) ([]model.Payment, error)
	FindBySale(saleID uuid.UUID) ([]model.Payment, error)
	SumForSale(tx *gorm.DB, saleID uuid.UUID) (decimal.Decimal, error)
	SumForOrder(tx *gorm.DB, orderID uuid.UUID) (decimal.Decimal, error)
	TotalAmount(tx *gorm.DB) (decimal.Decimal, error)
	SumSince(since time.Time) (decimal.Decimal, error)
}

type paymentRepo struct {
	db *gorm.DB
}

func NewPaymentRepo(db *gorm.DB) PaymentRepository {
	return &paymentRepo{db}
}

func (r *paymentRepo) Create(tx *gorm.DB, payment *model.Payment) error {
	return tx.Create(payment).Error
}

func (r *paymentRepo) FindAll(limit int) ([]model.Payment, error) {
	if limit <= 0 {
		limit = 200
	}
	var payments []model.Payment
	err := r.db.Order("created_at DESC").Limit(limit).Find(&payments).Error
	return payments, err
}

func (r *paymentRepo) FindBySale(saleID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.Where("sale_id = ?", saleID).Order("created_at ASC").Find(&payments).Error
	return payments, err
}

func sumDecimal(tx *gorm.DB, dest *decimal.Decimal) error {
	var total string
	if err := tx.Scan(&total).Error; err != nil {
		return err
	}
	value, err := decimal.NewFromString(total)
	if err != nil {
		return err
	}
	*dest = value
	return nil
}

func (r *paymentRepo) SumForSale(tx *gorm.DB, saleID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := sumDecimal(tx.Model(&model.Payment{}).
		Where("sale_id = ?", saleID).
		Select("COALESCE(SUM(amount), 0)"), &total)
	return total, err
}

func (r *paymentRepo) SumForOrder(tx *gorm.DB, orderID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := sumDecimal(tx.Model(&model.Payment{}).
		Where("purchase_order_id = ?", orderID).
		Select("COALESCE(SUM(amount), 0)"), &total)
	return total, err
}

// TotalAmount sums every sale payment ever recorded; reconciliation input.
// Supplier payments never enter the drawer and are excluded.
func (r *paymentRepo) TotalAmount(tx *gorm.DB) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := sumDecimal(tx.Model(&model.Payment{}).
		Where("sale_id IS NOT NULL").
		Select("COALESCE(SUM(amount), 0)"), &total)
	return total, err
}

func (r *paymentRepo) SumSince(since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := sumDecimal(r.db.Model(&model.Payment{}).
		Where("created_at >= ?", since).
		Select("COALESCE(SUM(amount), 0)"), &total)
	return total, err
}
