package repository

import (
	"time"

	"gestiostock-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleFilter narrows the sale listing.
type SaleFilter struct {
	ClientID *uuid.UUID
	Status   model.SaleStatus
	Since    *time.Time
	Until    *time.Time
	Limit    int
}

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	FindAll(filter SaleFilter) ([]model.Sale, error)
	FindByID(id uuid.UUID) (*model.Sale, error)
	FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Sale, error)
	UpdateStatus(tx *gorm.DB, id uuid.UUID, status model.SaleStatus, updatedBy string) error
	UpdatePaymentStatus(tx *gorm.DB, id uuid.UUID, status model.PaymentStatus) error
	SumConfirmedSince(since time.Time) (decimal.Decimal, error)
	CountSince(since time.Time) (int64, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

// Create persists the sale and its line items in the caller's transaction.
func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return tx.Create(sale).Error
}

func (r *saleRepo) FindAll(filter SaleFilter) ([]model.Sale, error) {
	query := r.db.Preload("Client").Preload("Items.Product")
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", *filter.Since)
	}
	if filter.Until != nil {
		query = query.Where("created_at <= ?", *filter.Until)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	var sales []model.Sale
	err := query.Order("created_at DESC").Limit(limit).Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Client").Preload("Items.Product").First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := forUpdate(tx).First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := tx.Preload("Product").Where("sale_id = ?", id).Find(&sale.Items).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) UpdateStatus(tx *gorm.DB, id uuid.UUID, status model.SaleStatus, updatedBy string) error {
	return tx.Model(&model.Sale{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_by": updatedBy}).Error
}

func (r *saleRepo) UpdatePaymentStatus(tx *gorm.DB, id uuid.UUID, status model.PaymentStatus) error {
	return tx.Model(&model.Sale{}).
		Where("id = ?", id).
		Update("payment_status", status).Error
}

func (r *saleRepo) SumConfirmedSince(since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := sumDecimal(r.db.Model(&model.Sale{}).
		Where("status = ? AND created_at >= ?", model.SaleConfirmed, since).
		Select("COALESCE(SUM(total_amount), 0)"), &total)
	return total, err
}

func (r *saleRepo) CountSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Sale{}).
		Where("status = ? AND created_at >= ?", model.SaleConfirmed, since).
		Count(&count).Error
	return count, err
}
