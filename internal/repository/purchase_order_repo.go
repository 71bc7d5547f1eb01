package repository

import (
	"gestiostock-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderFilter narrows the purchase order listing.
type OrderFilter struct {
	SupplierID *uuid.UUID
	Status     model.OrderStatus
	Limit      int
}

type PurchaseOrderRepository interface {
	Create(tx *gorm.DB, order *model.PurchaseOrder) error
	FindAll(filter OrderFilter) ([]model.PurchaseOrder, error)
	FindByID(id uuid.UUID) (*model.PurchaseOrder, error)
	FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.PurchaseOrder, error)
	Save(tx *gorm.DB, order *model.PurchaseOrder) error
	UpdateItemReceived(tx *gorm.DB, itemID uuid.UUID, received int) error
	UpdatePaymentStatus(tx *gorm.DB, id uuid.UUID, status model.PaymentStatus) error
	CountOpen() (int64, error)
	SumOpenAmount() (decimal.Decimal, error)
}

type purchaseOrderRepo struct {
	db *gorm.DB
}

func NewPurchaseOrderRepo(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepo{db}
}

func (r *purchaseOrderRepo) Create(tx *gorm.DB, order *model.PurchaseOrder) error {
	return tx.Create(order).Error
}

func (r *purchaseOrderRepo) FindAll(filter OrderFilter) ([]model.PurchaseOrder, error) {
	query := r.db.Preload("Supplier").Preload("Items.Product")
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	var orders []model.PurchaseOrder
	err := query.Order("created_at DESC").Limit(limit).Find(&orders).Error
	return orders, err
}

func (r *purchaseOrderRepo) FindByID(id uuid.UUID) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	err := r.db.Preload("Supplier").Preload("Items.Product").First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *purchaseOrderRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	if err := forUpdate(tx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := tx.Preload("Product").Where("purchase_order_id = ?", id).Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *purchaseOrderRepo) Save(tx *gorm.DB, order *model.PurchaseOrder) error {
	return tx.Omit("Items").Save(order).Error
}

func (r *purchaseOrderRepo) UpdateItemReceived(tx *gorm.DB, itemID uuid.UUID, received int) error {
	return tx.Model(&model.PurchaseOrderItem{}).
		Where("id = ?", itemID).
		Update("quantity_received", received).Error
}

func (r *purchaseOrderRepo) UpdatePaymentStatus(tx *gorm.DB, id uuid.UUID, status model.PaymentStatus) error {
	return tx.Model(&model.PurchaseOrder{}).
		Where("id = ?", id).
		Update("payment_status", status).Error
}

func (r *purchaseOrderRepo) CountOpen() (int64, error) {
	var count int64
	err := r.db.Model(&model.PurchaseOrder{}).
		Where("status IN ?", []model.OrderStatus{model.OrderPending, model.OrderConfirmed}).
		Count(&count).Error
	return count, err
}

func (r *purchaseOrderRepo) SumOpenAmount() (decimal.Decimal, error) {
	var total decimal.Decimal
	err := sumDecimal(r.db.Model(&model.PurchaseOrder{}).
		Where("status IN ?", []model.OrderStatus{model.OrderPending, model.OrderConfirmed}).
		Select("COALESCE(SUM(total_amount), 0)"), &total)
	return total, err
}
