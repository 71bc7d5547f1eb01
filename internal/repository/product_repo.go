package repository

import (
	"gestiostock-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductFilter narrows FindAll. Zero values mean "no filter".
type ProductFilter struct {
	Search     string
	CategoryID *uuid.UUID
	LowStock   bool
	All        bool // include inactive products
}

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindAll(filter ProductFilter) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByReference(reference string) (*model.Product, error)
	FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	Update(product *model.Product) error
	UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int, updatedBy string) error
	Deactivate(id uuid.UUID, deletedBy string) error
	CountActive() (int64, error)
	CountLowStock() (int64, error)
	StockValuation() (float64, error)
	FindLowStock() ([]model.Product, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return tx.Create(product).Error
}

func (r *productRepo) FindAll(filter ProductFilter) ([]model.Product, error) {
	query := r.db.Preload("Category").Preload("Supplier")
	if !filter.All {
		query = query.Where("active = ?", true)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR reference LIKE ? OR barcode LIKE ?", like, like, like)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.LowStock {
		query = query.Where("current_stock <= min_stock")
	}

	var products []model.Product
	err := query.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").Preload("Supplier").First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByReference(reference string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "reference = ?", reference).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindForUpdate locks the product row for the duration of tx.
func (r *productRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := forUpdate(tx).First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

// UpdateStock runs inside the caller's transaction so the stock write and its
// audit row commit together.
func (r *productRepo) UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int, updatedBy string) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_stock": newStock,
			"updated_by":    updatedBy,
		}).Error
}

func (r *productRepo) Deactivate(id uuid.UUID, deletedBy string) error {
	return r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"active":     false,
			"updated_by": deletedBy,
		}).Error
}

func (r *productRepo) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("active = ?", true).Count(&count).Error
	return count, err
}

func (r *productRepo) CountLowStock() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("active = ? AND current_stock <= min_stock", true).
		Count(&count).Error
	return count, err
}

func (r *productRepo) StockValuation() (float64, error) {
	var total float64
	err := r.db.Model(&model.Product{}).
		Where("active = ?", true).
		Select("COALESCE(SUM(current_stock * purchase_price), 0)").
		Scan(&total).Error
	return total, err
}

func (r *productRepo) FindLowStock() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("active = ? AND current_stock <= min_stock", true).Find(&products).Error
	return products, err
}
