package repository

import (
	"gestiostock-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(supplier *model.Supplier) error
	FindAll(search string) ([]model.Supplier, error)
	FindByID(id uuid.UUID) (*model.Supplier, error)
	FindByName(name string) (*model.Supplier, error)
	Update(supplier *model.Supplier) error
	Deactivate(id uuid.UUID, updatedBy string) error
}

type supplierRepo struct {
	db *gorm.DB
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{db}
}

func (r *supplierRepo) Create(supplier *model.Supplier) error {
	return r.db.Create(supplier).Error
}

func (r *supplierRepo) FindAll(search string) ([]model.Supplier, error) {
	query := r.db.Where("active = ?", true)
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR contact LIKE ? OR email LIKE ?", like, like, like)
	}
	var suppliers []model.Supplier
	err := query.Order("name ASC").Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) FindByID(id uuid.UUID) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepo) FindByName(name string) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.First(&supplier, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepo) Update(supplier *model.Supplier) error {
	return r.db.Save(supplier).Error
}

func (r *supplierRepo) Deactivate(id uuid.UUID, updatedBy string) error {
	return r.db.Model(&model.Supplier{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"active": false, "updated_by": updatedBy}).Error
}
