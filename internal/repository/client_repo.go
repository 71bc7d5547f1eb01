package repository

import (
	"gestiostock-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClientRepository interface {
	Create(client *model.Client) error
	FindAll(search string) ([]model.Client, error)
	FindByID(id uuid.UUID) (*model.Client, error)
	Update(client *model.Client) error
	Deactivate(id uuid.UUID, updatedBy string) error
}

type clientRepo struct {
	db *gorm.DB
}

func NewClientRepo(db *gorm.DB) ClientRepository {
	return &clientRepo{db}
}

func (r *clientRepo) Create(client *model.Client) error {
	return r.db.Create(client).Error
}

func (r *clientRepo) FindAll(search string) ([]model.Client, error) {
	query := r.db.Where("active = ?", true)
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("last_name LIKE ? OR first_name LIKE ? OR email LIKE ? OR phone LIKE ?", like, like, like, like)
	}
	var clients []model.Client
	err := query.Order("last_name ASC").Find(&clients).Error
	return clients, err
}

func (r *clientRepo) FindByID(id uuid.UUID) (*model.Client, error) {
	var client model.Client
	if err := r.db.First(&client, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepo) Update(client *model.Client) error {
	return r.db.Save(client).Error
}

func (r *clientRepo) Deactivate(id uuid.UUID, updatedBy string) error {
	return r.db.Model(&model.Client{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"active": false, "updated_by": updatedBy}).Error
}
