package repository

import (
	"time"

	"gestiostock-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovementFilter narrows the stock movement listing.
type MovementFilter struct {
	ProductID *uuid.UUID
	Type      model.MovementType
	Since     *time.Time
	Until     *time.Time
	Limit     int
}

// DailyStockFlow aggregates in/out quantities per day for the dashboard chart.
type DailyStockFlow struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type StockMovementRepository interface {
	Create(tx *gorm.DB, movement *model.StockMovement) error
	FindAll(filter MovementFilter) ([]model.StockMovement, error)
	FindByProduct(productID uuid.UUID) ([]model.StockMovement, error)
	GetDailyFlow(startDate, endDate time.Time) ([]DailyStockFlow, error)
}

type stockMovementRepo struct {
	db *gorm.DB
}

func NewStockMovementRepo(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db}
}

// Create appends an audit row. There is deliberately no Update or Delete.
func (r *stockMovementRepo) Create(tx *gorm.DB, movement *model.StockMovement) error {
	return tx.Create(movement).Error
}

func (r *stockMovementRepo) FindAll(filter MovementFilter) ([]model.StockMovement, error) {
	query := r.db.Preload("Product")
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
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

	var movements []model.StockMovement
	err := query.Order("created_at DESC").Limit(limit).Find(&movements).Error
	return movements, err
}

func (r *stockMovementRepo) FindByProduct(productID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.Where("product_id = ?", productID).Order("created_at DESC").Find(&movements).Error
	return movements, err
}

func (r *stockMovementRepo) GetDailyFlow(startDate, endDate time.Time) ([]DailyStockFlow, error) {
	var results []DailyStockFlow

	rows, err := r.db.Model(&model.StockMovement{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN type IN ('in', 'return') THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type = 'out' THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var flow DailyStockFlow
		if err := rows.Scan(&flow.Date, &flow.Inbound, &flow.Outbound); err != nil {
			return nil, err
		}
		results = append(results, flow)
	}
	return results, nil
}
