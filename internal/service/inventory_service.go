package service

import (
	"errors"
	"fmt"

	"gestiostock-backend/internal/model"
	"gestiostock-backend/internal/repository"
	"gestiostock-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type InventoryService interface {
	CreateProduct(req *CreateProductRequest, userID *uuid.UUID) (*model.Product, error)
	UpdateProduct(id uuid.UUID, req *UpdateProductRequest, userID *uuid.UUID) (*model.Product, error)
	DeactivateProduct(id uuid.UUID, userID *uuid.UUID) error
	GetProduct(id uuid.UUID) (*model.ProductResponse, error)
	ListProducts(filter repository.ProductFilter) ([]model.ProductResponse, error)

	AdjustStock(req *AdjustStockRequest, userID *uuid.UUID) (*model.StockMovement, error)
	RecordMovement(req *RecordMovementRequest, userID *uuid.UUID) (*model.StockMovement, error)
	ListMovements(filter repository.MovementFilter) ([]model.StockMovement, error)
	ProductHistory(productID uuid.UUID) ([]model.StockMovement, error)
	LowStockProducts() ([]model.ProductResponse, error)
}

type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required"`
	Reference     string          `json:"reference" validate:"required"`
	Barcode       *string         `json:"barcode"`
	Description   string          `json:"description"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	InitialStock  int             `json:"initial_stock"`
	MinStock      int             `json:"min_stock"`
	MaxStock      int             `json:"max_stock"`
	Unit          string          `json:"unit"`
	Location      string          `json:"location"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	SupplierID    *uuid.UUID      `json:"supplier_id"`
}

// UpdateProductRequest deliberately has no stock field: on-hand quantity only
// changes through movements.
type UpdateProductRequest struct {
	Name          string          `json:"name" validate:"required"`
	Barcode       *string         `json:"barcode"`
	Description   string          `json:"description"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	MinStock      int             `json:"min_stock"`
	MaxStock      int             `json:"max_stock"`
	Unit          string          `json:"unit"`
	Location      string          `json:"location"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	SupplierID    *uuid.UUID      `json:"supplier_id"`
	Active        *bool           `json:"active"`
}

type AdjustStockRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	NewStock  int       `json:"new_stock"`
	Reason    string    `json:"reason" validate:"required"`
}

type RecordMovementRequest struct {
	ProductID uuid.UUID          `json:"product_id" validate:"uuid_required"`
	Type      model.MovementType `json:"type" validate:"required"`
	Quantity  int                `json:"quantity" validate:"required,gt=0"`
	Reason    string             `json:"reason"`
}

type inventoryService struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	ledger      *StockLedger
	notifier    *Notifier
	log         *logrus.Logger
}

func NewInventoryService(db *gorm.DB, productRepo repository.ProductRepository, ledger *StockLedger, notifier *Notifier, log *logrus.Logger) InventoryService {
	return &inventoryService{
		db:          db,
		productRepo: productRepo,
		ledger:      ledger,
		notifier:    notifier,
		log:         log,
	}
}

func (s *inventoryService) CreateProduct(req *CreateProductRequest, userID *uuid.UUID) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if req.InitialStock < 0 {
		return nil, ErrInvalidQuantity
	}
	if existing, _ := s.productRepo.FindByReference(req.Reference); existing != nil {
		return nil, ErrReferenceExists
	}

	product := &model.Product{
		Name:          req.Name,
		Reference:     req.Reference,
		Barcode:       req.Barcode,
		Description:   req.Description,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		TaxRate:       req.TaxRate,
		MinStock:      req.MinStock,
		MaxStock:      req.MaxStock,
		Unit:          req.Unit,
		Location:      req.Location,
		Active:        true,
		CategoryID:    req.CategoryID,
		SupplierID:    req.SupplierID,
	}
	if product.Unit == "" {
		product.Unit = "unit"
	}
	if userID != nil {
		product.CreatedBy = userID.String()
		product.UpdatedBy = userID.String()
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.Create(tx, product); err != nil {
			return err
		}
		if req.InitialStock > 0 {
			_, err := s.ledger.Apply(tx, product.ID, model.MovementIn, req.InitialStock,
				req.PurchasePrice, "Initial stock", "", userID)
			if err != nil {
				return err
			}
			product.CurrentStock = req.InitialStock
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"product_id": product.ID,
		"reference":  product.Reference,
		"stock":      product.CurrentStock,
	}).Info("product created")

	return product, nil
}

func (s *inventoryService) UpdateProduct(id uuid.UUID, req *UpdateProductRequest, userID *uuid.UUID) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	product.Name = req.Name
	product.Barcode = req.Barcode
	product.Description = req.Description
	product.PurchasePrice = req.PurchasePrice
	product.SalePrice = req.SalePrice
	product.TaxRate = req.TaxRate
	product.MinStock = req.MinStock
	product.MaxStock = req.MaxStock
	product.Unit = req.Unit
	product.Location = req.Location
	product.CategoryID = req.CategoryID
	product.SupplierID = req.SupplierID
	if req.Active != nil {
		product.Active = *req.Active
	}
	if userID != nil {
		product.UpdatedBy = userID.String()
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *inventoryService) DeactivateProduct(id uuid.UUID, userID *uuid.UUID) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		return ErrProductNotFound
	}
	deletedBy := ""
	if userID != nil {
		deletedBy = userID.String()
	}
	return s.productRepo.Deactivate(id, deletedBy)
}

func (s *inventoryService) GetProduct(id uuid.UUID) (*model.ProductResponse, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	response := product.ToResponse()
	return &response, nil
}

func (s *inventoryService) ListProducts(filter repository.ProductFilter) ([]model.ProductResponse, error) {
	products, err := s.productRepo.FindAll(filter)
	if err != nil {
		return nil, err
	}
	responses := make([]model.ProductResponse, len(products))
	for i := range products {
		responses[i] = products[i].ToResponse()
	}
	return responses, nil
}

// AdjustStock sets the stock to an absolute count, e.g. after a physical inventory.
func (s *inventoryService) AdjustStock(req *AdjustStockRequest, userID *uuid.UUID) (*model.StockMovement, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	var movement *model.StockMovement
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		movement, err = s.ledger.AdjustTo(tx, req.ProductID, req.NewStock, req.Reason, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterStockChange(req.ProductID)
	return movement, nil
}

// RecordMovement applies a manual in/out/return movement outside any document flow.
func (s *inventoryService) RecordMovement(req *RecordMovementRequest, userID *uuid.UUID) (*model.StockMovement, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	product, err := s.productRepo.FindByID(req.ProductID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	var movement *model.StockMovement
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		movement, err = s.ledger.Apply(tx, req.ProductID, req.Type, req.Quantity,
			product.PurchasePrice, req.Reason, "", userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterStockChange(req.ProductID)
	return movement, nil
}

func (s *inventoryService) ListMovements(filter repository.MovementFilter) ([]model.StockMovement, error) {
	return s.ledger.movements.FindAll(filter)
}

func (s *inventoryService) ProductHistory(productID uuid.UUID) ([]model.StockMovement, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		return nil, ErrProductNotFound
	}
	return s.ledger.movements.FindByProduct(productID)
}

func (s *inventoryService) LowStockProducts() ([]model.ProductResponse, error) {
	products, err := s.productRepo.FindLowStock()
	if err != nil {
		return nil, err
	}
	responses := make([]model.ProductResponse, len(products))
	for i := range products {
		responses[i] = products[i].ToResponse()
	}
	return responses, nil
}

// afterStockChange fires a low-stock alert when the product just crossed its
// threshold. Runs after commit; alert failures are logged, never returned.
func (s *inventoryService) afterStockChange(productID uuid.UUID) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return
	}
	if !product.LowStock() {
		return
	}
	if s.notifier == nil {
		return
	}
	if err := s.notifier.LowStock(product); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.WithError(err).WithField("product_id", productID).Warn("low stock alert failed")
	}
}
