package service

import (
	"gestiostock-backend/internal/model"
	"gestiostock-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockLedger pairs every stock mutation with exactly one StockMovement audit
// row inside the caller's transaction. All stock writes in the system go
// through Apply or AdjustTo; nothing mutates current_stock directly.
type StockLedger struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
}

func NewStockLedger(products repository.ProductRepository, movements repository.StockMovementRepository) *StockLedger {
	return &StockLedger{products: products, movements: movements}
}

// Apply moves quantity units in or out of a product. The product row is
// locked first; an out movement that would drive stock negative is rejected
// before anything is written.
func (l *StockLedger) Apply(tx *gorm.DB, productID uuid.UUID, movType model.MovementType, quantity int, unitCost decimal.Decimal, reason, referenceDoc string, userID *uuid.UUID) (*model.StockMovement, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := l.products.FindForUpdate(tx, productID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	before := product.CurrentStock
	var after int
	switch movType {
	case model.MovementIn, model.MovementReturn:
		after = before + quantity
	case model.MovementOut:
		if before < quantity {
			return nil, ErrInsufficientStock
		}
		after = before - quantity
	default:
		return nil, ErrInvalidQuantity
	}

	updatedBy := ""
	if userID != nil {
		updatedBy = userID.String()
	}
	if err := l.products.UpdateStock(tx, product.ID, after, updatedBy); err != nil {
		return nil, err
	}

	movement := &model.StockMovement{
		ProductID:      product.ID,
		Type:           movType,
		Quantity:       quantity,
		QuantityBefore: before,
		QuantityAfter:  after,
		Reason:         reason,
		UnitCost:       unitCost,
		ReferenceDoc:   referenceDoc,
		UserID:         userID,
	}
	if err := l.movements.Create(tx, movement); err != nil {
		return nil, err
	}
	return movement, nil
}

// AdjustTo sets the stock to an absolute target quantity and records the
// signed delta as an adjustment movement. A no-op when the target equals the
// current stock.
func (l *StockLedger) AdjustTo(tx *gorm.DB, productID uuid.UUID, target int, reason string, userID *uuid.UUID) (*model.StockMovement, error) {
	if target < 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := l.products.FindForUpdate(tx, productID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	before := product.CurrentStock
	if target == before {
		return nil, nil
	}

	delta := target - before
	if delta < 0 {
		delta = -delta
	}

	updatedBy := ""
	if userID != nil {
		updatedBy = userID.String()
	}
	if err := l.products.UpdateStock(tx, product.ID, target, updatedBy); err != nil {
		return nil, err
	}

	movement := &model.StockMovement{
		ProductID:      product.ID,
		Type:           model.MovementAdjustment,
		Quantity:       delta,
		QuantityBefore: before,
		QuantityAfter:  target,
		Reason:         reason,
		UnitCost:       product.PurchasePrice,
		UserID:         userID,
	}
	if err := l.movements.Create(tx, movement); err != nil {
		return nil, err
	}
	return movement, nil
}
