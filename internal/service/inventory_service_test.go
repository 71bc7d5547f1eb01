package service

import (
	"errors"
	"testing"

	"gestiostock-backend/internal/model"
	"gestiostock-backend/internal/repository"

	"github.com/shopspring/decimal"
)

func TestCreateProductRecordsInitialStockMovement(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "INV-001", 100, 25)

	if product.CurrentStock != 25 {
		t.Fatalf("stock = %d, want 25", product.CurrentStock)
	}

	movements, err := env.stockMovs.FindByProduct(product.ID)
	if err != nil {
		t.Fatalf("list movements: %v", err)
	}
	if len(movements) != 1 {
		t.Fatalf("expected 1 movement, got %d", len(movements))
	}
	mv := movements[0]
	if mv.Type != model.MovementIn || mv.Quantity != 25 {
		t.Fatalf("movement = %s x%d", mv.Type, mv.Quantity)
	}
	if mv.QuantityBefore != 0 || mv.QuantityAfter != 25 {
		t.Fatalf("snapshot = %d -> %d", mv.QuantityBefore, mv.QuantityAfter)
	}
}

func TestCreateProductZeroStockHasNoMovement(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "INV-002", 100, 0)

	movements, err := env.stockMovs.FindByProduct(product.ID)
	if err != nil {
		t.Fatalf("list movements: %v", err)
	}
	if len(movements) != 0 {
		t.Fatalf("expected no movements, got %d", len(movements))
	}
}

func TestCreateProductDuplicateReference(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct(t, "INV-DUP", 100, 0)

	_, err := env.inventory.CreateProduct(&CreateProductRequest{
		Name:      "Another",
		Reference: "INV-DUP",
	}, nil)
	if !errors.Is(err, ErrReferenceExists) {
		t.Fatalf("err = %v, want ErrReferenceExists", err)
	}
}

func TestAdjustStockRecordsDelta(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "INV-ADJ", 100, 10)

	movement, err := env.inventory.AdjustStock(&AdjustStockRequest{
		ProductID: product.ID,
		NewStock:  4,
		Reason:    "Annual count",
	}, nil)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}

	if movement.Type != model.MovementAdjustment {
		t.Fatalf("type = %s, want adjustment", movement.Type)
	}
	if movement.Quantity != 6 || movement.QuantityBefore != 10 || movement.QuantityAfter != 4 {
		t.Fatalf("movement = x%d (%d -> %d)", movement.Quantity, movement.QuantityBefore, movement.QuantityAfter)
	}
	if env.stockOf(t, product.ID) != 4 {
		t.Fatalf("stock = %d, want 4", env.stockOf(t, product.ID))
	}
}

func TestAdjustStockNoopWhenEqual(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "INV-NOOP", 100, 10)

	movement, err := env.inventory.AdjustStock(&AdjustStockRequest{
		ProductID: product.ID,
		NewStock:  10,
		Reason:    "Recount",
	}, nil)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if movement != nil {
		t.Fatalf("expected no movement, got %+v", movement)
	}
}

func TestUpdateProductNeverTouchesStock(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "INV-UPD", 100, 10)

	updated, err := env.inventory.UpdateProduct(product.ID, &UpdateProductRequest{
		Name:      "Renamed",
		SalePrice: decimal.NewFromInt(120),
		MinStock:  3,
		Unit:      "box",
	}, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Renamed" || !updated.SalePrice.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.CurrentStock != 10 {
		t.Fatalf("stock = %d, want 10", updated.CurrentStock)
	}

	// No movement was written either.
	movements, _ := env.stockMovs.FindByProduct(product.ID)
	if len(movements) != 1 {
		t.Fatalf("expected only the initial movement, got %d", len(movements))
	}
}

func TestDeactivateProductKeepsHistory(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "INV-DEL", 100, 5)

	if err := env.inventory.DeactivateProduct(product.ID, nil); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	// Hidden from the default listing, still loadable by id.
	active, err := env.inventory.ListProducts(repository.ProductFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected 0 active products, got %d", len(active))
	}
	reloaded, err := env.inventory.GetProduct(product.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if reloaded.Active {
		t.Fatal("product still active")
	}

	movements, _ := env.stockMovs.FindByProduct(product.ID)
	if len(movements) != 1 {
		t.Fatalf("history lost: %d movements", len(movements))
	}
}

func TestRecordMovementOutRejectsOverdraw(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "INV-OUT", 100, 3)

	_, err := env.inventory.RecordMovement(&RecordMovementRequest{
		ProductID: product.ID,
		Type:      model.MovementOut,
		Quantity:  5,
		Reason:    "Breakage",
	}, nil)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	if env.stockOf(t, product.ID) != 3 {
		t.Fatalf("stock = %d, want 3", env.stockOf(t, product.ID))
	}
}

func TestLowStockListing(t *testing.T) {
	env := newTestEnv(t)
	// createProduct sets MinStock = 2.
	low := env.createProduct(t, "INV-LOW", 100, 1)
	env.createProduct(t, "INV-HIGH", 100, 50)

	products, err := env.inventory.LowStockProducts()
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(products) != 1 || products[0].Reference != low.Reference {
		t.Fatalf("unexpected low stock set: %+v", products)
	}
	if !products[0].LowStockFlag {
		t.Fatal("low stock flag not set")
	}
}
