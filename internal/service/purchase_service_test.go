package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"gestiostock-backend/internal/model"
	"gestiostock-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestCreateOrderIsPendingAndNumbered(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Acme Distribution")
	product := env.createProduct(t, "REF-PO1", 100, 0)

	order, err := env.purchaseSvc.CreateOrder(&CreateOrderRequest{
		SupplierID: supplier.ID,
		Items: []OrderLineRequest{
			{ProductID: product.ID, Quantity: 10, UnitPrice: decimal.NewFromInt(40)},
		},
	}, nil)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if order.Status != model.OrderPending {
		t.Fatalf("status = %s, want pending", order.Status)
	}
	period := time.Now().Format("200601")
	if !strings.HasPrefix(order.OrderNumber, "PO"+period) {
		t.Fatalf("order number = %s", order.OrderNumber)
	}
	if !order.TotalAmount.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("total = %s, want 400", order.TotalAmount)
	}
	// Drafting an order moves no stock.
	if env.stockOf(t, product.ID) != 0 {
		t.Fatalf("stock = %d, want 0", env.stockOf(t, product.ID))
	}
}

func TestReceiveOrderCreditsStock(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Fresh Goods")
	product := env.createProduct(t, "REF-PO2", 100, 5)

	order, err := env.purchaseSvc.CreateOrder(&CreateOrderRequest{
		SupplierID: supplier.ID,
		Items: []OrderLineRequest{
			{ProductID: product.ID, Quantity: 12, UnitPrice: decimal.NewFromInt(30)},
		},
	}, nil)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	received, err := env.purchaseSvc.ReceiveOrder(order.ID, nil)
	if err != nil {
		t.Fatalf("receive order: %v", err)
	}

	if received.Status != model.OrderReceived {
		t.Fatalf("status = %s, want received", received.Status)
	}
	if received.DeliveredAt == nil {
		t.Fatal("delivered_at not set")
	}
	if env.stockOf(t, product.ID) != 17 {
		t.Fatalf("stock = %d, want 17", env.stockOf(t, product.ID))
	}
	if received.Items[0].QuantityReceived != 12 {
		t.Fatalf("quantity received = %d, want 12", received.Items[0].QuantityReceived)
	}

	ins, err := env.stockMovs.FindAll(repository.MovementFilter{Type: model.MovementIn})
	if err != nil {
		t.Fatalf("list movements: %v", err)
	}
	// Initial stock movement plus the receipt.
	if len(ins) != 2 {
		t.Fatalf("expected 2 in movements, got %d", len(ins))
	}
	var receipt *model.StockMovement
	for i := range ins {
		if ins[i].ReferenceDoc == order.OrderNumber {
			receipt = &ins[i]
		}
	}
	if receipt == nil {
		t.Fatalf("no movement references %s", order.OrderNumber)
	}
	if !receipt.UnitCost.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("unit cost = %s, want 30", receipt.UnitCost)
	}

	// Receiving again is rejected.
	if _, err := env.purchaseSvc.ReceiveOrder(order.ID, nil); !errors.Is(err, ErrOrderClosed) {
		t.Fatalf("second receive err = %v, want ErrOrderClosed", err)
	}
}

func TestCancelOrderBlocksReceipt(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Bulk Traders")
	product := env.createProduct(t, "REF-PO3", 100, 0)

	order, err := env.purchaseSvc.CreateOrder(&CreateOrderRequest{
		SupplierID: supplier.ID,
		Items: []OrderLineRequest{
			{ProductID: product.ID, Quantity: 5},
		},
	}, nil)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	cancelled, err := env.purchaseSvc.CancelOrder(order.ID, nil)
	if err != nil {
		t.Fatalf("cancel order: %v", err)
	}
	if cancelled.Status != model.OrderCancelled {
		t.Fatalf("status = %s, want cancelled", cancelled.Status)
	}

	if _, err := env.purchaseSvc.ReceiveOrder(order.ID, nil); !errors.Is(err, ErrOrderClosed) {
		t.Fatalf("receive after cancel err = %v, want ErrOrderClosed", err)
	}
	if env.stockOf(t, product.ID) != 0 {
		t.Fatalf("stock = %d, want 0", env.stockOf(t, product.ID))
	}
}

func TestCreateOrderLineLookupsShareTheDraftTransaction(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Mixed Lines Co")
	product := env.createProduct(t, "REF-PO5", 100, 0)

	// Line lookups run inside the draft transaction. The test pool allows a
	// single connection, so a lookup that escaped onto the pool would never
	// return. An unknown line must also roll the whole draft back.
	_, err := env.purchaseSvc.CreateOrder(&CreateOrderRequest{
		SupplierID: supplier.ID,
		Items: []OrderLineRequest{
			{ProductID: product.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
			{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
		},
	}, nil)
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}

	orders, err := env.orders.FindAll(repository.OrderFilter{})
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("expected no orders after rollback, got %d", len(orders))
	}

	// The connection is free again for the next draft.
	order, err := env.purchaseSvc.CreateOrder(&CreateOrderRequest{
		SupplierID: supplier.ID,
		Items: []OrderLineRequest{
			{ProductID: product.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
		},
	}, nil)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if !order.TotalAmount.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("total = %s, want 20", order.TotalAmount)
	}
}

func TestCreateOrderDefaultsUnitPriceToPurchasePrice(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Default Price Co")
	// createProduct sets purchase price to half the sale price.
	product := env.createProduct(t, "REF-PO4", 100, 0)

	order, err := env.purchaseSvc.CreateOrder(&CreateOrderRequest{
		SupplierID: supplier.ID,
		Items: []OrderLineRequest{
			{ProductID: product.ID, Quantity: 4},
		},
	}, nil)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if !order.TotalAmount.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("total = %s, want 200", order.TotalAmount)
	}
}
