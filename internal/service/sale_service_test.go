package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"gestiostock-backend/internal/model"
	"gestiostock-backend/internal/repository"

	"github.com/shopspring/decimal"
)

func TestCreateSaleComputesDiscountedLineTotals(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "REF-001", 1000, 50)

	sale, err := env.saleSvc.CreateSale(&CreateSaleRequest{
		Items: []SaleLineRequest{
			{ProductID: product.ID, Quantity: 3, Discount: decimal.NewFromInt(10)},
		},
	}, nil)
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}

	// 3 x 1000 with 10% off = 2700
	want := decimal.NewFromInt(2700)
	if !sale.TotalAmount.Equal(want) {
		t.Fatalf("total = %s, want %s", sale.TotalAmount, want)
	}
	if len(sale.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(sale.Items))
	}
	if !sale.Items[0].LineTotal.Equal(want) {
		t.Fatalf("line total = %s, want %s", sale.Items[0].LineTotal, want)
	}
	if env.stockOf(t, product.ID) != 47 {
		t.Fatalf("stock = %d, want 47", env.stockOf(t, product.ID))
	}
}

func TestCreateSaleInvoiceNumberFormat(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "REF-002", 500, 20)

	first, err := env.saleSvc.CreateSale(&CreateSaleRequest{
		Items: []SaleLineRequest{{ProductID: product.ID, Quantity: 1}},
	}, nil)
	if err != nil {
		t.Fatalf("first sale: %v", err)
	}
	second, err := env.saleSvc.CreateSale(&CreateSaleRequest{
		Items: []SaleLineRequest{{ProductID: product.ID, Quantity: 1}},
	}, nil)
	if err != nil {
		t.Fatalf("second sale: %v", err)
	}

	period := time.Now().Format("200601")
	if first.InvoiceNumber != "INV"+period+"00001" {
		t.Fatalf("first invoice = %s", first.InvoiceNumber)
	}
	if second.InvoiceNumber != "INV"+period+"00002" {
		t.Fatalf("second invoice = %s", second.InvoiceNumber)
	}
}

func TestCreateSaleInsufficientStockRejectsWholeDocument(t *testing.T) {
	env := newTestEnv(t)
	plenty := env.createProduct(t, "REF-OK", 100, 50)
	scarce := env.createProduct(t, "REF-LOW", 100, 2)

	_, err := env.saleSvc.CreateSale(&CreateSaleRequest{
		Items: []SaleLineRequest{
			{ProductID: plenty.ID, Quantity: 5},
			{ProductID: scarce.ID, Quantity: 3},
		},
	}, nil)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	// Nothing moved, not even the valid line.
	if env.stockOf(t, plenty.ID) != 50 {
		t.Fatalf("plenty stock = %d, want 50", env.stockOf(t, plenty.ID))
	}
	if env.stockOf(t, scarce.ID) != 2 {
		t.Fatalf("scarce stock = %d, want 2", env.stockOf(t, scarce.ID))
	}

	sales, err := env.sales.FindAll(repository.SaleFilter{})
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if len(sales) != 0 {
		t.Fatalf("expected no sales, got %d", len(sales))
	}

	// Only the two initial-stock movements exist.
	movements, err := env.stockMovs.FindAll(repository.MovementFilter{})
	if err != nil {
		t.Fatalf("list movements: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(movements))
	}
}

func TestCreateSaleWritesOneMovementPerLine(t *testing.T) {
	env := newTestEnv(t)
	first := env.createProduct(t, "REF-A", 100, 30)
	second := env.createProduct(t, "REF-B", 200, 30)

	sale, err := env.saleSvc.CreateSale(&CreateSaleRequest{
		Items: []SaleLineRequest{
			{ProductID: first.ID, Quantity: 4},
			{ProductID: second.ID, Quantity: 6},
		},
	}, nil)
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}

	movements, err := env.stockMovs.FindAll(repository.MovementFilter{
		Type: model.MovementOut,
	})
	if err != nil {
		t.Fatalf("list movements: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("expected 2 out movements, got %d", len(movements))
	}
	for _, mv := range movements {
		if mv.ReferenceDoc != sale.InvoiceNumber {
			t.Fatalf("movement reference = %s, want %s", mv.ReferenceDoc, sale.InvoiceNumber)
		}
		if !strings.Contains(mv.Reason, sale.InvoiceNumber) {
			t.Fatalf("movement reason = %q lacks invoice number", mv.Reason)
		}
		if mv.QuantityAfter != mv.QuantityBefore-mv.Quantity {
			t.Fatalf("movement snapshot inconsistent: before=%d qty=%d after=%d",
				mv.QuantityBefore, mv.Quantity, mv.QuantityAfter)
		}
	}
}

func TestCreateSalePaidCreditsCashAndSetsStatus(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "REF-PAID", 1000, 10)

	sale, err := env.saleSvc.CreateSale(&CreateSaleRequest{
		AmountPaid: decimal.NewFromInt(2000),
		Items:      []SaleLineRequest{{ProductID: product.ID, Quantity: 2}},
	}, nil)
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}

	if sale.PaymentStatus != model.PaymentPaid {
		t.Fatalf("payment status = %s, want paid", sale.PaymentStatus)
	}
	if !env.balance().Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("balance = %s, want 2000", env.balance())
	}

	movements, err := env.cashMovs.FindAll(repository.CashMovementFilter{})
	if err != nil {
		t.Fatalf("list cash movements: %v", err)
	}
	if len(movements) != 1 {
		t.Fatalf("expected 1 cash movement, got %d", len(movements))
	}
	mv := movements[0]
	if mv.Type != model.CashCredit {
		t.Fatalf("movement type = %s, want credit", mv.Type)
	}
	if !mv.BalanceBefore.Equal(decimal.Zero) || !mv.BalanceAfter.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("balance snapshot = %s -> %s", mv.BalanceBefore, mv.BalanceAfter)
	}
}

func TestCreateSalePartialPayment(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "REF-PART", 1000, 10)

	sale, err := env.saleSvc.CreateSale(&CreateSaleRequest{
		AmountPaid: decimal.NewFromInt(500),
		Items:      []SaleLineRequest{{ProductID: product.ID, Quantity: 2}},
	}, nil)
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}
	if sale.PaymentStatus != model.PaymentPartial {
		t.Fatalf("payment status = %s, want partial", sale.PaymentStatus)
	}
}

func TestCancelSaleReturnsStock(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "REF-CXL", 100, 20)

	sale, err := env.saleSvc.CreateSale(&CreateSaleRequest{
		Items: []SaleLineRequest{{ProductID: product.ID, Quantity: 5}},
	}, nil)
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}
	if env.stockOf(t, product.ID) != 15 {
		t.Fatalf("stock after sale = %d, want 15", env.stockOf(t, product.ID))
	}

	cancelled, err := env.saleSvc.CancelSale(sale.ID, nil)
	if err != nil {
		t.Fatalf("cancel sale: %v", err)
	}
	if cancelled.Status != model.SaleCancelled {
		t.Fatalf("status = %s, want cancelled", cancelled.Status)
	}
	if env.stockOf(t, product.ID) != 20 {
		t.Fatalf("stock after cancel = %d, want 20", env.stockOf(t, product.ID))
	}

	// Return movements carry the invoice reference.
	returns, err := env.stockMovs.FindAll(repository.MovementFilter{Type: model.MovementReturn})
	if err != nil {
		t.Fatalf("list returns: %v", err)
	}
	if len(returns) != 1 || returns[0].ReferenceDoc != sale.InvoiceNumber {
		t.Fatalf("unexpected return movements: %+v", returns)
	}

	// Cancelling twice is rejected.
	if _, err := env.saleSvc.CancelSale(sale.ID, nil); !errors.Is(err, ErrSaleCancelled) {
		t.Fatalf("second cancel err = %v, want ErrSaleCancelled", err)
	}
}

func TestCreateSaleDefaultsUnitPriceFromProduct(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "REF-DEF", 750, 10)

	override := decimal.NewFromInt(600)
	sale, err := env.saleSvc.CreateSale(&CreateSaleRequest{
		Items: []SaleLineRequest{
			{ProductID: product.ID, Quantity: 1},
			{ProductID: product.ID, Quantity: 1, UnitPrice: &override},
		},
	}, nil)
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}
	if !sale.TotalAmount.Equal(decimal.NewFromInt(1350)) {
		t.Fatalf("total = %s, want 1350", sale.TotalAmount)
	}
}
