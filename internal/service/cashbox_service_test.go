package service

import (
	"errors"
	"testing"

	"gestiostock-backend/internal/model"
	"gestiostock-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (e *testEnv) sellForCash(t *testing.T, reference string, amount int64) {
	t.Helper()
	product := e.createProduct(t, reference, float64(amount), 10)
	_, err := e.saleSvc.CreateSale(&CreateSaleRequest{
		AmountPaid: decimal.NewFromInt(amount),
		Items:      []SaleLineRequest{{ProductID: product.ID, Quantity: 1}},
	}, nil)
	if err != nil {
		t.Fatalf("sell %s: %v", reference, err)
	}
}

func TestRecordExpenseRejectedWhenOverBalance(t *testing.T) {
	env := newTestEnv(t)
	env.sellForCash(t, "REF-CASH", 1000)

	_, err := env.cashboxSvc.RecordExpense(&RecordExpenseRequest{
		Label:  "Rent",
		Amount: decimal.NewFromInt(1500),
	}, nil)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}

	// Balance untouched, no expense row, no debit movement.
	if !env.balance().Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("balance = %s, want 1000", env.balance())
	}
	expenses, err := env.expenses.FindAll(nil, nil, 0)
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	if len(expenses) != 0 {
		t.Fatalf("expected no expenses, got %d", len(expenses))
	}
	debits, err := env.cashMovs.FindAll(repository.CashMovementFilter{Type: model.CashDebit})
	if err != nil {
		t.Fatalf("list debits: %v", err)
	}
	if len(debits) != 0 {
		t.Fatalf("expected no debit movements, got %d", len(debits))
	}
}

func TestRecordExpenseDebitsBalance(t *testing.T) {
	env := newTestEnv(t)
	env.sellForCash(t, "REF-CASH2", 1000)

	expense, err := env.cashboxSvc.RecordExpense(&RecordExpenseRequest{
		Label:  "Supplies",
		Amount: decimal.NewFromInt(300),
	}, nil)
	if err != nil {
		t.Fatalf("record expense: %v", err)
	}
	if expense.Label != "Supplies" {
		t.Fatalf("label = %s", expense.Label)
	}
	if !env.balance().Equal(decimal.NewFromInt(700)) {
		t.Fatalf("balance = %s, want 700", env.balance())
	}
}

func TestCashMovementsChain(t *testing.T) {
	env := newTestEnv(t)
	env.sellForCash(t, "REF-C1", 1000)
	env.sellForCash(t, "REF-C2", 500)
	if _, err := env.cashboxSvc.RecordExpense(&RecordExpenseRequest{
		Label:  "Fuel",
		Amount: decimal.NewFromInt(200),
	}, nil); err != nil {
		t.Fatalf("expense: %v", err)
	}

	movements, err := env.cashMovs.FindAll(repository.CashMovementFilter{})
	if err != nil {
		t.Fatalf("list movements: %v", err)
	}
	if len(movements) != 3 {
		t.Fatalf("expected 3 movements, got %d", len(movements))
	}

	// Newest first: each row's before equals the next older row's after.
	for i := 0; i < len(movements)-1; i++ {
		if !movements[i].BalanceBefore.Equal(movements[i+1].BalanceAfter) {
			t.Fatalf("chain broken at %d: before=%s, prior after=%s",
				i, movements[i].BalanceBefore, movements[i+1].BalanceAfter)
		}
	}
	if !movements[0].BalanceAfter.Equal(decimal.NewFromInt(1300)) {
		t.Fatalf("final balance snapshot = %s, want 1300", movements[0].BalanceAfter)
	}
}

func TestRecordPaymentTransitionsSaleStatus(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "REF-PAY", 1000, 10)

	sale, err := env.saleSvc.CreateSale(&CreateSaleRequest{
		Items: []SaleLineRequest{{ProductID: product.ID, Quantity: 2}},
	}, nil)
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}
	if sale.PaymentStatus != model.PaymentUnpaid {
		t.Fatalf("initial status = %s, want unpaid", sale.PaymentStatus)
	}

	if _, err := env.cashboxSvc.RecordPayment(&RecordPaymentRequest{
		SaleID: &sale.ID,
		Amount: decimal.NewFromInt(800),
	}, nil); err != nil {
		t.Fatalf("first payment: %v", err)
	}
	reloaded, _ := env.sales.FindByID(sale.ID)
	if reloaded.PaymentStatus != model.PaymentPartial {
		t.Fatalf("status = %s, want partial", reloaded.PaymentStatus)
	}

	if _, err := env.cashboxSvc.RecordPayment(&RecordPaymentRequest{
		SaleID: &sale.ID,
		Amount: decimal.NewFromInt(1200),
	}, nil); err != nil {
		t.Fatalf("second payment: %v", err)
	}
	reloaded, _ = env.sales.FindByID(sale.ID)
	if reloaded.PaymentStatus != model.PaymentPaid {
		t.Fatalf("status = %s, want paid", reloaded.PaymentStatus)
	}
	if !env.balance().Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("balance = %s, want 2000", env.balance())
	}
}

func TestRecordPaymentRequiresExactlyOneTarget(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.cashboxSvc.RecordPayment(&RecordPaymentRequest{
		Amount: decimal.NewFromInt(100),
	}, nil)
	if !errors.Is(err, ErrPaymentTarget) {
		t.Fatalf("no target err = %v, want ErrPaymentTarget", err)
	}

	saleID, orderID := uuid.New(), uuid.New()
	_, err = env.cashboxSvc.RecordPayment(&RecordPaymentRequest{
		SaleID:          &saleID,
		PurchaseOrderID: &orderID,
		Amount:          decimal.NewFromInt(100),
	}, nil)
	if !errors.Is(err, ErrPaymentTarget) {
		t.Fatalf("both targets err = %v, want ErrPaymentTarget", err)
	}
}

func TestSupplierPaymentStaysOutOfDrawer(t *testing.T) {
	env := newTestEnv(t)
	env.sellForCash(t, "REF-SP", 1000)

	supplier := env.createSupplier(t, "Wholesale Partner")
	product := env.createProduct(t, "REF-SP2", 100, 0)
	order, err := env.purchaseSvc.CreateOrder(&CreateOrderRequest{
		SupplierID: supplier.ID,
		Items: []OrderLineRequest{
			{ProductID: product.ID, Quantity: 10, UnitPrice: decimal.NewFromInt(40)},
		},
	}, nil)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if _, err := env.cashboxSvc.RecordPayment(&RecordPaymentRequest{
		PurchaseOrderID: &order.ID,
		Amount:          decimal.NewFromInt(150),
	}, nil); err != nil {
		t.Fatalf("supplier payment: %v", err)
	}

	reloaded, _ := env.orders.FindByID(order.ID)
	if reloaded.PaymentStatus != model.PaymentPartial {
		t.Fatalf("order payment status = %s, want partial", reloaded.PaymentStatus)
	}
	// The drawer only holds sale money.
	if !env.balance().Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("balance = %s, want 1000", env.balance())
	}

	if _, err := env.cashboxSvc.RecordPayment(&RecordPaymentRequest{
		PurchaseOrderID: &order.ID,
		Amount:          decimal.NewFromInt(250),
	}, nil); err != nil {
		t.Fatalf("second supplier payment: %v", err)
	}
	reloaded, _ = env.orders.FindByID(order.ID)
	if reloaded.PaymentStatus != model.PaymentPaid {
		t.Fatalf("order payment status = %s, want paid", reloaded.PaymentStatus)
	}

	// Reconciliation ignores supplier payments.
	result, err := env.cashboxSvc.Reconcile(nil)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !result.NewBalance.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("reconciled balance = %s, want 1000", result.NewBalance)
	}
}

func TestReconcileRecomputesAndIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.sellForCash(t, "REF-R1", 1000)
	env.sellForCash(t, "REF-R2", 600)
	if _, err := env.cashboxSvc.RecordExpense(&RecordExpenseRequest{
		Label:  "Misc",
		Amount: decimal.NewFromInt(400),
	}, nil); err != nil {
		t.Fatalf("expense: %v", err)
	}

	// Corrupt the stored balance to simulate drift.
	err := env.db.Transaction(func(tx *gorm.DB) error {
		return env.settings.SetBalance(tx, decimal.NewFromInt(9999))
	})
	if err != nil {
		t.Fatalf("corrupt balance: %v", err)
	}

	result, err := env.cashboxSvc.Reconcile(nil)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	want := decimal.NewFromInt(1200) // 1600 payments - 400 expenses
	if !result.NewBalance.Equal(want) {
		t.Fatalf("new balance = %s, want %s", result.NewBalance, want)
	}
	if !result.Drift.Equal(want.Sub(decimal.NewFromInt(9999))) {
		t.Fatalf("drift = %s", result.Drift)
	}
	if !env.balance().Equal(want) {
		t.Fatalf("stored balance = %s, want %s", env.balance(), want)
	}

	// Second run changes nothing.
	again, err := env.cashboxSvc.Reconcile(nil)
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if !again.Drift.IsZero() {
		t.Fatalf("second drift = %s, want 0", again.Drift)
	}
	if !again.NewBalance.Equal(want) {
		t.Fatalf("second balance = %s, want %s", again.NewBalance, want)
	}
}
