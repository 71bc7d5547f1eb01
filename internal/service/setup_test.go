package service

import (
	"fmt"
	"io"
	"testing"

	"gestiostock-backend/internal/model"
	"gestiostock-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// A single connection keeps the shared in-memory database alive and
	// serializes access, like a one-writer sqlite file would.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.User{}, &model.Privilege{}, &model.Role{},
		&model.Category{}, &model.Supplier{}, &model.Client{},
		&model.Product{}, &model.StockMovement{},
		&model.Sale{}, &model.SaleItem{},
		&model.PurchaseOrder{}, &model.PurchaseOrderItem{},
		&model.Payment{}, &model.Expense{}, &model.CashMovement{},
		&model.SystemSetting{}, &model.Notification{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// testEnv wires every repository and service against one test database.
type testEnv struct {
	db *gorm.DB

	products  repository.ProductRepository
	sales     repository.SaleRepository
	orders    repository.PurchaseOrderRepository
	payments  repository.PaymentRepository
	expenses  repository.ExpenseRepository
	stockMovs repository.StockMovementRepository
	cashMovs  repository.CashMovementRepository
	settings  repository.SettingRepository
	clients   repository.ClientRepository
	suppliers repository.SupplierRepository

	stockLedger *StockLedger
	cashLedger  *CashLedger
	inventory   InventoryService
	saleSvc     SaleService
	purchaseSvc PurchaseService
	cashboxSvc  CashboxService
}

func newTestEnv(t *testing.T) *testEnv {
	db := setupTestDB(t, t.Name())
	log := quietLogger()

	env := &testEnv{
		db:        db,
		products:  repository.NewProductRepo(db),
		sales:     repository.NewSaleRepo(db),
		orders:    repository.NewPurchaseOrderRepo(db),
		payments:  repository.NewPaymentRepo(db),
		expenses:  repository.NewExpenseRepo(db),
		stockMovs: repository.NewStockMovementRepo(db),
		cashMovs:  repository.NewCashMovementRepo(db),
		settings:  repository.NewSettingRepo(db),
		clients:   repository.NewClientRepo(db),
		suppliers: repository.NewSupplierRepo(db),
	}
	if err := env.settings.SeedDefaults(); err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	env.stockLedger = NewStockLedger(env.products, env.stockMovs)
	env.cashLedger = NewCashLedger(env.settings, env.cashMovs)
	env.inventory = NewInventoryService(db, env.products, env.stockLedger, nil, log)
	env.saleSvc = NewSaleService(db, env.sales, env.products, env.clients, env.payments,
		env.settings, env.stockLedger, env.cashLedger, nil, log)
	env.purchaseSvc = NewPurchaseService(db, env.orders, env.products, env.suppliers,
		env.settings, env.stockLedger, nil, log)
	env.cashboxSvc = NewCashboxService(db, env.sales, env.orders, env.payments,
		env.expenses, env.cashMovs, env.settings, env.cashLedger, nil, log)
	return env
}

func (e *testEnv) createProduct(t *testing.T, reference string, salePrice float64, stock int) *model.Product {
	t.Helper()
	product, err := e.inventory.CreateProduct(&CreateProductRequest{
		Name:          "Product " + reference,
		Reference:     reference,
		PurchasePrice: decimal.NewFromFloat(salePrice / 2),
		SalePrice:     decimal.NewFromFloat(salePrice),
		InitialStock:  stock,
		MinStock:      2,
	}, nil)
	if err != nil {
		t.Fatalf("create product %s: %v", reference, err)
	}
	return product
}

func (e *testEnv) createSupplier(t *testing.T, name string) *model.Supplier {
	t.Helper()
	supplier := &model.Supplier{Name: name, Active: true}
	if err := e.suppliers.Create(supplier); err != nil {
		t.Fatalf("create supplier: %v", err)
	}
	return supplier
}

func (e *testEnv) stockOf(t *testing.T, id uuid.UUID) int {
	t.Helper()
	product, err := e.products.FindByID(id)
	if err != nil {
		t.Fatalf("reload product: %v", err)
	}
	return product.CurrentStock
}

func (e *testEnv) balance() decimal.Decimal {
	return e.settings.GetNumber(model.KeyCashBalance, decimal.Zero)
}
