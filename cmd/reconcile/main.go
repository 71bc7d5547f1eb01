package main

import (
	"log"

	"gestiostock-backend/internal/repository"
	"gestiostock-backend/internal/service"
	"gestiostock-backend/pkg/database"
	"gestiostock-backend/pkg/logger"

	"github.com/joho/godotenv"
)

// Rebuilds the stored cash balance from the full payment and expense history.
// Meant for cron or manual runs after suspect drawer activity; the HTTP
// endpoint does the same thing with an operator in the loop.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	appLog := logger.New()
	db := database.ConnectDB()

	saleRepo := repository.NewSaleRepo(db)
	orderRepo := repository.NewPurchaseOrderRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)
	expenseRepo := repository.NewExpenseRepo(db)
	cashMovementRepo := repository.NewCashMovementRepo(db)
	settingRepo := repository.NewSettingRepo(db)

	cashLedger := service.NewCashLedger(settingRepo, cashMovementRepo)
	cashbox := service.NewCashboxService(db, saleRepo, orderRepo, paymentRepo,
		expenseRepo, cashMovementRepo, settingRepo, cashLedger, nil, appLog)

	result, err := cashbox.Reconcile(nil)
	if err != nil {
		log.Fatalf("Reconciliation failed: %v", err)
	}

	log.Printf("Payments total:   %s", result.TotalPayments.StringFixed(2))
	log.Printf("Expenses total:   %s", result.TotalExpenses.StringFixed(2))
	log.Printf("Previous balance: %s", result.PreviousBalance.StringFixed(2))
	log.Printf("New balance:      %s", result.NewBalance.StringFixed(2))
	log.Printf("Drift corrected:  %s", result.Drift.StringFixed(2))
}
