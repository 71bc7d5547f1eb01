package service

import (
	"fmt"
	"time"

	"gestiostock-backend/internal/model"
	"gestiostock-backend/internal/repository"
	"gestiostock-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CashboxService interface {
	Balance() decimal.Decimal
	RecordPayment(req *RecordPaymentRequest, userID *uuid.UUID) (*model.Payment, error)
	RecordExpense(req *RecordExpenseRequest, userID *uuid.UUID) (*model.Expense, error)
	Reconcile(userID *uuid.UUID) (*ReconcileResult, error)
	ListMovements(filter repository.CashMovementFilter) ([]model.CashMovement, error)
	ListPayments(limit int) ([]model.Payment, error)
	ListExpenses(since, until *time.Time, limit int) ([]model.Expense, error)
}

type RecordPaymentRequest struct {
	SaleID          *uuid.UUID      `json:"sale_id"`
	PurchaseOrderID *uuid.UUID      `json:"purchase_order_id"`
	Amount          decimal.Decimal `json:"amount"`
	Mode            string          `json:"mode"`
	Reference       string          `json:"reference"`
	Notes           string          `json:"notes"`
}

type RecordExpenseRequest struct {
	Label       string          `json:"label" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// ReconcileResult reports the recomputed balance and what it replaced.
type ReconcileResult struct {
	TotalPayments   decimal.Decimal `json:"total_payments"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	NewBalance      decimal.Decimal `json:"new_balance"`
	Drift           decimal.Decimal `json:"drift"`
}

type cashboxService struct {
	db           *gorm.DB
	saleRepo     repository.SaleRepository
	orderRepo    repository.PurchaseOrderRepository
	paymentRepo  repository.PaymentRepository
	expenseRepo  repository.ExpenseRepository
	movementRepo repository.CashMovementRepository
	settingRepo  repository.SettingRepository
	cash         *CashLedger
	notifier     *Notifier
	log          *logrus.Logger
}

func NewCashboxService(
	db *gorm.DB,
	saleRepo repository.SaleRepository,
	orderRepo repository.PurchaseOrderRepository,
	paymentRepo repository.PaymentRepository,
	expenseRepo repository.ExpenseRepository,
	movementRepo repository.CashMovementRepository,
	settingRepo repository.SettingRepository,
	cash *CashLedger,
	notifier *Notifier,
	log *logrus.Logger,
) CashboxService {
	return &cashboxService{
		db:           db,
		saleRepo:     saleRepo,
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		expenseRepo:  expenseRepo,
		movementRepo: movementRepo,
		settingRepo:  settingRepo,
		cash:         cash,
		notifier:     notifier,
		log:          log,
	}
}

func (s *cashboxService) Balance() decimal.Decimal {
	return s.settingRepo.GetNumber(model.KeyCashBalance, decimal.Zero)
}

// RecordPayment collects money against a sale or pays a supplier against a
// purchase order. Sale payments credit the drawer; supplier payments are
// tracked on the order but settle outside the drawer. The payment row, the
// cash credit and the document's payment status move together or not at all.
func (s *cashboxService) RecordPayment(req *RecordPaymentRequest, userID *uuid.UUID) (*model.Payment, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if (req.SaleID == nil) == (req.PurchaseOrderID == nil) {
		return nil, ErrPaymentTarget
	}
	mode := req.Mode
	if mode == "" {
		mode = "cash"
	}
	if req.PurchaseOrderID != nil {
		return s.recordSupplierPayment(req, mode, userID)
	}

	var payment *model.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		sale, err := s.saleRepo.FindForUpdate(tx, *req.SaleID)
		if err != nil {
			return ErrSaleNotFound
		}
		if sale.Status == model.SaleCancelled {
			return ErrSaleCancelled
		}

		payment = &model.Payment{
			SaleID:    req.SaleID,
			Amount:    req.Amount,
			Mode:      mode,
			Reference: req.Reference,
			Notes:     req.Notes,
		}
		if userID != nil {
			payment.CreatedBy = userID.String()
		}
		if err := s.paymentRepo.Create(tx, payment); err != nil {
			return err
		}

		if _, err := s.cash.Credit(tx, req.Amount, sale.InvoiceNumber, &payment.ID, &sale.ID, userID, req.Notes); err != nil {
			return err
		}

		paid, err := s.paymentRepo.SumForSale(tx, sale.ID)
		if err != nil {
			return err
		}
		status := model.PaymentPartial
		if paid.GreaterThanOrEqual(sale.TotalAmount) {
			status = model.PaymentPaid
		}
		return s.saleRepo.UpdatePaymentStatus(tx, sale.ID, status)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"amount":     payment.Amount,
	}).Info("payment recorded")
	return payment, nil
}

func (s *cashboxService) recordSupplierPayment(req *RecordPaymentRequest, mode string, userID *uuid.UUID) (*model.Payment, error) {
	var payment *model.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindForUpdate(tx, *req.PurchaseOrderID)
		if err != nil {
			return ErrOrderNotFound
		}
		if order.Status == model.OrderCancelled {
			return ErrOrderClosed
		}

		payment = &model.Payment{
			PurchaseOrderID: req.PurchaseOrderID,
			Amount:          req.Amount,
			Mode:            mode,
			Reference:       req.Reference,
			Notes:           req.Notes,
		}
		if userID != nil {
			payment.CreatedBy = userID.String()
		}
		if err := s.paymentRepo.Create(tx, payment); err != nil {
			return err
		}

		paid, err := s.paymentRepo.SumForOrder(tx, order.ID)
		if err != nil {
			return err
		}
		status := model.PaymentPartial
		if paid.GreaterThanOrEqual(order.TotalAmount) {
			status = model.PaymentPaid
		}
		return s.orderRepo.UpdatePaymentStatus(tx, order.ID, status)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"amount":     payment.Amount,
	}).Info("supplier payment recorded")
	return payment, nil
}

// RecordExpense pays money out of the drawer. An expense larger than the
// current balance is rejected; the drawer never goes negative.
func (s *cashboxService) RecordExpense(req *RecordExpenseRequest, userID *uuid.UUID) (*model.Expense, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var expense *model.Expense
	err := s.db.Transaction(func(tx *gorm.DB) error {
		expense = &model.Expense{
			Label:       req.Label,
			Amount:      req.Amount,
			Description: req.Description,
		}
		if userID != nil {
			expense.CreatedBy = userID.String()
		}
		if err := s.expenseRepo.Create(tx, expense); err != nil {
			return err
		}
		_, err := s.cash.Debit(tx, req.Amount, req.Label, userID, req.Description)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"label":  expense.Label,
		"amount": expense.Amount,
	}).Info("expense recorded")
	return expense, nil
}

// Reconcile recomputes the balance from first principles: every payment ever
// collected minus every expense ever paid out. The stored balance is
// overwritten with that figure and the drift is reported. Running it twice in
// a row is a no-op.
func (s *cashboxService) Reconcile(userID *uuid.UUID) (*ReconcileResult, error) {
	var result *ReconcileResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		previous, err := s.settingRepo.BalanceForUpdate(tx)
		if err != nil {
			return err
		}
		payments, err := s.paymentRepo.TotalAmount(tx)
		if err != nil {
			return err
		}
		expenses, err := s.expenseRepo.TotalAmount(tx)
		if err != nil {
			return err
		}

		computed := payments.Sub(expenses)
		if err := s.settingRepo.SetBalance(tx, computed); err != nil {
			return err
		}

		result = &ReconcileResult{
			TotalPayments:   payments,
			TotalExpenses:   expenses,
			PreviousBalance: previous,
			NewBalance:      computed,
			Drift:           computed.Sub(previous),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"previous": result.PreviousBalance,
		"computed": result.NewBalance,
		"drift":    result.Drift,
	}).Info("cashbox reconciled")

	if s.notifier != nil && !result.Drift.IsZero() {
		s.notifier.Event("cash_reconciled", map[string]interface{}{
			"drift":       result.Drift.String(),
			"new_balance": result.NewBalance.String(),
		})
	}
	return result, nil
}

func (s *cashboxService) ListMovements(filter repository.CashMovementFilter) ([]model.CashMovement, error) {
	return s.movementRepo.FindAll(filter)
}

func (s *cashboxService) ListPayments(limit int) ([]model.Payment, error) {
	return s.paymentRepo.FindAll(limit)
}

func (s *cashboxService) ListExpenses(since, until *time.Time, limit int) ([]model.Expense, error) {
	return s.expenseRepo.FindAll(since, until, limit)
}
