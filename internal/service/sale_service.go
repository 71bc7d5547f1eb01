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

type SaleService interface {
	CreateSale(req *CreateSaleRequest, userID *uuid.UUID) (*model.Sale, error)
	CancelSale(id uuid.UUID, userID *uuid.UUID) (*model.Sale, error)
	GetSale(id uuid.UUID) (*model.Sale, error)
	ListSales(filter repository.SaleFilter) ([]model.Sale, error)
}

type SaleLineRequest struct {
	ProductID uuid.UUID        `json:"product_id" validate:"uuid_required"`
	Quantity  int              `json:"quantity" validate:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price"` // defaults to the product sale price
	Discount  decimal.Decimal  `json:"discount"`   // percentage, 0-100
}

type CreateSaleRequest struct {
	ClientID    *uuid.UUID        `json:"client_id"`
	PaymentMode string            `json:"payment_mode"`
	AmountPaid  decimal.Decimal   `json:"amount_paid"` // cash received now, may be partial
	DueDate     *time.Time        `json:"due_date"`
	Notes       string            `json:"notes"`
	Items       []SaleLineRequest `json:"items" validate:"required,min=1,dive"`
}

type saleService struct {
	db          *gorm.DB
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	clientRepo  repository.ClientRepository
	paymentRepo repository.PaymentRepository
	settingRepo repository.SettingRepository
	stock       *StockLedger
	cash        *CashLedger
	notifier    *Notifier
	log         *logrus.Logger
}

func NewSaleService(
	db *gorm.DB,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	paymentRepo repository.PaymentRepository,
	settingRepo repository.SettingRepository,
	stock *StockLedger,
	cash *CashLedger,
	notifier *Notifier,
	log *logrus.Logger,
) SaleService {
	return &saleService{
		db:          db,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		clientRepo:  clientRepo,
		paymentRepo: paymentRepo,
		settingRepo: settingRepo,
		stock:       stock,
		cash:        cash,
		notifier:    notifier,
		log:         log,
	}
}

// invoiceNumber builds INV{yyyymm}{seq}. The sequence row is per month, so
// numbering restarts at 00001 each month like the paper books it replaces.
func invoiceNumber(tx *gorm.DB, settings repository.SettingRepository, now time.Time) (string, error) {
	period := now.Format("200601")
	seq, err := settings.NextSequence(tx, fmt.Sprintf("%s_%s", model.KeyInvoiceSequence, period))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV%s%05d", period, seq), nil
}

func orderNumber(tx *gorm.DB, settings repository.SettingRepository, now time.Time) (string, error) {
	period := now.Format("200601")
	seq, err := settings.NextSequence(tx, fmt.Sprintf("%s_%s", model.KeyPurchaseSequence, period))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PO%s%05d", period, seq), nil
}

// CreateSale runs entirely in one transaction: every line is locked and
// validated before any stock or cash is touched, so a sale either lands
// completely or not at all.
func (s *saleService) CreateSale(req *CreateSaleRequest, userID *uuid.UUID) (*model.Sale, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if req.AmountPaid.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if req.ClientID != nil {
		if _, err := s.clientRepo.FindByID(*req.ClientID); err != nil {
			return nil, ErrClientNotFound
		}
	}

	paymentMode := req.PaymentMode
	if paymentMode == "" {
		paymentMode = "cash"
	}
	currency := s.settingRepo.GetString(model.KeyDefaultCurrency, "XOF")

	var sale *model.Sale
	err := s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		// Phase 1: lock and validate every line before writing anything.
		type pricedLine struct {
			product  *model.Product
			quantity int
			price    decimal.Decimal
			discount decimal.Decimal
		}
		lines := make([]pricedLine, 0, len(req.Items))
		for _, item := range req.Items {
			product, err := s.productRepo.FindForUpdate(tx, item.ProductID)
			if err != nil {
				return ErrProductNotFound
			}
			if !product.Active {
				return ErrProductNotFound
			}
			if product.CurrentStock < item.Quantity {
				return ErrInsufficientStock
			}
			price := product.SalePrice
			if item.UnitPrice != nil {
				price = *item.UnitPrice
			}
			if item.Discount.IsNegative() || item.Discount.GreaterThan(decimal.NewFromInt(100)) {
				return ErrInvalidAmount
			}
			lines = append(lines, pricedLine{product, item.Quantity, price, item.Discount})
		}

		number, err := invoiceNumber(tx, s.settingRepo, now)
		if err != nil {
			return err
		}

		// Phase 2: build the document.
		total := decimal.Zero
		items := make([]model.SaleItem, len(lines))
		for i, line := range lines {
			lineTotal := model.ComputeLineTotal(line.quantity, line.price, line.discount)
			items[i] = model.SaleItem{
				ProductID: line.product.ID,
				Quantity:  line.quantity,
				UnitPrice: line.price,
				Discount:  line.discount,
				TaxRate:   line.product.TaxRate,
				LineTotal: lineTotal,
			}
			total = total.Add(lineTotal)
		}

		sale = &model.Sale{
			InvoiceNumber: number,
			ClientID:      req.ClientID,
			UserID:        userID,
			Currency:      currency,
			PaymentMode:   paymentMode,
			Status:        model.SaleConfirmed,
			PaymentStatus: model.PaymentUnpaid,
			TotalAmount:   total,
			DueDate:       req.DueDate,
			Notes:         req.Notes,
			Items:         items,
		}
		if userID != nil {
			sale.CreatedBy = userID.String()
			sale.UpdatedBy = userID.String()
		}
		if err := s.saleRepo.Create(tx, sale); err != nil {
			return err
		}

		// Phase 3: stock out per line, one movement each.
		reason := "Sale " + number
		for _, line := range lines {
			_, err := s.stock.Apply(tx, line.product.ID, model.MovementOut, line.quantity,
				line.product.PurchasePrice, reason, number, userID)
			if err != nil {
				return err
			}
		}

		// Phase 4: immediate payment, if any cash changed hands.
		if req.AmountPaid.IsPositive() {
			payment := &model.Payment{
				SaleID: &sale.ID,
				Amount: req.AmountPaid,
				Mode:   paymentMode,
			}
			if userID != nil {
				payment.CreatedBy = userID.String()
			}
			if err := s.paymentRepo.Create(tx, payment); err != nil {
				return err
			}
			if _, err := s.cash.Credit(tx, req.AmountPaid, number, &payment.ID, &sale.ID, userID, ""); err != nil {
				return err
			}

			status := model.PaymentPartial
			if req.AmountPaid.GreaterThanOrEqual(total) {
				status = model.PaymentPaid
			}
			if err := s.saleRepo.UpdatePaymentStatus(tx, sale.ID, status); err != nil {
				return err
			}
			sale.PaymentStatus = status
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"invoice": sale.InvoiceNumber,
		"total":   sale.TotalAmount,
		"items":   len(sale.Items),
	}).Info("sale recorded")

	for _, item := range sale.Items {
		s.checkLowStock(item.ProductID)
	}
	if s.notifier != nil {
		s.notifier.Event("sale_recorded", map[string]interface{}{
			"invoice": sale.InvoiceNumber,
			"total":   sale.TotalAmount.String(),
		})
	}

	return s.saleRepo.FindByID(sale.ID)
}

// CancelSale returns every sold item to stock with return movements. Cash
// already collected stays in the drawer; refunds are a manual expense.
func (s *saleService) CancelSale(id uuid.UUID, userID *uuid.UUID) (*model.Sale, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		sale, err := s.saleRepo.FindForUpdate(tx, id)
		if err != nil {
			return ErrSaleNotFound
		}
		if sale.Status == model.SaleCancelled {
			return ErrSaleCancelled
		}

		updatedBy := ""
		if userID != nil {
			updatedBy = userID.String()
		}
		if err := s.saleRepo.UpdateStatus(tx, sale.ID, model.SaleCancelled, updatedBy); err != nil {
			return err
		}

		reason := "Sale " + sale.InvoiceNumber + " cancelled"
		for _, item := range sale.Items {
			cost := decimal.Zero
			if item.Product != nil {
				cost = item.Product.PurchasePrice
			}
			_, err := s.stock.Apply(tx, item.ProductID, model.MovementReturn, item.Quantity,
				cost, reason, sale.InvoiceNumber, userID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	s.log.WithField("invoice", sale.InvoiceNumber).Info("sale cancelled")
	return sale, nil
}

func (s *saleService) GetSale(id uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		return nil, ErrSaleNotFound
	}
	return sale, nil
}

func (s *saleService) ListSales(filter repository.SaleFilter) ([]model.Sale, error) {
	return s.saleRepo.FindAll(filter)
}

func (s *saleService) checkLowStock(productID uuid.UUID) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil || !product.LowStock() {
		return
	}
	if s.notifier == nil {
		return
	}
	if err := s.notifier.LowStock(product); err != nil {
		s.log.WithError(err).WithField("product_id", productID).Warn("low stock alert failed")
	}
}
