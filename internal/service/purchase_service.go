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

type PurchaseService interface {
	CreateOrder(req *CreateOrderRequest, userID *uuid.UUID) (*model.PurchaseOrder, error)
	ConfirmOrder(id uuid.UUID, userID *uuid.UUID) (*model.PurchaseOrder, error)
	ReceiveOrder(id uuid.UUID, userID *uuid.UUID) (*model.PurchaseOrder, error)
	CancelOrder(id uuid.UUID, userID *uuid.UUID) (*model.PurchaseOrder, error)
	GetOrder(id uuid.UUID) (*model.PurchaseOrder, error)
	ListOrders(filter repository.OrderFilter) ([]model.PurchaseOrder, error)
}

type OrderLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"uuid_required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CreateOrderRequest struct {
	SupplierID   uuid.UUID          `json:"supplier_id" validate:"uuid_required"`
	ExpectedDate *time.Time         `json:"expected_date"`
	Notes        string             `json:"notes"`
	Items        []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
}

type purchaseService struct {
	db           *gorm.DB
	orderRepo    repository.PurchaseOrderRepository
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	settingRepo  repository.SettingRepository
	stock        *StockLedger
	notifier     *Notifier
	log          *logrus.Logger
}

func NewPurchaseService(
	db *gorm.DB,
	orderRepo repository.PurchaseOrderRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	settingRepo repository.SettingRepository,
	stock *StockLedger,
	notifier *Notifier,
	log *logrus.Logger,
) PurchaseService {
	return &purchaseService{
		db:           db,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		settingRepo:  settingRepo,
		stock:        stock,
		notifier:     notifier,
		log:          log,
	}
}

// CreateOrder drafts a pending order. Nothing touches stock or cash yet;
// stock only moves when the goods arrive.
func (s *purchaseService) CreateOrder(req *CreateOrderRequest, userID *uuid.UUID) (*model.PurchaseOrder, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if _, err := s.supplierRepo.FindByID(req.SupplierID); err != nil {
		return nil, fmt.Errorf("supplier not found")
	}

	currency := s.settingRepo.GetString(model.KeyDefaultCurrency, "XOF")

	var order *model.PurchaseOrder
	err := s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		total := decimal.Zero
		items := make([]model.PurchaseOrderItem, len(req.Items))
		for i, line := range req.Items {
			// Line reads stay on tx: a pool-scoped query here would block
			// behind the open transaction on a constrained pool.
			product, err := s.productRepo.FindForUpdate(tx, line.ProductID)
			if err != nil {
				return ErrProductNotFound
			}
			price := line.UnitPrice
			if price.IsZero() {
				price = product.PurchasePrice
			}
			if price.IsNegative() {
				return ErrInvalidAmount
			}
			lineTotal := price.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
			items[i] = model.PurchaseOrderItem{
				ProductID:       line.ProductID,
				QuantityOrdered: line.Quantity,
				UnitPrice:       price,
				LineTotal:       lineTotal,
			}
			total = total.Add(lineTotal)
		}

		number, err := orderNumber(tx, s.settingRepo, now)
		if err != nil {
			return err
		}

		order = &model.PurchaseOrder{
			OrderNumber:   number,
			SupplierID:    req.SupplierID,
			UserID:        userID,
			ExpectedDate:  req.ExpectedDate,
			TotalAmount:   total,
			Currency:      currency,
			Status:        model.OrderPending,
			PaymentStatus: model.PaymentUnpaid,
			Notes:         req.Notes,
			Items:         items,
		}
		if userID != nil {
			order.CreatedBy = userID.String()
			order.UpdatedBy = userID.String()
		}
		return s.orderRepo.Create(tx, order)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order": order.OrderNumber,
		"total": order.TotalAmount,
	}).Info("purchase order created")
	return s.orderRepo.FindByID(order.ID)
}

func (s *purchaseService) ConfirmOrder(id uuid.UUID, userID *uuid.UUID) (*model.PurchaseOrder, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindForUpdate(tx, id)
		if err != nil {
			return ErrOrderNotFound
		}
		if order.Status != model.OrderPending {
			return ErrOrderClosed
		}
		order.Status = model.OrderConfirmed
		if userID != nil {
			order.UpdatedBy = userID.String()
		}
		return s.orderRepo.Save(tx, order)
	})
	if err != nil {
		return nil, err
	}
	return s.orderRepo.FindByID(id)
}

// ReceiveOrder books the delivery: every ordered line enters stock with an
// "in" movement priced at the order's unit cost. No cash moves here; supplier
// invoices are settled separately.
func (s *purchaseService) ReceiveOrder(id uuid.UUID, userID *uuid.UUID) (*model.PurchaseOrder, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindForUpdate(tx, id)
		if err != nil {
			return ErrOrderNotFound
		}
		if order.Status == model.OrderReceived || order.Status == model.OrderCancelled {
			return ErrOrderClosed
		}

		reason := "Purchase order " + order.OrderNumber + " receipt"
		for _, item := range order.Items {
			remaining := item.QuantityOrdered - item.QuantityReceived
			if remaining <= 0 {
				continue
			}
			_, err := s.stock.Apply(tx, item.ProductID, model.MovementIn, remaining,
				item.UnitPrice, reason, order.OrderNumber, userID)
			if err != nil {
				return err
			}
			if err := s.orderRepo.UpdateItemReceived(tx, item.ID, item.QuantityOrdered); err != nil {
				return err
			}
		}

		now := time.Now()
		order.Status = model.OrderReceived
		order.DeliveredAt = &now
		if userID != nil {
			order.UpdatedBy = userID.String()
		}
		return s.orderRepo.Save(tx, order)
	})
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	s.log.WithField("order", order.OrderNumber).Info("purchase order received")
	if s.notifier != nil {
		s.notifier.Event("order_received", map[string]interface{}{
			"order": order.OrderNumber,
		})
	}
	return order, nil
}

func (s *purchaseService) CancelOrder(id uuid.UUID, userID *uuid.UUID) (*model.PurchaseOrder, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindForUpdate(tx, id)
		if err != nil {
			return ErrOrderNotFound
		}
		if order.Status == model.OrderReceived || order.Status == model.OrderCancelled {
			return ErrOrderClosed
		}
		order.Status = model.OrderCancelled
		if userID != nil {
			order.UpdatedBy = userID.String()
		}
		return s.orderRepo.Save(tx, order)
	})
	if err != nil {
		return nil, err
	}
	return s.orderRepo.FindByID(id)
}

func (s *purchaseService) GetOrder(id uuid.UUID) (*model.PurchaseOrder, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *purchaseService) ListOrders(filter repository.OrderFilter) ([]model.PurchaseOrder, error) {
	return s.orderRepo.FindAll(filter)
}
