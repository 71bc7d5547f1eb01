package service

import (
	"time"

	"gestiostock-backend/internal/model"
	"gestiostock-backend/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardSummary is the single payload the dashboard screen renders.
type DashboardSummary struct {
	CashBalance     decimal.Decimal             `json:"cash_balance"`
	ActiveProducts  int64                       `json:"active_products"`
	LowStockCount   int64                       `json:"low_stock_count"`
	StockValuation  float64                     `json:"stock_valuation"`
	SalesToday      decimal.Decimal             `json:"sales_today"`
	SalesTodayCount int64                       `json:"sales_today_count"`
	SalesThisMonth  decimal.Decimal             `json:"sales_this_month"`
	OpenOrders      int64                       `json:"open_orders"`
	OpenOrdersValue decimal.Decimal             `json:"open_orders_value"`
	LowStock        []model.ProductResponse     `json:"low_stock"`
	RecentSales     []model.Sale                `json:"recent_sales"`
	StockFlow       []repository.DailyStockFlow `json:"stock_flow"`
}

type DashboardService interface {
	Summary() (*DashboardSummary, error)
}

type dashboardService struct {
	productRepo  repository.ProductRepository
	saleRepo     repository.SaleRepository
	orderRepo    repository.PurchaseOrderRepository
	movementRepo repository.StockMovementRepository
	settingRepo  repository.SettingRepository
}

func NewDashboardService(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	orderRepo repository.PurchaseOrderRepository,
	movementRepo repository.StockMovementRepository,
	settingRepo repository.SettingRepository,
) DashboardService {
	return &dashboardService{
		productRepo:  productRepo,
		saleRepo:     saleRepo,
		orderRepo:    orderRepo,
		movementRepo: movementRepo,
		settingRepo:  settingRepo,
	}
}

func (s *dashboardService) Summary() (*DashboardSummary, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	summary := &DashboardSummary{
		CashBalance: s.settingRepo.GetNumber(model.KeyCashBalance, decimal.Zero),
	}

	var err error
	if summary.ActiveProducts, err = s.productRepo.CountActive(); err != nil {
		return nil, err
	}
	if summary.LowStockCount, err = s.productRepo.CountLowStock(); err != nil {
		return nil, err
	}
	if summary.StockValuation, err = s.productRepo.StockValuation(); err != nil {
		return nil, err
	}
	if summary.SalesToday, err = s.saleRepo.SumConfirmedSince(startOfDay); err != nil {
		return nil, err
	}
	if summary.SalesTodayCount, err = s.saleRepo.CountSince(startOfDay); err != nil {
		return nil, err
	}
	if summary.SalesThisMonth, err = s.saleRepo.SumConfirmedSince(startOfMonth); err != nil {
		return nil, err
	}
	if summary.OpenOrders, err = s.orderRepo.CountOpen(); err != nil {
		return nil, err
	}
	if summary.OpenOrdersValue, err = s.orderRepo.SumOpenAmount(); err != nil {
		return nil, err
	}

	lowStock, err := s.productRepo.FindLowStock()
	if err != nil {
		return nil, err
	}
	summary.LowStock = make([]model.ProductResponse, len(lowStock))
	for i := range lowStock {
		summary.LowStock[i] = lowStock[i].ToResponse()
	}

	if summary.RecentSales, err = s.saleRepo.FindAll(repository.SaleFilter{Limit: 10}); err != nil {
		return nil, err
	}

	weekAgo := startOfDay.AddDate(0, 0, -6)
	if summary.StockFlow, err = s.movementRepo.GetDailyFlow(weekAgo, now); err != nil {
		return nil, err
	}

	return summary, nil
}
