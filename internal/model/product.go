package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Name          string          `gorm:"type:varchar(200);not null" json:"name" validate:"required"`
	Reference     string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"reference" validate:"required"`
	Barcode       *string         `gorm:"type:varchar(100);uniqueIndex" json:"barcode,omitempty"`
	Description   string          `gorm:"type:text" json:"description,omitempty"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"purchase_price"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"sale_price"`
	TaxRate       decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"tax_rate"`
	CurrentStock  int             `gorm:"default:0;check:current_stock >= 0" json:"current_stock"`
	MinStock      int             `gorm:"default:0" json:"min_stock"`
	MaxStock      int             `gorm:"default:1000" json:"max_stock"`
	Unit          string          `gorm:"type:varchar(20);default:'unit'" json:"unit"`
	Location      string          `gorm:"type:varchar(100)" json:"location,omitempty"`
	Active        bool            `gorm:"default:true" json:"active"`

	// Unidirectional FKs only; joins are explicit at query time.
	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category   *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	SupplierID *uuid.UUID `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Supplier   *Supplier  `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
}

// LowStock reports whether the on-hand quantity has reached the minimum threshold.
func (p *Product) LowStock() bool {
	return p.CurrentStock <= p.MinStock
}

// MarginPercent returns (sale - purchase) / purchase * 100, or zero when the
// purchase price is not set.
func (p *Product) MarginPercent() decimal.Decimal {
	if p.PurchasePrice.IsZero() {
		return decimal.Zero
	}
	return p.SalePrice.Sub(p.PurchasePrice).
		Div(p.PurchasePrice).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

// StockValue returns current stock valued at purchase price.
func (p *Product) StockValue() decimal.Decimal {
	return p.PurchasePrice.Mul(decimal.NewFromInt(int64(p.CurrentStock)))
}

// ProductResponse adds the derived fields the UI renders alongside the raw columns.
type ProductResponse struct {
	Product
	LowStockFlag  bool            `json:"low_stock"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
	StockValue    decimal.Decimal `json:"stock_value"`
}

func (p *Product) ToResponse() ProductResponse {
	return ProductResponse{
		Product:       *p,
		LowStockFlag:  p.LowStock(),
		MarginPercent: p.MarginPercent(),
		StockValue:    p.StockValue(),
	}
}
