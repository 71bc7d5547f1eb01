package service

import (
	"bytes"
	"fmt"
	"time"

	"gestiostock-backend/internal/model"
	"gestiostock-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ReportService renders documents and exports. PDF output uses maroto, Excel
// output uses excelize; both return in-memory buffers for the handlers to
// stream as attachments.
type ReportService interface {
	InvoicePDF(saleID uuid.UUID) ([]byte, string, error)
	SalesSummaryPDF(since, until time.Time) ([]byte, string, error)
	ProductsExcel() ([]byte, string, error)
	SalesExcel(since, until time.Time) ([]byte, string, error)
}

type reportService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	settingRepo repository.SettingRepository
}

func NewReportService(saleRepo repository.SaleRepository, productRepo repository.ProductRepository, settingRepo repository.SettingRepository) ReportService {
	return &reportService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		settingRepo: settingRepo,
	}
}

func (s *reportService) newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(10).
		WithRightMargin(10).
		Build()
	return maroto.New(cfg)
}

func (s *reportService) companyHeader() core.Row {
	company := s.settingRepo.GetString(model.KeyCompanyName, "GestioStock")
	return row.New(12).Add(
		text.NewCol(12, company, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)
}

// InvoicePDF renders a printable invoice for one sale.
func (s *reportService) InvoicePDF(saleID uuid.UUID) ([]byte, string, error) {
	sale, err := s.saleRepo.FindByID(saleID)
	if err != nil {
		return nil, "", ErrSaleNotFound
	}

	m := s.newDocument()
	m.AddRows(s.companyHeader())
	m.AddRow(8, text.NewCol(12, "Invoice "+sale.InvoiceNumber, props.Text{
		Size:  12,
		Style: fontstyle.Bold,
		Align: align.Center,
	}))

	clientName := "Walk-in customer"
	if sale.Client != nil {
		clientName = sale.Client.DisplayName()
	}
	m.AddRow(6, text.NewCol(6, "Client: "+clientName, props.Text{Size: 9}))
	m.AddRow(6, text.NewCol(6, "Date: "+sale.CreatedAt.Format("2006-01-02 15:04"), props.Text{Size: 9}))
	m.AddRow(4, line.NewCol(12))

	m.AddRow(7,
		text.NewCol(5, "Product", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, "Qty", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(1, "Disc.", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Total", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	for _, item := range sale.Items {
		name := item.ProductID.String()
		if item.Product != nil {
			name = item.Product.Name
		}
		m.AddRow(6,
			text.NewCol(5, name, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", item.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(1, item.Discount.StringFixed(0)+"%", props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.LineTotal.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(4, line.NewCol(12))
	m.AddRow(8,
		text.NewCol(10, "Total ("+sale.Currency+")", props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, sale.TotalAmount.StringFixed(2), props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(6, text.NewCol(12, "Payment: "+string(sale.PaymentStatus)+" ("+sale.PaymentMode+")", props.Text{Size: 9}))

	doc, err := m.Generate()
	if err != nil {
		return nil, "", err
	}
	return doc.GetBytes(), sale.InvoiceNumber + ".pdf", nil
}

// SalesSummaryPDF lists confirmed sales over the period with a grand total.
func (s *reportService) SalesSummaryPDF(since, until time.Time) ([]byte, string, error) {
	sales, err := s.saleRepo.FindAll(repository.SaleFilter{
		Status: model.SaleConfirmed,
		Since:  &since,
		Until:  &until,
		Limit:  1000,
	})
	if err != nil {
		return nil, "", err
	}

	m := s.newDocument()
	m.AddRows(s.companyHeader())
	m.AddRow(8, text.NewCol(12,
		fmt.Sprintf("Sales %s to %s", since.Format("2006-01-02"), until.Format("2006-01-02")),
		props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Center},
	))
	m.AddRow(4, line.NewCol(12))

	m.AddRow(7,
		text.NewCol(3, "Invoice", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(3, "Date", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(3, "Client", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(3, "Amount", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)

	total := decimal.Zero
	for _, sale := range sales {
		clientName := "-"
		if sale.Client != nil {
			clientName = sale.Client.DisplayName()
		}
		m.AddRow(6,
			text.NewCol(3, sale.InvoiceNumber, props.Text{Size: 9}),
			text.NewCol(3, sale.CreatedAt.Format("2006-01-02"), props.Text{Size: 9}),
			text.NewCol(3, clientName, props.Text{Size: 9}),
			text.NewCol(3, sale.TotalAmount.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
		)
		total = total.Add(sale.TotalAmount)
	}

	m.AddRow(4, line.NewCol(12))
	m.AddRow(8,
		text.NewCol(9, fmt.Sprintf("%d invoices", len(sales)), props.Text{Size: 10, Style: fontstyle.Bold}),
		text.NewCol(3, total.StringFixed(2), props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("sales_%s_%s.pdf", since.Format("20060102"), until.Format("20060102"))
	return doc.GetBytes(), filename, nil
}

// ProductsExcel exports the catalogue with stock and valuation columns.
func (s *reportService) ProductsExcel() ([]byte, string, error) {
	products, err := s.productRepo.FindAll(repository.ProductFilter{All: true})
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := "Products"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Reference", "Name", "Category", "Purchase price", "Sale price", "Stock", "Min stock", "Stock value", "Active"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetColWidth(sheet, "A", "C", 24)
	f.SetColWidth(sheet, "D", "I", 14)

	for i, p := range products {
		rowNo := i + 2
		category := ""
		if p.Category != nil {
			category = p.Category.Name
		}
		values := []interface{}{
			p.Reference,
			p.Name,
			category,
			p.PurchasePrice.InexactFloat64(),
			p.SalePrice.InexactFloat64(),
			p.CurrentStock,
			p.MinStock,
			p.StockValue().InexactFloat64(),
			p.Active,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, rowNo)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "products.xlsx", nil
}

// SalesExcel exports one row per confirmed invoice over the period.
func (s *reportService) SalesExcel(since, until time.Time) ([]byte, string, error) {
	sales, err := s.saleRepo.FindAll(repository.SaleFilter{
		Status: model.SaleConfirmed,
		Since:  &since,
		Until:  &until,
		Limit:  5000,
	})
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := "Sales"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Invoice", "Date", "Client", "Payment status", "Currency", "Amount"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetColWidth(sheet, "A", "F", 18)

	for i, sale := range sales {
		rowNo := i + 2
		clientName := ""
		if sale.Client != nil {
			clientName = sale.Client.DisplayName()
		}
		values := []interface{}{
			sale.InvoiceNumber,
			sale.CreatedAt.Format("2006-01-02 15:04"),
			clientName,
			string(sale.PaymentStatus),
			sale.Currency,
			sale.TotalAmount.InexactFloat64(),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, rowNo)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("sales_%s_%s.xlsx", since.Format("20060102"), until.Format("20060102"))
	return buf.Bytes(), filename, nil
}
