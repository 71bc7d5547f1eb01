package service

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestInvoicePDFGenerates(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "REF-PDF", 1000, 10)
	sale, err := env.saleSvc.CreateSale(&CreateSaleRequest{
		AmountPaid: decimal.NewFromInt(2000),
		Items:      []SaleLineRequest{{ProductID: product.ID, Quantity: 2}},
	}, nil)
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}

	reports := NewReportService(env.sales, env.products, env.settings)
	data, filename, err := reports.InvoicePDF(sale.ID)
	if err != nil {
		t.Fatalf("invoice pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF (%d bytes)", len(data))
	}
	if filename != sale.InvoiceNumber+".pdf" {
		t.Fatalf("filename = %s", filename)
	}
}

func TestSalesSummaryPDFGenerates(t *testing.T) {
	env := newTestEnv(t)
	env.sellForCash(t, "REF-PDF2", 500)

	reports := NewReportService(env.sales, env.products, env.settings)
	since := time.Now().AddDate(0, 0, -1)
	until := time.Now().AddDate(0, 0, 1)
	data, filename, err := reports.SalesSummaryPDF(since, until)
	if err != nil {
		t.Fatalf("sales pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF (%d bytes)", len(data))
	}
	if !strings.HasSuffix(filename, ".pdf") {
		t.Fatalf("filename = %s", filename)
	}
}

func TestExcelExportsGenerate(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct(t, "REF-XLS", 750, 5)
	env.sellForCash(t, "REF-XLS2", 300)

	reports := NewReportService(env.sales, env.products, env.settings)

	// xlsx files are zip archives.
	data, filename, err := reports.ProductsExcel()
	if err != nil {
		t.Fatalf("products excel: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Fatalf("products output is not a workbook (%d bytes)", len(data))
	}
	if filename != "products.xlsx" {
		t.Fatalf("filename = %s", filename)
	}

	since := time.Now().AddDate(0, 0, -1)
	until := time.Now().AddDate(0, 0, 1)
	data, filename, err = reports.SalesExcel(since, until)
	if err != nil {
		t.Fatalf("sales excel: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Fatalf("sales output is not a workbook (%d bytes)", len(data))
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Fatalf("filename = %s", filename)
	}
}
