package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeLineTotal(t *testing.T) {
	cases := []struct {
		quantity int
		price    string
		discount string
		want     string
	}{
		{3, "1000", "10", "2700"},
		{1, "500", "0", "500"},
		{2, "19.99", "0", "39.98"},
		{4, "250", "100", "0"},
		{5, "33.33", "15", "141.65"},
	}
	for _, tc := range cases {
		got := ComputeLineTotal(tc.quantity,
			decimal.RequireFromString(tc.price),
			decimal.RequireFromString(tc.discount))
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("ComputeLineTotal(%d, %s, %s%%) = %s, want %s",
				tc.quantity, tc.price, tc.discount, got, tc.want)
		}
	}
}

func TestProductMarginPercent(t *testing.T) {
	p := Product{
		PurchasePrice: decimal.NewFromInt(800),
		SalePrice:     decimal.NewFromInt(1000),
	}
	if got := p.MarginPercent(); !got.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("margin = %s, want 25", got)
	}

	// No purchase price means no meaningful margin, not a division panic.
	free := Product{SalePrice: decimal.NewFromInt(100)}
	if got := free.MarginPercent(); !got.IsZero() {
		t.Fatalf("margin = %s, want 0", got)
	}
}

func TestProductLowStock(t *testing.T) {
	p := Product{CurrentStock: 5, MinStock: 5}
	if !p.LowStock() {
		t.Fatal("stock at threshold should flag low")
	}
	p.CurrentStock = 6
	if p.LowStock() {
		t.Fatal("stock above threshold should not flag low")
	}
}

func TestProductStockValue(t *testing.T) {
	p := Product{
		PurchasePrice: decimal.RequireFromString("12.50"),
		CurrentStock:  8,
	}
	if got := p.StockValue(); !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("stock value = %s, want 100", got)
	}
}

func TestClientDisplayName(t *testing.T) {
	c := Client{LastName: "Diallo", FirstName: "Aminata"}
	if got := c.DisplayName(); got != "Diallo Aminata" {
		t.Fatalf("display name = %q", got)
	}
	solo := Client{LastName: "Ndiaye"}
	if got := solo.DisplayName(); got != "Ndiaye" {
		t.Fatalf("display name = %q", got)
	}
}
