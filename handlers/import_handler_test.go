package handlers

import (
	"testing"

	"github.com/google/uuid"

	"github.com/shekar007/greenscore2/models"
)

func TestParseImportRows(t *testing.T) {
	sellerID := uuid.New()

	records := [][]string{
		{"material", "brand", "category", "condition", "quantity", "unit", "price", "mrp", "specs"},
		{"Wash Basin", "Cera", "Sanitary", "good", "10", "pcs", "1200", "1800", "ceramic, white"},
		{"Cement Bags", "UltraTech", "Cement", "", "50", "bags", "450", "", ""},
		{"", "", "", "", "", "", ""},
		{"Bad Quantity", "", "", "", "abc", "pcs", "10"},
		{"Bad Price", "", "", "", "5", "pcs", "-2"},
		{"Short Row", "only two"},
	}

	rows, rowErrors := parseImportRows(records, sellerID, nil)

	if len(rows) != 2 {
		t.Fatalf("parsed %d rows, want 2", len(rows))
	}
	if len(rowErrors) != 3 {
		t.Fatalf("got %d row errors, want 3", len(rowErrors))
	}

	first := rows[0].material
	if first.Material != "Wash Basin" || first.Brand != "Cera" || first.Quantity != 10 {
		t.Errorf("first row = %q/%q/%d", first.Material, first.Brand, first.Quantity)
	}
	if first.PriceToday != 1200 || first.MRP != 1800 {
		t.Errorf("first row prices = %.2f / %.2f", first.PriceToday, first.MRP)
	}
	if first.InventoryValue != 12000 {
		t.Errorf("inventory value = %.2f, want 12000", first.InventoryValue)
	}
	if first.ListingID == "" {
		t.Error("listing id not assigned")
	}
	if first.SellerID != sellerID {
		t.Error("seller id not assigned")
	}
	if first.ListingType != models.ListingResale {
		t.Errorf("listing type = %s, want resale", first.ListingType)
	}

	// Blank condition and unit fall back to defaults.
	second := rows[1].material
	if second.Condition != "good" || second.Unit != "bags" {
		t.Errorf("second row condition/unit = %q/%q", second.Condition, second.Unit)
	}

	// Row errors carry the spreadsheet line number (header is line 1).
	wantLines := map[int]bool{5: true, 6: true, 7: true}
	for _, re := range rowErrors {
		if !wantLines[re.Row] {
			t.Errorf("unexpected error line %d: %s", re.Row, re.Error)
		}
	}
}
