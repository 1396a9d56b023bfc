package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/shekar007/greenscore2/config"
	"github.com/shekar007/greenscore2/models"
)

func TestBrowseMarketplaceFilters(t *testing.T) {
	db := testDB(t)
	prev := config.DB
	config.DB = db
	t.Cleanup(func() { config.DB = prev })

	seller := seedUser(t, db, models.UserTypeSeller)

	visible := seedMaterial(t, db, seller.ID, nil, "Ceramic Tiles", 40, 75)

	soldOut := seedMaterial(t, db, seller.ID, nil, "Floor Mats", 0, 30)
	_ = soldOut

	transferred := seedMaterial(t, db, seller.ID, nil, "Steel Beams", 10, 2000)
	db.Model(&models.Material{}).Where("id = ?", transferred.ID).
		Updates(map[string]interface{}{
			"listing_type":     models.ListingAcquired,
			"acquisition_type": models.AcquisitionAcquired,
		})

	delisted := seedMaterial(t, db, seller.ID, nil, "Roof Sheets", 5, 120)
	db.Model(&models.Material{}).Where("id = ?", delisted.ID).
		Update("listing_type", models.ListingSold)

	req := httptest.NewRequest("GET", "/api/v1/marketplace", nil)
	rec := httptest.NewRecorder()
	BrowseMarketplace(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got []models.Material
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("marketplace shows %d materials, want 1", len(got))
	}
	if got[0].ID != visible.ID {
		t.Fatalf("marketplace shows %s, want %s", got[0].Material, visible.Material)
	}
}
