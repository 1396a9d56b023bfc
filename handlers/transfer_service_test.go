package handlers

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shekar007/greenscore2/models"
)

func TestTransferPartialQuantity(t *testing.T) {
	db := testDB(t)
	seller := seedUser(t, db, models.UserTypeSeller)
	from := seedProject(t, db, seller.ID, "Site A")
	to := seedProject(t, db, seller.ID, "Site B")

	fromID := from.ID
	source := seedMaterial(t, db, seller.ID, &fromID, "PVC Pipes", 50, 35)

	svc := NewTransferService(db)
	transferID, err := svc.Transfer(TransferInput{
		UserID:        seller.ID,
		MaterialID:    source.ID,
		FromProjectID: from.ID,
		ToProjectID:   to.ID,
		Quantity:      20,
		Notes:         "phase 2 plumbing",
	})
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	var got models.Material
	db.First(&got, "id = ?", source.ID)
	if got.Quantity != 30 {
		t.Errorf("source quantity = %d, want 30", got.Quantity)
	}

	var dest models.Material
	if err := db.First(&dest, "seller_id = ? AND project_id = ? AND material = ?",
		seller.ID, to.ID, "PVC Pipes").Error; err != nil {
		t.Fatalf("destination material missing: %v", err)
	}
	if dest.Quantity != 20 {
		t.Errorf("destination quantity = %d, want 20", dest.Quantity)
	}
	if dest.ListingType != models.ListingAcquired {
		t.Errorf("destination listing type = %s, want acquired", dest.ListingType)
	}
	if dest.AcquisitionType != models.AcquisitionAcquired {
		t.Errorf("destination acquisition type = %s, want acquired", dest.AcquisitionType)
	}
	if dest.InventoryValue != 35*20 {
		t.Errorf("destination inventory value = %.2f, want %.2f", dest.InventoryValue, 35.0*20)
	}

	var transfer models.InternalTransfer
	if err := db.First(&transfer, "id = ?", transferID).Error; err != nil {
		t.Fatalf("transfer record missing: %v", err)
	}
	if transfer.QuantityTransferred != 20 {
		t.Errorf("recorded quantity = %d, want 20", transfer.QuantityTransferred)
	}

	var history models.TransactionHistory
	if err := db.First(&history, "seller_id = ? AND transaction_type = ?",
		seller.ID, models.TransactionInternalTransfer).Error; err != nil {
		t.Fatalf("history row missing: %v", err)
	}
	if history.Quantity != 20 || history.MaterialName != "PVC Pipes" {
		t.Errorf("history = %d units of %q", history.Quantity, history.MaterialName)
	}
}

func TestTransferFullQuantityDeletesSource(t *testing.T) {
	db := testDB(t)
	seller := seedUser(t, db, models.UserTypeSeller)
	from := seedProject(t, db, seller.ID, "Site A")
	to := seedProject(t, db, seller.ID, "Site B")

	fromID := from.ID
	source := seedMaterial(t, db, seller.ID, &fromID, "Granite Slabs", 12, 900)

	svc := NewTransferService(db)
	if _, err := svc.Transfer(TransferInput{
		UserID:        seller.ID,
		MaterialID:    source.ID,
		FromProjectID: from.ID,
		ToProjectID:   to.ID,
		Quantity:      12,
	}); err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	err := db.First(&models.Material{}, "id = ?", source.ID).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("source still exists after full transfer (err = %v)", err)
	}
}

func TestTransferMergesIntoExistingDestination(t *testing.T) {
	db := testDB(t)
	seller := seedUser(t, db, models.UserTypeSeller)
	from := seedProject(t, db, seller.ID, "Site A")
	to := seedProject(t, db, seller.ID, "Site B")

	fromID, toID := from.ID, to.ID
	source := seedMaterial(t, db, seller.ID, &fromID, "Copper Wire", 100, 12)
	existing := seedMaterial(t, db, seller.ID, &toID, "Copper Wire", 40, 12)

	svc := NewTransferService(db)
	if _, err := svc.Transfer(TransferInput{
		UserID:        seller.ID,
		MaterialID:    source.ID,
		FromProjectID: from.ID,
		ToProjectID:   to.ID,
		Quantity:      25,
	}); err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	var dest models.Material
	db.First(&dest, "id = ?", existing.ID)
	if dest.Quantity != 65 {
		t.Errorf("merged quantity = %d, want 65", dest.Quantity)
	}

	// Merged, not duplicated: still exactly one row in the target project.
	var count int64
	db.Model(&models.Material{}).
		Where("seller_id = ? AND project_id = ? AND material = ?", seller.ID, to.ID, "Copper Wire").
		Count(&count)
	if count != 1 {
		t.Errorf("destination rows = %d, want 1", count)
	}
}

func TestAcquiredStockUniquePerDestination(t *testing.T) {
	db := testDB(t)
	seller := seedUser(t, db, models.UserTypeSeller)
	project := seedProject(t, db, seller.ID, "Site B")
	projectID := project.ID

	existing := seedMaterial(t, db, seller.ID, &projectID, "Rebar", 10, 50)
	db.Model(&models.Material{}).Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"listing_type":     models.ListingAcquired,
			"acquisition_type": models.AcquisitionAcquired,
		})

	// A second acquired row on the same merge key would mean two concurrent
	// transfers created duplicates instead of merging; the index rejects it.
	dup := models.Material{
		ID:              uuid.New(),
		SellerID:        seller.ID,
		ProjectID:       &projectID,
		Material:        "Rebar",
		Condition:       "good",
		Quantity:        5,
		Unit:            "pcs",
		PriceToday:      50,
		InventoryValue:  250,
		InventoryType:   models.InventorySurplus,
		ListingType:     models.ListingAcquired,
		AcquisitionType: models.AcquisitionAcquired,
	}
	if err := db.Create(&dup).Error; err == nil {
		t.Fatal("duplicate acquired row accepted on the transfer merge key")
	}

	// Purchased listings are not constrained: identical items may be listed
	// twice on purpose.
	listed := models.Material{
		ID:              uuid.New(),
		SellerID:        seller.ID,
		ProjectID:       &projectID,
		Material:        "Rebar",
		Condition:       "good",
		Quantity:        5,
		Unit:            "pcs",
		PriceToday:      50,
		InventoryValue:  250,
		InventoryType:   models.InventorySurplus,
		ListingType:     models.ListingResale,
		AcquisitionType: models.AcquisitionPurchased,
	}
	if err := db.Create(&listed).Error; err != nil {
		t.Fatalf("purchased listing rejected: %v", err)
	}
}

func TestTransferPreconditions(t *testing.T) {
	db := testDB(t)
	seller := seedUser(t, db, models.UserTypeSeller)
	other := seedUser(t, db, models.UserTypeSeller)
	from := seedProject(t, db, seller.ID, "Site A")
	to := seedProject(t, db, seller.ID, "Site B")

	fromID := from.ID
	source := seedMaterial(t, db, seller.ID, &fromID, "Sand", 10, 5)

	svc := NewTransferService(db)

	tests := []struct {
		name    string
		input   TransferInput
		wantErr error
	}{
		{
			name: "zero quantity",
			input: TransferInput{
				UserID: seller.ID, MaterialID: source.ID,
				FromProjectID: from.ID, ToProjectID: to.ID, Quantity: 0,
			},
			wantErr: ErrInvalidQuantity,
		},
		{
			name: "negative quantity",
			input: TransferInput{
				UserID: seller.ID, MaterialID: source.ID,
				FromProjectID: from.ID, ToProjectID: to.ID, Quantity: -3,
			},
			wantErr: ErrInvalidQuantity,
		},
		{
			name: "same project",
			input: TransferInput{
				UserID: seller.ID, MaterialID: source.ID,
				FromProjectID: from.ID, ToProjectID: from.ID, Quantity: 5,
			},
			wantErr: ErrSameProject,
		},
		{
			name: "more than available",
			input: TransferInput{
				UserID: seller.ID, MaterialID: source.ID,
				FromProjectID: from.ID, ToProjectID: to.ID, Quantity: 11,
			},
			wantErr: ErrInsufficientQuantity,
		},
		{
			name: "someone else's material",
			input: TransferInput{
				UserID: other.ID, MaterialID: source.ID,
				FromProjectID: from.ID, ToProjectID: to.ID, Quantity: 5,
			},
			wantErr: ErrMaterialNotFound,
		},
		{
			name: "unknown material",
			input: TransferInput{
				UserID: seller.ID, MaterialID: uuid.New(),
				FromProjectID: from.ID, ToProjectID: to.ID, Quantity: 5,
			},
			wantErr: ErrMaterialNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Transfer(tt.input); !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// None of the failed attempts touched the source.
	var got models.Material
	db.First(&got, "id = ?", source.ID)
	if got.Quantity != 10 {
		t.Errorf("source quantity = %d, want untouched 10", got.Quantity)
	}
}
