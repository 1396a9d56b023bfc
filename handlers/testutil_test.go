package handlers

import (
	"fmt"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shekar007/greenscore2/config"
	"github.com/shekar007/greenscore2/models"
	"github.com/shekar007/greenscore2/utils"
)

// testDB opens a throwaway schema on the database named by TEST_DATABASE_DSN
// (keyword form, e.g. "host=localhost user=postgres dbname=greenscore_test").
// Tests that need Postgres are skipped when the variable is unset or the
// server is unreachable, so the pure tests still run anywhere.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set; skipping database test")
	}

	schema := fmt.Sprintf("test_%d_%04d", time.Now().UnixNano(), rand.Intn(10000))

	admin, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("cannot connect to test database: %v", err)
	}
	if err := admin.Exec("CREATE SCHEMA " + schema).Error; err != nil {
		t.Skipf("cannot create test schema: %v", err)
	}

	db, err := gorm.Open(postgres.Open(dsn+" search_path="+schema), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("cannot connect to test schema: %v", err)
	}

	// Provision through the real migration list so tests see the same
	// tables and indexes production does.
	if err := config.Migrations(db); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	t.Cleanup(func() {
		admin.Exec("DROP SCHEMA " + schema + " CASCADE")
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, userType models.UserType) models.User {
	t.Helper()
	u := models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("%s-%s@example.com", userType, uuid.New().String()[:8]),
		PasswordHash: "x",
		Name:         "Test " + string(userType),
		UserType:     userType,
		IsActive:     true,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedProject(t *testing.T, db *gorm.DB, sellerID uuid.UUID, name string) models.Project {
	t.Helper()
	p := models.Project{
		ID:       uuid.New(),
		SellerID: sellerID,
		Name:     name,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return p
}

func seedMaterial(t *testing.T, db *gorm.DB, sellerID uuid.UUID, projectID *uuid.UUID, name string, qty int, price float64) models.Material {
	t.Helper()
	m := models.Material{
		ID:              uuid.New(),
		ListingID:       utils.GenerateListingID(),
		SellerID:        sellerID,
		ProjectID:       projectID,
		Material:        name,
		Condition:       "good",
		Quantity:        qty,
		Unit:            "pcs",
		PriceToday:      price,
		InventoryValue:  price * float64(qty),
		InventoryType:   models.InventorySurplus,
		ListingType:     models.ListingResale,
		AcquisitionType: models.AcquisitionPurchased,
	}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("seed material: %v", err)
	}
	return m
}

func seedRequest(t *testing.T, db *gorm.DB, material models.Material, buyerID uuid.UUID, qty int, createdAt time.Time) models.OrderRequest {
	t.Helper()
	r := models.OrderRequest{
		ID:          uuid.New(),
		MaterialID:  material.ID,
		BuyerID:     buyerID,
		SellerID:    material.SellerID,
		Quantity:    qty,
		UnitPrice:   material.PriceToday,
		TotalAmount: material.PriceToday * float64(qty),
		Status:      models.RequestPending,
	}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("seed request: %v", err)
	}
	// CreatedAt is set by gorm on insert; rewrite it for deterministic FCFS.
	if err := db.Model(&models.OrderRequest{}).Where("id = ?", r.ID).
		Update("created_at", createdAt).Error; err != nil {
		t.Fatalf("set request created_at: %v", err)
	}
	r.CreatedAt = createdAt
	return r
}
