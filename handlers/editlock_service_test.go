package handlers

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shekar007/greenscore2/models"
)

func TestLockStateOf(t *testing.T) {
	now := time.Now()
	holder := uuid.New()
	fresh := now.Add(-time.Minute)
	stale := now.Add(-editLockTimeout - time.Second)

	tests := []struct {
		name     string
		material models.Material
		want     lockState
	}{
		{
			name:     "no lock fields set",
			material: models.Material{},
			want:     lockFree,
		},
		{
			name: "flag set without holder",
			material: models.Material{
				IsBeingEdited: true,
			},
			want: lockFree,
		},
		{
			name: "live hold",
			material: models.Material{
				IsBeingEdited: true,
				EditedBy:      &holder,
				EditStartedAt: &fresh,
			},
			want: lockHeld,
		},
		{
			name: "hold past the timeout",
			material: models.Material{
				IsBeingEdited: true,
				EditedBy:      &holder,
				EditStartedAt: &stale,
			},
			want: lockExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lockStateOf(&tt.material, now); got != tt.want {
				t.Fatalf("lockStateOf = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAcquireAndConflict(t *testing.T) {
	db := testDB(t)
	seller := seedUser(t, db, models.UserTypeSeller)
	intruder := seedUser(t, db, models.UserTypeSeller)
	material := seedMaterial(t, db, seller.ID, nil, "Door Frames", 8, 300)

	svc := NewEditLockService(db)

	if err := svc.Acquire(material.ID, seller.ID); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	// A live hold rejects everyone else.
	if err := svc.Acquire(material.ID, intruder.ID); !errors.Is(err, ErrEditConflict) {
		t.Fatalf("foreign acquire err = %v, want ErrEditConflict", err)
	}

	// Re-acquire by the holder refreshes the deadline instead of conflicting.
	if err := svc.Acquire(material.ID, seller.ID); err != nil {
		t.Fatalf("re-acquire: %v", err)
	}

	status, err := svc.Status(material.ID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !status.Locked || status.EditedBy == nil || *status.EditedBy != seller.ID {
		t.Fatalf("status = %+v, want locked by holder", status)
	}
}

func TestAcquireTakesOverExpiredLock(t *testing.T) {
	db := testDB(t)
	seller := seedUser(t, db, models.UserTypeSeller)
	successor := seedUser(t, db, models.UserTypeSeller)
	material := seedMaterial(t, db, seller.ID, nil, "Window Panes", 4, 150)

	svc := NewEditLockService(db)
	if err := svc.Acquire(material.ID, seller.ID); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	// Age the hold past the timeout.
	stale := time.Now().Add(-editLockTimeout - time.Minute)
	db.Model(&models.Material{}).Where("id = ?", material.ID).
		Update("edit_started_at", stale)

	if err := svc.Acquire(material.ID, successor.ID); err != nil {
		t.Fatalf("takeover of stale lock failed: %v", err)
	}

	status, err := svc.Status(material.ID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.EditedBy == nil || *status.EditedBy != successor.ID {
		t.Fatalf("holder = %v, want successor", status.EditedBy)
	}
}

func TestStatusClearsExpiredLock(t *testing.T) {
	db := testDB(t)
	seller := seedUser(t, db, models.UserTypeSeller)
	material := seedMaterial(t, db, seller.ID, nil, "Paint Buckets", 30, 25)

	svc := NewEditLockService(db)
	if err := svc.Acquire(material.ID, seller.ID); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	stale := time.Now().Add(-editLockTimeout - time.Minute)
	db.Model(&models.Material{}).Where("id = ?", material.ID).
		Update("edit_started_at", stale)

	status, err := svc.Status(material.ID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Locked || !status.TimedOut {
		t.Fatalf("status = %+v, want unlocked and timed out", status)
	}

	// The stale hold was cleared on read.
	var got models.Material
	db.First(&got, "id = ?", material.ID)
	if got.IsBeingEdited || got.EditedBy != nil || got.EditStartedAt != nil {
		t.Fatalf("lock fields not cleared: %+v", got)
	}
}

func TestReleaseByNonHolderIsNoOp(t *testing.T) {
	db := testDB(t)
	seller := seedUser(t, db, models.UserTypeSeller)
	other := seedUser(t, db, models.UserTypeSeller)
	material := seedMaterial(t, db, seller.ID, nil, "Glass Sheets", 6, 420)

	svc := NewEditLockService(db)
	if err := svc.Acquire(material.ID, seller.ID); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	// Stale client releasing someone else's lock must not disturb it.
	if err := svc.Release(material.ID, other.ID); err != nil {
		t.Fatalf("Release by non-holder: %v", err)
	}
	status, _ := svc.Status(material.ID)
	if !status.Locked || *status.EditedBy != seller.ID {
		t.Fatalf("holder's lock disturbed: %+v", status)
	}

	// The holder's release works, and releasing an unlocked material is fine.
	if err := svc.Release(material.ID, seller.ID); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := svc.Release(material.ID, seller.ID); err != nil {
		t.Fatalf("double Release: %v", err)
	}
	status, _ = svc.Status(material.ID)
	if status.Locked {
		t.Fatal("still locked after release")
	}
}

func TestUpdateWithLock(t *testing.T) {
	db := testDB(t)
	seller := seedUser(t, db, models.UserTypeSeller)
	intruder := seedUser(t, db, models.UserTypeSeller)
	material := seedMaterial(t, db, seller.ID, nil, "Marble Tiles", 15, 600)

	svc := NewEditLockService(db)
	if err := svc.Acquire(material.ID, seller.ID); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	// An outsider cannot write through a live hold.
	err := svc.UpdateWithLock(material.ID, intruder.ID, map[string]interface{}{"price_today": 1})
	if !errors.Is(err, ErrEditConflict) {
		t.Fatalf("foreign update err = %v, want ErrEditConflict", err)
	}

	if err := svc.UpdateWithLock(material.ID, seller.ID, map[string]interface{}{
		"price_today": 550.0,
		"quantity":    12,
	}); err != nil {
		t.Fatalf("UpdateWithLock: %v", err)
	}

	var got models.Material
	db.First(&got, "id = ?", material.ID)
	if got.PriceToday != 550 || got.Quantity != 12 {
		t.Errorf("material = %.2f / %d, want 550 / 12", got.PriceToday, got.Quantity)
	}
	// Patch and release are one write: the lock is gone.
	if got.IsBeingEdited || got.EditedBy != nil {
		t.Error("lock not released by update")
	}
}

func TestLockOnMissingMaterial(t *testing.T) {
	db := testDB(t)
	svc := NewEditLockService(db)
	user := uuid.New()

	if err := svc.Acquire(uuid.New(), user); !errors.Is(err, ErrMaterialNotFound) {
		t.Fatalf("Acquire err = %v, want ErrMaterialNotFound", err)
	}
	if _, err := svc.Status(uuid.New()); !errors.Is(err, ErrMaterialNotFound) {
		t.Fatalf("Status err = %v, want ErrMaterialNotFound", err)
	}
}
