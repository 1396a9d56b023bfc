package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shekar007/greenscore2/config"
	"github.com/shekar007/greenscore2/models"
)

// editLockTimeout is how long an edit session may hold a material before
// any other user can take the lock over.
const editLockTimeout = 15 * time.Minute

// lockState is the explicit state machine over a material's lock fields:
//
//	lockFree ──acquire──▶ lockHeld ──15min──▶ lockExpired
//	   ▲                     │                    │
//	   └──────release────────┴────acquire/check───┘
//
// The state is derived, never stored; expiry is evaluated lazily on access.
type lockState int

const (
	lockFree lockState = iota
	lockHeld
	lockExpired
)

func lockStateOf(m *models.Material, now time.Time) lockState {
	if !m.IsBeingEdited || m.EditedBy == nil || m.EditStartedAt == nil {
		return lockFree
	}
	if now.Sub(*m.EditStartedAt) >= editLockTimeout {
		return lockExpired
	}
	return lockHeld
}

// heldByOther reports whether the lock is live and owned by someone else.
func heldByOther(m *models.Material, userID uuid.UUID, now time.Time) bool {
	return lockStateOf(m, now) == lockHeld && *m.EditedBy != userID
}

// EditLockService implements the advisory per-material edit lock. Advisory
// means exactly that: it gates the seller edit-form path only, while the
// allocation and transfer engines mutate quantity out of band.
type EditLockService struct {
	db *gorm.DB
}

func NewEditLockService(db *gorm.DB) *EditLockService {
	return &EditLockService{db: db}
}

// DefaultEditLockService uses the shared connection.
func DefaultEditLockService() *EditLockService {
	return NewEditLockService(config.DB)
}

// LockStatus is the externally visible lock state of one material.
type LockStatus struct {
	Locked        bool       `json:"locked"`
	EditedBy      *uuid.UUID `json:"editedBy,omitempty"`
	EditStartedAt *time.Time `json:"editStartedAt,omitempty"`
	TimedOut      bool       `json:"timedOut,omitempty"`
}

var clearedLockFields = map[string]interface{}{
	"is_being_edited": false,
	"edited_by":       nil,
	"edit_started_at": nil,
}

// Acquire takes the lock for userID. It succeeds when the material is
// unlocked, already held by the same user (re-acquire refreshes the
// deadline), or held by a stale session; a live foreign hold is a conflict.
func (s *EditLockService) Acquire(materialID, userID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var material models.Material
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&material, "id = ?", materialID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMaterialNotFound
			}
			return fmt.Errorf("failed to load material: %w", err)
		}

		if heldByOther(&material, userID, time.Now()) {
			return ErrEditConflict
		}

		return tx.Model(&models.Material{}).Where("id = ?", materialID).
			Updates(map[string]interface{}{
				"is_being_edited": true,
				"edited_by":       userID,
				"edit_started_at": time.Now(),
			}).Error
	})
}

// Release clears the lock if userID holds it (or nobody does). A release by
// a non-holder is a silent no-op, not an error, so a stale client can never
// wedge the UI.
func (s *EditLockService) Release(materialID, userID uuid.UUID) error {
	return s.db.Model(&models.Material{}).
		Where("id = ? AND (edited_by = ? OR edited_by IS NULL)", materialID, userID).
		Updates(clearedLockFields).Error
}

// Status reports the lock state. A timed-out lock is cleared as a side
// effect and reported as unlocked with TimedOut set.
func (s *EditLockService) Status(materialID uuid.UUID) (*LockStatus, error) {
	var material models.Material
	if err := s.db.First(&material, "id = ?", materialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, fmt.Errorf("failed to load material: %w", err)
	}

	switch lockStateOf(&material, time.Now()) {
	case lockHeld:
		return &LockStatus{
			Locked:        true,
			EditedBy:      material.EditedBy,
			EditStartedAt: material.EditStartedAt,
		}, nil
	case lockExpired:
		if err := s.db.Model(&models.Material{}).Where("id = ?", materialID).
			Updates(clearedLockFields).Error; err != nil {
			return nil, fmt.Errorf("failed to clear stale lock: %w", err)
		}
		return &LockStatus{Locked: false, TimedOut: true}, nil
	default:
		return &LockStatus{Locked: false}, nil
	}
}

// UpdateWithLock applies the patch to the material and releases the lock in
// the same write. A live foreign hold rejects the edit before any mutation.
func (s *EditLockService) UpdateWithLock(materialID, userID uuid.UUID, patch map[string]interface{}) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var material models.Material
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&material, "id = ?", materialID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMaterialNotFound
			}
			return fmt.Errorf("failed to load material: %w", err)
		}

		if heldByOther(&material, userID, time.Now()) {
			return ErrEditConflict
		}

		updates := make(map[string]interface{}, len(patch)+len(clearedLockFields))
		for k, v := range patch {
			updates[k] = v
		}
		for k, v := range clearedLockFields {
			updates[k] = v
		}

		if err := tx.Model(&models.Material{}).Where("id = ?", materialID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update material: %w", err)
		}
		return nil
	})
}
