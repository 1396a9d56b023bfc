package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shekar007/greenscore2/config"
	"github.com/shekar007/greenscore2/models"
)

// TransferService moves stock between two projects of the same seller as
// one atomic operation: decrement (or delete) the source material,
// increment (or create) the destination material, record the transfer and
// its audit row. All precondition failures happen before any mutation.
type TransferService struct {
	db       *gorm.DB
	notifier *NotificationService
}

func NewTransferService(db *gorm.DB) *TransferService {
	return &TransferService{db: db, notifier: NewNotificationService(db)}
}

// DefaultTransferService uses the shared connection.
func DefaultTransferService() *TransferService {
	return NewTransferService(config.DB)
}

// TransferInput is the validated request for one internal transfer.
type TransferInput struct {
	UserID        uuid.UUID
	MaterialID    uuid.UUID
	FromProjectID uuid.UUID
	ToProjectID   uuid.UUID
	Quantity      int
	Notes         string
}

// Transfer executes the internal transfer and returns the transfer id.
func (s *TransferService) Transfer(in TransferInput) (uuid.UUID, error) {
	if in.Quantity <= 0 {
		return uuid.Nil, ErrInvalidQuantity
	}
	if in.FromProjectID == in.ToProjectID {
		return uuid.Nil, ErrSameProject
	}
	if in.UserID == uuid.Nil || in.MaterialID == uuid.Nil ||
		in.FromProjectID == uuid.Nil || in.ToProjectID == uuid.Nil {
		return uuid.Nil, ErrMaterialNotFound
	}

	transferID := uuid.New()
	var source models.Material

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&source, "id = ? AND seller_id = ?", in.MaterialID, in.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMaterialNotFound
			}
			return fmt.Errorf("failed to load source material: %w", err)
		}
		if source.Quantity < in.Quantity {
			return ErrInsufficientQuantity
		}

		// Source leg: decrement, and delete the record outright when it
		// hits zero. A fully-transferred-out item has no remaining listing
		// identity, unlike a sold-out listing which stays as "sold".
		newQty := source.Quantity - in.Quantity
		if newQty <= 0 {
			if err := tx.Delete(&models.Material{}, "id = ?", source.ID).Error; err != nil {
				return fmt.Errorf("failed to remove emptied source material: %w", err)
			}
		} else {
			if err := tx.Model(&models.Material{}).Where("id = ?", source.ID).
				Update("quantity", newQty).Error; err != nil {
				return fmt.Errorf("failed to decrement source material: %w", err)
			}
		}

		// Destination leg: merge into a matching material in the target
		// project, or create a fresh one marked as acquired so it stays
		// off the buyer marketplace until the seller re-lists it.
		var dest models.Material
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&dest, "seller_id = ? AND project_id = ? AND material = ? AND brand = ? AND condition = ?",
				in.UserID, in.ToProjectID, source.Material, source.Brand, source.Condition).Error
		switch {
		case err == nil:
			if err := tx.Model(&models.Material{}).Where("id = ?", dest.ID).
				Update("quantity", gorm.Expr("quantity + ?", in.Quantity)).Error; err != nil {
				return fmt.Errorf("failed to increment destination material: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			toProjectID := in.ToProjectID
			dest = models.Material{
				ID:              uuid.New(),
				SellerID:        in.UserID,
				ProjectID:       &toProjectID,
				Material:        source.Material,
				Brand:           source.Brand,
				Category:        source.Category,
				Condition:       source.Condition,
				Quantity:        in.Quantity,
				Unit:            source.Unit,
				PriceToday:      source.PriceToday,
				MRP:             source.MRP,
				PricePurchased:  source.PricePurchased,
				InventoryValue:  source.PriceToday * float64(in.Quantity),
				InventoryType:   source.InventoryType,
				ListingType:     models.ListingAcquired,
				AcquisitionType: models.AcquisitionAcquired,
				Specs:           source.Specs,
				Photos:          source.Photos,
				SpecsPhoto:      source.SpecsPhoto,
				Dimensions:      source.Dimensions,
				Weight:          source.Weight,
			}
			if err := tx.Create(&dest).Error; err != nil {
				return fmt.Errorf("failed to create destination material: %w", err)
			}
		default:
			return fmt.Errorf("failed to look up destination material: %w", err)
		}

		transfer := models.InternalTransfer{
			ID:                  transferID,
			UserID:              in.UserID,
			MaterialID:          in.MaterialID,
			FromProjectID:       in.FromProjectID,
			ToProjectID:         in.ToProjectID,
			QuantityTransferred: in.Quantity,
			Notes:               in.Notes,
		}
		if err := tx.Create(&transfer).Error; err != nil {
			return fmt.Errorf("failed to record transfer: %w", err)
		}

		materialID := in.MaterialID
		fromID, toID := in.FromProjectID, in.ToProjectID
		history := models.TransactionHistory{
			SellerID:        in.UserID,
			MaterialID:      &materialID,
			ListingID:       source.ListingID,
			TransactionType: models.TransactionInternalTransfer,
			FromProjectID:   &fromID,
			ToProjectID:     &toID,
			Quantity:        in.Quantity,
			UnitPrice:       source.PriceToday,
			MaterialName:    source.Material,
			Notes:           in.Notes,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record transfer history: %w", err)
		}

		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.notifySellerTransferred(in, source.Material, transferID)

	log.Printf("✅ Transfer completed: %d units of %s (%s)", in.Quantity, source.Material, transferID)
	return transferID, nil
}

func (s *TransferService) notifySellerTransferred(in TransferInput, materialName string, transferID uuid.UUID) {
	fromName := s.projectName(in.FromProjectID)
	toName := s.projectName(in.ToProjectID)
	s.notifier.Notify(in.UserID, "Internal Transfer Completed",
		fmt.Sprintf("Successfully transferred %d units of %s from %s to %s",
			in.Quantity, materialName, fromName, toName),
		models.NotificationInternalTransfer, transferID, nil)
}

func (s *TransferService) projectName(id uuid.UUID) string {
	var project models.Project
	if err := s.db.Select("name").First(&project, "id = ?", id).Error; err != nil {
		return "Unknown Project"
	}
	return project.Name
}

// ListTransfers returns a user's transfers with project and material
// context, newest first.
func (s *TransferService) ListTransfers(userID uuid.UUID) ([]models.InternalTransfer, error) {
	var transfers []models.InternalTransfer
	if err := s.db.Preload("FromProject").Preload("ToProject").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}
