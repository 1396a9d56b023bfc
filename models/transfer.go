package models

import (
	"time"

	"github.com/google/uuid"
)

// InternalTransfer records one stock movement between two projects of the
// same seller. Rows are immutable once written.
type InternalTransfer struct {
	ID                  uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID              uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	MaterialID          uuid.UUID `gorm:"type:uuid;not null;index" json:"materialId"`
	FromProjectID       uuid.UUID `gorm:"type:uuid;not null" json:"fromProjectId"`
	FromProject         *Project  `gorm:"foreignKey:FromProjectID" json:"fromProject,omitempty"`
	ToProjectID         uuid.UUID `gorm:"type:uuid;not null" json:"toProjectId"`
	ToProject           *Project  `gorm:"foreignKey:ToProjectID" json:"toProject,omitempty"`
	QuantityTransferred int       `gorm:"not null" json:"quantityTransferred"`
	Notes               string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}

func (InternalTransfer) TableName() string {
	return "internal_transfers"
}
