package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a seller's construction site. Materials belong to at most one
// project; internal transfers move stock between two projects of one seller.
type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SellerID    uuid.UUID `gorm:"type:uuid;not null;index" json:"sellerId"`
	Seller      *User     `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Location    string    `gorm:"size:500" json:"location,omitempty"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Status      string    `gorm:"size:50;default:'active'" json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
