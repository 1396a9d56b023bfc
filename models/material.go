package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// InventoryType classifies where the stock came from.
type InventoryType string

const (
	InventorySurplus     InventoryType = "surplus"
	InventoryDamaged     InventoryType = "damaged"
	InventoryLiquidation InventoryType = "liquidation"
	InventoryNew         InventoryType = "new"
	InventoryUsed        InventoryType = "used"
	InventoryManual      InventoryType = "manual"
)

// ListingType tracks how a material is currently offered.
// "sold" is set by the allocation engine when quantity reaches zero;
// "acquired" marks transferred-in stock that the seller has not re-listed.
type ListingType string

const (
	ListingResale           ListingType = "resale"
	ListingInternalTransfer ListingType = "internal_transfer"
	ListingSold             ListingType = "sold"
	ListingAcquired         ListingType = "acquired"
)

// AcquisitionType records whether stock was bought or received via an
// internal transfer. Acquired stock is hidden from the buyer marketplace
// until the seller explicitly re-lists it.
type AcquisitionType string

const (
	AcquisitionPurchased AcquisitionType = "purchased"
	AcquisitionAcquired  AcquisitionType = "acquired"
)

// Material is the inventory unit. Quantity is the only field the allocation
// and transfer engines mutate; it never goes negative. The three edit-lock
// fields together form the advisory lock handled by EditLockService.
type Material struct {
	// ListingID is empty on transfer-created rows until the seller re-lists;
	// uniqueness among assigned codes is enforced by a partial index.
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ListingID string     `gorm:"size:50;index" json:"listingId"`
	SellerID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"sellerId"`
	Seller    *User      `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	ProjectID *uuid.UUID `gorm:"type:uuid;index" json:"projectId,omitempty"`
	Project   *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`

	Material  string `gorm:"size:255;not null" json:"material"`
	Brand     string `gorm:"size:255" json:"brand,omitempty"`
	Category  string `gorm:"size:100;index" json:"category,omitempty"`
	Condition string `gorm:"size:50;default:'good'" json:"condition"`

	Quantity int    `gorm:"not null" json:"quantity"`
	Unit     string `gorm:"size:20;default:'pcs'" json:"unit"`

	PriceToday     float64 `gorm:"not null" json:"priceToday"`
	MRP            float64 `gorm:"column:mrp;default:0" json:"mrp"`
	PricePurchased float64 `gorm:"default:0" json:"pricePurchased"`
	InventoryValue float64 `gorm:"default:0" json:"inventoryValue"`

	InventoryType   InventoryType   `gorm:"size:20;default:'surplus'" json:"inventoryType"`
	ListingType     ListingType     `gorm:"size:20;default:'resale';index" json:"listingType"`
	AcquisitionType AcquisitionType `gorm:"size:20;default:'purchased'" json:"acquisitionType"`

	Specs           string         `gorm:"type:text" json:"specs,omitempty"`
	Photos          pq.StringArray `gorm:"type:text[]" json:"photos,omitempty"`
	SpecsPhoto      string         `gorm:"size:500" json:"specsPhoto,omitempty"`
	Dimensions      string         `gorm:"size:255" json:"dimensions,omitempty"`
	Weight          float64        `gorm:"default:0" json:"weight,omitempty"`
	LocationDetails string         `gorm:"size:500" json:"locationDetails,omitempty"`

	// Advisory edit lock
	IsBeingEdited bool       `gorm:"default:false" json:"isBeingEdited"`
	EditedBy      *uuid.UUID `gorm:"type:uuid" json:"editedBy,omitempty"`
	EditStartedAt *time.Time `json:"editStartedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Material) TableName() string {
	return "materials"
}
