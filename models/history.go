package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType tags the variant of a history entry. Sales and internal
// transfers share one append-only table so "show me all my activity" is a
// single query; the tag keeps the variants typed instead of overloading the
// commercial order-request shape for transfers.
type TransactionType string

const (
	TransactionSale             TransactionType = "sale"
	TransactionInternalTransfer TransactionType = "internal_transfer"
	TransactionListingCreated   TransactionType = "listing_created"
)

// TransactionHistory is a write-only audit row per sale, transfer or listing
// change. Material name and counterparty info are denormalized on purpose so
// reporting survives material deletion.
type TransactionHistory struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SellerID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"sellerId"`
	MaterialID      *uuid.UUID      `gorm:"type:uuid;index" json:"materialId,omitempty"`
	ListingID       string          `gorm:"size:50" json:"listingId,omitempty"`
	TransactionType TransactionType `gorm:"size:30;not null;index" json:"transactionType"`

	// Sale legs
	BuyerID *uuid.UUID `gorm:"type:uuid" json:"buyerId,omitempty"`
	OrderID *uuid.UUID `gorm:"type:uuid" json:"orderId,omitempty"`

	// Transfer legs
	FromProjectID *uuid.UUID `gorm:"type:uuid" json:"fromProjectId,omitempty"`
	ToProjectID   *uuid.UUID `gorm:"type:uuid" json:"toProjectId,omitempty"`

	Quantity    int     `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `json:"unitPrice,omitempty"`
	TotalAmount float64 `json:"totalAmount,omitempty"`

	MaterialName    string `gorm:"size:255;not null" json:"materialName"`
	BuyerCompany    string `gorm:"size:255" json:"buyerCompany,omitempty"`
	BuyerContact    string `gorm:"size:255" json:"buyerContact,omitempty"`
	DeliveryAddress string `gorm:"type:text" json:"deliveryAddress,omitempty"`
	Notes           string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (TransactionHistory) TableName() string {
	return "transaction_history"
}
