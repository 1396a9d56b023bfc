package models

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the lifecycle of a buyer's order request. The only legal
// transitions are pending -> approved, pending -> partially_approved and
// pending -> declined; there is no un-approve.
type RequestStatus string

const (
	RequestPending           RequestStatus = "pending"
	RequestApproved          RequestStatus = "approved"
	RequestPartiallyApproved RequestStatus = "partially_approved"
	RequestDeclined          RequestStatus = "declined"
)

// OrderRequest is a buyer's purchase request against one material. UnitPrice
// is a snapshot of the material's price at submission time and is never
// re-read at approval, even if the seller changed the price in between.
type OrderRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	MaterialID uuid.UUID `gorm:"type:uuid;not null;index" json:"materialId"`
	Material   *Material `gorm:"foreignKey:MaterialID" json:"material,omitempty"`
	BuyerID    uuid.UUID `gorm:"type:uuid;not null;index" json:"buyerId"`
	Buyer      *User     `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	SellerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"sellerId"`

	Quantity    int     `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `gorm:"not null" json:"unitPrice"`
	TotalAmount float64 `gorm:"not null" json:"totalAmount"`

	Status RequestStatus `gorm:"size:30;default:'pending';index" json:"status"`

	// Buyer contact snapshot, immutable after creation.
	BuyerCompany       string `gorm:"size:255" json:"buyerCompany,omitempty"`
	BuyerContactPerson string `gorm:"size:255" json:"buyerContactPerson,omitempty"`
	BuyerEmail         string `gorm:"size:255" json:"buyerEmail,omitempty"`
	BuyerPhone         string `gorm:"size:50" json:"buyerPhone,omitempty"`
	DeliveryAddress    string `gorm:"type:text" json:"deliveryAddress,omitempty"`
	DeliveryNotes      string `gorm:"type:text" json:"deliveryNotes,omitempty"`

	SellerNotes       string     `gorm:"type:text" json:"sellerNotes,omitempty"`
	FulfilledQuantity *int       `json:"fulfilledQuantity,omitempty"`
	ApprovedAt        *time.Time `json:"approvedAt,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (OrderRequest) TableName() string {
	return "order_requests"
}
