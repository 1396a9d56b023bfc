package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is advisory: the core records it but does not enforce the
// confirmed -> shipped -> delivered -> completed progression.
type OrderStatus string

const (
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCompleted OrderStatus = "completed"
)

// Order is created exactly once, at the moment a request is (partially)
// approved. Its commercial terms are immutable; only Status and the
// shipping timestamps are updated afterwards.
type Order struct {
	ID             uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrderRequestID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex" json:"orderRequestId"`
	OrderRequest   *OrderRequest `gorm:"foreignKey:OrderRequestID" json:"orderRequest,omitempty"`
	BuyerID        uuid.UUID     `gorm:"type:uuid;not null;index" json:"buyerId"`
	SellerID       uuid.UUID     `gorm:"type:uuid;not null;index" json:"sellerId"`
	MaterialID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"materialId"`
	Material       *Material     `gorm:"foreignKey:MaterialID" json:"material,omitempty"`

	Quantity    int     `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `gorm:"not null" json:"unitPrice"`
	TotalAmount float64 `gorm:"not null" json:"totalAmount"`
	PlatformFee float64 `gorm:"not null" json:"platformFee"`

	Status OrderStatus `gorm:"size:20;default:'confirmed';index" json:"status"`

	ShippingAddress string `gorm:"type:text" json:"shippingAddress,omitempty"`
	DeliveryNotes   string `gorm:"type:text" json:"deliveryNotes,omitempty"`
	TrackingNumber  string `gorm:"size:100" json:"trackingNumber,omitempty"`

	ShippedAt   *time.Time `json:"shippedAt,omitempty"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Order) TableName() string {
	return "orders"
}
