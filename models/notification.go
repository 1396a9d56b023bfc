package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationType tags what kind of event a notification describes.
type NotificationType string

const (
	NotificationNewOrderRequest  NotificationType = "new_order_request"
	NotificationOrderApproved    NotificationType = "order_approved"
	NotificationOrderDeclined    NotificationType = "order_declined"
	NotificationInternalTransfer NotificationType = "internal_transfer"
	NotificationInfo             NotificationType = "info"
)

// Notification is an append-only user-facing event record. The only field
// ever mutated after creation is the read flag.
type Notification struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"userId"`
	Title     string           `gorm:"size:255;not null" json:"title"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	Type      NotificationType `gorm:"size:50;default:'info'" json:"type"`
	Read      bool             `gorm:"default:false;index" json:"read"`
	Data      datatypes.JSON   `gorm:"type:jsonb" json:"data,omitempty"`
	RelatedID *uuid.UUID       `gorm:"type:uuid" json:"relatedId,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

func (Notification) TableName() string {
	return "notifications"
}
