package handlers

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shekar007/greenscore2/config"
	"github.com/shekar007/greenscore2/models"
)

// NotificationService is the append-only notification sink. Delivery is
// fire-and-forget: a failed insert is logged and never propagated, so the
// business operation that triggered it succeeds regardless.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// DefaultNotificationService uses the shared connection.
func DefaultNotificationService() *NotificationService {
	return NewNotificationService(config.DB)
}

// Notify writes one notification row. relatedID may be uuid.Nil when the
// event has no single related record; payload may be nil.
func (ns *NotificationService) Notify(userID uuid.UUID, title, message string, kind models.NotificationType, relatedID uuid.UUID, payload map[string]interface{}) {
	n := models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    kind,
	}
	if relatedID != uuid.Nil {
		n.RelatedID = &relatedID
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			log.Printf("⚠️  Failed to marshal notification payload for user %s: %v", userID, err)
		} else {
			n.Data = datatypes.JSON(data)
		}
	}

	if err := ns.db.Create(&n).Error; err != nil {
		log.Printf("❌ Failed to create notification for user %s: %v", userID, err)
		return
	}
}

// ListNotifications returns a user's notifications, newest first.
func (ns *NotificationService) ListNotifications(userID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	query := ns.db.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flips the read flag on one notification.
func (ns *NotificationService) MarkRead(notificationID uuid.UUID) error {
	return ns.db.Model(&models.Notification{}).Where("id = ?", notificationID).
		Update("read", true).Error
}

// MarkAllRead flips the read flag on every notification of a user.
func (ns *NotificationService) MarkAllRead(userID uuid.UUID) error {
	return ns.db.Model(&models.Notification{}).Where("user_id = ?", userID).
		Update("read", true).Error
}
