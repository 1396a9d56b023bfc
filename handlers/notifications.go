package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/shekar007/greenscore2/middleware"
)

// ListNotifications returns the caller's notifications. ?unread=true limits
// to unread ones.
func ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := DefaultNotificationService().ListNotifications(userID, unreadOnly)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

// MarkNotificationRead marks a single notification as read.
func MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	notificationID, err := uuid.Parse(mux.Vars(r)["notificationId"])
	if err != nil {
		http.Error(w, "invalid notification id", http.StatusBadRequest)
		return
	}

	if err := DefaultNotificationService().MarkRead(notificationID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// MarkAllNotificationsRead marks every notification of the caller as read.
func MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	if err := DefaultNotificationService().MarkAllRead(userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
