package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/shekar007/greenscore2/config"
	"github.com/shekar007/greenscore2/middleware"
	"github.com/shekar007/greenscore2/models"
)

// ListOrders returns the caller's orders, as seller or buyer depending on
// their account type.
func ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	column := "buyer_id"
	if middleware.GetUserType(r) == string(models.UserTypeSeller) {
		column = "seller_id"
	}

	query := config.DB.Preload("Material").Preload("OrderRequest").
		Where(column+" = ?", userID)
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetOrder returns one order visible to either party.
func GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(mux.Vars(r)["orderId"])
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}
	userID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var order models.Order
	if err := config.DB.Preload("Material").Preload("OrderRequest").
		Where("id = ? AND (buyer_id = ? OR seller_id = ?)", orderID, userID, userID).
		First(&order).Error; err != nil {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type updateOrderStatusReq struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"trackingNumber"`
}

// UpdateOrderStatus records the seller's fulfillment progress. The status is
// advisory: any of the known values is accepted in any order, stamping
// shipped/delivered timestamps when those states are entered.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(mux.Vars(r)["orderId"])
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}
	sellerID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var req updateOrderStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	status := models.OrderStatus(req.Status)
	switch status {
	case models.OrderConfirmed, models.OrderShipped, models.OrderDelivered, models.OrderCompleted:
	default:
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	var order models.Order
	if err := config.DB.Where("id = ? AND seller_id = ?", orderID, sellerID).
		First(&order).Error; err != nil {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}

	updates := map[string]interface{}{"status": status}
	if req.TrackingNumber != "" {
		updates["tracking_number"] = req.TrackingNumber
	}
	now := time.Now()
	if status == models.OrderShipped && order.ShippedAt == nil {
		updates["shipped_at"] = now
	}
	if status == models.OrderDelivered && order.DeliveredAt == nil {
		updates["delivered_at"] = now
	}

	if err := config.DB.Model(&order).Updates(updates).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "status": status})
}
