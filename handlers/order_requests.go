package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/shekar007/greenscore2/config"
	"github.com/shekar007/greenscore2/middleware"
	"github.com/shekar007/greenscore2/models"
)

type createOrderRequestReq struct {
	MaterialID      uuid.UUID `json:"materialId"`
	Quantity        int       `json:"quantity"`
	CompanyName     string    `json:"companyName"`
	ContactPerson   string    `json:"contactPerson"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	DeliveryAddress string    `json:"deliveryAddress"`
	DeliveryNotes   string    `json:"deliveryNotes"`
}

// CreateOrderRequest submits a buyer's purchase request. The unit price is
// snapshotted from the material at this moment and is what the approval
// will settle at, even if the seller re-prices in between.
func CreateOrderRequest(w http.ResponseWriter, r *http.Request) {
	buyerID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var req createOrderRequestReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Quantity <= 0 {
		writeServiceError(w, ErrInvalidQuantity)
		return
	}

	var material models.Material
	if err := config.DB.First(&material, "id = ?", req.MaterialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeServiceError(w, ErrMaterialNotFound)
			return
		}
		writeServiceError(w, err)
		return
	}

	request := models.OrderRequest{
		ID:                 uuid.New(),
		MaterialID:         material.ID,
		BuyerID:            buyerID,
		SellerID:           material.SellerID,
		Quantity:           req.Quantity,
		UnitPrice:          material.PriceToday,
		TotalAmount:        material.PriceToday * float64(req.Quantity),
		BuyerCompany:       req.CompanyName,
		BuyerContactPerson: req.ContactPerson,
		BuyerEmail:         req.Email,
		BuyerPhone:         req.Phone,
		DeliveryAddress:    req.DeliveryAddress,
		DeliveryNotes:      req.DeliveryNotes,
	}
	if err := config.DB.Create(&request).Error; err != nil {
		writeServiceError(w, err)
		return
	}

	contact := req.ContactPerson
	if contact == "" {
		contact = "A buyer"
	}
	company := req.CompanyName
	if company == "" {
		company = "Unknown Company"
	}
	DefaultNotificationService().Notify(material.SellerID, "New Order Request!",
		fmt.Sprintf("%s from %s wants to purchase %d units of %s (%s)",
			contact, company, req.Quantity, material.Material, material.ListingID),
		models.NotificationNewOrderRequest, request.ID, nil)

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "requestId": request.ID})
}

// ListSellerOrderRequests returns pending requests against the seller's
// materials, oldest first so the approval screen shows FCFS order.
func ListSellerOrderRequests(w http.ResponseWriter, r *http.Request) {
	sellerID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	query := config.DB.Preload("Material").Preload("Buyer").Where("seller_id = ?", sellerID)
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.OrderRequest
	if err := query.Order("created_at ASC").Find(&requests).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// ListBuyerOrderRequests returns the buyer's own requests, newest first.
func ListBuyerOrderRequests(w http.ResponseWriter, r *http.Request) {
	buyerID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var requests []models.OrderRequest
	if err := config.DB.Preload("Material").Where("buyer_id = ?", buyerID).
		Order("created_at DESC").Find(&requests).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

type approveReq struct {
	SellerNotes string `json:"sellerNotes"`
}

// ApproveOrderRequest approves a single request via the batch engine.
func ApproveOrderRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuid.Parse(mux.Vars(r)["requestId"])
	if err != nil {
		http.Error(w, "invalid request id", http.StatusBadRequest)
		return
	}

	var req approveReq
	json.NewDecoder(r.Body).Decode(&req)

	result, err := DefaultAllocationService().ApproveRequest(requestID, req.SellerNotes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order request approved successfully",
		"result":  result,
	})
}

type bulkApproveReq struct {
	RequestIDs  []uuid.UUID `json:"requestIds"`
	SellerNotes string      `json:"sellerNotes"`
}

// BulkApproveOrderRequests resolves a batch of requests with FCFS
// allocation per material.
func BulkApproveOrderRequests(w http.ResponseWriter, r *http.Request) {
	var req bulkApproveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if len(req.RequestIDs) == 0 {
		http.Error(w, "requestIds required", http.StatusBadRequest)
		return
	}

	notes := req.SellerNotes
	if notes == "" {
		notes = "Bulk approved by seller"
	}

	result, err := DefaultAllocationService().ApproveRequests(req.RequestIDs, notes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Successfully processed %d requests. %d approved.", result.TotalProcessed, result.TotalApproved),
		"result":  result,
	})
}

// DeclineOrderRequest declines a single pending request.
func DeclineOrderRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuid.Parse(mux.Vars(r)["requestId"])
	if err != nil {
		http.Error(w, "invalid request id", http.StatusBadRequest)
		return
	}

	var req approveReq
	json.NewDecoder(r.Body).Decode(&req)

	if err := DefaultAllocationService().DeclineRequest(requestID, req.SellerNotes); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Order request declined"})
}
