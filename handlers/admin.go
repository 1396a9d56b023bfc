package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/shekar007/greenscore2/config"
	"github.com/shekar007/greenscore2/models"
)

type adminUserRow struct {
	models.User
	MaterialCount int64 `json:"materialCount"`
	OrderCount    int64 `json:"orderCount"`
}

// AdminListUsers returns every account with listing and order counts.
func AdminListUsers(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := config.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		writeServiceError(w, err)
		return
	}

	rows := make([]adminUserRow, 0, len(users))
	for _, u := range users {
		row := adminUserRow{User: u}
		config.DB.Model(&models.Material{}).Where("seller_id = ?", u.ID).Count(&row.MaterialCount)
		switch u.UserType {
		case models.UserTypeSeller:
			config.DB.Model(&models.Order{}).Where("seller_id = ?", u.ID).Count(&row.OrderCount)
		case models.UserTypeBuyer:
			config.DB.Model(&models.Order{}).Where("buyer_id = ?", u.ID).Count(&row.OrderCount)
		}
		rows = append(rows, row)
	}
	writeJSON(w, http.StatusOK, rows)
}

type verifyUserReq struct {
	Status string `json:"status"`
}

// AdminVerifyUser updates an account's verification status.
func AdminVerifyUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(mux.Vars(r)["userId"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req verifyUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	status := models.VerificationStatus(req.Status)
	switch status {
	case models.VerificationPending, models.VerificationVerified, models.VerificationRejected:
	default:
		http.Error(w, "status must be pending, verified or rejected", http.StatusBadRequest)
		return
	}

	result := config.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("verification_status", status)
	if result.Error != nil {
		writeServiceError(w, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "status": status})
}

// AdminListMaterials returns every listing on the platform.
func AdminListMaterials(w http.ResponseWriter, r *http.Request) {
	query := config.DB.Preload("Seller").Preload("Project")
	if listingType := r.URL.Query().Get("listingType"); listingType != "" {
		query = query.Where("listing_type = ?", listingType)
	}

	var materials []models.Material
	if err := query.Order("created_at DESC").Find(&materials).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, materials)
}

// AdminListOrderRequests returns every order request on the platform.
func AdminListOrderRequests(w http.ResponseWriter, r *http.Request) {
	query := config.DB.Preload("Material").Preload("Buyer")
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.OrderRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// AdminListOrders returns every order on the platform.
func AdminListOrders(w http.ResponseWriter, r *http.Request) {
	var orders []models.Order
	if err := config.DB.Preload("Material").Preload("OrderRequest").
		Order("created_at DESC").Find(&orders).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// AdminDeleteMaterial removes a listing regardless of owner.
func AdminDeleteMaterial(w http.ResponseWriter, r *http.Request) {
	materialID, err := uuid.Parse(mux.Vars(r)["materialId"])
	if err != nil {
		http.Error(w, "invalid material id", http.StatusBadRequest)
		return
	}

	result := config.DB.Delete(&models.Material{}, "id = ?", materialID)
	if result.Error != nil {
		writeServiceError(w, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		writeServiceError(w, ErrMaterialNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
