package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/shekar007/greenscore2/middleware"
)

type createTransferReq struct {
	MaterialID    uuid.UUID `json:"materialId"`
	FromProjectID uuid.UUID `json:"fromProjectId"`
	ToProjectID   uuid.UUID `json:"toProjectId"`
	Quantity      int       `json:"quantity"`
	Notes         string    `json:"notes"`
}

// CreateInternalTransfer moves stock between two of the seller's projects.
func CreateInternalTransfer(w http.ResponseWriter, r *http.Request) {
	sellerID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var req createTransferReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	transferID, err := DefaultTransferService().Transfer(TransferInput{
		UserID:        sellerID,
		MaterialID:    req.MaterialID,
		FromProjectID: req.FromProjectID,
		ToProjectID:   req.ToProjectID,
		Quantity:      req.Quantity,
		Notes:         req.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    "Internal transfer completed successfully",
		"transferId": transferID,
	})
}

// ListInternalTransfers returns the seller's transfer log, newest first.
func ListInternalTransfers(w http.ResponseWriter, r *http.Request) {
	sellerID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	transfers, err := DefaultTransferService().ListTransfers(sellerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transfers)
}
