package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/shekar007/greenscore2/config"
	"github.com/shekar007/greenscore2/middleware"
	"github.com/shekar007/greenscore2/models"
)

type createProjectReq struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// CreateProject adds a construction site for the authenticated seller.
func CreateProject(w http.ResponseWriter, r *http.Request) {
	sellerID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var req createProjectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "project name required", http.StatusBadRequest)
		return
	}

	project := models.Project{
		ID:          uuid.New(),
		SellerID:    sellerID,
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
	}
	if err := config.DB.Create(&project).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "project": project})
}

// ListProjects returns the authenticated seller's projects, newest first.
func ListProjects(w http.ResponseWriter, r *http.Request) {
	sellerID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var projects []models.Project
	if err := config.DB.Where("seller_id = ?", sellerID).
		Order("created_at DESC").Find(&projects).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}
