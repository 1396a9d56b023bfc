package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/shekar007/greenscore2/config"
	"github.com/shekar007/greenscore2/middleware"
	"github.com/shekar007/greenscore2/models"
	"github.com/shekar007/greenscore2/utils"
)

type createMaterialReq struct {
	ProjectID       *uuid.UUID `json:"projectId,omitempty"`
	Material        string     `json:"material"`
	Brand           string     `json:"brand"`
	Category        string     `json:"category"`
	Condition       string     `json:"condition"`
	Quantity        int        `json:"quantity"`
	Unit            string     `json:"unit"`
	PriceToday      float64    `json:"priceToday"`
	MRP             float64    `json:"mrp"`
	PricePurchased  float64    `json:"pricePurchased"`
	InventoryType   string     `json:"inventoryType"`
	Specs           string     `json:"specs"`
	Photos          []string   `json:"photos"`
	SpecsPhoto      string     `json:"specsPhoto"`
	Dimensions      string     `json:"dimensions"`
	Weight          float64    `json:"weight"`
	LocationDetails string     `json:"locationDetails"`
}

// CreateMaterial adds a single listing for the authenticated seller and
// writes the listing_created audit row.
func CreateMaterial(w http.ResponseWriter, r *http.Request) {
	sellerID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var req createMaterialReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Material == "" || req.Quantity < 0 || req.PriceToday < 0 {
		http.Error(w, "material name required, quantity and price must be non-negative", http.StatusBadRequest)
		return
	}

	condition := req.Condition
	if condition == "" {
		condition = "good"
	}
	unit := req.Unit
	if unit == "" {
		unit = "pcs"
	}
	inventoryType := models.InventoryType(req.InventoryType)
	if inventoryType == "" {
		inventoryType = models.InventorySurplus
	}

	material := models.Material{
		ID:              uuid.New(),
		ListingID:       utils.GenerateListingID(),
		SellerID:        sellerID,
		ProjectID:       req.ProjectID,
		Material:        req.Material,
		Brand:           req.Brand,
		Category:        req.Category,
		Condition:       condition,
		Quantity:        req.Quantity,
		Unit:            unit,
		PriceToday:      req.PriceToday,
		MRP:             req.MRP,
		PricePurchased:  req.PricePurchased,
		InventoryValue:  req.PriceToday * float64(req.Quantity),
		InventoryType:   inventoryType,
		ListingType:     models.ListingResale,
		AcquisitionType: models.AcquisitionPurchased,
		Specs:           req.Specs,
		Photos:          pq.StringArray(req.Photos),
		SpecsPhoto:      req.SpecsPhoto,
		Dimensions:      req.Dimensions,
		Weight:          req.Weight,
		LocationDetails: req.LocationDetails,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&material).Error; err != nil {
			return err
		}
		materialID := material.ID
		return tx.Create(&models.TransactionHistory{
			SellerID:        sellerID,
			MaterialID:      &materialID,
			ListingID:       material.ListingID,
			TransactionType: models.TransactionListingCreated,
			Quantity:        material.Quantity,
			UnitPrice:       material.PriceToday,
			TotalAmount:     material.InventoryValue,
			MaterialName:    material.Material,
		}).Error
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "material": material})
}

// ListSellerMaterials returns the authenticated seller's inventory with
// optional project / inventory-type / listing-type filters.
func ListSellerMaterials(w http.ResponseWriter, r *http.Request) {
	sellerID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	query := config.DB.Preload("Project").Where("seller_id = ?", sellerID)
	if projectID := r.URL.Query().Get("projectId"); projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if inventoryType := r.URL.Query().Get("inventoryType"); inventoryType != "" {
		query = query.Where("inventory_type = ?", inventoryType)
	}
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

// BrowseMarketplace lists materials visible to buyers: in stock, listed for
// resale, and not transferred-in stock awaiting re-listing.
func BrowseMarketplace(w http.ResponseWriter, r *http.Request) {
	query := config.DB.Preload("Seller").
		Where("quantity > 0 AND listing_type = ?", models.ListingResale).
		Where("acquisition_type IS NULL OR acquisition_type != ?", models.AcquisitionAcquired)

	if category := r.URL.Query().Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := r.URL.Query().Get("q"); search != "" {
		like := "%" + search + "%"
		query = query.Where("material ILIKE ? OR brand ILIKE ?", like, like)
	}

	var materials []models.Material
	if err := query.Order("created_at DESC").Find(&materials).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, materials)
}

// GetMaterial returns one listing by id.
func GetMaterial(w http.ResponseWriter, r *http.Request) {
	materialID, err := uuid.Parse(mux.Vars(r)["materialId"])
	if err != nil {
		http.Error(w, "invalid material id", http.StatusBadRequest)
		return
	}

	var material models.Material
	if err := config.DB.Preload("Seller").Preload("Project").
		First(&material, "id = ?", materialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeServiceError(w, ErrMaterialNotFound)
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, material)
}

type updateListingTypeReq struct {
	ListingType     string `json:"listingType"`
	AcquisitionType string `json:"acquisitionType,omitempty"`
}

// UpdateListingType re-lists or de-lists a material, e.g. flipping
// transferred-in stock from acquired back to resale.
func UpdateListingType(w http.ResponseWriter, r *http.Request) {
	materialID, err := uuid.Parse(mux.Vars(r)["materialId"])
	if err != nil {
		http.Error(w, "invalid material id", http.StatusBadRequest)
		return
	}
	sellerID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var req updateListingTypeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	switch models.ListingType(req.ListingType) {
	case models.ListingResale, models.ListingInternalTransfer, models.ListingSold, models.ListingAcquired:
	default:
		http.Error(w, "invalid listing type", http.StatusBadRequest)
		return
	}

	updates := map[string]interface{}{"listing_type": req.ListingType}
	if req.AcquisitionType != "" {
		switch models.AcquisitionType(req.AcquisitionType) {
		case models.AcquisitionPurchased, models.AcquisitionAcquired:
			updates["acquisition_type"] = req.AcquisitionType
		default:
			http.Error(w, "invalid acquisition type", http.StatusBadRequest)
			return
		}
	}

	result := config.DB.Model(&models.Material{}).
		Where("id = ? AND seller_id = ?", materialID, sellerID).
		Updates(updates)
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

// DeleteMaterial removes a seller's own listing.
func DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	materialID, err := uuid.Parse(mux.Vars(r)["materialId"])
	if err != nil {
		http.Error(w, "invalid material id", http.StatusBadRequest)
		return
	}
	sellerID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	result := config.DB.Delete(&models.Material{}, "id = ? AND seller_id = ?", materialID, sellerID)
	if result.Error != nil {
		writeServiceError(w, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		writeServiceError(w, ErrMaterialNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Material deleted successfully"})
}

// Edit lock endpoints

func lockPartiesFromRequest(w http.ResponseWriter, r *http.Request) (materialID, userID uuid.UUID, ok bool) {
	materialID, err := uuid.Parse(mux.Vars(r)["materialId"])
	if err != nil {
		http.Error(w, "invalid material id", http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}
	userID, err = uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}
	return materialID, userID, true
}

// LockMaterial takes the edit lock for the authenticated user.
func LockMaterial(w http.ResponseWriter, r *http.Request) {
	materialID, userID, ok := lockPartiesFromRequest(w, r)
	if !ok {
		return
	}
	if err := DefaultEditLockService().Acquire(materialID, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "locked": true})
}

// UnlockMaterial releases the edit lock. Releasing a lock held by someone
// else is a no-op success.
func UnlockMaterial(w http.ResponseWriter, r *http.Request) {
	materialID, userID, ok := lockPartiesFromRequest(w, r)
	if !ok {
		return
	}
	if err := DefaultEditLockService().Release(materialID, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "unlocked": true})
}

// MaterialLockStatus reports (and lazily expires) the edit lock.
func MaterialLockStatus(w http.ResponseWriter, r *http.Request) {
	materialID, err := uuid.Parse(mux.Vars(r)["materialId"])
	if err != nil {
		http.Error(w, "invalid material id", http.StatusBadRequest)
		return
	}
	status, err := DefaultEditLockService().Status(materialID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// editableFields is the whitelist of columns the edit form may patch.
// Quantity is deliberately included: a direct seller edit is a full
// replace under lock. Lock and ownership fields are not patchable.
var editableFields = map[string]string{
	"material":        "material",
	"brand":           "brand",
	"category":        "category",
	"condition":       "condition",
	"quantity":        "quantity",
	"unit":            "unit",
	"priceToday":      "price_today",
	"mrp":             "mrp",
	"pricePurchased":  "price_purchased",
	"inventoryValue":  "inventory_value",
	"inventoryType":   "inventory_type",
	"specs":           "specs",
	"specsPhoto":      "specs_photo",
	"dimensions":      "dimensions",
	"weight":          "weight",
	"locationDetails": "location_details",
}

// EditMaterialWithLock applies a seller edit under the advisory lock; the
// lock is released by the same write.
func EditMaterialWithLock(w http.ResponseWriter, r *http.Request) {
	materialID, userID, ok := lockPartiesFromRequest(w, r)
	if !ok {
		return
	}

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	patch := make(map[string]interface{})
	for field, value := range body {
		if column, allowed := editableFields[field]; allowed {
			patch[column] = value
		}
	}
	if len(patch) == 0 {
		http.Error(w, "no editable fields in request", http.StatusBadRequest)
		return
	}

	if err := DefaultEditLockService().UpdateWithLock(materialID, userID, patch); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
