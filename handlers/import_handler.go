package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shekar007/greenscore2/config"
	"github.com/shekar007/greenscore2/middleware"
	"github.com/shekar007/greenscore2/models"
	"github.com/shekar007/greenscore2/utils"
)

// importRow is one parsed spreadsheet line. Column order:
// material, brand, category, condition, quantity, unit, price, mrp, specs.
type importRow struct {
	line     int
	material models.Material
}

type importRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportMaterials bulk-creates listings from an uploaded .xlsx or .csv file.
// Rows are validated independently: bad rows are reported per line while
// good ones are still inserted, and the whole run is recorded in upload_logs.
func ImportMaterials(w http.ResponseWriter, r *http.Request) {
	sellerID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(50 << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	var projectID *uuid.UUID
	if raw := r.FormValue("projectId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid projectId", http.StatusBadRequest)
			return
		}
		projectID = &id
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	var records [][]string
	switch ext {
	case ".xlsx":
		records, err = readXLSXRows(file)
	case ".csv":
		records, err = readCSVRows(file)
	default:
		http.Error(w, "unsupported file type: use .xlsx or .csv", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "failed to parse file: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(records) <= 1 {
		http.Error(w, "file has no data rows", http.StatusBadRequest)
		return
	}

	rows, rowErrors := parseImportRows(records, sellerID, projectID)

	created := 0
	for _, row := range rows {
		material := row.material
		err := config.DB.Transaction(func(tx *gorm.DB) error {
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
			rowErrors = append(rowErrors, importRowError{Row: row.line, Error: err.Error()})
			continue
		}
		created++
	}

	logEntry := models.UploadLog{
		UserID:         sellerID,
		ProjectID:      projectID,
		Filename:       header.Filename,
		FileType:       strings.TrimPrefix(ext, "."),
		TotalRows:      len(records) - 1,
		SuccessfulRows: created,
		FailedRows:     len(rowErrors),
	}
	if len(rowErrors) > 0 {
		if data, err := json.Marshal(rowErrors); err == nil {
			logEntry.Errors = datatypes.JSON(data)
		}
	}
	if err := config.DB.Create(&logEntry).Error; err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"uploadId":       logEntry.ID,
		"totalRows":      logEntry.TotalRows,
		"successfulRows": created,
		"failedRows":     len(rowErrors),
		"errors":         rowErrors,
	})
}

// ListUploadLogs returns the seller's import history, newest first.
func ListUploadLogs(w http.ResponseWriter, r *http.Request) {
	sellerID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var logs []models.UploadLog
	if err := config.DB.Where("user_id = ?", sellerID).
		Order("created_at DESC").Find(&logs).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func readXLSXRows(file io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

func readCSVRows(file io.Reader) ([][]string, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// parseImportRows validates each data row. Row 1 is the header.
func parseImportRows(records [][]string, sellerID uuid.UUID, projectID *uuid.UUID) ([]importRow, []importRowError) {
	var rows []importRow
	var rowErrors []importRowError

	for i, record := range records[1:] {
		line := i + 2
		if len(record) == 0 || strings.TrimSpace(cell(record, 0)) == "" {
			continue
		}
		if len(record) < 7 {
			rowErrors = append(rowErrors, importRowError{Row: line, Error: "expected at least 7 columns"})
			continue
		}

		name := strings.TrimSpace(cell(record, 0))
		quantity, err := strconv.Atoi(strings.TrimSpace(cell(record, 4)))
		if err != nil || quantity <= 0 {
			rowErrors = append(rowErrors, importRowError{Row: line, Error: "quantity must be a positive integer"})
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(cell(record, 6)), 64)
		if err != nil || price < 0 {
			rowErrors = append(rowErrors, importRowError{Row: line, Error: "price must be a non-negative number"})
			continue
		}
		mrp := 0.0
		if raw := strings.TrimSpace(cell(record, 7)); raw != "" {
			if mrp, err = strconv.ParseFloat(raw, 64); err != nil {
				rowErrors = append(rowErrors, importRowError{Row: line, Error: "mrp must be a number"})
				continue
			}
		}

		condition := strings.TrimSpace(cell(record, 3))
		if condition == "" {
			condition = "good"
		}
		unit := strings.TrimSpace(cell(record, 5))
		if unit == "" {
			unit = "pcs"
		}

		rows = append(rows, importRow{
			line: line,
			material: models.Material{
				ListingID:       utils.GenerateListingID(),
				SellerID:        sellerID,
				ProjectID:       projectID,
				Material:        name,
				Brand:           strings.TrimSpace(cell(record, 1)),
				Category:        strings.TrimSpace(cell(record, 2)),
				Condition:       condition,
				Quantity:        quantity,
				Unit:            unit,
				PriceToday:      price,
				MRP:             mrp,
				InventoryValue:  price * float64(quantity),
				InventoryType:   models.InventorySurplus,
				ListingType:     models.ListingResale,
				AcquisitionType: models.AcquisitionPurchased,
				Specs:           strings.TrimSpace(cell(record, 8)),
				Photos:          pq.StringArray{},
			},
		})
	}
	return rows, rowErrors
}

func cell(record []string, idx int) string {
	if idx < len(record) {
		return record[idx]
	}
	return ""
}
