package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/shekar007/greenscore2/config"
	"github.com/shekar007/greenscore2/middleware"
	"github.com/shekar007/greenscore2/models"
)

// ListTransactionHistory returns the seller's audit trail, newest first.
// ?type= filters to sale, internal_transfer or listing_created.
func ListTransactionHistory(w http.ResponseWriter, r *http.Request) {
	sellerID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	query := config.DB.Where("seller_id = ?", sellerID)
	if kind := r.URL.Query().Get("type"); kind != "" {
		query = query.Where("transaction_type = ?", kind)
	}

	var entries []models.TransactionHistory
	if err := query.Order("created_at DESC").Find(&entries).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

var historyExportHeaders = []string{
	"Date", "Type", "Material", "Listing ID", "Quantity",
	"Unit Price", "Total Amount", "Buyer Company", "Buyer Contact", "Notes",
}

// ExportTransactionHistory streams the seller's history as an .xlsx download.
func ExportTransactionHistory(w http.ResponseWriter, r *http.Request) {
	sellerID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var entries []models.TransactionHistory
	if err := config.DB.Where("seller_id = ?", sellerID).
		Order("created_at DESC").Find(&entries).Error; err != nil {
		writeServiceError(w, err)
		return
	}

	excelFile, err := buildHistoryWorkbook(entries)
	if err != nil {
		http.Error(w, "Failed to generate Excel file", http.StatusInternalServerError)
		return
	}

	buffer, err := excelFile.WriteToBuffer()
	if err != nil {
		http.Error(w, "Failed to write Excel file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("transaction_history_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))

	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

func buildHistoryWorkbook(entries []models.TransactionHistory) (*excelize.File, error) {
	f := excelize.NewFile()
	sheetName := "Transaction History"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "center",
		},
	})
	f.SetCellValue(sheetName, "A1", "Transaction History")
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	f.SetRowHeight(sheetName, 1, 30)
	f.SetCellValue(sheetName, "A2", fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04:05")))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#4472C4"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for colIdx, header := range historyExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 4)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
		col, _ := excelize.ColumnNumberToName(colIdx + 1)
		f.SetColWidth(sheetName, col, col, 20)
	}

	dataStyle, _ := f.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "left", Color: "CCCCCC", Style: 1},
			{Type: "right", Color: "CCCCCC", Style: 1},
			{Type: "top", Color: "CCCCCC", Style: 1},
			{Type: "bottom", Color: "CCCCCC", Style: 1},
		},
	})

	var totalSales float64
	for rowIdx, entry := range entries {
		values := []interface{}{
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			string(entry.TransactionType),
			entry.MaterialName,
			entry.ListingID,
			entry.Quantity,
			entry.UnitPrice,
			entry.TotalAmount,
			entry.BuyerCompany,
			entry.BuyerContact,
			entry.Notes,
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+5)
			f.SetCellValue(sheetName, cell, value)
			f.SetCellStyle(sheetName, cell, cell, dataStyle)
		}
		if entry.TransactionType == models.TransactionSale {
			totalSales += entry.TotalAmount
		}
	}

	summaryRow := len(entries) + 7
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E7E6E6"},
			Pattern: 1,
		},
	})
	cell, _ := excelize.CoordinatesToCellName(1, summaryRow)
	f.SetCellValue(sheetName, cell, "Summary")
	f.SetCellStyle(sheetName, cell, cell, summaryStyle)

	keyCell, _ := excelize.CoordinatesToCellName(1, summaryRow+1)
	valueCell, _ := excelize.CoordinatesToCellName(2, summaryRow+1)
	f.SetCellValue(sheetName, keyCell, "Total Transactions")
	f.SetCellValue(sheetName, valueCell, len(entries))

	keyCell, _ = excelize.CoordinatesToCellName(1, summaryRow+2)
	valueCell, _ = excelize.CoordinatesToCellName(2, summaryRow+2)
	f.SetCellValue(sheetName, keyCell, "Total Sales Amount")
	f.SetCellValue(sheetName, valueCell, totalSales)

	f.DeleteSheet("Sheet1")
	return f, nil
}
