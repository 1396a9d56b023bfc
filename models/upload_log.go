package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UploadLog records one bulk inventory import: how many rows were parsed,
// how many succeeded and the per-row errors for the seller to review.
type UploadLog struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"userId"`
	ProjectID      *uuid.UUID     `gorm:"type:uuid" json:"projectId,omitempty"`
	Filename       string         `gorm:"size:255;not null" json:"filename"`
	FileType       string         `gorm:"size:20;not null" json:"fileType"`
	TotalRows      int            `json:"totalRows"`
	SuccessfulRows int            `json:"successfulRows"`
	FailedRows     int            `json:"failedRows"`
	Errors         datatypes.JSON `gorm:"type:jsonb" json:"errors,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

func (UploadLog) TableName() string {
	return "upload_logs"
}
