package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/shekar007/greenscore2/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250812_create_marketplace_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Project{}, &models.Material{},
					&models.OrderRequest{}, &models.Order{}, &models.InternalTransfer{},
					&models.Notification{}, &models.TransactionHistory{}, &models.UploadLog{})
			},
		},
		{
			// Listing codes are unique once assigned; transfer-created rows
			// carry an empty code until re-listed, so the index is partial.
			ID: "20250812_add_listing_id_unique_index",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_materials_listing_id
					ON materials (listing_id) WHERE listing_id <> ''`).Error
			},
		},
		{
			// Bulk approval walks pending requests per material in FCFS
			// order; this index backs both the status filter and the sort.
			ID: "20250819_add_request_fcfs_index",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_order_requests_material_status_created
					ON order_requests (material_id, status, created_at)`).Error
			},
		},
		{
			ID: "20250819_add_marketplace_browse_index",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_materials_marketplace
					ON materials (listing_type, acquisition_type) WHERE quantity > 0`).Error
			},
		},
		{
			// Transfer-created stock merges on this key. The unique index
			// makes two concurrent transfers into the same destination
			// collide on insert instead of leaving duplicate rows; it is
			// partial so sellers can still list identical purchased items.
			ID: "20250831_add_transfer_merge_unique_index",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_materials_transfer_merge
					ON materials (seller_id, project_id, material, brand, condition)
					WHERE acquisition_type = 'acquired'`).Error
			},
		},
	})

	return m.Migrate()
}
