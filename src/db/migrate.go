package db

import (
	"voyagemate/src/models"

	"gorm.io/gorm"
)

// Migrate creates or updates the schema. The partial unique index keeps at
// most one unrevoked share link per trip.
func Migrate(g *gorm.DB) error {
	if err := g.AutoMigrate(models.All()...); err != nil {
		return err
	}
	return g.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_share_links_one_unrevoked
		ON trip_share_links (trip_id) WHERE revoked_at IS NULL`).Error
}
