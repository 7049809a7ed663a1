package models

import (
	"voyagemate/src/types"
)

type TripJournalEntry struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	TripID    uint            `gorm:"index;not null" json:"trip_id"`
	UserID    uint            `gorm:"index;not null" json:"user_id"`
	EntryDate *types.DateOnly `json:"entry_date"`
	Title     *string         `gorm:"size:160" json:"title"`
	Body      string          `gorm:"type:text" json:"body"`

	Images []TripJournalImage `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE" json:"images"`

	types.Timestamps
}

type TripJournalImage struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	EntryID      uint   `gorm:"column:trip_journal_entry_id;index:idx_journal_images_entry_position;not null" json:"entry_id"`
	Path         string `gorm:"size:255;not null" json:"path"`
	OriginalName string `gorm:"size:255" json:"original_name"`
	Position     int    `gorm:"index:idx_journal_images_entry_position;default:0" json:"position"`

	URL string `gorm:"-" json:"url,omitempty"`

	types.Timestamps
}
