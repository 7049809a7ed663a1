package models

import (
	"voyagemate/src/types"
)

type Trip struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	UserID      uint            `gorm:"index;not null" json:"user_id"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	Destination *string         `gorm:"size:255" json:"destination"`
	StartDate   *types.DateOnly `gorm:"index" json:"start_date"`
	EndDate     *types.DateOnly `json:"end_date"`
	Description *string         `gorm:"type:text" json:"description"`
	Budget      *float64        `gorm:"type:decimal(10,2)" json:"budget"`

	User           *User              `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ItineraryItems []ItineraryItem    `gorm:"constraint:OnDelete:CASCADE" json:"itinerary_items,omitempty"`
	Expenses       []Expense          `gorm:"constraint:OnDelete:CASCADE" json:"expenses,omitempty"`
	ChecklistItems []ChecklistItem    `gorm:"constraint:OnDelete:CASCADE" json:"checklist_items,omitempty"`
	ShareLinks     []TripShareLink    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	JournalEntries []TripJournalEntry `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	types.Timestamps
}

func (t *Trip) OwnedBy(userID uint) bool {
	return t.UserID != 0 && t.UserID == userID
}

type ItineraryItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	TripID    uint           `gorm:"index:idx_itinerary_trip_date;not null" json:"trip_id"`
	Date      types.DateOnly `gorm:"index:idx_itinerary_trip_date;not null" json:"date"`
	Time      *string        `gorm:"size:5" json:"time"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Location  *string        `gorm:"size:255" json:"location"`
	Notes     *string        `gorm:"type:text" json:"notes"`
	SortOrder int            `gorm:"default:0" json:"sort_order"`

	types.Timestamps
}

type Expense struct {
	ID       uint            `gorm:"primarykey" json:"id"`
	TripID   uint            `gorm:"index;not null" json:"trip_id"`
	Category *string         `gorm:"size:255" json:"category"`
	Amount   float64         `gorm:"type:decimal(10,2);not null" json:"amount"`
	SpentOn  *types.DateOnly `json:"spent_on"`
	Notes    *string         `gorm:"type:text" json:"notes"`

	types.Timestamps
}

type ChecklistItem struct {
	ID      uint                `gorm:"primarykey" json:"id"`
	TripID  uint                `gorm:"index;not null" json:"trip_id"`
	Type    types.ChecklistType `gorm:"size:20;not null" json:"type"`
	Title   string              `gorm:"size:255;not null" json:"title"`
	DueDate *types.DateOnly     `json:"due_date"`
	IsDone  bool                `gorm:"default:false" json:"is_done"`

	types.Timestamps
}
