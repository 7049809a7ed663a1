package models

import (
	"voyagemate/src/types"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Destination struct {
	ID            uint     `gorm:"primarykey" json:"id"`
	Name          string   `gorm:"size:255;index;not null" json:"name"`
	Slug          string   `gorm:"size:255;uniqueIndex" json:"slug"`
	Description   *string  `gorm:"type:text" json:"description"`
	Country       string   `gorm:"size:255;index" json:"country"`
	City          *string  `gorm:"size:255" json:"city"`
	Type          string   `gorm:"size:50;index" json:"type"`
	FeaturedImage *string  `gorm:"size:255" json:"featured_image"`
	TravelTips    *string  `gorm:"type:text" json:"travel_tips"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`

	Reviews []Review `gorm:"constraint:OnDelete:CASCADE" json:"reviews,omitempty"`

	AverageRating float64 `gorm:"-" json:"average_rating"`
	ReviewsCount  int64   `gorm:"-" json:"reviews_count"`

	types.Timestamps
}

func (d *Destination) BeforeCreate(tx *gorm.DB) error {
	if d.Slug == "" {
		d.Slug = slug.Make(d.Name)
	}
	return nil
}

func (d *Destination) HasCoordinates() bool {
	return d.Latitude != nil && d.Longitude != nil && (*d.Latitude != 0 || *d.Longitude != 0)
}

// Review is unique per (user, destination).
type Review struct {
	ID            uint   `gorm:"primarykey" json:"id"`
	UserID        uint   `gorm:"uniqueIndex:idx_reviews_user_destination;not null" json:"user_id"`
	DestinationID uint   `gorm:"uniqueIndex:idx_reviews_user_destination;index;not null" json:"destination_id"`
	Comment       string `gorm:"type:text;not null" json:"comment"`
	Rating        int    `gorm:"not null" json:"rating"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`

	types.Timestamps
}

type Favorite struct {
	ID            uint `gorm:"primarykey" json:"id"`
	UserID        uint `gorm:"uniqueIndex:idx_favorites_user_destination;not null" json:"user_id"`
	DestinationID uint `gorm:"uniqueIndex:idx_favorites_user_destination;not null" json:"destination_id"`

	Destination *Destination `gorm:"constraint:OnDelete:CASCADE" json:"destination,omitempty"`

	types.Timestamps
}
