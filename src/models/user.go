package models

import (
	"voyagemate/src/types"
)

type User struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Name         string `gorm:"size:255" json:"name"`
	Email        string `gorm:"size:255;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`

	Trips     []Trip     `json:"trips,omitempty"`
	Favorites []Favorite `json:"favorites,omitempty"`

	types.Timestamps
}
