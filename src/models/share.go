package models

import (
	"time"

	"voyagemate/src/types"
)

// TripShareLink grants read access to a trip through an unguessable token.
// At most one link per trip has a null RevokedAt.
type TripShareLink struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	TripID    uint       `gorm:"index:idx_share_links_trip_revoked;not null" json:"trip_id"`
	Token     string     `gorm:"size:80;uniqueIndex;not null" json:"token"`
	CreatedBy uint       `gorm:"not null" json:"created_by"`
	ExpiresAt *time.Time `json:"expires_at"`
	RevokedAt *time.Time `gorm:"index:idx_share_links_trip_revoked" json:"revoked_at"`

	Trip     *Trip              `json:"-"`
	Comments []TripShareComment `gorm:"foreignKey:ShareLinkID;constraint:OnDelete:CASCADE" json:"-"`

	types.Timestamps
}

// State derives the link state from its timestamps. Revocation wins over
// expiry.
func (l *TripShareLink) State(now time.Time) types.ShareLinkState {
	if l.RevokedAt != nil {
		return types.SHARE_LINK_REVOKED
	}
	if l.ExpiresAt != nil && !l.ExpiresAt.After(now) {
		return types.SHARE_LINK_EXPIRED
	}
	return types.SHARE_LINK_ACTIVE
}

func (l *TripShareLink) IsActive(now time.Time) bool {
	return l.State(now) == types.SHARE_LINK_ACTIVE
}

type TripShareComment struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	ShareLinkID uint    `gorm:"column:trip_share_link_id;index;not null" json:"-"`
	UserID      *uint   `gorm:"index" json:"user_id"`
	Name        string  `gorm:"size:120;not null" json:"name"`
	Email       *string `gorm:"size:190" json:"email,omitempty"`
	Body        string  `gorm:"type:text;not null" json:"body"`

	// CanEdit is computed for the current viewer.
	CanEdit bool `gorm:"-" json:"can_edit"`

	types.Timestamps
}

// EditableBy reports whether userID may change the comment. Comments posted
// without an account never are.
func (c *TripShareComment) EditableBy(userID *uint) bool {
	return userID != nil && c.UserID != nil && *c.UserID == *userID
}
