package scopes

import (
	"time"

	"gorm.io/gorm"
)

func WithID(id uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

func WithIDs(ids ...uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN (?)", ids)
	}
}

func OwnedBy(userID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

func ForTrip(tripID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("trip_id = ?", tripID)
	}
}

// Unrevoked matches share links that have not been revoked, expired or not.
func Unrevoked(db *gorm.DB) *gorm.DB {
	return db.Where("revoked_at IS NULL")
}

// ActiveShareLinks matches links that are neither revoked nor expired at now.
func ActiveShareLinks(now time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("revoked_at IS NULL").
			Where("expires_at IS NULL OR expires_at > ?", now)
	}
}

func ItineraryOrder(db *gorm.DB) *gorm.DB {
	return db.Order("date asc").Order("time asc").Order("sort_order asc").Order("id asc")
}

func ByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position asc").Order("id asc")
}

func Latest(db *gorm.DB) *gorm.DB {
	return db.Order("created_at desc").Order("id desc")
}

func Paginate(page, size int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * size).Limit(size)
	}
}
