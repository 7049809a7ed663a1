package common

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"voyagemate/src/config"
	"voyagemate/src/logger"
	"voyagemate/src/models"
	"voyagemate/src/models/scopes"
	"voyagemate/src/types"
	"voyagemate/src/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxShareLinkAttempts = 3

type ShareLinkView struct {
	Token     string               `json:"token"`
	URL       string               `json:"url"`
	State     types.ShareLinkState `json:"state"`
	ExpiresAt *time.Time           `json:"expires_at"`
	RevokedAt *time.Time           `json:"revoked_at"`
	CreatedAt time.Time            `json:"created_at"`
}

func NewShareLinkView(link *models.TripShareLink, now time.Time) *ShareLinkView {
	if link == nil {
		return nil
	}
	return &ShareLinkView{
		Token:     link.Token,
		URL:       config.Get().ShareURL(link.Token),
		State:     link.State(now),
		ExpiresAt: link.ExpiresAt,
		RevokedAt: link.RevokedAt,
		CreatedAt: link.CreatedAt,
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}

// CreateShareLink revokes every unrevoked link of the trip and issues a new
// one in the same transaction. A concurrent creator that loses the race on
// the one-active-link index retries with a fresh token.
func CreateShareLink(db *gorm.DB, tripID, actorID uint, expiresAt *time.Time, now time.Time) (*models.TripShareLink, error) {
	trip, err := GetOwnedTrip(db, tripID, actorID)
	if err != nil {
		return nil, err
	}
	if expiresAt != nil && !expiresAt.After(now) {
		return nil, NewValidationError("expires_at", "must be in the future")
	}

	for attempt := 1; ; attempt++ {
		token, err := utils.GenerateShareToken()
		if err != nil {
			return nil, fmt.Errorf("generate share token: %w", err)
		}
		link := models.TripShareLink{
			TripID:    trip.ID,
			Token:     token,
			CreatedBy: actorID,
			ExpiresAt: expiresAt,
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.
				Model(&models.TripShareLink{}).
				Scopes(scopes.ForTrip(trip.ID), scopes.Unrevoked).
				Update("revoked_at", now).
				Error; err != nil {
				return err
			}
			return tx.Create(&link).Error
		})
		if err == nil {
			logger.L.Info("share link created", zap.Uint("trip_id", trip.ID), zap.Uint("link_id", link.ID))
			return &link, nil
		}
		if !isUniqueViolation(err) || attempt >= maxShareLinkAttempts {
			return nil, fmt.Errorf("create share link: %w", err)
		}
		logger.L.Warn("share link insert conflicted, retrying", zap.Uint("trip_id", trip.ID), zap.Int("attempt", attempt))
	}
}

// RevokeShareLink revokes every unrevoked link of the trip. Revoking a trip
// without links is not an error.
func RevokeShareLink(db *gorm.DB, tripID, actorID uint, now time.Time) error {
	trip, err := GetOwnedTrip(db, tripID, actorID)
	if err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&models.TripShareLink{}).
			Scopes(scopes.ForTrip(trip.ID), scopes.Unrevoked).
			Update("revoked_at", now)
		if res.Error != nil {
			return res.Error
		}
		logger.L.Info("share links revoked", zap.Uint("trip_id", trip.ID), zap.Int64("count", res.RowsAffected))
		return nil
	})
}

// CurrentShareLink returns the trip's unrevoked link, which may be expired,
// or nil when there is none.
func CurrentShareLink(db *gorm.DB, tripID, actorID uint) (*models.TripShareLink, error) {
	trip, err := GetOwnedTrip(db, tripID, actorID)
	if err != nil {
		return nil, err
	}
	return currentShareLink(db, trip.ID)
}

// LatestShareLink returns the trip's most recent link whatever its state, or
// nil when the trip was never shared.
func LatestShareLink(db *gorm.DB, tripID, actorID uint) (*models.TripShareLink, error) {
	trip, err := GetOwnedTrip(db, tripID, actorID)
	if err != nil {
		return nil, err
	}
	var links []models.TripShareLink
	if err := db.
		Scopes(scopes.ForTrip(trip.ID)).
		Order("id desc").
		Limit(1).
		Find(&links).
		Error; err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, nil
	}
	return &links[0], nil
}

func currentShareLink(db *gorm.DB, tripID uint) (*models.TripShareLink, error) {
	var links []models.TripShareLink
	if err := db.
		Scopes(scopes.ForTrip(tripID), scopes.Unrevoked).
		Order("id desc").
		Limit(1).
		Find(&links).
		Error; err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, nil
	}
	return &links[0], nil
}

// ResolveActiveLink is the only way public share endpoints reach a trip.
// Unknown, revoked and expired tokens are indistinguishable to the caller.
func ResolveActiveLink(db *gorm.DB, token string, now time.Time) (*models.TripShareLink, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	var link models.TripShareLink
	if err := db.Where("token = ?", token).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !link.IsActive(now) {
		return nil, ErrNotFound
	}
	return &link, nil
}

// Viewer is the signed in user looking at a shared trip, if any.
type Viewer struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type SharedTrip struct {
	Trip     *TripView                 `json:"trip"`
	Share    SharedTripLink            `json:"share"`
	Viewer   *Viewer                   `json:"viewer"`
	Comments []models.TripShareComment `json:"comments"`
}

type SharedTripLink struct {
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func LoadViewer(db *gorm.DB, userID *uint) (*Viewer, error) {
	if userID == nil {
		return nil, nil
	}
	var user models.User
	if err := db.Scopes(scopes.WithID(*userID)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &Viewer{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}

// ViewSharedTrip returns the read only snapshot behind an active token.
func ViewSharedTrip(db *gorm.DB, token string, viewerID *uint, now time.Time) (*SharedTrip, error) {
	link, err := ResolveActiveLink(db, token, now)
	if err != nil {
		return nil, err
	}
	var trip models.Trip
	if err := db.Scopes(scopes.WithID(link.TripID)).First(&trip).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	view, err := LoadTripView(db, &trip)
	if err != nil {
		return nil, err
	}
	viewer, err := LoadViewer(db, viewerID)
	if err != nil {
		return nil, err
	}
	comments, err := listComments(db, link.ID, viewerID)
	if err != nil {
		return nil, err
	}
	return &SharedTrip{
		Trip:     view,
		Share:    SharedTripLink{Token: link.Token, ExpiresAt: link.ExpiresAt},
		Viewer:   viewer,
		Comments: comments,
	}, nil
}
