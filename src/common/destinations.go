package common

import (
	"errors"
	"strings"

	"voyagemate/src/models"
	"voyagemate/src/models/scopes"
	"voyagemate/src/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DestinationsPerPage = 10

type DestinationPage struct {
	Data        []models.Destination `json:"data"`
	CurrentPage int                  `json:"current_page"`
	PerPage     int                  `json:"per_page"`
	Total       int64                `json:"total"`
	LastPage    int                  `json:"last_page"`
}

type FavoriteStatus struct {
	IsFavorited bool   `json:"is_favorited"`
	Message     string `json:"message,omitempty"`
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// SearchDestinations filters by a free text search over name, country, type
// and city plus exact type and country filters, ordered by name.
func SearchDestinations(db *gorm.DB, q *types.DestinationQuery) (*DestinationPage, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	query := db.Model(&models.Destination{})
	if s := strings.TrimSpace(q.Search); s != "" {
		p := likePattern(strings.ToLower(s))
		query = query.Where(
			`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(country) LIKE ? ESCAPE '\' OR LOWER(type) LIKE ? ESCAPE '\' OR LOWER(city) LIKE ? ESCAPE '\'`,
			p, p, p, p,
		)
	}
	if t := strings.TrimSpace(q.Type); t != "" {
		query = query.Where("type = ?", t)
	}
	if c := strings.TrimSpace(q.Country); c != "" {
		query = query.Where("country = ?", c)
	}
	result := &DestinationPage{CurrentPage: page, PerPage: DestinationsPerPage, Data: []models.Destination{}}
	if err := query.Session(&gorm.Session{}).Count(&result.Total).Error; err != nil {
		return nil, err
	}
	result.LastPage = int((result.Total + DestinationsPerPage - 1) / DestinationsPerPage)
	if result.LastPage < 1 {
		result.LastPage = 1
	}
	if err := query.
		Order("name asc").
		Order("id asc").
		Scopes(scopes.Paginate(page, DestinationsPerPage)).
		Find(&result.Data).
		Error; err != nil {
		return nil, err
	}
	return result, nil
}

// GetDestination loads a destination with its reviews, newest first, and
// each review's author.
func GetDestination(db *gorm.DB, id uint) (*models.Destination, error) {
	var dest models.Destination
	if err := db.Scopes(scopes.WithID(id)).First(&dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dest.Reviews = []models.Review{}
	if err := db.
		Where("destination_id = ?", dest.ID).
		Scopes(scopes.Latest).
		Find(&dest.Reviews).
		Error; err != nil {
		return nil, err
	}
	if err := attachReviewAuthors(db, dest.Reviews); err != nil {
		return nil, err
	}
	var total int
	for _, r := range dest.Reviews {
		total += r.Rating
	}
	dest.ReviewsCount = int64(len(dest.Reviews))
	if dest.ReviewsCount > 0 {
		dest.AverageRating = float64(total) / float64(dest.ReviewsCount)
	}
	return &dest, nil
}

func attachReviewAuthors(db *gorm.DB, reviews []models.Review) error {
	if len(reviews) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.UserID)
	}
	var users []models.User
	if err := db.Select("id", "name").Scopes(scopes.WithIDs(ids...)).Find(&users).Error; err != nil {
		return err
	}
	byID := make(map[uint]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for i := range reviews {
		reviews[i].User = byID[reviews[i].UserID]
	}
	return nil
}

// UpsertReview creates or replaces the user's review of a destination.
func UpsertReview(db *gorm.DB, destinationID, userID uint, body *types.ReviewRequestBody) (*models.Review, error) {
	if err := Validate(body); err != nil {
		return nil, err
	}
	var dest models.Destination
	if err := db.Select("id").Scopes(scopes.WithID(destinationID)).First(&dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	review := models.Review{
		UserID:        userID,
		DestinationID: dest.ID,
		Comment:       body.Comment,
		Rating:        body.Rating,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "destination_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"comment", "rating", "updated_at"}),
	}).Create(&review).Error; err != nil {
		return nil, err
	}
	if err := db.Where("user_id = ? AND destination_id = ?", userID, dest.ID).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func ToggleFavorite(db *gorm.DB, destinationID, userID uint) (*FavoriteStatus, error) {
	var dest models.Destination
	if err := db.Select("id").Scopes(scopes.WithID(destinationID)).First(&dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	status := &FavoriteStatus{}
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND destination_id = ?", userID, dest.ID).Delete(&models.Favorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			status.Message = "Removed from favorites"
			return nil
		}
		status.IsFavorited = true
		status.Message = "Added to favorites"
		return tx.Create(&models.Favorite{UserID: userID, DestinationID: dest.ID}).Error
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

func ListFavoriteDestinations(db *gorm.DB, userID uint) ([]models.Destination, error) {
	destinations := []models.Destination{}
	err := db.
		Where("id IN (?)", db.Model(&models.Favorite{}).Select("destination_id").Scopes(scopes.OwnedBy(userID))).
		Order("name asc").
		Find(&destinations).
		Error
	return destinations, err
}

func IsFavorited(db *gorm.DB, destinationID, userID uint) (bool, error) {
	var count int64
	err := db.
		Model(&models.Favorite{}).
		Where("user_id = ? AND destination_id = ?", userID, destinationID).
		Count(&count).
		Error
	return count > 0, err
}
