package common

import (
	"context"
	"errors"
	"fmt"

	"voyagemate/src/lib/storage"
	"voyagemate/src/logger"
	"voyagemate/src/models"
	"voyagemate/src/models/scopes"
	"voyagemate/src/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TripView is a trip with its children loaded by explicit queries.
type TripView struct {
	*models.Trip
	TotalSpent float64        `json:"total_spent"`
	ShareLink  *ShareLinkView `json:"share_link"`
}

// GetOwnedTrip loads a trip and checks that userID owns it.
func GetOwnedTrip(db *gorm.DB, tripID, userID uint) (*models.Trip, error) {
	var trip models.Trip
	if err := db.Scopes(scopes.WithID(tripID)).First(&trip).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !trip.OwnedBy(userID) {
		return nil, ErrForbidden
	}
	return &trip, nil
}

func ListTrips(db *gorm.DB, userID uint) ([]models.Trip, error) {
	var trips []models.Trip
	err := db.
		Scopes(scopes.OwnedBy(userID)).
		Order("start_date desc").
		Order("id desc").
		Find(&trips).
		Error
	return trips, err
}

func parseDate(s *string) (*types.DateOnly, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := types.ParseDateOnly(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func applyTripFields(trip *models.Trip, title string, destination *string, start, end *string, description *string, budget *float64) error {
	startDate, err := parseDate(start)
	if err != nil {
		return NewValidationError("start_date", "must match the format 2006-01-02")
	}
	endDate, err := parseDate(end)
	if err != nil {
		return NewValidationError("end_date", "must match the format 2006-01-02")
	}
	trip.Title = title
	trip.Destination = destination
	trip.StartDate = startDate
	trip.EndDate = endDate
	trip.Description = description
	trip.Budget = budget
	return nil
}

func CreateTrip(db *gorm.DB, userID uint, body *types.CreateTripRequestBody) (*models.Trip, error) {
	if err := Validate(body); err != nil {
		return nil, err
	}
	trip := models.Trip{UserID: userID}
	if err := applyTripFields(&trip, body.Title, body.Destination, body.StartDate, body.EndDate, body.Description, body.Budget); err != nil {
		return nil, err
	}
	if err := db.Create(&trip).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

func UpdateTrip(db *gorm.DB, tripID, userID uint, body *types.UpdateTripRequestBody) (*models.Trip, error) {
	if err := Validate(body); err != nil {
		return nil, err
	}
	trip, err := GetOwnedTrip(db, tripID, userID)
	if err != nil {
		return nil, err
	}
	if err := applyTripFields(trip, body.Title, body.Destination, body.StartDate, body.EndDate, body.Description, body.Budget); err != nil {
		return nil, err
	}
	err = db.
		Model(trip).
		Select("title", "destination", "start_date", "end_date", "description", "budget").
		Updates(trip).
		Error
	if err != nil {
		return nil, err
	}
	return trip, nil
}

// DeleteTrip removes a trip and every row that belongs to it. Stored journal
// images are removed after the transaction commits.
func DeleteTrip(ctx context.Context, db *gorm.DB, store storage.Provider, tripID, userID uint) error {
	trip, err := GetOwnedTrip(db, tripID, userID)
	if err != nil {
		return err
	}
	var paths []string
	err = db.Transaction(func(tx *gorm.DB) error {
		entryIDs := tx.Model(&models.TripJournalEntry{}).Select("id").Scopes(scopes.ForTrip(trip.ID))
		if err := tx.Model(&models.TripJournalImage{}).
			Where("trip_journal_entry_id IN (?)", entryIDs).
			Pluck("path", &paths).
			Error; err != nil {
			return err
		}
		if err := tx.Where("trip_journal_entry_id IN (?)", entryIDs).Delete(&models.TripJournalImage{}).Error; err != nil {
			return err
		}
		linkIDs := tx.Model(&models.TripShareLink{}).Select("id").Scopes(scopes.ForTrip(trip.ID))
		if err := tx.Where("trip_share_link_id IN (?)", linkIDs).Delete(&models.TripShareComment{}).Error; err != nil {
			return err
		}
		for _, child := range []any{
			&models.TripJournalEntry{},
			&models.TripShareLink{},
			&models.ItineraryItem{},
			&models.Expense{},
			&models.ChecklistItem{},
		} {
			if err := tx.Scopes(scopes.ForTrip(trip.ID)).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(trip).Error
	})
	if err != nil {
		return fmt.Errorf("delete trip %d: %w", trip.ID, err)
	}
	removeStoredFiles(ctx, store, paths)
	return nil
}

func removeStoredFiles(ctx context.Context, store storage.Provider, paths []string) {
	if store == nil {
		return
	}
	for _, p := range paths {
		if err := store.Delete(ctx, p); err != nil {
			logger.L.Warn("could not delete stored file", zap.String("path", p), zap.Error(err))
		}
	}
}

func tripTotalSpent(db *gorm.DB, tripID uint) (float64, error) {
	var total float64
	err := db.
		Model(&models.Expense{}).
		Scopes(scopes.ForTrip(tripID)).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).
		Error
	return total, err
}

// LoadTripView runs one query per child collection instead of relying on
// implicit eager loading.
func LoadTripView(db *gorm.DB, trip *models.Trip) (*TripView, error) {
	if err := db.Scopes(scopes.ForTrip(trip.ID), scopes.ItineraryOrder).Find(&trip.ItineraryItems).Error; err != nil {
		return nil, err
	}
	if err := db.Scopes(scopes.ForTrip(trip.ID)).Order("spent_on desc").Order("id desc").Find(&trip.Expenses).Error; err != nil {
		return nil, err
	}
	if err := db.Scopes(scopes.ForTrip(trip.ID)).Order("type asc").Order("is_done asc").Order("id asc").Find(&trip.ChecklistItems).Error; err != nil {
		return nil, err
	}
	total, err := tripTotalSpent(db, trip.ID)
	if err != nil {
		return nil, err
	}
	return &TripView{Trip: trip, TotalSpent: total}, nil
}

func AddItineraryItem(db *gorm.DB, tripID, userID uint, body *types.ItineraryItemRequestBody) (*models.ItineraryItem, error) {
	if err := Validate(body); err != nil {
		return nil, err
	}
	trip, err := GetOwnedTrip(db, tripID, userID)
	if err != nil {
		return nil, err
	}
	item := models.ItineraryItem{TripID: trip.ID}
	if err := applyItineraryFields(&item, body); err != nil {
		return nil, err
	}
	if err := db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func applyItineraryFields(item *models.ItineraryItem, body *types.ItineraryItemRequestBody) error {
	date, err := types.ParseDateOnly(body.Date)
	if err != nil {
		return NewValidationError("date", "must match the format 2006-01-02")
	}
	item.Date = date
	item.Time = body.Time
	if item.Time != nil && *item.Time == "" {
		item.Time = nil
	}
	item.Title = body.Title
	item.Location = body.Location
	item.Notes = body.Notes
	item.SortOrder = body.SortOrder
	return nil
}

// tripChild loads a row of dest's type that belongs to the owned trip.
func tripChild(db *gorm.DB, tripID, userID, id uint, dest any) error {
	trip, err := GetOwnedTrip(db, tripID, userID)
	if err != nil {
		return err
	}
	if err := db.Scopes(scopes.WithID(id), scopes.ForTrip(trip.ID)).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func UpdateItineraryItem(db *gorm.DB, tripID, itemID, userID uint, body *types.ItineraryItemRequestBody) (*models.ItineraryItem, error) {
	if err := Validate(body); err != nil {
		return nil, err
	}
	var item models.ItineraryItem
	if err := tripChild(db, tripID, userID, itemID, &item); err != nil {
		return nil, err
	}
	if err := applyItineraryFields(&item, body); err != nil {
		return nil, err
	}
	if err := db.Select("date", "time", "title", "location", "notes", "sort_order").Updates(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func DeleteItineraryItem(db *gorm.DB, tripID, itemID, userID uint) error {
	var item models.ItineraryItem
	if err := tripChild(db, tripID, userID, itemID, &item); err != nil {
		return err
	}
	return db.Delete(&item).Error
}

func applyExpenseFields(expense *models.Expense, body *types.ExpenseRequestBody) error {
	spentOn, err := parseDate(body.SpentOn)
	if err != nil {
		return NewValidationError("spent_on", "must match the format 2006-01-02")
	}
	expense.Category = body.Category
	expense.Amount = body.Amount
	expense.SpentOn = spentOn
	expense.Notes = body.Notes
	return nil
}

func AddExpense(db *gorm.DB, tripID, userID uint, body *types.ExpenseRequestBody) (*models.Expense, error) {
	if err := Validate(body); err != nil {
		return nil, err
	}
	trip, err := GetOwnedTrip(db, tripID, userID)
	if err != nil {
		return nil, err
	}
	expense := models.Expense{TripID: trip.ID}
	if err := applyExpenseFields(&expense, body); err != nil {
		return nil, err
	}
	if err := db.Create(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func UpdateExpense(db *gorm.DB, tripID, expenseID, userID uint, body *types.ExpenseRequestBody) (*models.Expense, error) {
	if err := Validate(body); err != nil {
		return nil, err
	}
	var expense models.Expense
	if err := tripChild(db, tripID, userID, expenseID, &expense); err != nil {
		return nil, err
	}
	if err := applyExpenseFields(&expense, body); err != nil {
		return nil, err
	}
	if err := db.Select("category", "amount", "spent_on", "notes").Updates(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func DeleteExpense(db *gorm.DB, tripID, expenseID, userID uint) error {
	var expense models.Expense
	if err := tripChild(db, tripID, userID, expenseID, &expense); err != nil {
		return err
	}
	return db.Delete(&expense).Error
}

func AddChecklistItem(db *gorm.DB, tripID, userID uint, body *types.CreateChecklistItemRequestBody) (*models.ChecklistItem, error) {
	if err := Validate(body); err != nil {
		return nil, err
	}
	trip, err := GetOwnedTrip(db, tripID, userID)
	if err != nil {
		return nil, err
	}
	due, err := parseDate(body.DueDate)
	if err != nil {
		return nil, NewValidationError("due_date", "must match the format 2006-01-02")
	}
	item := models.ChecklistItem{
		TripID:  trip.ID,
		Type:    body.Type,
		Title:   body.Title,
		DueDate: due,
	}
	if err := db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func UpdateChecklistItem(db *gorm.DB, tripID, itemID, userID uint, body *types.UpdateChecklistItemRequestBody) (*models.ChecklistItem, error) {
	if err := Validate(body); err != nil {
		return nil, err
	}
	var item models.ChecklistItem
	if err := tripChild(db, tripID, userID, itemID, &item); err != nil {
		return nil, err
	}
	due, err := parseDate(body.DueDate)
	if err != nil {
		return nil, NewValidationError("due_date", "must match the format 2006-01-02")
	}
	item.Title = body.Title
	item.DueDate = due
	if err := db.Select("title", "due_date").Updates(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func ToggleChecklistItem(db *gorm.DB, tripID, itemID, userID uint) (*models.ChecklistItem, error) {
	var item models.ChecklistItem
	if err := tripChild(db, tripID, userID, itemID, &item); err != nil {
		return nil, err
	}
	item.IsDone = !item.IsDone
	if err := db.Model(&item).Update("is_done", item.IsDone).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func DeleteChecklistItem(db *gorm.DB, tripID, itemID, userID uint) error {
	var item models.ChecklistItem
	if err := tripChild(db, tripID, userID, itemID, &item); err != nil {
		return err
	}
	return db.Delete(&item).Error
}
