package common

import (
	"math"
	"time"

	"voyagemate/src/models"
	"voyagemate/src/models/scopes"
	"voyagemate/src/types"

	"gorm.io/gorm"
)

type UpcomingTrip struct {
	ID          uint           `json:"id"`
	Title       string         `json:"title"`
	Destination *string        `json:"destination"`
	StartDate   types.DateOnly `json:"start_date"`
	DaysUntil   int            `json:"days_until"`
}

type TodayItineraryItem struct {
	ID          uint           `json:"id"`
	TripTitle   string         `json:"trip_title"`
	Destination *string        `json:"destination"`
	Date        types.DateOnly `json:"date"`
	Time        *string        `json:"time"`
	Title       string         `json:"title"`
	Location    *string        `json:"location"`
	Notes       *string        `json:"notes"`
}

type Dashboard struct {
	TotalTrips             int64                `json:"total_trips"`
	ActiveTrips            int64                `json:"active_trips"`
	UpcomingTrip           *UpcomingTrip        `json:"upcoming_trip"`
	UsedBudgetPercent      int                  `json:"used_budget_percent"`
	FavoritesCount         int64                `json:"favorites_count"`
	UpcomingThisMonthCount int64                `json:"upcoming_this_month_count"`
	TodayItineraryItems    []TodayItineraryItem `json:"today_itinerary_items"`
}

// BudgetPercent rounds spent/budget to a whole percentage. It is not clamped
// and is 0 when there is no budget.
func BudgetPercent(spent, budget float64) int {
	if budget <= 0 {
		return 0
	}
	return int(math.Round(spent / budget * 100))
}

// BuildDashboard aggregates the user's trips for the calendar day containing
// now in loc. Every figure comes from its own query.
func BuildDashboard(db *gorm.DB, userID uint, now time.Time, loc *time.Location) (*Dashboard, error) {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	today := types.NewDateOnly(local)
	monthEnd := types.NewDateOnly(time.Date(local.Year(), local.Month()+1, 0, 0, 0, 0, 0, loc))
	userTrips := func() *gorm.DB {
		return db.Model(&models.Trip{}).Scopes(scopes.OwnedBy(userID))
	}

	d := &Dashboard{TodayItineraryItems: []TodayItineraryItem{}}

	if err := userTrips().Count(&d.TotalTrips).Error; err != nil {
		return nil, err
	}
	d.ActiveTrips = d.TotalTrips

	var upcoming []models.Trip
	if err := userTrips().
		Where("start_date >= ?", today).
		Order("start_date asc").
		Order("id asc").
		Limit(1).
		Find(&upcoming).
		Error; err != nil {
		return nil, err
	}
	if len(upcoming) == 1 && upcoming[0].StartDate != nil {
		t := upcoming[0]
		d.UpcomingTrip = &UpcomingTrip{
			ID:          t.ID,
			Title:       t.Title,
			Destination: t.Destination,
			StartDate:   *t.StartDate,
			DaysUntil:   max(0, today.DaysUntil(*t.StartDate)),
		}
	}

	var budget float64
	if err := userTrips().Select("COALESCE(SUM(budget), 0)").Scan(&budget).Error; err != nil {
		return nil, err
	}
	var spent float64
	if err := db.
		Model(&models.Expense{}).
		Where("trip_id IN (?)", userTrips().Select("id")).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&spent).
		Error; err != nil {
		return nil, err
	}
	d.UsedBudgetPercent = BudgetPercent(spent, budget)

	if err := db.Model(&models.Favorite{}).Scopes(scopes.OwnedBy(userID)).Count(&d.FavoritesCount).Error; err != nil {
		return nil, err
	}

	if err := userTrips().
		Where("start_date >= ? AND start_date <= ?", today, monthEnd).
		Count(&d.UpcomingThisMonthCount).
		Error; err != nil {
		return nil, err
	}

	if err := db.
		Table("itinerary_items").
		Select(`itinerary_items.id, trips.title AS trip_title, trips.destination, itinerary_items.date,
			itinerary_items.time, itinerary_items.title, itinerary_items.location, itinerary_items.notes`).
		Joins("JOIN trips ON trips.id = itinerary_items.trip_id").
		Where("trips.user_id = ?", userID).
		Where("itinerary_items.date = ?", today).
		Order("CASE WHEN itinerary_items.time IS NULL THEN 1 ELSE 0 END").
		Order("itinerary_items.time asc").
		Order("itinerary_items.id asc").
		Scan(&d.TodayItineraryItems).
		Error; err != nil {
		return nil, err
	}
	return d, nil
}
