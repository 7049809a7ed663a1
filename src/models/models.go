package models

// All returns every model in migration order.
func All() []any {
	return []any{
		&User{},
		&Trip{},
		&ItineraryItem{},
		&Expense{},
		&ChecklistItem{},
		&TripShareLink{},
		&TripShareComment{},
		&TripJournalEntry{},
		&TripJournalImage{},
		&Destination{},
		&Review{},
		&Favorite{},
	}
}
