package common

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"voyagemate/src/lib/storage"
	"voyagemate/src/models"
	"voyagemate/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndUpdateTrip(t *testing.T) {
	g := newTestDB(t)
	user := createUser(t, g)
	stranger := createUser(t, g)

	trip, err := CreateTrip(g, user.ID, &types.CreateTripRequestBody{
		Title:     "Porto",
		StartDate: ptr("2026-05-01"),
		EndDate:   ptr("2026-05-07"),
		Budget:    ptr(1200.0),
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-05-01", trip.StartDate.String())

	_, err = UpdateTrip(g, trip.ID, user.ID, &types.UpdateTripRequestBody{
		Title:     "Porto",
		StartDate: ptr("2026-05-07"),
		EndDate:   ptr("2026-05-01"),
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "end_date")

	_, err = UpdateTrip(g, trip.ID, stranger.ID, &types.UpdateTripRequestBody{Title: "Mine now"})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := UpdateTrip(g, trip.ID, user.ID, &types.UpdateTripRequestBody{Title: "Porto & Douro"})
	require.NoError(t, err)
	assert.Nil(t, updated.StartDate)
	assert.Nil(t, updated.Budget)

	var stored models.Trip
	require.NoError(t, g.First(&stored, trip.ID).Error)
	assert.Equal(t, "Porto & Douro", stored.Title)
	assert.Nil(t, stored.Budget)

	trips, err := ListTrips(g, stranger.ID)
	require.NoError(t, err)
	assert.Empty(t, trips)
}

func TestTripChildrenAreScopedToOwner(t *testing.T) {
	g := newTestDB(t)
	user := createUser(t, g)
	stranger := createUser(t, g)
	trip := createTrip(t, g, user.ID, "2026-05-01", 500)
	otherTrip := createTrip(t, g, user.ID, "2026-06-01", 500)

	item, err := AddItineraryItem(g, trip.ID, user.ID, &types.ItineraryItemRequestBody{Date: "2026-05-02", Time: ptr("09:15"), Title: "Tram 28"})
	require.NoError(t, err)
	_, err = AddItineraryItem(g, trip.ID, stranger.ID, &types.ItineraryItemRequestBody{Date: "2026-05-02", Title: "x"})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = AddItineraryItem(g, trip.ID, user.ID, &types.ItineraryItemRequestBody{Date: "2026-05-02", Time: ptr("9am"), Title: "x"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = UpdateItineraryItem(g, otherTrip.ID, item.ID, user.ID, &types.ItineraryItemRequestBody{Date: "2026-05-02", Title: "moved"})
	assert.ErrorIs(t, err, ErrNotFound)
	updated, err := UpdateItineraryItem(g, trip.ID, item.ID, user.ID, &types.ItineraryItemRequestBody{Date: "2026-05-03", Title: "Tram 28"})
	require.NoError(t, err)
	assert.Nil(t, updated.Time)

	expense, err := AddExpense(g, trip.ID, user.ID, &types.ExpenseRequestBody{Category: ptr("food"), Amount: 12.5, SpentOn: ptr("2026-05-02")})
	require.NoError(t, err)
	_, err = AddExpense(g, trip.ID, user.ID, &types.ExpenseRequestBody{Amount: 7.5})
	require.NoError(t, err)

	view, err := LoadTripView(g, trip)
	require.NoError(t, err)
	assert.Equal(t, 20.0, view.TotalSpent)
	assert.Len(t, view.ItineraryItems, 1)
	assert.Len(t, view.Expenses, 2)

	require.NoError(t, DeleteExpense(g, trip.ID, expense.ID, user.ID))
	assert.ErrorIs(t, DeleteExpense(g, trip.ID, expense.ID, user.ID), ErrNotFound)
	require.NoError(t, DeleteItineraryItem(g, trip.ID, item.ID, user.ID))
}

func TestChecklist(t *testing.T) {
	g := newTestDB(t)
	user := createUser(t, g)
	trip := createTrip(t, g, user.ID, "2026-05-01", 0)

	_, err := AddChecklistItem(g, trip.ID, user.ID, &types.CreateChecklistItemRequestBody{Type: "errand", Title: "x"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "type")

	item, err := AddChecklistItem(g, trip.ID, user.ID, &types.CreateChecklistItemRequestBody{Type: types.CHECKLIST_PACKING, Title: "Passport"})
	require.NoError(t, err)
	assert.False(t, item.IsDone)

	toggled, err := ToggleChecklistItem(g, trip.ID, item.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsDone)
	toggled, err = ToggleChecklistItem(g, trip.ID, item.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsDone)

	renamed, err := UpdateChecklistItem(g, trip.ID, item.ID, user.ID, &types.UpdateChecklistItemRequestBody{Title: "Passport and visa", DueDate: ptr("2026-04-20")})
	require.NoError(t, err)
	assert.Equal(t, "2026-04-20", renamed.DueDate.String())

	require.NoError(t, DeleteChecklistItem(g, trip.ID, item.ID, user.ID))
}

func TestDeleteTripRemovesEverything(t *testing.T) {
	g := newTestDB(t)
	user := createUser(t, g)
	stranger := createUser(t, g)
	trip := createTrip(t, g, user.ID, "2026-05-01", 100)
	keep := createTrip(t, g, user.ID, "2026-06-01", 100)
	store := storage.NewLocal(t.TempDir(), "http://localhost/storage")

	_, err := AddExpense(g, trip.ID, user.ID, &types.ExpenseRequestBody{Amount: 5})
	require.NoError(t, err)
	_, err = AddExpense(g, keep.ID, user.ID, &types.ExpenseRequestBody{Amount: 5})
	require.NoError(t, err)
	link, err := CreateShareLink(g, trip.ID, user.ID, nil, fixedNow)
	require.NoError(t, err)
	_, err = PostComment(context.Background(), g, nil, link.Token, &types.PostCommentRequestBody{Name: "Guest", Body: "hi"}, nil, fixedNow)
	require.NoError(t, err)
	entry, err := CreateJournalEntry(context.Background(), g, store, trip.ID, user.ID,
		&types.JournalEntryRequestBody{Body: "day"}, []ImageUpload{imageUpload("p.png", pngHeader)})
	require.NoError(t, err)
	imagePath := filepath.Join(store.Root(), filepath.FromSlash(entry.Images[0].Path))

	assert.ErrorIs(t, DeleteTrip(context.Background(), g, store, trip.ID, stranger.ID), ErrForbidden)
	require.NoError(t, DeleteTrip(context.Background(), g, store, trip.ID, user.ID))

	for _, m := range []any{&models.TripShareLink{}, &models.TripShareComment{}, &models.TripJournalEntry{}, &models.TripJournalImage{}} {
		var count int64
		require.NoError(t, g.Model(m).Count(&count).Error)
		assert.Zero(t, count, "%T", m)
	}
	var expenses int64
	require.NoError(t, g.Model(&models.Expense{}).Count(&expenses).Error)
	assert.EqualValues(t, 1, expenses)
	_, err = os.Stat(imagePath)
	assert.True(t, os.IsNotExist(err))

	_, err = GetOwnedTrip(g, trip.ID, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
