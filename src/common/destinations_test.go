package common

import (
	"testing"

	"voyagemate/src/models"
	"voyagemate/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedDestinations(t *testing.T, g *gorm.DB) []models.Destination {
	t.Helper()
	dests := []models.Destination{
		{Name: "Lisbon", Country: "Portugal", Type: "city"},
		{Name: "Algarve", Country: "Portugal", City: ptr("Faro"), Type: "beach"},
		{Name: "Kyoto", Country: "Japan", Type: "city"},
		{Name: "100% Pure", Country: "New Zealand", Type: "nature"},
	}
	for i := range dests {
		require.NoError(t, g.Create(&dests[i]).Error)
	}
	return dests
}

func TestSearchDestinations(t *testing.T) {
	g := newTestDB(t)
	seedDestinations(t, g)

	page, err := SearchDestinations(g, &types.DestinationQuery{Search: "portugal"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Equal(t, "Algarve", page.Data[0].Name)

	page, err = SearchDestinations(g, &types.DestinationQuery{Search: "faro"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	page, err = SearchDestinations(g, &types.DestinationQuery{Type: "city", Country: "Japan"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Kyoto", page.Data[0].Name)

	page, err = SearchDestinations(g, &types.DestinationQuery{Search: "%"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "100% Pure", page.Data[0].Name)

	page, err = SearchDestinations(g, &types.DestinationQuery{Page: 3})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, 1, page.LastPage)
	assert.Equal(t, 3, page.CurrentPage)
}

func TestDestinationSlug(t *testing.T) {
	g := newTestDB(t)
	dests := seedDestinations(t, g)
	assert.Equal(t, "lisbon", dests[0].Slug)
	assert.Equal(t, "algarve", dests[1].Slug)
}

func TestReviews(t *testing.T) {
	g := newTestDB(t)
	dest := seedDestinations(t, g)[0]
	alice := createUser(t, g)
	bob := createUser(t, g)

	_, err := UpsertReview(g, dest.ID, alice.ID, &types.ReviewRequestBody{Comment: "ok", Rating: 6})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	_, err = UpsertReview(g, 9999, alice.ID, &types.ReviewRequestBody{Comment: "ok", Rating: 3})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = UpsertReview(g, dest.ID, alice.ID, &types.ReviewRequestBody{Comment: "ok", Rating: 2})
	require.NoError(t, err)
	review, err := UpsertReview(g, dest.ID, alice.ID, &types.ReviewRequestBody{Comment: "better", Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, "better", review.Comment)
	_, err = UpsertReview(g, dest.ID, bob.ID, &types.ReviewRequestBody{Comment: "great", Rating: 5})
	require.NoError(t, err)

	loaded, err := GetDestination(g, dest.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, loaded.ReviewsCount)
	assert.Equal(t, 4.5, loaded.AverageRating)
	for _, r := range loaded.Reviews {
		require.NotNil(t, r.User)
		assert.NotEmpty(t, r.User.Name)
	}

	_, err = GetDestination(g, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleFavorite(t *testing.T) {
	g := newTestDB(t)
	dests := seedDestinations(t, g)
	user := createUser(t, g)

	status, err := ToggleFavorite(g, dests[2].ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, &FavoriteStatus{IsFavorited: true, Message: "Added to favorites"}, status)
	_, err = ToggleFavorite(g, dests[0].ID, user.ID)
	require.NoError(t, err)

	favs, err := ListFavoriteDestinations(g, user.ID)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, "Kyoto", favs[0].Name)

	status, err = ToggleFavorite(g, dests[2].ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, &FavoriteStatus{IsFavorited: false, Message: "Removed from favorites"}, status)
	ok, err := IsFavorited(g, dests[2].ID, user.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = ToggleFavorite(g, 9999, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
