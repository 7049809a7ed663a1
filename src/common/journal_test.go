package common

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"voyagemate/src/lib/storage"
	"voyagemate/src/models"
	"voyagemate/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func imageUpload(name string, content []byte) ImageUpload {
	return ImageUpload{
		Filename: name,
		Size:     int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}

type journalFixture struct {
	db    *gorm.DB
	store *storage.Local
	owner *models.User
	trip  *models.Trip
}

func newJournalFixture(t *testing.T) *journalFixture {
	t.Helper()
	g := newTestDB(t)
	owner := createUser(t, g)
	return &journalFixture{
		db:    g,
		store: storage.NewLocal(t.TempDir(), "http://localhost/storage"),
		owner: owner,
		trip:  createTrip(t, g, owner.ID, "2026-04-01", 100),
	}
}

func (f *journalFixture) entryWithImages(t *testing.T, n int) *models.TripJournalEntry {
	t.Helper()
	uploads := make([]ImageUpload, n)
	for i := range uploads {
		uploads[i] = imageUpload("photo.png", pngHeader)
	}
	entry, err := CreateJournalEntry(context.Background(), f.db, f.store, f.trip.ID, f.owner.ID,
		&types.JournalEntryRequestBody{EntryDate: ptr("2026-04-02"), Title: ptr("Day one"), Body: "<p>hello</p>"}, uploads)
	require.NoError(t, err)
	return entry
}

func (f *journalFixture) positions(t *testing.T, entryID uint) map[uint]int {
	t.Helper()
	var images []models.TripJournalImage
	require.NoError(t, f.db.Where("trip_journal_entry_id = ?", entryID).Find(&images).Error)
	out := make(map[uint]int, len(images))
	for _, img := range images {
		out[img.ID] = img.Position
	}
	return out
}

func TestCreateJournalEntryStoresImages(t *testing.T) {
	f := newJournalFixture(t)
	entry := f.entryWithImages(t, 2)

	require.Len(t, entry.Images, 2)
	assert.Equal(t, 0, entry.Images[0].Position)
	assert.Equal(t, 1, entry.Images[1].Position)
	assert.Equal(t, "photo.png", entry.Images[0].OriginalName)
	assert.Contains(t, entry.Images[0].URL, "http://localhost/storage/journal-images/")
	for _, img := range entry.Images {
		_, err := os.Stat(filepath.Join(f.store.Root(), filepath.FromSlash(img.Path)))
		assert.NoError(t, err)
	}
}

func TestCreateJournalEntryRejectsNonImages(t *testing.T) {
	f := newJournalFixture(t)
	_, err := CreateJournalEntry(context.Background(), f.db, f.store, f.trip.ID, f.owner.ID,
		&types.JournalEntryRequestBody{Body: "text"},
		[]ImageUpload{imageUpload("ok.png", pngHeader), imageUpload("notes.txt", []byte("plain text"))})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "images")

	var count int64
	require.NoError(t, f.db.Model(&models.TripJournalEntry{}).Count(&count).Error)
	assert.Zero(t, count)
	files, _ := os.ReadDir(filepath.Join(f.store.Root(), JournalImageDir))
	assert.Empty(t, files)
}

func TestCreateJournalEntryRejectsLargeImages(t *testing.T) {
	f := newJournalFixture(t)
	big := imageUpload("big.png", pngHeader)
	big.Size = MaxJournalImageSize + 1
	_, err := CreateJournalEntry(context.Background(), f.db, f.store, f.trip.ID, f.owner.ID,
		&types.JournalEntryRequestBody{Body: "text"}, []ImageUpload{big})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUploadJournalImagesAppends(t *testing.T) {
	f := newJournalFixture(t)
	entry := f.entryWithImages(t, 2)

	images, err := UploadJournalImages(context.Background(), f.db, f.store, f.trip.ID, entry.ID, f.owner.ID,
		[]ImageUpload{imageUpload("a.png", pngHeader), imageUpload("b.png", pngHeader)})
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, 2, images[0].Position)
	assert.Equal(t, 3, images[1].Position)

	_, err = UploadJournalImages(context.Background(), f.db, f.store, f.trip.ID, entry.ID, f.owner.ID, nil)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUploadJournalImagesToEmptyEntryStartsAtOne(t *testing.T) {
	f := newJournalFixture(t)
	entry := f.entryWithImages(t, 0)

	images, err := UploadJournalImages(context.Background(), f.db, f.store, f.trip.ID, entry.ID, f.owner.ID,
		[]ImageUpload{imageUpload("a.png", pngHeader)})
	require.NoError(t, err)
	assert.Equal(t, 1, images[0].Position)
}

func TestUpdateJournalEntry(t *testing.T) {
	f := newJournalFixture(t)
	entry := f.entryWithImages(t, 1)

	_, err := UpdateJournalEntry(context.Background(), f.db, f.store, f.trip.ID, entry.ID, f.owner.ID,
		&types.JournalEntryRequestBody{Body: "  "}, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	updated, err := UpdateJournalEntry(context.Background(), f.db, f.store, f.trip.ID, entry.ID, f.owner.ID,
		&types.JournalEntryRequestBody{Title: ptr("Day two"), Body: "updated"},
		[]ImageUpload{imageUpload("c.png", pngHeader)})
	require.NoError(t, err)
	assert.Equal(t, "updated", updated.Body)
	assert.Nil(t, updated.EntryDate)
	require.Len(t, updated.Images, 2)
	assert.Equal(t, 1, updated.Images[1].Position)
}

func TestReorderJournalImages(t *testing.T) {
	f := newJournalFixture(t)
	entry := f.entryWithImages(t, 3)
	a, b, c := entry.Images[0].ID, entry.Images[1].ID, entry.Images[2].ID

	require.NoError(t, ReorderJournalImages(f.db, f.trip.ID, entry.ID, f.owner.ID, []uint{c, a, b}))
	assert.Equal(t, map[uint]int{c: 0, a: 1, b: 2}, f.positions(t, entry.ID))

	entries, err := ListJournalEntries(context.Background(), f.db, f.store, f.trip.ID, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	got := []uint{entries[0].Images[0].ID, entries[0].Images[1].ID, entries[0].Images[2].ID}
	assert.Equal(t, []uint{c, a, b}, got)
}

func TestReorderJournalImagesRejectsBadLists(t *testing.T) {
	f := newJournalFixture(t)
	entry := f.entryWithImages(t, 3)
	other := f.entryWithImages(t, 1)
	a, b, c := entry.Images[0].ID, entry.Images[1].ID, entry.Images[2].ID
	before := f.positions(t, entry.ID)

	cases := map[string][]uint{
		"missing id":   {a, b},
		"duplicate id": {a, b, b},
		"foreign id":   {a, b, other.Images[0].ID},
		"extra id":     {a, b, c, other.Images[0].ID},
	}
	for name, ids := range cases {
		t.Run(name, func(t *testing.T) {
			err := ReorderJournalImages(f.db, f.trip.ID, entry.ID, f.owner.ID, ids)
			require.ErrorIs(t, err, ErrUnprocessable)
			assert.Equal(t, "Invalid images list.", PublicMessage(err))
			assert.Equal(t, before, f.positions(t, entry.ID))
		})
	}

	err := ReorderJournalImages(f.db, f.trip.ID, entry.ID, f.owner.ID, nil)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestReorderJournalImagesRequiresOwner(t *testing.T) {
	f := newJournalFixture(t)
	entry := f.entryWithImages(t, 2)
	stranger := createUser(t, f.db)

	err := ReorderJournalImages(f.db, f.trip.ID, entry.ID, stranger.ID, []uint{entry.Images[1].ID, entry.Images[0].ID})
	assert.ErrorIs(t, err, ErrForbidden)

	otherTrip := createTrip(t, f.db, f.owner.ID, "2026-05-01", 0)
	err = ReorderJournalImages(f.db, otherTrip.ID, entry.ID, f.owner.ID, []uint{entry.Images[1].ID, entry.Images[0].ID})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteJournalEntryRemovesFiles(t *testing.T) {
	f := newJournalFixture(t)
	entry := f.entryWithImages(t, 2)

	require.NoError(t, DeleteJournalEntry(context.Background(), f.db, f.store, f.trip.ID, entry.ID, f.owner.ID))

	var count int64
	require.NoError(t, f.db.Model(&models.TripJournalImage{}).Count(&count).Error)
	assert.Zero(t, count)
	files, _ := os.ReadDir(filepath.Join(f.store.Root(), JournalImageDir))
	assert.Empty(t, files)
}

func TestDeleteJournalImage(t *testing.T) {
	f := newJournalFixture(t)
	entry := f.entryWithImages(t, 2)
	other := f.entryWithImages(t, 1)

	err := DeleteJournalImage(context.Background(), f.db, f.store, f.trip.ID, entry.ID, other.Images[0].ID, f.owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, DeleteJournalImage(context.Background(), f.db, f.store, f.trip.ID, entry.ID, entry.Images[0].ID, f.owner.ID))
	assert.Len(t, f.positions(t, entry.ID), 1)
}
