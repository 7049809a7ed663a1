package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"voyagemate/src/lib/storage"
	"voyagemate/src/logger"
	"voyagemate/src/models"
	"voyagemate/src/models/scopes"
	"voyagemate/src/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	JournalImageDir     = "journal-images"
	MaxJournalImageSize = 4096 * 1024
	sniffLength         = 512
)

// ImageUpload is one uploaded file, independent of the transport.
type ImageUpload struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

func UploadsFromMultipart(files []*multipart.FileHeader) []ImageUpload {
	uploads := make([]ImageUpload, 0, len(files))
	for _, fh := range files {
		fh := fh
		uploads = append(uploads, ImageUpload{
			Filename: fh.Filename,
			Size:     fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return uploads
}

type storedImage struct {
	path         string
	originalName string
}

func readUpload(u ImageUpload) ([]byte, string, error) {
	if u.Size > MaxJournalImageSize {
		return nil, "", NewValidationError("images", fmt.Sprintf("%s exceeds %d KB", u.Filename, MaxJournalImageSize/1024))
	}
	rc, err := u.Open()
	if err != nil {
		return nil, "", err
	}
	defer rc.Close()
	b, err := io.ReadAll(io.LimitReader(rc, MaxJournalImageSize+1))
	if err != nil {
		return nil, "", err
	}
	if len(b) > MaxJournalImageSize {
		return nil, "", NewValidationError("images", fmt.Sprintf("%s exceeds %d KB", u.Filename, MaxJournalImageSize/1024))
	}
	head := b
	if len(head) > sniffLength {
		head = head[:sniffLength]
	}
	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", NewValidationError("images", fmt.Sprintf("%s is not an image", u.Filename))
	}
	return b, contentType, nil
}

// storeUploads validates every upload before writing any of them. Files
// already written are removed when a later one fails.
func storeUploads(ctx context.Context, store storage.Provider, uploads []ImageUpload) ([]storedImage, error) {
	if len(uploads) == 0 {
		return nil, nil
	}
	if store == nil {
		return nil, errors.New("no storage provider configured")
	}
	type pending struct {
		upload      ImageUpload
		content     []byte
		contentType string
	}
	items := make([]pending, 0, len(uploads))
	for _, u := range uploads {
		b, ct, err := readUpload(u)
		if err != nil {
			return nil, err
		}
		items = append(items, pending{upload: u, content: b, contentType: ct})
	}
	stored := make([]storedImage, 0, len(items))
	for _, it := range items {
		key := storage.NewKey(JournalImageDir, it.upload.Filename)
		if err := store.Put(ctx, key, bytes.NewReader(it.content), int64(len(it.content)), it.contentType); err != nil {
			removeStoredFiles(ctx, store, imagePaths(stored))
			return nil, fmt.Errorf("store %s: %w", it.upload.Filename, err)
		}
		stored = append(stored, storedImage{path: key, originalName: it.upload.Filename})
	}
	return stored, nil
}

func imagePaths(stored []storedImage) []string {
	paths := make([]string, len(stored))
	for i, s := range stored {
		paths[i] = s.path
	}
	return paths
}

// insertImages stores rows for stored files starting at position start.
func insertImages(tx *gorm.DB, entryID uint, stored []storedImage, start int) ([]models.TripJournalImage, error) {
	images := make([]models.TripJournalImage, 0, len(stored))
	for i, s := range stored {
		images = append(images, models.TripJournalImage{
			EntryID:      entryID,
			Path:         s.path,
			OriginalName: s.originalName,
			Position:     start + i,
		})
	}
	if len(images) == 0 {
		return images, nil
	}
	if err := tx.Create(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// nextImagePosition is one past the highest position, or 1 when the entry
// has no images.
func nextImagePosition(tx *gorm.DB, entryID uint) (int, error) {
	var maxPos int
	err := tx.
		Model(&models.TripJournalImage{}).
		Where("trip_journal_entry_id = ?", entryID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&maxPos).
		Error
	return maxPos + 1, err
}

func withURLs(ctx context.Context, store storage.Provider, images []models.TripJournalImage) {
	if store == nil {
		return
	}
	for i := range images {
		u, err := store.URL(ctx, images[i].Path)
		if err != nil {
			logger.L.Warn("could not resolve image url", zap.String("path", images[i].Path), zap.Error(err))
			continue
		}
		images[i].URL = u
	}
}

func ownedEntry(db *gorm.DB, tripID, entryID, userID uint) (*models.TripJournalEntry, error) {
	trip, err := GetOwnedTrip(db, tripID, userID)
	if err != nil {
		return nil, err
	}
	var entry models.TripJournalEntry
	if err := db.Scopes(scopes.WithID(entryID), scopes.ForTrip(trip.ID)).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func loadEntryImages(db *gorm.DB, entries []models.TripJournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	ids := make([]uint, len(entries))
	index := make(map[uint]int, len(entries))
	for i := range entries {
		ids[i] = entries[i].ID
		index[entries[i].ID] = i
		entries[i].Images = []models.TripJournalImage{}
	}
	var images []models.TripJournalImage
	if err := db.
		Where("trip_journal_entry_id IN (?)", ids).
		Scopes(scopes.ByPosition).
		Find(&images).
		Error; err != nil {
		return err
	}
	for _, img := range images {
		i := index[img.EntryID]
		entries[i].Images = append(entries[i].Images, img)
	}
	return nil
}

// ListJournalEntries returns the trip's entries newest first, each with its
// images in position order.
func ListJournalEntries(ctx context.Context, db *gorm.DB, store storage.Provider, tripID, userID uint) ([]models.TripJournalEntry, error) {
	trip, err := GetOwnedTrip(db, tripID, userID)
	if err != nil {
		return nil, err
	}
	entries := []models.TripJournalEntry{}
	if err := db.
		Scopes(scopes.ForTrip(trip.ID)).
		Order("entry_date desc").
		Scopes(scopes.Latest).
		Find(&entries).
		Error; err != nil {
		return nil, err
	}
	if err := loadEntryImages(db, entries); err != nil {
		return nil, err
	}
	for i := range entries {
		withURLs(ctx, store, entries[i].Images)
	}
	return entries, nil
}

func applyEntryFields(entry *models.TripJournalEntry, body *types.JournalEntryRequestBody) error {
	entryDate, err := parseDate(body.EntryDate)
	if err != nil {
		return NewValidationError("entry_date", "must match the format 2006-01-02")
	}
	entry.EntryDate = entryDate
	entry.Title = body.Title
	entry.Body = body.Body
	return nil
}

// CreateJournalEntry stores the entry and its images. Images uploaded with a
// new entry take positions 0..n-1.
func CreateJournalEntry(ctx context.Context, db *gorm.DB, store storage.Provider, tripID, userID uint, body *types.JournalEntryRequestBody, uploads []ImageUpload) (*models.TripJournalEntry, error) {
	if err := Validate(body); err != nil {
		return nil, err
	}
	trip, err := GetOwnedTrip(db, tripID, userID)
	if err != nil {
		return nil, err
	}
	entry := models.TripJournalEntry{TripID: trip.ID, UserID: userID}
	if err := applyEntryFields(&entry, body); err != nil {
		return nil, err
	}
	stored, err := storeUploads(ctx, store, uploads)
	if err != nil {
		return nil, err
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Images").Create(&entry).Error; err != nil {
			return err
		}
		images, err := insertImages(tx, entry.ID, stored, 0)
		entry.Images = images
		return err
	})
	if err != nil {
		removeStoredFiles(ctx, store, imagePaths(stored))
		return nil, err
	}
	withURLs(ctx, store, entry.Images)
	return &entry, nil
}

// UpdateJournalEntry replaces the entry text and appends any new images.
func UpdateJournalEntry(ctx context.Context, db *gorm.DB, store storage.Provider, tripID, entryID, userID uint, body *types.JournalEntryRequestBody, uploads []ImageUpload) (*models.TripJournalEntry, error) {
	if err := Validate(body); err != nil {
		return nil, err
	}
	if strings.TrimSpace(body.Body) == "" {
		return nil, NewValidationError("body", "is required")
	}
	entry, err := ownedEntry(db, tripID, entryID, userID)
	if err != nil {
		return nil, err
	}
	if err := applyEntryFields(entry, body); err != nil {
		return nil, err
	}
	stored, err := storeUploads(ctx, store, uploads)
	if err != nil {
		return nil, err
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(entry).Select("entry_date", "title", "body").Updates(entry).Error; err != nil {
			return err
		}
		start, err := nextImagePosition(tx, entry.ID)
		if err != nil {
			return err
		}
		_, err = insertImages(tx, entry.ID, stored, start)
		return err
	})
	if err != nil {
		removeStoredFiles(ctx, store, imagePaths(stored))
		return nil, err
	}
	entries := []models.TripJournalEntry{*entry}
	if err := loadEntryImages(db, entries); err != nil {
		return nil, err
	}
	withURLs(ctx, store, entries[0].Images)
	return &entries[0], nil
}

func DeleteJournalEntry(ctx context.Context, db *gorm.DB, store storage.Provider, tripID, entryID, userID uint) error {
	entry, err := ownedEntry(db, tripID, entryID, userID)
	if err != nil {
		return err
	}
	var paths []string
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.TripJournalImage{}).Where("trip_journal_entry_id = ?", entry.ID).Pluck("path", &paths).Error; err != nil {
			return err
		}
		if err := tx.Where("trip_journal_entry_id = ?", entry.ID).Delete(&models.TripJournalImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(entry).Error
	})
	if err != nil {
		return err
	}
	removeStoredFiles(ctx, store, paths)
	return nil
}

// UploadJournalImages appends images after the entry's current last position.
func UploadJournalImages(ctx context.Context, db *gorm.DB, store storage.Provider, tripID, entryID, userID uint, uploads []ImageUpload) ([]models.TripJournalImage, error) {
	entry, err := ownedEntry(db, tripID, entryID, userID)
	if err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return nil, NewValidationError("images", "is required")
	}
	stored, err := storeUploads(ctx, store, uploads)
	if err != nil {
		return nil, err
	}
	var images []models.TripJournalImage
	err = db.Transaction(func(tx *gorm.DB) error {
		start, err := nextImagePosition(tx, entry.ID)
		if err != nil {
			return err
		}
		images, err = insertImages(tx, entry.ID, stored, start)
		return err
	})
	if err != nil {
		removeStoredFiles(ctx, store, imagePaths(stored))
		return nil, err
	}
	withURLs(ctx, store, images)
	return images, nil
}

func DeleteJournalImage(ctx context.Context, db *gorm.DB, store storage.Provider, tripID, entryID, imageID, userID uint) error {
	entry, err := ownedEntry(db, tripID, entryID, userID)
	if err != nil {
		return err
	}
	var image models.TripJournalImage
	if err := db.
		Scopes(scopes.WithID(imageID)).
		Where("trip_journal_entry_id = ?", entry.ID).
		First(&image).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := db.Delete(&image).Error; err != nil {
		return err
	}
	removeStoredFiles(ctx, store, []string{image.Path})
	return nil
}

// ReorderJournalImages sets position = index for every image of the entry.
// orderedIDs must be exactly the entry's image ids, each once. All updates
// commit together or not at all.
func ReorderJournalImages(db *gorm.DB, tripID, entryID, userID uint, orderedIDs []uint) error {
	entry, err := ownedEntry(db, tripID, entryID, userID)
	if err != nil {
		return err
	}
	if len(orderedIDs) == 0 {
		return NewValidationError("ordered_ids", "is required")
	}
	var existing []uint
	if err := db.
		Model(&models.TripJournalImage{}).
		Where("trip_journal_entry_id = ?", entry.ID).
		Pluck("id", &existing).
		Error; err != nil {
		return err
	}
	if !sameIDSet(existing, orderedIDs) {
		return unprocessable("Invalid images list.")
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			res := tx.
				Model(&models.TripJournalImage{}).
				Where("id = ? AND trip_journal_entry_id = ?", id, entry.ID).
				Update("position", i)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected != 1 {
				return unprocessable("Invalid images list.")
			}
		}
		return nil
	})
}

// sameIDSet reports whether ordered is a permutation of existing.
func sameIDSet(existing, ordered []uint) bool {
	if len(existing) != len(ordered) {
		return false
	}
	want := make(map[uint]bool, len(existing))
	for _, id := range existing {
		want[id] = true
	}
	for _, id := range ordered {
		if !want[id] {
			return false
		}
		delete(want, id)
	}
	return len(want) == 0
}
