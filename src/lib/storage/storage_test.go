package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"voyagemate/src/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	key := NewKey("journal-images", "Beach Day!.JPG")
	assert.True(t, strings.HasPrefix(key, "journal-images/"))
	assert.True(t, strings.HasSuffix(key, "-beach-day.jpg"))
	assert.NotEqual(t, key, NewKey("journal-images", "Beach Day!.JPG"))
}

func TestLocalPutURLDelete(t *testing.T) {
	root := t.TempDir()
	l := NewLocal(root, "http://localhost:8080/storage/")
	ctx := context.Background()

	require.NoError(t, l.Put(ctx, "journal-images/a.jpg", strings.NewReader("img"), 3, "image/jpeg"))
	b, err := os.ReadFile(filepath.Join(root, "journal-images", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "img", string(b))

	u, err := l.URL(ctx, "journal-images/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/storage/journal-images/a.jpg", u)

	require.NoError(t, l.Delete(ctx, "journal-images/a.jpg"))
	_, err = os.Stat(filepath.Join(root, "journal-images", "a.jpg"))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, l.Delete(ctx, "journal-images/a.jpg"))
}

func TestLocalRejectsEscapingKeys(t *testing.T) {
	l := NewLocal(t.TempDir(), "")
	err := l.Put(context.Background(), "../outside.jpg", strings.NewReader("x"), 1, "image/jpeg")
	assert.Error(t, err)
}

func TestNewSelectsDriver(t *testing.T) {
	p, err := New(context.Background(), &config.Config{Storage: config.StorageConfig{Driver: "local", LocalPath: t.TempDir()}})
	require.NoError(t, err)
	assert.Equal(t, "local", p.Name())

	_, err = New(context.Background(), &config.Config{Storage: config.StorageConfig{Driver: "ftp"}})
	assert.Error(t, err)

	_, err = New(context.Background(), &config.Config{Storage: config.StorageConfig{Driver: "s3"}})
	assert.Error(t, err)
}
