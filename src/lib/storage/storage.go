package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"voyagemate/src/config"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Provider stores journal images and other uploaded files.
type Provider interface {
	Name() string
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(ctx context.Context, key string) (string, error)
}

// NewKey builds a collision free object key under dir that keeps a readable
// form of the original file name, e.g. journal-images/<uuid>-beach-day.jpg.
func NewKey(dir, originalName string) string {
	ext := strings.ToLower(path.Ext(originalName))
	base := slug.Make(strings.TrimSuffix(path.Base(originalName), path.Ext(originalName)))
	name := uuid.NewString()
	if base != "" {
		name = fmt.Sprintf("%s-%s", name, base)
	}
	return path.Join(dir, name+ext)
}

// New returns the provider selected by STORAGE_DRIVER.
func New(ctx context.Context, c *config.Config) (Provider, error) {
	switch c.Storage.Driver {
	case "", "local":
		return NewLocal(c.Storage.LocalPath, c.Storage.PublicURL), nil
	case "s3":
		return NewS3FromConfig(c.S3.AssetsBucket)
	case "minio":
		return NewMinio(ctx, c.Minio)
	}
	return nil, fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
}
