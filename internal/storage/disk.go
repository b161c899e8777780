// Package storage stores uploaded images on the local filesystem or on an
// S3-compatible bucket and hands back their public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/MikeMC777/catering-ecom/internal/config"
)

var ErrUnsupportedImage = errors.New("unsupported image type")

// Disk is the object store used for avatars and product images.
type Disk interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// New returns the disk selected by cfg.Disk.
func New(ctx context.Context, cfg config.StorageConfig) (Disk, error) {
	switch cfg.Disk {
	case "", "local":
		return NewLocalDisk(cfg.LocalRoot, cfg.LocalURL)
	case "s3":
		return NewS3Disk(ctx, cfg)
	}
	return nil, fmt.Errorf("storage: unknown disk %q", cfg.Disk)
}

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ImageKey builds a fresh object key under dir for an upload named
// filename and returns it with the content type implied by its extension.
func ImageKey(dir, filename string) (key, contentType string, err error) {
	ext := strings.ToLower(path.Ext(filename))
	ct, ok := imageTypes[ext]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedImage, ext)
	}
	return path.Join(dir, uuid.NewString()+ext), ct, nil
}

// KeyFromURL recovers the object key from a URL produced by d.URL. It
// returns "" for URLs that do not belong to d.
func KeyFromURL(d Disk, url string) string {
	prefix := strings.TrimSuffix(d.URL(""), "/") + "/"
	if url == "" || !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}
