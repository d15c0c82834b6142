// Package objstore stores stimulus image binaries on S3 compatible storage or a local directory.
package objstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/huangsam/douremember/internal/contract"
	"github.com/huangsam/douremember/schema"
)

// ErrForeignURL is returned when a URL does not point into the configured bucket.
var ErrForeignURL = errors.New("url does not belong to the storage bucket")

// PublicURL joins the public base and a key.
func PublicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

// KeyFromURL strips the public bucket prefix from a URL to recover the storage key.
func KeyFromURL(base, publicURL string) (string, error) {
	prefix := strings.TrimRight(base, "/") + "/"
	if base == "" || !strings.HasPrefix(publicURL, prefix) {
		return "", fmt.Errorf("%w: %s", ErrForeignURL, publicURL)
	}
	key := strings.TrimPrefix(publicURL, prefix)
	// Query strings are added by some CDNs for cache busting
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if key == "" {
		return "", fmt.Errorf("%w: %s", ErrForeignURL, publicURL)
	}
	return key, nil
}

// New creates the object storage selected by the config.
func New(cfg *contract.Config) (contract.ObjectStorage, error) {
	switch cfg.StorageBackend {
	case schema.S3Storage:
		return NewS3Storage(S3Options{
			Endpoint:      cfg.S3Endpoint,
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.PublicBaseURL,
		})
	case schema.LocalStorage:
		return NewLocalStorage(cfg.StorageDir, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.StorageBackend)
	}
}
