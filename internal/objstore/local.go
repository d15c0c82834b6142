package objstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/douremember/internal/contract"
)

// LocalStorage keeps objects as files under a root directory.
type LocalStorage struct {
	root       string
	publicBase string
}

var _ contract.ObjectStorage = &LocalStorage{} // Compile-time check

// NewLocalStorage creates the root directory if needed. An empty public base
// serves objects as file:// URLs.
func NewLocalStorage(root, publicBase string) (*LocalStorage, error) {
	if root == "" {
		root = contract.GetStorageDirPath()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage dir %s: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir %s: %w", abs, err)
	}
	if publicBase == "" {
		publicBase = "file://" + filepath.ToSlash(abs)
	}
	return &LocalStorage{root: abs, publicBase: publicBase}, nil
}

func (l *LocalStorage) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || clean == ".." {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(l.root, clean), nil
}

// Upload writes the object and returns its public URL.
func (l *LocalStorage) Upload(_ context.Context, key, _ string, data []byte) (string, error) {
	p, err := l.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("failed to create object dir: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write object %s: %w", key, err)
	}
	return PublicURL(l.publicBase, key), nil
}

// Delete removes the object. Missing objects are ignored.
func (l *LocalStorage) Delete(_ context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// KeyFromURL recovers the key of an object uploaded by this storage.
func (l *LocalStorage) KeyFromURL(publicURL string) (string, error) {
	return KeyFromURL(l.publicBase, publicURL)
}

// Root returns the directory holding the objects.
func (l *LocalStorage) Root() string { return l.root }
