package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/douremember/internal/contract"
	"github.com/huangsam/douremember/schema"
)

// Image validation errors.
var (
	ErrImageTooLarge    = errors.New("image is too large")
	ErrUnsupportedImage = errors.New("unsupported image type")
)

// MaxImageSize is the largest accepted upload in bytes (5 MB).
const MaxImageSize = 5 * 1024 * 1024

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

var allowedImageExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"webp": {},
}

// ImageUpload is a picture binary to store.
type ImageUpload struct {
	Filename    string
	ContentType string // sniffed from Data when empty
	Data        []byte
}

func (u ImageUpload) contentType() string {
	if u.ContentType != "" {
		return u.ContentType
	}
	ct := http.DetectContentType(u.Data)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return ct
}

// FormatFileSize renders a byte count as "2.5 MB".
func FormatFileSize(size int64) string {
	if size <= 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	i := min(int(math.Floor(math.Log(float64(size))/math.Log(1024))), len(units)-1)
	value := roundTo(float64(size)/math.Pow(1024, float64(i)), 2)
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + units[i]
}

// ValidateImage checks the type and size limits of an upload.
func ValidateImage(filename, contentType string, size int64) error {
	if _, ok := allowedImageTypes[contentType]; !ok {
		return fmt.Errorf("%w: %q (allowed: JPEG, PNG, WebP)", ErrUnsupportedImage, contentType)
	}
	if _, ok := allowedImageExtensions[fileExtension(filename)]; !ok {
		return fmt.Errorf("%w: extension of %q", ErrUnsupportedImage, filename)
	}
	if size > MaxImageSize {
		return fmt.Errorf("%w: %s (max 5 MB)", ErrImageTooLarge, FormatFileSize(size))
	}
	return nil
}

func fileExtension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
}

// UniqueObjectKey builds "<group>/<unixmillis>_<random>.<ext>".
func UniqueObjectKey(groupID, filename string, now time.Time, rng *rand.Rand) string {
	name := fmt.Sprintf("%d_%s.%s", now.UnixMilli(), strconv.FormatUint(rng.Uint64(), 36), fileExtension(filename))
	if groupID == "" {
		return name
	}
	return groupID + "/" + name
}

// ImageService manages stimulus images and their stored binaries.
// At most one stored object backs an image row at any time, except for the
// leak tolerated when deleting a replaced object fails.
type ImageService struct {
	images  contract.ImageStore
	storage contract.ObjectStorage
	now     func() time.Time
	rng     *rand.Rand
}

// NewImageService creates an ImageService.
func NewImageService(images contract.ImageStore, storage contract.ObjectStorage) *ImageService {
	return &ImageService{
		images:  images,
		storage: storage,
		now:     time.Now,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

func (s *ImageService) upload(ctx context.Context, groupID string, up ImageUpload) (string, string, error) {
	ct := up.contentType()
	if err := ValidateImage(up.Filename, ct, int64(len(up.Data))); err != nil {
		return "", "", err
	}
	key := UniqueObjectKey(groupID, up.Filename, s.now(), s.rng)
	url, err := s.storage.Upload(ctx, key, ct, up.Data)
	if err != nil {
		return "", "", fmt.Errorf("failed to upload image: %w", err)
	}
	return key, url, nil
}

// Create uploads the binary and then inserts the row. When the insert fails the
// uploaded object is removed on a best-effort basis.
func (s *ImageService) Create(ctx context.Context, groupID, description string, up ImageUpload) (schema.Image, error) {
	if strings.TrimSpace(description) == "" {
		return schema.Image{}, ErrEmptyDescription
	}
	key, url, err := s.upload(ctx, groupID, up)
	if err != nil {
		return schema.Image{}, err
	}

	img, err := s.images.InsertImage(ctx, schema.Image{GroupID: groupID, Description: description, URL: url})
	if err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			contract.LogWarn(fmt.Sprintf("Failed to remove uploaded object %s", key), delErr)
		}
		return schema.Image{}, fmt.Errorf("failed to save image: %w", err)
	}
	return img, nil
}

// Replace updates an image. With a new binary, the new object is uploaded and
// the row repointed before the old object is deleted; failing to delete the old
// object only leaks it.
func (s *ImageService) Replace(ctx context.Context, imageID, description string, up *ImageUpload) (schema.Image, error) {
	current, err := s.images.GetImage(ctx, imageID)
	if err != nil {
		return schema.Image{}, fmt.Errorf("failed to load image: %w", err)
	}
	if current == nil {
		return schema.Image{}, fmt.Errorf("image %q: %w", imageID, contract.ErrNotFound)
	}

	updated := *current
	if strings.TrimSpace(description) != "" {
		updated.Description = description
	}

	var newKey string
	if up != nil {
		newKey, updated.URL, err = s.upload(ctx, current.GroupID, *up)
		if err != nil {
			return schema.Image{}, err
		}
	}

	if err := s.images.UpdateImage(ctx, updated); err != nil {
		if newKey != "" {
			if delErr := s.storage.Delete(ctx, newKey); delErr != nil {
				contract.LogWarn(fmt.Sprintf("Failed to remove uploaded object %s", newKey), delErr)
			}
		}
		return schema.Image{}, fmt.Errorf("failed to update image: %w", err)
	}

	if newKey != "" && current.URL != updated.URL {
		s.removeObject(ctx, current.URL)
	}
	return updated, nil
}

// Delete removes the row and then its stored object.
func (s *ImageService) Delete(ctx context.Context, imageID string) error {
	current, err := s.images.GetImage(ctx, imageID)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	if current == nil {
		return fmt.Errorf("image %q: %w", imageID, contract.ErrNotFound)
	}
	if err := s.images.DeleteImage(ctx, imageID); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	s.removeObject(ctx, current.URL)
	return nil
}

// List returns the images of a group.
func (s *ImageService) List(ctx context.Context, groupID string) ([]schema.Image, error) {
	images, err := s.images.ListImages(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return images, nil
}

// removeObject deletes the object behind a public URL, logging failures.
func (s *ImageService) removeObject(ctx context.Context, publicURL string) {
	key, err := s.storage.KeyFromURL(publicURL)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("Cannot derive storage key from %s", publicURL), err)
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		contract.LogWarn(fmt.Sprintf("Failed to delete stored object %s", key), err)
	}
}
