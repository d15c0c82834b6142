// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"

	"github.com/huangsam/douremember/schema"
)

// ErrNotFound is returned by stores when an update or delete matches no row.
var ErrNotFound = errors.New("record not found")

// ReportStore defines storage operations for evaluation reports.
// Reports are append-only from the session's point of view.
type ReportStore interface {
	// InsertReport stores a new report and returns it with its assigned ID.
	InsertReport(ctx context.Context, report schema.Report) (schema.Report, error)

	// ListReports returns a user's reports, newest first, joined with the owner's name.
	ListReports(ctx context.Context, userID string) ([]schema.ReportRecord, error)

	// LatestReport returns the newest report of a user, or nil when there is none.
	LatestReport(ctx context.Context, userID string) (*schema.Report, error)

	// DeleteReport removes a report by ID.
	DeleteReport(ctx context.Context, reportID string) error

	// CountReports returns the number of reports a user owns.
	CountReports(ctx context.Context, userID string) (int, error)
}

// ImageStore defines storage operations for stimulus image records.
type ImageStore interface {
	InsertImage(ctx context.Context, image schema.Image) (schema.Image, error)
	GetImage(ctx context.Context, imageID string) (*schema.Image, error)
	UpdateImage(ctx context.Context, image schema.Image) error
	DeleteImage(ctx context.Context, imageID string) error
	ListImages(ctx context.Context, groupID string) ([]schema.Image, error)
}

// GroupStore defines storage operations for care groups.
type GroupStore interface {
	InsertGroup(ctx context.Context, group schema.Group) (schema.Group, error)

	// FindGroupForUser returns the first group where the user is doctor, caregiver
	// or patient, or nil when the user belongs to none.
	FindGroupForUser(ctx context.Context, userID string) (*schema.Group, error)
}

// ProfileStore defines storage operations for user profiles.
type ProfileStore interface {
	UpsertProfile(ctx context.Context, profile schema.Profile) error

	// GetProfile returns the profile or nil when it does not exist.
	GetProfile(ctx context.Context, profileID string) (*schema.Profile, error)
}

// SessionStore is what the daily test session needs from storage.
type SessionStore interface {
	ReportStore
	ImageStore
	GroupStore
}

// DataStore is the full relational store.
type DataStore interface {
	ReportStore
	ImageStore
	GroupStore
	ProfileStore

	// GetStatus returns status information about the store
	GetStatus(ctx context.Context) (schema.StoreStatus, error)

	// Close closes the underlying connection
	Close() error
}

// StoreManager defines the interface for reaching the configured store.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetDataStore() DataStore
}

// ObjectStorage holds image binaries addressed by key.
type ObjectStorage interface {
	// Upload writes the object and returns its public URL.
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// KeyFromURL recovers the storage key from a public URL produced by Upload.
	KeyFromURL(publicURL string) (string, error)
}

// Scorer evaluates a batch of description pairs in a single call.
// The result holds one score object per pair, in the same order.
type Scorer interface {
	Score(ctx context.Context, pairs []schema.DescriptionPair) ([]schema.CriterionScores, error)
}
