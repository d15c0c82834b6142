package datastore

import (
	"context"

	"github.com/huangsam/douremember/internal/contract"
	"github.com/huangsam/douremember/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetDataStore implements the StoreManager interface.
func (m *MockStoreManager) GetDataStore() contract.DataStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.DataStore)
	return store
}

// MockDataStore is a mock implementation of DataStore for testing.
type MockDataStore struct {
	mock.Mock
}

var _ contract.DataStore = &MockDataStore{} // Compile-time check

// InsertReport implements the DataStore interface.
func (m *MockDataStore) InsertReport(ctx context.Context, report schema.Report) (schema.Report, error) {
	args := m.Called(ctx, report)
	return args.Get(0).(schema.Report), args.Error(1)
}

// ListReports implements the DataStore interface.
func (m *MockDataStore) ListReports(ctx context.Context, userID string) ([]schema.ReportRecord, error) {
	args := m.Called(ctx, userID)
	records, _ := args.Get(0).([]schema.ReportRecord)
	return records, args.Error(1)
}

// LatestReport implements the DataStore interface.
func (m *MockDataStore) LatestReport(ctx context.Context, userID string) (*schema.Report, error) {
	args := m.Called(ctx, userID)
	report, _ := args.Get(0).(*schema.Report)
	return report, args.Error(1)
}

// DeleteReport implements the DataStore interface.
func (m *MockDataStore) DeleteReport(ctx context.Context, reportID string) error {
	args := m.Called(ctx, reportID)
	return args.Error(0)
}

// CountReports implements the DataStore interface.
func (m *MockDataStore) CountReports(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// InsertImage implements the DataStore interface.
func (m *MockDataStore) InsertImage(ctx context.Context, image schema.Image) (schema.Image, error) {
	args := m.Called(ctx, image)
	return args.Get(0).(schema.Image), args.Error(1)
}

// GetImage implements the DataStore interface.
func (m *MockDataStore) GetImage(ctx context.Context, imageID string) (*schema.Image, error) {
	args := m.Called(ctx, imageID)
	img, _ := args.Get(0).(*schema.Image)
	return img, args.Error(1)
}

// UpdateImage implements the DataStore interface.
func (m *MockDataStore) UpdateImage(ctx context.Context, image schema.Image) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

// DeleteImage implements the DataStore interface.
func (m *MockDataStore) DeleteImage(ctx context.Context, imageID string) error {
	args := m.Called(ctx, imageID)
	return args.Error(0)
}

// ListImages implements the DataStore interface.
func (m *MockDataStore) ListImages(ctx context.Context, groupID string) ([]schema.Image, error) {
	args := m.Called(ctx, groupID)
	images, _ := args.Get(0).([]schema.Image)
	return images, args.Error(1)
}

// InsertGroup implements the DataStore interface.
func (m *MockDataStore) InsertGroup(ctx context.Context, group schema.Group) (schema.Group, error) {
	args := m.Called(ctx, group)
	return args.Get(0).(schema.Group), args.Error(1)
}

// FindGroupForUser implements the DataStore interface.
func (m *MockDataStore) FindGroupForUser(ctx context.Context, userID string) (*schema.Group, error) {
	args := m.Called(ctx, userID)
	group, _ := args.Get(0).(*schema.Group)
	return group, args.Error(1)
}

// UpsertProfile implements the DataStore interface.
func (m *MockDataStore) UpsertProfile(ctx context.Context, profile schema.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// GetProfile implements the DataStore interface.
func (m *MockDataStore) GetProfile(ctx context.Context, profileID string) (*schema.Profile, error) {
	args := m.Called(ctx, profileID)
	profile, _ := args.Get(0).(*schema.Profile)
	return profile, args.Error(1)
}

// GetStatus implements the DataStore interface.
func (m *MockDataStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the DataStore interface.
func (m *MockDataStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
