package objstore

import (
	"context"

	"github.com/huangsam/douremember/internal/contract"
	"github.com/stretchr/testify/mock"
)

// MockObjectStorage is a mock implementation of ObjectStorage for testing.
type MockObjectStorage struct {
	mock.Mock
}

var _ contract.ObjectStorage = &MockObjectStorage{} // Compile-time check

// Upload implements the ObjectStorage interface.
func (m *MockObjectStorage) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, key, contentType, data)
	return args.String(0), args.Error(1)
}

// Delete implements the ObjectStorage interface.
func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// KeyFromURL implements the ObjectStorage interface.
func (m *MockObjectStorage) KeyFromURL(publicURL string) (string, error) {
	args := m.Called(publicURL)
	return args.String(0), args.Error(1)
}
