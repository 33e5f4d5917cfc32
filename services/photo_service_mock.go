package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"sync"

	"github.com/cachapa/comanda-api/utils"
)

// MockPhotoService is an in-memory PhotoService for tests.
type MockPhotoService struct {
	photos map[string][]byte
	mu     sync.RWMutex
}

// NewMockPhotoService creates an empty mock photo store.
func NewMockPhotoService() *MockPhotoService {
	return &MockPhotoService{photos: make(map[string][]byte)}
}

// SetAsMockForTesting installs this mock as the global photo service.
func (m *MockPhotoService) SetAsMockForTesting() {
	SetPhotoService(m)
}

// UploadPhoto validates and stores the file in memory.
func (m *MockPhotoService) UploadPhoto(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := fmt.Sprintf("menu/mock_%s", fileHeader.Filename)
	m.mu.Lock()
	m.photos[key] = content
	m.mu.Unlock()
	return key, nil
}

// PhotoURL returns a mock URL for a stored key.
func (m *MockPhotoService) PhotoURL(key string) (string, error) {
	if key == "" {
		return "", nil
	}
	m.mu.RLock()
	_, exists := m.photos[key]
	m.mu.RUnlock()
	if !exists {
		return "", fmt.Errorf("photo not found: %s", key)
	}
	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", key), nil
}

// DeletePhoto removes a stored key.
func (m *MockPhotoService) DeletePhoto(key string) error {
	m.mu.Lock()
	delete(m.photos, key)
	m.mu.Unlock()
	return nil
}

// PhotoExists reports whether a key is stored (for test assertions).
func (m *MockPhotoService) PhotoExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.photos[key]
	return exists
}
