package storage

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"
)

// MemoryStatementArchive keeps statements in process memory. It backs local
// development with storage disabled and tests.
type MemoryStatementArchive struct {
	// BaseURL prefixes generated download URLs
	BaseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	body        []byte
	contentType string
}

// NewMemoryStatementArchive creates an empty in-memory archive
func NewMemoryStatementArchive() *MemoryStatementArchive {
	return &MemoryStatementArchive{
		BaseURL: "memory://statements",
		objects: make(map[string]memoryObject),
	}
}

// Put stores a copy of body under key
func (m *MemoryStatementArchive) Put(_ context.Context, key string, body []byte, contentType string) error {
	if key == "" {
		return ErrKeyRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{body: append([]byte(nil), body...), contentType: contentType}
	return nil
}

// PresignGet returns a pseudo URL for a stored key
func (m *MemoryStatementArchive) PresignGet(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrKeyRequired
	}
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return "", time.Time{}, fmt.Errorf("object %s not found", key)
	}
	expiresAt := time.Now().Add(expiresIn)
	return fmt.Sprintf("%s/%s?expires=%d", m.BaseURL, url.PathEscape(key), expiresAt.Unix()), expiresAt, nil
}

// Get returns the stored body and content type
func (m *MemoryStatementArchive) Get(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj.body, obj.contentType, ok
}
