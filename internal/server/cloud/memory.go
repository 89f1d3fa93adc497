package cloud

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"
)

// MemoryStorage keeps objects in process. It backs the server when no S3
// endpoint is configured, and the tests.
type MemoryStorage struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string][]byte

	// FailWith, when set, is returned by every operation.
	FailWith error
}

func NewMemoryStorage(bucket string) *MemoryStorage {
	return &MemoryStorage{bucket: bucket, objects: make(map[string][]byte)}
}

func (m *MemoryStorage) Put(ctx context.Context, key string, body []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	m.objects[key] = append([]byte(nil), body...)
	return nil
}

func (m *MemoryStorage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailWith != nil {
		return "", m.FailWith
	}
	u := url.URL{
		Scheme:   "memory",
		Host:     m.bucket,
		Path:     "/" + key,
		RawQuery: url.Values{"expires": {fmt.Sprint(int64(ttl.Seconds()))}}.Encode(),
	}
	return u.String(), nil
}

func (m *MemoryStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	delete(m.objects, key)
	return nil
}

// Object returns the stored body of key.
func (m *MemoryStorage) Object(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.objects[key]
	return b, ok
}
