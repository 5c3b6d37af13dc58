package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStorage keeps objects in a map. It is the test double for the
// bucket client and also records failed keys to simulate transfer errors.
type MemoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte

	// FailKeys lists keys whose Upload or Delete should fail.
	FailKeys map[string]bool
}

func NewMemory() *MemoryStorage {
	return &MemoryStorage{
		objects:  make(map[string][]byte),
		FailKeys: make(map[string]bool),
	}
}

func (s *MemoryStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if s.FailKeys[key] {
		return fmt.Errorf("storage: put %s: simulated failure", key)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *MemoryStorage) Delete(ctx context.Context, key string) error {
	if s.FailKeys[key] {
		return fmt.Errorf("storage: remove %s: simulated failure", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *MemoryStorage) PublicURL(key string) string {
	return "https://storage.test/bucket/" + key
}

// Has reports whether an object exists under key.
func (s *MemoryStorage) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

// Len returns the number of stored objects.
func (s *MemoryStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
