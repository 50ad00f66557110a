package testfixtures

import (
	"context"
	"sync"
)

// ObjectStore keeps uploads in memory and serves them from a fake CDN.
type ObjectStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Types   map[string]string
}

func NewObjectStore() *ObjectStore {
	return &ObjectStore{
		Objects: map[string][]byte{},
		Types:   map[string]string{},
	}
}

func (s *ObjectStore) Put(_ context.Context, key, contentType string, body []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Objects[key] = body
	s.Types[key] = contentType
	return "https://cdn.test/" + key, nil
}

func (s *ObjectStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.Objects, key)
	delete(s.Types, key)
	return nil
}
