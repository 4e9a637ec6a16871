package memory

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"
)

// ObjectStore keeps uploads in process memory for local development when no
// S3-compatible store is configured. Contents vanish on restart.
type ObjectStore struct {
	lg zerolog.Logger

	mu      sync.Mutex
	objects map[string][]byte
}

func NewObjectStore(lg zerolog.Logger) *ObjectStore {
	return &ObjectStore{
		lg:      lg.With().Str("component", "memory_object_store").Logger(),
		objects: map[string][]byte{},
	}
}

func (s *ObjectStore) Put(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	s.lg.Info().Str("key", key).Int("bytes", len(data)).Msg("object stored in memory")
	return "memory://" + key, nil
}

func (s *ObjectStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}
