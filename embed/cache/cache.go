// Package cache stores computed embedding vectors keyed by a hash of the
// exact text content. The mapping is a pure function of the text, so a key is
// only ever overwritten with an identical value; entries live until an
// explicit Clear.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"sync"
)

// Store is a key-value store for embedding vectors.
type Store interface {
	// Get returns the cached vector for key, with found=false on a miss.
	Get(ctx context.Context, key string) ([]float32, bool, error)
	// Put stores the vector under key, overwriting any existing value.
	Put(ctx context.Context, key string, vector []float32) error
	// Clear removes all cached vectors.
	Clear(ctx context.Context) error
	// Close releases backend resources.
	Close() error
}

// Key returns the cache key for a text: the hex SHA-256 of its exact bytes.
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Encode serializes a vector as little-endian float32 bytes.
func Encode(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// Decode deserializes a vector produced by Encode.
func Decode(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid vector encoding: %d bytes", len(data))
	}
	vector := make([]float32, len(data)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vector, nil
}

// MemoryStore is an in-memory Store, safe for concurrent use. Intended for
// tests and single-process development runs.
type MemoryStore struct {
	mu      sync.RWMutex
	vectors map[string][]float32
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		vectors: make(map[string][]float32),
	}
}

// Get returns the cached vector for key.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]float32, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vector, ok := s.vectors[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]float32, len(vector))
	copy(out, vector)
	return out, true, nil
}

// Put stores a vector under key.
func (s *MemoryStore) Put(ctx context.Context, key string, vector []float32) error {
	stored := make([]float32, len(vector))
	copy(stored, vector)

	s.mu.Lock()
	s.vectors[key] = stored
	s.mu.Unlock()
	return nil
}

// Clear removes all entries.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.vectors = make(map[string][]float32)
	s.mu.Unlock()
	return nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// Len reports the number of cached vectors.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}
