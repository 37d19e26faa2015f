package memstore

import (
	"sort"
	"sync"

	"sigdump/internal/domain"
)

// MemoryStore keeps results for the lifetime of one process. It backs runs with the
// on-disk cache disabled.
type MemoryStore struct {
	mu      sync.RWMutex
	results map[string]domain.DocumentResult
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		results: make(map[string]domain.DocumentResult),
	}
}

func (s *MemoryStore) PutResult(result domain.DocumentResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	result.Signatures = append([]string(nil), result.Signatures...)
	s.results[result.Document.Path] = result
	return nil
}

func (s *MemoryStore) GetResult(path string) (domain.DocumentResult, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[path]
	return result, ok, nil
}

func (s *MemoryStore) DeleteResult(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.results, path)
	return nil
}

func (s *MemoryStore) ListResults() ([]domain.DocumentResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]domain.DocumentResult, 0, len(s.results))
	for _, r := range s.results {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Document.Path < results[j].Document.Path
	})
	return results, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
