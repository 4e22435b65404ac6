package journal

import (
	"context"
	"sync"

	"github.com/kilianp07/castplan/core/model"
)

// MemoryStore keeps entries in memory for tests or lightweight usage.
type MemoryStore struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Append(_ context.Context, e Entry) error {
	e.Records = model.CloneRecords(e.Records)
	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Query(_ context.Context, q Query) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []Entry
	for _, e := range s.entries {
		if q.Match(e) {
			e.Records = model.CloneRecords(e.Records)
			res = append(res, e)
		}
	}
	return res, nil
}

func (s *MemoryStore) Close() error { return nil }
