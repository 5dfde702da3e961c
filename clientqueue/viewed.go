package clientqueue

import (
	"encoding/json"
	"os"
	"sync"
)

// FileViewedStore persists viewed record ids to a JSON file, loaded once at
// open and rewritten on every Add.
type FileViewedStore struct {
	mu   sync.Mutex
	path string
	ids  map[string]struct{}
}

func OpenFileViewedStore(path string) (*FileViewedStore, error) {
	s := &FileViewedStore{
		path: path,
		ids:  map[string]struct{}{},
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	var ids []string
	if err = json.Unmarshal(data, &ids); err != nil {
		// corrupt state file, start over
		return s, nil
	}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s, nil
}

func (s *FileViewedStore) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

func (s *FileViewedStore) Add(ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s.flushLocked()
}

func (s *FileViewedStore) flushLocked() error {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// MemoryViewedStore keeps viewed ids in memory only, for tests and
// ephemeral sessions.
type MemoryViewedStore struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func NewMemoryViewedStore() *MemoryViewedStore {
	return &MemoryViewedStore{ids: map[string]struct{}{}}
}

func (s *MemoryViewedStore) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

func (s *MemoryViewedStore) Add(ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return nil
}
