package secrets

// MemoryStore keeps records in a map and never touches disk.
type MemoryStore struct {
	entries map[string]Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Record)}
}

func (s *MemoryStore) Put(secret string, rec Record) error {
	s.entries[secret] = rec
	return nil
}

func (s *MemoryStore) Get(secret string) (Record, error) {
	rec, ok := s.entries[secret]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) Delete(secret string) error {
	delete(s.entries, secret)
	return nil
}

func (s *MemoryStore) OrderedKeys() ([]string, error) {
	return sortedKeys(s.entries), nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
