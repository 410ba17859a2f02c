package store

import (
	"encoding/json"
	"sync"

	"github.com/zhangyunhao116/skipmap"
)

// MemoryStore keeps collections in memory. Data is lost on restart.
// Safe for concurrent use: reads load a collection without locking, writes
// are serialized by mu and replace the stored slice.
type MemoryStore struct {
	mu          sync.Mutex
	collections *skipmap.StringMap[[]json.RawMessage]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: skipmap.NewString[[]json.RawMessage]()}
}

func (m *MemoryStore) Create(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	m.collections.LoadOrStore(name, []json.RawMessage{})
	return nil
}

func (m *MemoryStore) Read(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	items, ok := m.collections.Load(name)
	if !ok {
		return "", notFound(name)
	}
	b, err := marshalCollection(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (m *MemoryStore) Insert(record any, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	items, ok := m.collections.Load(name)
	if !ok {
		return notFound(name)
	}
	next := make([]json.RawMessage, len(items), len(items)+1)
	copy(next, items)
	m.collections.Store(name, append(next, raw))
	return nil
}

func (m *MemoryStore) Update(records any, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	items, err := encodeRecords(records)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections.Load(name); !ok {
		return notFound(name)
	}
	m.collections.Store(name, items)
	return nil
}

func (m *MemoryStore) Delete(record any, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	items, ok := m.collections.Load(name)
	if !ok {
		return notFound(name)
	}
	kept, err := removeMatching(items, record)
	if err != nil {
		return err
	}
	m.collections.Store(name, kept)
	return nil
}

func (m *MemoryStore) Drop(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections.Delete(name)
	return nil
}
