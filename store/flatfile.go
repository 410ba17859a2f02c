package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/zhangyunhao116/skipmap"
)

// FlatFileStore keeps each collection as a JSON array in its own file.
//
// Layout:
//
//	dir/
//	  authors.json   # "authors" collection
//	  books.json     # "books" collection
//
// Every mutation rewrites the whole file through a temp file and a rename,
// so readers only ever see a complete array. Operations on one collection
// are serialized by a per-collection lock; sequences of operations are not.
type FlatFileStore struct {
	dir   string
	locks *skipmap.StringMap[*sync.RWMutex]
}

// NewFlatFileStore roots a store at dir, creating the directory if needed.
func NewFlatFileStore(dir string) (*FlatFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FlatFileStore{dir: dir, locks: skipmap.NewString[*sync.RWMutex]()}, nil
}

func (s *FlatFileStore) collectionPath(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *FlatFileStore) lockFor(name string) *sync.RWMutex {
	mu, _ := s.locks.LoadOrStore(name, &sync.RWMutex{})
	return mu
}

func (s *FlatFileStore) exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// writeFile replaces path with data via a sibling temp file.
func (s *FlatFileStore) writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// load returns the collection at path, or ErrCollectionNotFound.
func (s *FlatFileStore) load(name, path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(name)
		}
		return nil, err
	}
	return parseCollection(data), nil
}

func (s *FlatFileStore) save(path string, items []json.RawMessage) error {
	b, err := marshalCollection(items)
	if err != nil {
		return err
	}
	return s.writeFile(path, b)
}

func (s *FlatFileStore) Create(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	mu := s.lockFor(name)
	mu.Lock()
	defer mu.Unlock()
	path := s.collectionPath(name)
	ok, err := s.exists(path)
	if err != nil || ok {
		return err
	}
	return s.writeFile(path, []byte("[]"))
}

func (s *FlatFileStore) Read(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	mu := s.lockFor(name)
	mu.RLock()
	defer mu.RUnlock()
	data, err := os.ReadFile(s.collectionPath(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", notFound(name)
		}
		return "", err
	}
	return string(data), nil
}

func (s *FlatFileStore) Insert(record any, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	mu := s.lockFor(name)
	mu.Lock()
	defer mu.Unlock()
	path := s.collectionPath(name)
	items, err := s.load(name, path)
	if err != nil {
		return err
	}
	return s.save(path, append(items, raw))
}

func (s *FlatFileStore) Update(records any, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	items, err := encodeRecords(records)
	if err != nil {
		return err
	}
	mu := s.lockFor(name)
	mu.Lock()
	defer mu.Unlock()
	path := s.collectionPath(name)
	ok, err := s.exists(path)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(name)
	}
	return s.save(path, items)
}

func (s *FlatFileStore) Delete(record any, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	mu := s.lockFor(name)
	mu.Lock()
	defer mu.Unlock()
	path := s.collectionPath(name)
	items, err := s.load(name, path)
	if err != nil {
		return err
	}
	kept, err := removeMatching(items, record)
	if err != nil {
		return err
	}
	return s.save(path, kept)
}

func (s *FlatFileStore) Drop(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	mu := s.lockFor(name)
	mu.Lock()
	defer mu.Unlock()
	err := os.Remove(s.collectionPath(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
