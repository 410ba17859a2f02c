// Package table provides typed, identifier-managing services over store
// collections, one per bookstore entity.
package table

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/stevemurr/bookstore-inventory/store"
)

// Definition describes how an entity maps onto a collection.
type Definition[T any] struct {
	// Collection is the store collection name, e.g. "authors".
	Collection string
	// IDField is the JSON key holding the identifier, e.g. "author_id".
	IDField string
	// ID reads the identifier field of a record.
	ID func(T) int64
	// SetID writes the identifier field of a record.
	SetID func(*T, int64)
	// NotFound is returned when no record has the requested identifier.
	NotFound error
}

// Table is a generic table service. It owns the identifier counter for its
// collection: the counter starts at max(existing id)+1 and only grows, so
// identifiers are never reused by one Table. Two Tables over the same
// collection each keep their own counter and may hand out the same id.
//
// Update and Delete read the collection, then write it back; a concurrent
// writer between the two steps is silently overwritten.
type Table[T any] struct {
	store store.Store
	def   Definition[T]

	mu     sync.Mutex
	nextID int64
}

// New creates the collection if needed and recovers the counter from the
// records already stored.
func New[T any](s store.Store, def Definition[T]) (*Table[T], error) {
	if err := s.Create(def.Collection); err != nil {
		return nil, fmt.Errorf("create collection %q: %w", def.Collection, err)
	}
	t := &Table[T]{store: s, def: def}
	t.nextID = t.recoverNextID()
	return t, nil
}

func (t *Table[T]) recoverNextID() int64 {
	var highest int64
	for _, rec := range t.All() {
		if id := t.def.ID(rec); id > highest {
			highest = id
		}
	}
	return highest + 1
}

// Collection returns the backing collection name.
func (t *Table[T]) Collection() string {
	return t.def.Collection
}

// Create assigns the next identifier to rec and stores it. The counter only
// advances once the insert succeeded.
func (t *Table[T]) Create(rec T) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.def.SetID(&rec, t.nextID)
	if err := t.store.Insert(rec, t.def.Collection); err != nil {
		var zero T
		return zero, err
	}
	t.nextID++
	return rec, nil
}

// All returns every record. A collection that is missing or cannot be
// decoded reads as empty.
func (t *Table[T]) All() []T {
	recs, err := store.ReadAll[T](t.store, t.def.Collection)
	if err != nil || recs == nil {
		return []T{}
	}
	return recs
}

// Get returns the record with the given identifier.
func (t *Table[T]) Get(id int64) (T, error) {
	for _, rec := range t.All() {
		if t.def.ID(rec) == id {
			return rec, nil
		}
	}
	var zero T
	return zero, t.def.NotFound
}

// rawRecords returns the stored elements exactly as written. A collection
// that is missing or not an array reads as empty.
func (t *Table[T]) rawRecords() []json.RawMessage {
	content, err := t.store.Read(t.def.Collection)
	if err != nil {
		return []json.RawMessage{}
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(content), &items); err != nil || items == nil {
		return []json.RawMessage{}
	}
	return items
}

// find returns the position of the first element carrying id, or -1.
func (t *Table[T]) find(items []json.RawMessage, id int64) int {
	for i, item := range items {
		var rec T
		if err := json.Unmarshal(item, &rec); err != nil {
			continue
		}
		if t.def.ID(rec) == id {
			return i
		}
	}
	return -1
}

// Update merges the fields present in patch over the record with the given
// identifier and rewrites the collection. patch is any value whose JSON form
// is an object; absent keys keep their stored value. The identifier itself
// cannot be changed. Other records are written back untouched, including
// keys T does not declare.
func (t *Table[T]) Update(id int64, patch any) (T, error) {
	var zero T
	items := t.rawRecords()
	i := t.find(items, id)
	if i < 0 {
		return zero, t.def.NotFound
	}
	merged, err := merge(items[i], patch, t.def.IDField)
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return zero, err
	}
	items[i] = merged
	if err := t.store.Update(items, t.def.Collection); err != nil {
		return zero, err
	}
	return out, nil
}

// Delete removes the record with the given identifier. The stored element is
// handed to the store as written so the structural match is exact.
func (t *Table[T]) Delete(id int64) error {
	items := t.rawRecords()
	i := t.find(items, id)
	if i < 0 {
		return t.def.NotFound
	}
	return t.store.Delete(items[i], t.def.Collection)
}

// merge overlays the top-level keys of patch onto the stored object, leaving
// the key named keep as stored.
func merge(stored json.RawMessage, patch any, keep string) (json.RawMessage, error) {
	fields, err := objectFields(stored)
	if err != nil {
		return nil, err
	}
	changes, err := objectFields(patch)
	if err != nil {
		return nil, fmt.Errorf("patch: %w", err)
	}
	for k, v := range changes {
		if k == keep {
			continue
		}
		fields[k] = v
	}
	return json.Marshal(fields)
}

func objectFields(v any) (map[string]json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	return fields, nil
}
