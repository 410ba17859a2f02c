// Package store defines the persistence strategy interface and its backends.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCollectionNotFound is returned by every operation except Create and
	// Drop when the named collection has no backing store.
	ErrCollectionNotFound = errors.New("the path indicated does not exist")

	// ErrInvalidCollection is returned for names that cannot be mapped onto
	// a backing store.
	ErrInvalidCollection = errors.New("invalid collection name")
)

// Store is the persistence strategy every backend implements. A collection
// is an ordered sequence of JSON objects; records are any value that
// encoding/json can serialize to an object.
//
// Implementations make no promise about atomicity across calls: a caller
// that reads and then writes the same collection can race with another
// caller doing the same.
type Store interface {
	// Create makes sure the collection exists. It never touches existing
	// content.
	Create(name string) error

	// Insert appends record to the collection.
	Insert(record any, name string) error

	// Read returns the whole collection serialized as a JSON array.
	Read(name string) (string, error)

	// Update replaces the entire content of the collection with records,
	// which must serialize to a JSON array.
	Update(records any, name string) error

	// Delete removes every record whose JSON form equals record's.
	// Removing nothing is not an error.
	Delete(record any, name string) error

	// Drop discards the collection. Dropping a missing collection is a no-op.
	Drop(name string) error
}

// ReadAll reads a collection and decodes it into a slice of T.
func ReadAll[T any](s Store, name string) ([]T, error) {
	raw, err := s.Read(name)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode collection %q: %w", name, err)
	}
	return out, nil
}

func notFound(name string) error {
	return fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
}

func validateName(name string) error {
	switch {
	case name == "",
		strings.HasPrefix(name, "."),
		strings.ContainsAny(name, `/\`),
		strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q", ErrInvalidCollection, name)
	}
	return nil
}
