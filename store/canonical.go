package store

import (
	"encoding/json"
	"errors"
	"fmt"
)

var errNotArray = errors.New("records must serialize to a JSON array")

// canonical encodes v with object keys sorted and numbers in their shortest
// form, so two records holding the same fields compare equal whatever their
// field order, Go type or number spelling (1.0 and 1, 10.50 and 10.5).
func canonical(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return canonicalJSON(b)
}

func canonicalJSON(b []byte) (string, error) {
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return "", err
	}
	out, err := json.Marshal(generic)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// parseCollection decodes stored content. Anything that is not a JSON array
// reads as an empty collection.
func parseCollection(data []byte) []json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil || items == nil {
		return []json.RawMessage{}
	}
	return items
}

// encodeRecords turns a caller-supplied slice into raw elements.
func encodeRecords(records any) ([]json.RawMessage, error) {
	b, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", errNotArray, err)
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return items, nil
}

// removeMatching drops every element structurally equal to record.
func removeMatching(items []json.RawMessage, record any) ([]json.RawMessage, error) {
	want, err := canonical(record)
	if err != nil {
		return nil, err
	}
	kept := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		got, err := canonicalJSON(item)
		if err == nil && got == want {
			continue
		}
		kept = append(kept, item)
	}
	return kept, nil
}

// marshalCollection renders a collection the way it is kept on disk.
func marshalCollection(items []json.RawMessage) ([]byte, error) {
	if items == nil {
		items = []json.RawMessage{}
	}
	return json.MarshalIndent(items, "", "  ")
}
