package store

import (
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

// BoltStore keeps each collection in its own bbolt bucket. Records are keyed
// by the bucket sequence, big-endian, so cursor order is insertion order.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

func bucketFor(tx *bbolt.Tx, name string) (*bbolt.Bucket, error) {
	b := tx.Bucket([]byte(name))
	if b == nil {
		return nil, notFound(name)
	}
	return b, nil
}

func appendRecord(b *bbolt.Bucket, raw []byte) error {
	seq, err := b.NextSequence()
	if err != nil {
		return err
	}
	return b.Put(seqKey(seq), raw)
}

func (s *BoltStore) Create(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(name))
		return err
	})
}

func (s *BoltStore) Read(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	items := []json.RawMessage{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		b, err := bucketFor(tx, name)
		if err != nil {
			return err
		}
		return b.ForEach(func(_, v []byte) error {
			items = append(items, append(json.RawMessage(nil), v...))
			return nil
		})
	})
	if err != nil {
		return "", err
	}
	out, err := marshalCollection(items)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (s *BoltStore) Insert(record any, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucketFor(tx, name)
		if err != nil {
			return err
		}
		return appendRecord(b, raw)
	})
}

func (s *BoltStore) Update(records any, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	items, err := encodeRecords(records)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := bucketFor(tx, name); err != nil {
			return err
		}
		if err := tx.DeleteBucket([]byte(name)); err != nil {
			return err
		}
		b, err := tx.CreateBucket([]byte(name))
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := appendRecord(b, item); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) Delete(record any, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	want, err := canonical(record)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucketFor(tx, name)
		if err != nil {
			return err
		}
		var doomed [][]byte
		err = b.ForEach(func(k, v []byte) error {
			if got, err := canonicalJSON(v); err == nil && got == want {
				doomed = append(doomed, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range doomed {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) Drop(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(name)) == nil {
			return nil
		}
		return tx.DeleteBucket([]byte(name))
	})
}
