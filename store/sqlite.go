package store

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SqliteStore is the relational backend. All collections share one SQLite
// database.
//
// Tables:
//
//	collections(name)                     PRIMARY KEY (name)
//	records(collection, position, data)   PRIMARY KEY (collection, position)
//
// Each operation runs in a single SQL transaction.
type SqliteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

func NewSqliteStore(dbPath string) (*SqliteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS collections (
		name TEXT PRIMARY KEY
	)`); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS records (
		collection TEXT NOT NULL,
		position INTEGER NOT NULL,
		data TEXT NOT NULL,
		PRIMARY KEY (collection, position)
	)`); err != nil {
		db.Close()
		return nil, err
	}
	return &SqliteStore{db: db}, nil
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}

func collectionExists(tx *sql.Tx, name string) (bool, error) {
	var n int
	err := tx.QueryRow("SELECT COUNT(*) FROM collections WHERE name = ?", name).Scan(&n)
	return n > 0, err
}

// inTx runs fn against an existing collection and commits if it succeeds.
func (s *SqliteStore) inTx(name string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	ok, err := collectionExists(tx, name)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(name)
	}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SqliteStore) Create(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("INSERT OR IGNORE INTO collections (name) VALUES (?)", name)
	return err
}

func (s *SqliteStore) Read(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []json.RawMessage
	err := s.inTx(name, func(tx *sql.Tx) error {
		rows, err := tx.Query(
			"SELECT data FROM records WHERE collection = ? ORDER BY position",
			name,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var raw string
			if err := rows.Scan(&raw); err != nil {
				return err
			}
			items = append(items, json.RawMessage(raw))
		}
		return rows.Err()
	})
	if err != nil {
		return "", err
	}
	b, err := marshalCollection(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *SqliteStore) Insert(record any, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	b, err := json.Marshal(record)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inTx(name, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO records (collection, position, data)
			 SELECT ?, COALESCE(MAX(position), 0) + 1, ? FROM records WHERE collection = ?`,
			name, string(b), name,
		)
		return err
	})
}

func (s *SqliteStore) Update(records any, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	items, err := encodeRecords(records)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inTx(name, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM records WHERE collection = ?", name); err != nil {
			return err
		}
		for i, item := range items {
			if _, err := tx.Exec(
				"INSERT INTO records (collection, position, data) VALUES (?, ?, ?)",
				name, i+1, string(item),
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SqliteStore) Delete(record any, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	want, err := canonical(record)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inTx(name, func(tx *sql.Tx) error {
		rows, err := tx.Query("SELECT position, data FROM records WHERE collection = ?", name)
		if err != nil {
			return err
		}
		var doomed []int64
		for rows.Next() {
			var pos int64
			var raw string
			if err := rows.Scan(&pos, &raw); err != nil {
				rows.Close()
				return err
			}
			if got, err := canonicalJSON([]byte(raw)); err == nil && got == want {
				doomed = append(doomed, pos)
			}
		}
		if err := rows.Close(); err != nil {
			return err
		}
		if err := rows.Err(); err != nil {
			return err
		}
		for _, pos := range doomed {
			if _, err := tx.Exec(
				"DELETE FROM records WHERE collection = ? AND position = ?",
				name, pos,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SqliteStore) Drop(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DELETE FROM records WHERE collection = ?", name); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM collections WHERE name = ?", name); err != nil {
		return err
	}
	return tx.Commit()
}
