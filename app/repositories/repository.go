package repositories

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

const healthKey = "meta:health"

// Store owns the Badger database shared by all repositories.
type Store struct {
	db       *badger.DB
	mutex    sync.RWMutex
	dbPath   string
	isTestDB bool
	closed   bool
}

// NewStore opens (or creates) the database at path. An empty path opens an
// in-memory database that disappears on Close.
func NewStore(path string) (*Store, error) {
	isTest := path == ""
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	if isTest {
		opts = opts.WithInMemory(true)
	} else if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	return &Store{
		db:       db,
		dbPath:   path,
		isTestDB: isTest,
	}, nil
}

// DB exposes the underlying database for maintenance commands.
func (s *Store) DB() *badger.DB {
	return s.db
}

// Repositories returns Badger-backed repositories sharing this store.
func (s *Store) Repositories() Repositories {
	return Repositories{
		Posts:    NewBadgerPostRepository(s.db),
		Tags:     NewBadgerTagRepository(s.db),
		Comments: NewBadgerCommentRepository(s.db),
		Users:    NewBadgerUserRepository(s.db),
	}
}

// Ping performs a write and read round trip.
func (s *Store) Ping() error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return errors.New("store is closed")
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(healthKey), []byte("ok"))
	}); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(healthKey))
		return err
	})
}

// Clear drops every key.
func (s *Store) Clear() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.DropAll()
}

func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
