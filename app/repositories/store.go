package repositories

import (
	"fmt"
	"io"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Store owns the badger database and the repositories built on it.
type Store struct {
	db *badger.DB

	Categories *BadgerCategoryRepository
	Posts      *BadgerPostRepository
	Comments   *BadgerCommentRepository
}

// StoreOptions configures OpenStore.
type StoreOptions struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path     string
	InMemory bool
	// SyncWrites makes every commit fsync before returning.
	SyncWrites bool
}

// OpenStore opens (or creates) the database described by opts.
func OpenStore(opts StoreOptions) (*Store, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Path == "" {
			return nil, fmt.Errorf("storage path is required")
		}
		bopts = badger.DefaultOptions(opts.Path)
	}
	bopts = bopts.
		WithLogger(nil).
		WithSyncWrites(opts.SyncWrites).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return NewStore(db), nil
}

// NewStore wraps an already opened database.
func NewStore(db *badger.DB) *Store {
	return &Store{
		db:         db,
		Categories: NewBadgerCategoryRepository(db),
		Posts:      NewBadgerPostRepository(db),
		Comments:   NewBadgerCommentRepository(db),
	}
}

// DB exposes the underlying database.
func (s *Store) DB() *badger.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Backup writes a full backup to w.
func (s *Store) Backup(w io.Writer) error {
	if _, err := s.db.Backup(w, 0); err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	return nil
}

// Restore loads a backup produced by Backup.
func (s *Store) Restore(r io.Reader) error {
	if err := s.db.Load(r, 16); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	return nil
}

// DropAll removes every key.
func (s *Store) DropAll() error {
	return s.db.DropAll()
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
