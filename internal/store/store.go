// Package store implements the inventory repository over SQLite.
package store

import (
	"database/sql"
	"errors"
	"sync"

	"github.com/Ileana-Castillo/inventario-servicio/internal/imagestore"
)

// ErrNotFound indicates the requested item does not exist.
var ErrNotFound = errors.New("item not found")

// Store owns the database handle and the image directory. Every operation
// holds an internal mutex for its full duration, including any image
// filesystem I/O, so at most one command touches the store at a time.
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	dbPath string
	images *imagestore.Dir
}

// New creates a Store over an opened, migrated database. dbPath is the
// absolute path of the database file, reported by StoragePath.
func New(db *sql.DB, dbPath string, images *imagestore.Dir) *Store {
	return &Store{db: db, dbPath: dbPath, images: images}
}

// StoragePath returns the absolute path of the database file.
func (s *Store) StoragePath() string {
	return s.dbPath
}
