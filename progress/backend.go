package progress

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/playtrail/playtrail/constant"
	"github.com/playtrail/playtrail/filesystem"
	_ "modernc.org/sqlite"
)

// Backend persists the serialized progress mapping under a single storage key.
// Read returns nil data and a nil error when nothing has been stored yet.
type Backend interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// FileBackend keeps the mapping in one JSON file on the virtual filesystem.
type FileBackend struct {
	Path string
}

func (b *FileBackend) Read() ([]byte, error) {
	data, err := filesystem.API().ReadFile(b.Path)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

func (b *FileBackend) Write(data []byte) error {
	return filesystem.WriteFileAtomic(b.Path, data, 0o644)
}

// SQLiteBackend keeps the mapping as a single row of a key-value table.
type SQLiteBackend struct {
	db  *sql.DB
	key string
}

// NewSQLite opens (creating when needed) the database at path and ensures the storage table exists.
func NewSQLite(path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS storage (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &SQLiteBackend{db: db, key: constant.ProgressStorageKey}, nil
}

func (b *SQLiteBackend) Read() ([]byte, error) {
	var value string
	err := b.db.QueryRow(`SELECT value FROM storage WHERE key = ?`, b.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (b *SQLiteBackend) Write(data []byte) error {
	_, err := b.db.Exec(`
		INSERT INTO storage(key, value) VALUES(?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, b.key, string(data))
	return err
}

// Close releases the database handle.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
