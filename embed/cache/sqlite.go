package cache

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SqliteStore implements Store using a local SQLite database file. This is
// the default backend: the cache survives restarts with no extra services.
type SqliteStore struct {
	db        *sql.DB
	tableName string
}

// SqliteOptions configuration for the SQLite cache.
type SqliteOptions struct {
	Path      string
	TableName string // Default "embed_cache"
}

// NewSqliteStore opens (and if needed creates) the cache database.
func NewSqliteStore(opts SqliteOptions) (*SqliteStore, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "embed_cache"
	}

	store := &SqliteStore{
		db:        db,
		tableName: tableName,
	}

	if err := store.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SqliteStore) initSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key TEXT PRIMARY KEY,
			vec BLOB NOT NULL
		);
	`, s.tableName)

	_, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Get returns the cached vector for key.
func (s *SqliteStore) Get(ctx context.Context, key string) ([]float32, bool, error) {
	query := fmt.Sprintf("SELECT vec FROM %s WHERE key = ?", s.tableName)

	var data []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	vector, err := Decode(data)
	if err != nil {
		return nil, false, err
	}
	return vector, true, nil
}

// Put stores a vector under key, replacing any existing entry.
func (s *SqliteStore) Put(ctx context.Context, key string, vector []float32) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (key, vec) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET vec = excluded.vec
	`, s.tableName)

	_, err := s.db.ExecContext(ctx, query, key, Encode(vector))
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Clear removes all cached vectors.
func (s *SqliteStore) Clear(ctx context.Context) error {
	query := fmt.Sprintf("DELETE FROM %s", s.tableName)
	_, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SqliteStore) Close() error {
	return s.db.Close()
}
