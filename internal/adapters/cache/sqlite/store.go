package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/robotctl/internal/ports"
	"github.com/spf13/viper"
	_ "modernc.org/sqlite"
)

const (
	PathKey = "cache.path"

	cacheDirMode = 0o700
)

const schema = `
CREATE TABLE IF NOT EXISTS route_cache (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Store keeps cache entries in a single-table SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

var _ ports.KeyValueStore = (*Store)(nil)

func NewStore(cfg *viper.Viper) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path := cfg.GetString(PathKey)
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("route cache path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), cacheDirMode); err != nil {
		return nil, fmt.Errorf("create route cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open route cache database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		schema,
	} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("initialize route cache database: %w", err)
		}
	}

	return &Store{db: db, path: path}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM route_cache WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ports.ErrKeyNotFound
		}
		return "", fmt.Errorf("read route cache entry %q: %w", key, err)
	}

	return value, nil
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("cache key is empty")
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO route_cache (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("write route cache entry %q: %w", key, err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM route_cache WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete route cache entry %q: %w", key, err)
	}

	return nil
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM route_cache ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("list route cache keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan route cache key: %w", err)
		}
		keys = append(keys, key)
	}

	return keys, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
