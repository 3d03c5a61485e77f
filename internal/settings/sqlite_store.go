package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const (
	keyStore         = "store"
	keyNotifications = "notifications"
	keyAppearance    = "appearance"
)

// SQLiteStore persists settings in a single-file SQLite database,
// one JSON document per section. The pool size is 1: settings writes
// are rare and tiny, and a single connection keeps in-memory
// databases usable in tests.
type SQLiteStore struct {
	pool   *sqlitex.Pool
	logger *slog.Logger
}

func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("path is empty")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		PoolSize:    1,
		PrepareConn: prepareConn,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlitex.NewPool: %w", err)
	}

	logger.Info("settings store opened", "path", path)
	return &SQLiteStore{pool: pool, logger: logger}, nil
}

func prepareConn(conn *sqlite.Conn) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		`CREATE TABLE IF NOT EXISTS settings
		 (
		     key   TEXT PRIMARY KEY,
		     value TEXT NOT NULL
		 )`,
	}
	for _, stmt := range stmts {
		if err := sqlitex.ExecuteTransient(conn, stmt, nil); err != nil {
			return fmt.Errorf("sqlitex.ExecuteTransient: %w", err)
		}
	}
	return nil
}

// Load reads all sections, falling back to defaults for any section
// that has never been saved.
func (s *SQLiteStore) Load(ctx context.Context) (Settings, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("pool.Take: %w", err)
	}
	defer s.pool.Put(conn)

	loaded := Default()
	sections := map[string]any{
		keyStore:         &loaded.Store,
		keyNotifications: &loaded.Notifications,
		keyAppearance:    &loaded.Appearance,
	}

	err = sqlitex.Execute(conn, "SELECT key, value FROM settings", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			key := stmt.ColumnText(0)
			target, ok := sections[key]
			if !ok {
				s.logger.Warn("unknown settings key ignored", "key", key)
				return nil
			}
			if err := json.Unmarshal([]byte(stmt.ColumnText(1)), target); err != nil {
				return fmt.Errorf("json.Unmarshal key %s: %w", key, err)
			}
			return nil
		},
	})
	if err != nil {
		return Settings{}, fmt.Errorf("sqlitex.Execute: %w", err)
	}

	return loaded, nil
}

// Save writes all sections in one savepoint.
func (s *SQLiteStore) Save(ctx context.Context, settings Settings) (err error) {
	conn, takeErr := s.pool.Take(ctx)
	if takeErr != nil {
		return fmt.Errorf("pool.Take: %w", takeErr)
	}
	defer s.pool.Put(conn)

	defer sqlitex.Save(conn)(&err)

	sections := map[string]any{
		keyStore:         settings.Store,
		keyNotifications: settings.Notifications,
		keyAppearance:    settings.Appearance,
	}
	for key, section := range sections {
		value, marshalErr := json.Marshal(section)
		if marshalErr != nil {
			return fmt.Errorf("json.Marshal key %s: %w", key, marshalErr)
		}

		execErr := sqlitex.Execute(conn,
			`INSERT INTO settings (key, value)
			 VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			&sqlitex.ExecOptions{Args: []any{key, string(value)}},
		)
		if execErr != nil {
			return fmt.Errorf("sqlitex.Execute key %s: %w", key, execErr)
		}
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	if err := s.pool.Close(); err != nil {
		return fmt.Errorf("pool.Close: %w", err)
	}
	return nil
}
