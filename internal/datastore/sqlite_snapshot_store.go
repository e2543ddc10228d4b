package datastore

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/aleister1102/pagewatch/internal/common"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const memoryDSN = ":memory:"

// SQLiteSnapshotStore persists snapshots in a SQLite database so change
// detection survives restarts.
type SQLiteSnapshotStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewSQLiteSnapshotStore opens (or creates) the database at dataSourceName and ensures the schema.
func NewSQLiteSnapshotStore(dataSourceName string, logger zerolog.Logger) (*SQLiteSnapshotStore, error) {
	logger = logger.With().Str("component", "SQLiteSnapshotStore").Logger()
	logger.Info().Str("db_path", dataSourceName).Msg("Initializing snapshot database")

	if dataSourceName == "" {
		return nil, common.NewValidationError("sqlite_path", dataSourceName, "sqlite path cannot be empty")
	}

	if dataSourceName != memoryDSN {
		dbDir := filepath.Dir(dataSourceName)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, common.WrapErrorf(err, "failed to create snapshot database directory %s", dbDir)
		}
	}

	dbInstance, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, common.WrapErrorf(err, "sql.Open failed for %s", dataSourceName)
	}
	// a single connection serializes writers and keeps ":memory:" databases shared
	dbInstance.SetMaxOpenConns(1)

	store := &SQLiteSnapshotStore{
		db:     dbInstance,
		logger: logger,
	}

	if err := store.initSchema(); err != nil {
		_ = dbInstance.Close()
		return nil, common.WrapError(err, "failed to initialize snapshot schema")
	}

	logger.Info().Str("path", dataSourceName).Msg("Snapshot database initialized")
	return store, nil
}

func (s *SQLiteSnapshotStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS snapshots (
		target TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		s.logger.Error().Err(err).Msg("Failed to create snapshots table")
		return err
	}
	return nil
}

func (s *SQLiteSnapshotStore) Get(target string) (string, bool, error) {
	var content string
	err := s.db.QueryRow(`SELECT content FROM snapshots WHERE target = ?`, target).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, common.WrapErrorf(err, "failed to read snapshot for %s", target)
	}
	return content, true, nil
}

func (s *SQLiteSnapshotStore) Put(target, content string, updatedAt time.Time) error {
	query := `INSERT INTO snapshots (target, content, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(target) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`
	if _, err := s.db.Exec(query, target, content, updatedAt.UnixMilli()); err != nil {
		return common.WrapErrorf(err, "failed to write snapshot for %s", target)
	}
	return nil
}

func (s *SQLiteSnapshotStore) Delete(target string) error {
	if _, err := s.db.Exec(`DELETE FROM snapshots WHERE target = ?`, target); err != nil {
		return common.WrapErrorf(err, "failed to delete snapshot for %s", target)
	}
	return nil
}

func (s *SQLiteSnapshotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
