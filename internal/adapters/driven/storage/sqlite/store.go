package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/gcs-indexer/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/gcs-indexer/internal/core/domain"
	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.IndexPublisher = (*Store)(nil)
	_ driven.IndexReader    = (*Store)(nil)
)

// Store is a SQLite-backed index store.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.gcs-indexer/data/index.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".gcs-indexer", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// WAL lets document reads proceed while a run is publishing.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
		now:  func() time.Time { return time.Now().UTC() },
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// EnsureIndex creates the index if it does not exist.
func (s *Store) EnsureIndex(ctx context.Context, index string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO indices (name, created_at) VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
	`, index, s.now())
	if err != nil {
		return fmt.Errorf("creating index %s: %w", index, err)
	}
	return nil
}

// Publish upserts every document in docs in a single transaction.
func (s *Store) Publish(ctx context.Context, index string, docs *domain.DocumentSet) error {
	if docs.Len() == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := s.now()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO indices (name, created_at) VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
	`, index, now); err != nil {
		return fmt.Errorf("creating index %s: %w", index, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (index_name, primary_key, files, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(index_name, primary_key) DO UPDATE SET
			files = excluded.files,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for key, doc := range docs.All() {
		filesJSON, err := json.Marshal(doc.Files)
		if err != nil {
			return fmt.Errorf("marshalling files for %s: %w", key, err)
		}
		if _, err := stmt.ExecContext(ctx, index, key, string(filesJSON), now); err != nil {
			return fmt.Errorf("saving document %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by index and primary key.
func (s *Store) GetDocument(ctx context.Context, index, primaryKey string) (*domain.Document, error) {
	var filesJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT files FROM documents WHERE index_name = ? AND primary_key = ?
	`, index, primaryKey).Scan(&filesJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying document: %w", err)
	}

	doc := &domain.Document{}
	if err := json.Unmarshal([]byte(filesJSON), &doc.Files); err != nil {
		return nil, fmt.Errorf("unmarshalling files: %w", err)
	}
	return doc, nil
}

// ListKeys returns the primary keys stored in an index, sorted.
func (s *Store) ListKeys(ctx context.Context, index string) ([]string, error) {
	exists, err := s.indexExists(ctx, index)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT primary_key FROM documents WHERE index_name = ? ORDER BY primary_key
	`, index)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (s *Store) indexExists(ctx context.Context, index string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM indices WHERE name = ?", index).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("querying index: %w", err)
	}
	return n > 0, nil
}
