// Package data implements the embedded-SQL persistence engine: a
// Series -> Frames -> Arrays tree over SQLite, with streaming ZSTD
// compression on each array's BLOB column.
//
// Grounded on the teacher pack's ehrlich-b-wingthing/internal/store,
// the only repo in the example pack with a database/sql + sqlite
// persistence layer: the embed.FS migrations table, WAL+foreign_keys
// pragmas, and query/Scan style here all follow that repo's shape.
package data

import (
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/bluetit/solver/internal/core"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SeriesID, FrameID, and ArrayID identify rows in their respective
// tables.
type (
	SeriesID int64
	FrameID  int64
	ArrayID  int64
)

// Storage is a single-writer, multi-reader handle onto the series
// tree. Per-array locks serialize a writer against readers of the
// same array; independent arrays may be read concurrently.
type Storage struct {
	db *sql.DB

	writeMu  sync.Mutex // single-writer: only one write transaction in flight
	arrayMu  sync.Map   // ArrayID -> *sync.RWMutex, guards array blob I/O
}

// Open opens (creating if absent) the SQLite database at dsn and
// applies any pending migrations.
func Open(dsn string) (*Storage, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, core.Externalf("sql.Open", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, core.Externalf("PRAGMA journal_mode", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, core.Externalf("PRAGMA foreign_keys", err)
	}
	// withWriteTx drives BEGIN IMMEDIATE/fn/COMMIT as separate
	// statements against db rather than through a pinned sql.Tx or
	// sql.Conn (see withWriteTx's doc comment); database/sql is free to
	// route each one to a different pooled connection, which would
	// silently break both the transaction's atomicity and the
	// single-writer SQLite lock it exists to obtain. Capping the pool
	// at one open connection makes every statement this package issues
	// land on the same connection, closing that gap.
	db.SetMaxOpenConns(1)
	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database handle.
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, f := range files {
		var applied int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", f).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %s: %w", f, err)
		}
		if applied > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + f)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", f, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin tx for %s: %w", f, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", f, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", f); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", f, err)
		}
	}
	return nil
}

// arrayLock returns the per-array RWMutex, creating it on first use.
func (s *Storage) arrayLock(id ArrayID) *sync.RWMutex {
	v, _ := s.arrayMu.LoadOrStore(id, &sync.RWMutex{})
	return v.(*sync.RWMutex)
}

// withWriteTx serializes fn against every other writer on this
// Storage (spec's single-writer rule) and runs it inside a
// BEGIN IMMEDIATE transaction, so the write lock is acquired against
// SQLite itself rather than only against this process. modernc.org's
// driver does not expose BEGIN IMMEDIATE through sql.TxOptions, so the
// transaction is driven with raw BEGIN IMMEDIATE/COMMIT/ROLLBACK
// statements against the shared *sql.DB rather than through sql.Tx —
// correct only because Open caps the pool at one connection, so every
// statement issued between BEGIN IMMEDIATE and COMMIT/ROLLBACK is
// guaranteed to land on that same connection.
func (s *Storage) withWriteTx(fn func() error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.db.Exec("BEGIN IMMEDIATE"); err != nil {
		return core.Externalf("BEGIN IMMEDIATE", err)
	}
	if err := fn(); err != nil {
		if _, rbErr := s.db.Exec("ROLLBACK"); rbErr != nil {
			core.Warn("data: rollback failed", "error", rbErr)
		}
		return err
	}
	if _, err := s.db.Exec("COMMIT"); err != nil {
		return core.Externalf("COMMIT", err)
	}
	return nil
}
