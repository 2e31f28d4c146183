package state

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/incc/internal/core/domain"
	"go.trai.ch/incc/internal/core/ports"
	"go.trai.ch/zerr"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

var _ ports.BuildStateStore = (*SQLiteStore)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS graph_meta (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	version     INTEGER NOT NULL,
	source_root TEXT    NOT NULL
);
CREATE TABLE IF NOT EXISTS units (
	path          TEXT PRIMARY KEY,
	identity      TEXT NOT NULL,
	source_hash   TEXT NOT NULL,
	artifact_hash TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS edges (
	target    TEXT NOT NULL,
	dependent TEXT NOT NULL,
	PRIMARY KEY (target, dependent)
);`

// SQLiteStore implements ports.BuildStateStore on an embedded sqlite database.
// The whole graph is replaced inside one transaction.
type SQLiteStore struct {
	path     string
	lockPath string
	db       *sql.DB

	mu   sync.Mutex
	lock *writerLock
	tx   *sql.Tx
}

// OpenSQLiteStore opens or creates the graph database of the artifact root.
func OpenSQLiteStore(artifactRoot string) (*SQLiteStore, error) {
	path := filepath.Clean(domain.GraphDBPath(artifactRoot))
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return nil, storeFault(zerr.Wrap(err, "failed to create state directory"), path)
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, storeFault(zerr.Wrap(err, "failed to open graph database"), path)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, storeFault(zerr.Wrap(err, "failed to create graph schema"), path)
	}

	return &SQLiteStore{
		path:     path,
		lockPath: filepath.Clean(domain.LockPath(artifactRoot)),
		db:       db,
	}, nil
}

// querier is the read surface shared by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// reader returns the active transaction, or the database outside of one.
// The pool holds a single connection, which an open transaction owns.
func (s *SQLiteStore) reader() querier {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// LoadGraph reads the last committed graph.
func (s *SQLiteStore) LoadGraph(ctx context.Context) (*domain.BuildGraph, error) {
	q := s.reader()

	var dto graphDTO
	err := q.QueryRowContext(ctx, "SELECT version, source_root FROM graph_meta WHERE id = 1").
		Scan(&dto.Version, &dto.SourceRoot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeFault(zerr.Wrap(err, "failed to read graph metadata"), s.path)
	}
	if dto.Version != schemaVersion {
		return nil, storeFault(zerr.With(zerr.New("unsupported build graph version"), "version", dto.Version), s.path)
	}

	units, err := s.loadUnits(ctx, q)
	if err != nil {
		return nil, err
	}
	dto.Units = units

	g, err := fromDTO(dto)
	if err != nil {
		return nil, storeFault(zerr.Wrap(err, "build graph is inconsistent"), s.path)
	}
	return g, nil
}

func (s *SQLiteStore) loadUnits(ctx context.Context, q querier) ([]unitDTO, error) {
	rows, err := q.QueryContext(ctx, "SELECT path, identity, source_hash, artifact_hash FROM units ORDER BY path")
	if err != nil {
		return nil, storeFault(zerr.Wrap(err, "failed to query units"), s.path)
	}
	defer rows.Close() //nolint:errcheck // Read-only query

	var units []unitDTO
	index := make(map[string]int)
	for rows.Next() {
		var (
			u        unitDTO
			identity string
		)
		if err := rows.Scan(&u.Path, &identity, &u.SourceHash, &u.ArtifactHash); err != nil {
			return nil, storeFault(zerr.Wrap(err, "failed to scan unit"), s.path)
		}
		u.Identity = domain.NewInternedString(identity)
		index[u.Path] = len(units)
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storeFault(zerr.Wrap(err, "failed to iterate units"), s.path)
	}

	edges, err := q.QueryContext(ctx, "SELECT target, dependent FROM edges ORDER BY target, dependent")
	if err != nil {
		return nil, storeFault(zerr.Wrap(err, "failed to query edges"), s.path)
	}
	defer edges.Close() //nolint:errcheck // Read-only query

	for edges.Next() {
		var target, dependent string
		if err := edges.Scan(&target, &dependent); err != nil {
			return nil, storeFault(zerr.Wrap(err, "failed to scan edge"), s.path)
		}
		i, ok := index[target]
		if !ok {
			err := zerr.With(zerr.New("edge from unknown unit"), "unit", target)
			return nil, storeFault(err, s.path)
		}
		units[i].DependedOnBy = append(units[i].DependedOnBy, dependent)
	}
	if err := edges.Err(); err != nil {
		return nil, storeFault(zerr.Wrap(err, "failed to iterate edges"), s.path)
	}
	return units, nil
}

// Begin takes the writer lock and opens a write transaction.
func (s *SQLiteStore) Begin(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lock != nil {
		return zerr.With(zerr.New("transaction already active"), "path", s.path)
	}

	lock, err := acquireLock(s.lockPath)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		_ = lock.release()
		return storeFault(zerr.Wrap(err, "failed to begin transaction"), s.path)
	}

	s.lock = lock
	s.tx = tx
	return nil
}

// ReplaceGraph rewrites every table inside the active transaction.
func (s *SQLiteStore) ReplaceGraph(graph *domain.BuildGraph) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		return domain.ErrNoActiveTransaction
	}

	for _, stmt := range []string{"DELETE FROM edges", "DELETE FROM units", "DELETE FROM graph_meta"} {
		if _, err := s.tx.Exec(stmt); err != nil {
			return storeFault(zerr.Wrap(err, "failed to clear graph"), s.path)
		}
	}

	dto := toDTO(graph)
	if _, err := s.tx.Exec(
		"INSERT INTO graph_meta (id, version, source_root) VALUES (1, ?, ?)",
		dto.Version, dto.SourceRoot,
	); err != nil {
		return storeFault(zerr.Wrap(err, "failed to write graph metadata"), s.path)
	}

	for _, u := range dto.Units {
		if _, err := s.tx.Exec(
			"INSERT INTO units (path, identity, source_hash, artifact_hash) VALUES (?, ?, ?, ?)",
			u.Path, u.Identity.String(), u.SourceHash, u.ArtifactHash,
		); err != nil {
			return storeFault(zerr.With(zerr.Wrap(err, "failed to write unit"), "unit", u.Path), s.path)
		}
		for _, dep := range u.DependedOnBy {
			if _, err := s.tx.Exec(
				"INSERT INTO edges (target, dependent) VALUES (?, ?)", u.Path, dep,
			); err != nil {
				return storeFault(zerr.With(zerr.Wrap(err, "failed to write edge"), "unit", u.Path), s.path)
			}
		}
	}
	return nil
}

// Commit commits the transaction and releases the lock.
func (s *SQLiteStore) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		return domain.ErrNoActiveTransaction
	}

	commitErr := s.tx.Commit()
	releaseErr := s.lock.release()
	s.tx = nil
	s.lock = nil

	if commitErr != nil {
		return storeFault(zerr.Wrap(commitErr, "failed to commit build graph"), s.path)
	}
	if releaseErr != nil {
		return storeFault(zerr.Wrap(releaseErr, "failed to release lock"), s.lockPath)
	}
	return nil
}

// Rollback aborts the transaction and releases the lock.
func (s *SQLiteStore) Rollback() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rollbackLocked()
}

func (s *SQLiteStore) rollbackLocked() error {
	if s.tx == nil {
		return nil
	}
	rbErr := s.tx.Rollback()
	releaseErr := s.lock.release()
	s.tx = nil
	s.lock = nil
	if rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
		return storeFault(zerr.Wrap(rbErr, "failed to roll back"), s.path)
	}
	return releaseErr
}

// Close rolls back an active transaction and closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rbErr := s.rollbackLocked()
	return errors.Join(rbErr, s.db.Close())
}
