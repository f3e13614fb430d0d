// Package store keeps compiled definitions in a SQLite database so that
// repeated runs over unchanged sources can be recognised and inspected.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/funvibe/elimc/internal/prettyprinter"
)

// schemaVersion is bumped when the stored snapshot format changes.
// Digests include it, so old rows simply stop matching.
const schemaVersion = "v1"

const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		file TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS definitions (
		name TEXT NOT NULL,
		digest TEXT NOT NULL,
		run_id TEXT NOT NULL REFERENCES runs(id),
		ok INTEGER NOT NULL,
		tree TEXT NOT NULL,
		diagnostics TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (name, digest, run_id)
	);
	CREATE INDEX IF NOT EXISTS idx_definitions_lookup ON definitions(name, digest);
`

// Record is one stored definition.
type Record struct {
	Name        string
	Digest      string
	RunID       string
	OK          bool
	Snapshot    *prettyprinter.Snapshot
	Diagnostics []string
}

// Run is one invocation of the checker over a file.
type Run struct {
	ID          string
	StartedAt   time.Time
	File        string
	Definitions int
}

// Store is a SQLite-backed cache of compiled definitions.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	// One writer at a time; sqlite serialises anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

var errClosed = errors.New("cache is closed")

// BeginRun records the start of a run over file and returns its ID.
func (s *Store) BeginRun(file string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return "", errClosed
	}

	id := uuid.NewString()
	_, err := s.db.Exec(`INSERT INTO runs (id, started_at, file) VALUES (?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339Nano), file)
	if err != nil {
		return "", fmt.Errorf("recording run: %w", err)
	}
	return id, nil
}

// Put stores rec. Storing the same definition twice in one run replaces
// the earlier row.
func (s *Store) Put(rec *Record) error {
	if rec.RunID == "" {
		return fmt.Errorf("storing %s: record has no run", rec.Name)
	}
	snapshot := rec.Snapshot
	if snapshot == nil {
		snapshot = &prettyprinter.Snapshot{Name: rec.Name}
	}
	tree, err := prettyprinter.MarshalSnapshot(snapshot)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return errClosed
	}

	_, err = s.db.Exec(`INSERT OR REPLACE INTO definitions (name, digest, run_id, ok, tree, diagnostics)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Name, rec.Digest, rec.RunID, rec.OK, string(tree), strings.Join(rec.Diagnostics, "\n"))
	if err != nil {
		return fmt.Errorf("storing %s: %w", rec.Name, err)
	}
	return nil
}

// Lookup returns the most recently stored record for name with the given
// digest.
func (s *Store) Lookup(name, digest string) (*Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, false, errClosed
	}

	row := s.db.QueryRow(`SELECT d.run_id, d.ok, d.tree, d.diagnostics
		FROM definitions d JOIN runs r ON r.id = d.run_id
		WHERE d.name = ? AND d.digest = ?
		ORDER BY r.rowid DESC LIMIT 1`, name, digest)

	rec := &Record{Name: name, Digest: digest}
	var tree, diags string
	if err := row.Scan(&rec.RunID, &rec.OK, &tree, &diags); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("looking up %s: %w", name, err)
	}

	snapshot, err := prettyprinter.UnmarshalSnapshot([]byte(tree))
	if err != nil {
		return nil, false, fmt.Errorf("looking up %s: %w", name, err)
	}
	rec.Snapshot = snapshot
	if diags != "" {
		rec.Diagnostics = strings.Split(diags, "\n")
	}
	return rec, true, nil
}

// Runs lists every recorded run, oldest first.
func (s *Store) Runs() ([]*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, errClosed
	}

	rows, err := s.db.Query(`SELECT r.id, r.started_at, r.file, COUNT(d.name)
		FROM runs r LEFT JOIN definitions d ON d.run_id = r.id
		GROUP BY r.id ORDER BY r.rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var started string
		if err := rows.Scan(&run.ID, &started, &run.File, &run.Definitions); err != nil {
			return nil, fmt.Errorf("listing runs: %w", err)
		}
		run.StartedAt, err = time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, fmt.Errorf("run %s: bad start time %q", run.ID, started)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Definitions returns the records stored by one run, in name order.
func (s *Store) Definitions(runID string) ([]*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, errClosed
	}

	rows, err := s.db.Query(`SELECT name, digest, ok, diagnostics FROM definitions
		WHERE run_id = ? ORDER BY name`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing definitions: %w", err)
	}
	defer rows.Close()

	var recs []*Record
	for rows.Next() {
		rec := &Record{RunID: runID}
		var diags string
		if err := rows.Scan(&rec.Name, &rec.Digest, &rec.OK, &diags); err != nil {
			return nil, fmt.Errorf("listing definitions: %w", err)
		}
		if diags != "" {
			rec.Diagnostics = strings.Split(diags, "\n")
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Digest computes the cache key of a definition from its printed source,
// the printed declarations it depends on and the compiler settings.
func Digest(definition string, deps []string, settings string) string {
	h := sha256.New()
	h.Write([]byte(definition))
	for _, d := range deps {
		h.Write([]byte("\x00"))
		h.Write([]byte(d))
	}
	h.Write([]byte("\x00"))
	h.Write([]byte(settings))
	h.Write([]byte("\x00"))
	h.Write([]byte(schemaVersion))
	return hex.EncodeToString(h.Sum(nil))
}
