// Package store persists form submissions in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"maskfield/internal/logging"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a submission id does not exist.
var ErrNotFound = errors.New("submission not found")

// Submission is one validated form submission.
type Submission struct {
	ID        string            `json:"id"`
	Form      string            `json:"form"`
	Values    map[string]string `json:"values"` // clean values
	Masked    map[string]string `json:"masked"` // displayed values
	CreatedAt time.Time         `json:"created_at"`
}

// Store is the submission history.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// Open initializes the SQLite database at the given path.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps :memory: databases coherent and serializes writers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	logging.Store("opened submission store at %s", path)
	return s, nil
}

func (s *Store) initialize() error {
	return migrate(s.db)
}

// Close closes the database.
func (s *Store) Close() error {
	logging.StoreDebug("closing submission store at %s", s.dbPath)
	return s.db.Close()
}

// Save records a submission. An empty ID is replaced with a new UUID and a
// zero CreatedAt with the current time. The stored submission is returned.
func (s *Store) Save(ctx context.Context, sub Submission) (Submission, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}
	sub.CreatedAt = sub.CreatedAt.Round(time.Millisecond)

	values, err := json.Marshal(nonNil(sub.Values))
	if err != nil {
		return Submission{}, fmt.Errorf("failed to encode values: %w", err)
	}
	masked, err := json.Marshal(nonNil(sub.Masked))
	if err != nil {
		return Submission{}, fmt.Errorf("failed to encode masked values: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO submissions (id, form, values_json, masked_json, created_at) VALUES (?, ?, ?, ?, ?)",
		sub.ID, sub.Form, string(values), string(masked), sub.CreatedAt.UnixMilli(),
	)
	if err != nil {
		logging.StoreError("failed to save submission %s: %v", sub.ID, err)
		return Submission{}, fmt.Errorf("failed to save submission: %w", err)
	}

	logging.Store("saved submission %s for form %s", sub.ID, sub.Form)
	return sub, nil
}

// Get returns a single submission.
func (s *Store) Get(ctx context.Context, id string) (Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, form, values_json, masked_json, created_at FROM submissions WHERE id = ?", id)
	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Submission{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sub, err
}

// List returns submissions newest first. An empty form lists every form;
// limit <= 0 means 50.
func (s *Store) List(ctx context.Context, form string, limit int) ([]Submission, error) {
	timer := logging.StartTimer(logging.CategoryStore, "List")
	defer timer.Stop()

	if limit <= 0 {
		limit = 50
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, form, values_json, masked_json, created_at FROM submissions
		WHERE (? = '' OR form = ?)
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, form, form, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	logging.StoreDebug("listed %d submissions (form=%q)", len(out), form)
	return out, nil
}

// Delete removes a submission.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM submissions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row scanner) (Submission, error) {
	var (
		sub             Submission
		values, masked  string
		createdAtMillis int64
	)
	if err := row.Scan(&sub.ID, &sub.Form, &values, &masked, &createdAtMillis); err != nil {
		return Submission{}, err
	}
	if err := json.Unmarshal([]byte(values), &sub.Values); err != nil {
		return Submission{}, fmt.Errorf("corrupt values for %s: %w", sub.ID, err)
	}
	if err := json.Unmarshal([]byte(masked), &sub.Masked); err != nil {
		return Submission{}, fmt.Errorf("corrupt masked values for %s: %w", sub.ID, err)
	}
	sub.CreatedAt = time.UnixMilli(createdAtMillis)
	return sub, nil
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
