package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrCaptureNotFound is returned by Get for an unknown id.
var ErrCaptureNotFound = errors.New("capture not found")

// Capture is one recorded frame.
type Capture struct {
	ID        int64     `json:"id"`
	Direction string    `json:"direction"`
	Label     string    `json:"label"`
	Frame     []byte    `json:"frame"`
	Path      []string  `json:"path"`
	DecodeErr string    `json:"decode_error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CaptureStore persists captures.
type CaptureStore struct {
	db *Database
}

// NewCaptureStore opens the capture database and migrates its schema.
func NewCaptureStore(dbPath string) (*CaptureStore, error) {
	database, err := NewDatabase(dbPath)
	if err != nil {
		return nil, err
	}

	store := &CaptureStore{db: database}
	if err := store.migrate(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate capture database: %w", err)
	}
	return store, nil
}

// Path returns the database file path.
func (s *CaptureStore) Path() string {
	return s.db.Path()
}

// Close closes the underlying database.
func (s *CaptureStore) Close() error {
	return s.db.Close()
}

func (s *CaptureStore) migrate() error {
	return s.db.Transaction(func(tx *sql.Tx) error {
		schema := `
			CREATE TABLE IF NOT EXISTS captures (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				direction TEXT NOT NULL,
				label TEXT NOT NULL DEFAULT '',
				frame BLOB NOT NULL,
				path TEXT NOT NULL DEFAULT '',
				decode_error TEXT NOT NULL DEFAULT '',
				created_at INTEGER NOT NULL
			);

			CREATE INDEX IF NOT EXISTS idx_captures_direction ON captures(direction);
		`
		if _, err := tx.Exec(schema); err != nil {
			return fmt.Errorf("schema migration failed: %w", err)
		}
		return nil
	})
}

// Add stores c and returns it with its id and timestamp set.
func (s *CaptureStore) Add(c Capture) (Capture, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.Exec(
		"INSERT INTO captures (direction, label, frame, path, decode_error, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		c.Direction, c.Label, c.Frame, strings.Join(c.Path, "/"), c.DecodeErr, c.CreatedAt.UnixMilli())
	if err != nil {
		return Capture{}, fmt.Errorf("failed to insert capture: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Capture{}, fmt.Errorf("failed to read capture id: %w", err)
	}
	c.ID = id

	s.db.logger.Debug().
		Int64("id", id).
		Str("direction", c.Direction).
		Int("size", len(c.Frame)).
		Msg("capture stored")
	return c, nil
}

// Get returns the capture with the given id.
func (s *CaptureStore) Get(id int64) (Capture, error) {
	row := s.db.QueryRow(
		"SELECT id, direction, label, frame, path, decode_error, created_at FROM captures WHERE id = ?", id)

	c, err := scanCapture(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Capture{}, fmt.Errorf("%w: %d", ErrCaptureNotFound, id)
	}
	if err != nil {
		return Capture{}, fmt.Errorf("failed to read capture %d: %w", id, err)
	}
	return c, nil
}

// List returns the newest captures first. An empty direction matches both.
func (s *CaptureStore) List(direction string, limit int) ([]Capture, error) {
	if limit <= 0 {
		limit = 100
	}

	query := "SELECT id, direction, label, frame, path, decode_error, created_at FROM captures"
	args := []any{}
	if direction != "" {
		query += " WHERE direction = ?"
		args = append(args, direction)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list captures: %w", err)
	}
	defer rows.Close()

	var out []Capture
	for rows.Next() {
		c, err := scanCapture(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan capture: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCapture(row scanner) (Capture, error) {
	var (
		c       Capture
		path    string
		created int64
	)
	if err := row.Scan(&c.ID, &c.Direction, &c.Label, &c.Frame, &path, &c.DecodeErr, &created); err != nil {
		return Capture{}, err
	}
	if path != "" {
		c.Path = strings.Split(path, "/")
	}
	c.CreatedAt = time.UnixMilli(created).UTC()
	return c, nil
}
