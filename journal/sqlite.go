package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite keeps the state document in a one-row table.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Load returns ErrNotFound before the first Save and ErrCorrupt when the
// stored body does not decode.
func (j *SQLite) Load() (State, error) {
	var body string
	err := j.db.QueryRow(`SELECT body FROM state_document WHERE id = 1`).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return State{}, ErrNotFound
		}
		return State{}, fmt.Errorf("load state: %w", err)
	}
	return Decode([]byte(body))
}

// Save overwrites the document.
func (j *SQLite) Save(s State) error {
	body, err := Encode(s)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	_, err = j.db.Exec(`
		INSERT INTO state_document (id, body, saved_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body, saved_at = excluded.saved_at`,
		string(body), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// SavedAt reports when the document was last written.
func (j *SQLite) SavedAt() (time.Time, error) {
	var ts time.Time
	err := j.db.QueryRow(`SELECT saved_at FROM state_document WHERE id = 1`).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNotFound
	}
	return ts, err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
