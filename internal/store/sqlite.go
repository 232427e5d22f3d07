package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Alia5/analogdpad/dpad"
	"github.com/Alia5/analogdpad/internal/configpaths"
)

const schema = `
CREATE TABLE IF NOT EXISTS settings_revisions (
	revision_id   TEXT PRIMARY KEY,
	parent_id     TEXT,
	settings_json TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (parent_id) REFERENCES settings_revisions(revision_id)
);

CREATE TABLE IF NOT EXISTS active_settings (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	revision_id TEXT NOT NULL,
	FOREIGN KEY (revision_id) REFERENCES settings_revisions(revision_id)
);
`

// Revision is one saved version of the settings.
type Revision struct {
	ID        string        `json:"id"`
	ParentID  string        `json:"parentId,omitempty"`
	Settings  dpad.Settings `json:"settings"`
	CreatedAt time.Time     `json:"createdAt"`
}

// SQLiteStore keeps every saved revision; Load returns the active one.
type SQLiteStore struct {
	db *sql.DB
}

var _ Versioned = (*SQLiteStore)(nil)

// NewSQLiteStore opens a SQLite database and runs migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := configpaths.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	for _, stmt := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON", schema} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context) (dpad.Settings, error) {
	rev, err := s.Active(ctx)
	if err != nil {
		return dpad.Settings{}, err
	}
	return rev.Settings, nil
}

// Active returns the active revision.
func (s *SQLiteStore) Active(ctx context.Context) (Revision, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT r.revision_id, r.parent_id, r.settings_json, r.created_at
		 FROM active_settings a JOIN settings_revisions r ON r.revision_id = a.revision_id
		 WHERE a.id = 1`)
	rev, err := scanRevision(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Revision{}, ErrNotFound
	}
	return rev, err
}

// Save stores s as a new revision whose parent is the active one, and
// activates it.
func (s *SQLiteStore) Save(ctx context.Context, settings dpad.Settings) error {
	_, err := s.SaveRevision(ctx, settings)
	return err
}

// SaveRevision is Save returning the created revision.
func (s *SQLiteStore) SaveRevision(ctx context.Context, settings dpad.Settings) (Revision, error) {
	data, err := json.Marshal(settings)
	if err != nil {
		return Revision{}, fmt.Errorf("marshal settings: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Revision{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var parent sql.NullString
	err = tx.QueryRowContext(ctx, `SELECT revision_id FROM active_settings WHERE id = 1`).Scan(&parent)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Revision{}, fmt.Errorf("read active: %w", err)
	}

	rev := Revision{
		ID:        uuid.New().String(),
		ParentID:  parent.String,
		Settings:  settings,
		CreatedAt: time.Now().UTC(),
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO settings_revisions (revision_id, parent_id, settings_json, created_at)
		 VALUES (?, ?, ?, ?)`,
		rev.ID, parent, string(data), rev.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Revision{}, fmt.Errorf("insert revision: %w", err)
	}
	if err := setActive(ctx, tx, rev.ID); err != nil {
		return Revision{}, err
	}
	if err := tx.Commit(); err != nil {
		return Revision{}, fmt.Errorf("commit: %w", err)
	}
	return rev, nil
}

// History lists up to limit revisions, newest first. limit <= 0 means all.
func (s *SQLiteStore) History(ctx context.Context, limit int) ([]Revision, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT revision_id, parent_id, settings_json, created_at
		 FROM settings_revisions ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

// Rollback activates an earlier revision.
func (s *SQLiteStore) Rollback(ctx context.Context, revisionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM settings_revisions WHERE revision_id = ?`, revisionID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("lookup revision: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("revision %s: %w", revisionID, ErrNotFound)
	}
	if err := setActive(ctx, tx, revisionID); err != nil {
		return err
	}
	return tx.Commit()
}

func setActive(ctx context.Context, tx *sql.Tx, id string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO active_settings (id, revision_id) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET revision_id = excluded.revision_id`,
		id,
	)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRevision(sc scanner) (Revision, error) {
	var (
		rev     Revision
		parent  sql.NullString
		data    string
		created string
	)
	if err := sc.Scan(&rev.ID, &parent, &data, &created); err != nil {
		return Revision{}, err
	}
	rev.ParentID = parent.String
	if err := json.Unmarshal([]byte(data), &rev.Settings); err != nil {
		return Revision{}, fmt.Errorf("decode revision %s: %w", rev.ID, err)
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Revision{}, fmt.Errorf("parse created_at: %w", err)
	}
	rev.CreatedAt = t
	return rev, nil
}
