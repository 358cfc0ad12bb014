package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/starford/dokuwiki2wikijs/internal/models"
)

// EntryRow represents a row in the entries table.
type EntryRow struct {
	Source    string
	Kind      models.Kind
	Target    string
	URL       string
	Title     string
	Checksum  string
	Lines     int
	Warnings  int
	UpdatedAt time.Time
}

// Summary counts what the manifest currently holds.
type Summary struct {
	Pages    int
	Media    int
	Warnings int
	Links    int
}

// BeginRun records a new conversion run of source and clears the entries
// and links of previous runs, since every run rebuilds the output tree.
func (db *DB) BeginRun(source string) (string, error) {
	id := uuid.NewString()
	tx, err := db.conn.Begin()
	if err != nil {
		return "", fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`INSERT INTO runs (id, source, started_at) VALUES (?, ?, ?)`, id, source, time.Now().UTC()); err != nil {
		return "", fmt.Errorf("index: insert run: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM links`); err != nil {
		return "", fmt.Errorf("index: clear links: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM entries`); err != nil {
		return "", fmt.Errorf("index: clear entries: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("index: commit run: %w", err)
	}
	db.runID = id
	return id, nil
}

// UpsertEntry inserts or replaces an entry and its outgoing links within a
// transaction.
func (db *DB) UpsertEntry(e EntryRow, links []string) error {
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now().UTC()
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO entries (source, kind, target, url, title, checksum, lines, warnings, run_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source) DO UPDATE SET
			kind       = excluded.kind,
			target     = excluded.target,
			url        = excluded.url,
			title      = excluded.title,
			checksum   = excluded.checksum,
			lines      = excluded.lines,
			warnings   = excluded.warnings,
			run_id     = excluded.run_id,
			updated_at = excluded.updated_at
	`, e.Source, string(e.Kind), e.Target, e.URL, e.Title, e.Checksum, e.Lines, e.Warnings, db.runID, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert entry: %w", err)
	}

	// Replace links: delete old then bulk insert.
	if _, err := tx.Exec(`DELETE FROM links WHERE source = ?`, e.Source); err != nil {
		return fmt.Errorf("index: delete links: %w", err)
	}
	if len(links) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO links (source, target) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare link insert: %w", err)
		}
		defer stmt.Close()
		for _, target := range links {
			if _, err := stmt.Exec(e.Source, target); err != nil {
				return fmt.Errorf("index: insert link: %w", err)
			}
		}
	}

	return tx.Commit()
}

// DeleteEntry removes an entry and its outgoing links.
func (db *DB) DeleteEntry(source string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM links WHERE source = ?`, source); err != nil {
		return fmt.Errorf("index: delete links: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM entries WHERE source = ?`, source); err != nil {
		return fmt.Errorf("index: delete entry: %w", err)
	}
	return tx.Commit()
}

// GetChecksum returns the stored source checksum of an entry, or empty
// string if not found.
func (db *DB) GetChecksum(source string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM entries WHERE source = ?`, source).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// ReplaceUsers stores the user registry, dropping users no longer present.
func (db *DB) ReplaceUsers(users []models.User) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM users`); err != nil {
		return fmt.Errorf("index: clear users: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO users (login, name, email) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare user insert: %w", err)
	}
	defer stmt.Close()
	for _, u := range users {
		if _, err := stmt.Exec(u.Login, u.Name, u.Email); err != nil {
			return fmt.Errorf("index: insert user %s: %w", u.Login, err)
		}
	}
	return tx.Commit()
}

// Users returns the stored registry ordered by login.
func (db *DB) Users() ([]models.User, error) {
	rows, err := db.conn.Query(`SELECT login, name, email FROM users ORDER BY login`)
	if err != nil {
		return nil, fmt.Errorf("index: users: %w", err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.Login, &u.Name, &u.Email); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// DanglingLinks returns internal links whose target matches no converted
// page or copied media file.
func (db *DB) DanglingLinks() ([]models.Link, error) {
	rows, err := db.conn.Query(`
		SELECT l.source, l.target
		FROM links l
		WHERE NOT EXISTS (SELECT 1 FROM entries e WHERE e.url = l.target)
		ORDER BY l.source, l.target
	`)
	if err != nil {
		return nil, fmt.Errorf("index: dangling links: %w", err)
	}
	defer rows.Close()

	var out []models.Link
	for rows.Next() {
		var l models.Link
		if err := rows.Scan(&l.Source, &l.Target); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Summary counts entries by kind, pages with warnings and stored links.
func (db *DB) Summary() (Summary, error) {
	var s Summary
	err := db.conn.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN warnings > 0 THEN 1 ELSE 0 END), 0),
			(SELECT count(*) FROM links)
		FROM entries
	`, string(models.KindPage), string(models.KindMedia)).Scan(&s.Pages, &s.Media, &s.Warnings, &s.Links)
	if err != nil {
		return Summary{}, fmt.Errorf("index: summary: %w", err)
	}
	return s, nil
}
