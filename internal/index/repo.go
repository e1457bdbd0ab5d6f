package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/janitor/internal/apperr"
)

// NoteRow represents a row in the notes table.
type NoteRow struct {
	Path      string
	Title     string
	Checksum  string
	UpdatedAt time.Time
}

// LinkRow is one link occurrence. Excerpt is empty when the link had no
// context.
type LinkRow struct {
	Source  string
	Target  string
	Excerpt string
}

// Snapshot is the full state written by one janitor run.
type Snapshot struct {
	Notes []NoteRow
	Links []LinkRow
	Ranks map[string]float64
}

// Backlink is a note linking to a queried title.
type Backlink struct {
	Source   string
	Rank     float64
	Excerpts []string
}

// Replace swaps the stored snapshot for s in one transaction.
func (db *DB) Replace(ctx context.Context, s Snapshot) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	for _, table := range []string{"notes", "ranks", "links"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("index: clear %s: %w", table, err)
		}
	}

	noteStmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO notes (path, title, checksum, updated_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare note insert: %w", err)
	}
	defer noteStmt.Close()
	for _, n := range s.Notes {
		updated := n.UpdatedAt
		if updated.IsZero() {
			updated = time.Now()
		}
		if _, err := noteStmt.ExecContext(ctx, n.Path, n.Title, n.Checksum, updated); err != nil {
			return fmt.Errorf("index: insert note: %w", err)
		}
	}

	rankStmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO ranks (title, score) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare rank insert: %w", err)
	}
	defer rankStmt.Close()
	for title, score := range s.Ranks {
		if _, err := rankStmt.ExecContext(ctx, title, score); err != nil {
			return fmt.Errorf("index: insert rank: %w", err)
		}
	}

	linkStmt, err := tx.PrepareContext(ctx, `INSERT INTO links (seq, source, target, excerpt) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare link insert: %w", err)
	}
	defer linkStmt.Close()
	for i, l := range s.Links {
		var excerpt sql.NullString
		if l.Excerpt != "" {
			excerpt = sql.NullString{String: l.Excerpt, Valid: true}
		}
		if _, err := linkStmt.ExecContext(ctx, i, l.Source, l.Target, excerpt); err != nil {
			return fmt.Errorf("index: insert link: %w", err)
		}
	}

	return tx.Commit()
}

// Backlinks returns the notes linking to target, highest rank first.
func (db *DB) Backlinks(ctx context.Context, target string) ([]Backlink, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT l.source, COALESCE(r.score, 0), l.excerpt
		FROM links l
		LEFT JOIN ranks r ON r.title = l.source
		WHERE l.target = ?
		ORDER BY COALESCE(r.score, 0) DESC, l.source, l.seq
	`, target)
	if err != nil {
		return nil, fmt.Errorf("index: backlinks: %w", err)
	}
	defer rows.Close()

	var out []Backlink
	for rows.Next() {
		var (
			source  string
			score   float64
			excerpt sql.NullString
		)
		if err := rows.Scan(&source, &score, &excerpt); err != nil {
			return nil, err
		}
		if len(out) == 0 || out[len(out)-1].Source != source {
			out = append(out, Backlink{Source: source, Rank: score})
		}
		if excerpt.Valid {
			last := &out[len(out)-1]
			last.Excerpts = append(last.Excerpts, excerpt.String)
		}
	}
	return out, rows.Err()
}

// Rank returns the stored score for title.
func (db *DB) Rank(ctx context.Context, title string) (float64, error) {
	var score float64
	err := db.conn.QueryRowContext(ctx, `SELECT score FROM ranks WHERE title = ?`, title).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("index: rank %q: %w", title, apperr.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("index: rank: %w", err)
	}
	return score, nil
}
