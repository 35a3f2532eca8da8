package history

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Visit is one remembered page.
type Visit struct {
	ID          int64
	URL         string
	Title       string
	VisitCount  int64
	LastVisited time.Time
	CreatedAt   time.Time
}

// Store records and queries page visits.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open history database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// aboutBlankURL is the blank page; it exists in history but never
// accumulates visit counts.
const aboutBlankURL = "about:blank"

// RecordVisit upserts a visit: new URLs are inserted, known URLs get their
// count bumped and timestamp refreshed. An empty title never overwrites a
// previously stored one.
func (s *Store) RecordVisit(ctx context.Context, url, title string) error {
	if url == "" {
		return errors.New("url cannot be empty")
	}

	const q = `
INSERT INTO visits (url, title) VALUES (?, ?)
ON CONFLICT(url) DO UPDATE SET
    visit_count  = visit_count + 1,
    last_visited = CURRENT_TIMESTAMP,
    title        = CASE WHEN excluded.title != '' THEN excluded.title ELSE title END`
	if _, err := s.db.ExecContext(ctx, q, url, title); err != nil {
		return err
	}

	if url == aboutBlankURL {
		_, err := s.db.ExecContext(ctx,
			`UPDATE visits SET visit_count = 1 WHERE url = ? AND visit_count > 1`, aboutBlankURL)
		return err
	}
	return nil
}

// SetTitle updates the stored title for a URL, if the URL is known.
func (s *Store) SetTitle(ctx context.Context, url, title string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE visits SET title = ? WHERE url = ?`, title, url)
	return err
}

// Recent returns up to limit visits, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Visit, error) {
	const q = `
SELECT id, url, title, visit_count, last_visited, created_at
FROM visits ORDER BY last_visited DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	visits, scanErr := scanVisits(rows)
	closeErr := rows.Close()
	if scanErr != nil {
		return nil, scanErr
	}
	if closeErr != nil {
		return nil, closeErr
	}
	return visits, nil
}

// FindByURL returns the visit for a URL, or nil if it was never recorded.
func (s *Store) FindByURL(ctx context.Context, url string) (*Visit, error) {
	const q = `
SELECT id, url, title, visit_count, last_visited, created_at
FROM visits WHERE url = ?`
	var v Visit
	err := s.db.QueryRowContext(ctx, q, url).Scan(
		&v.ID, &v.URL, &v.Title, &v.VisitCount, &v.LastVisited, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Prune deletes the least recently visited entries beyond max.
func (s *Store) Prune(ctx context.Context, max int) error {
	const q = `
DELETE FROM visits WHERE id NOT IN (
    SELECT id FROM visits ORDER BY last_visited DESC LIMIT ?)`
	_, err := s.db.ExecContext(ctx, q, max)
	return err
}

func scanVisits(rows *sql.Rows) ([]Visit, error) {
	var visits []Visit
	for rows.Next() {
		var v Visit
		if err := rows.Scan(&v.ID, &v.URL, &v.Title, &v.VisitCount, &v.LastVisited, &v.CreatedAt); err != nil {
			return nil, err
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}
