package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SearchLog is one completed upstream search, kept for auditing and
// rate analysis. Logging is best-effort and never blocks a search.
type SearchLog struct {
	ID           uuid.UUID `db:"id"`
	PartNumber   string    `db:"part_number"`
	Manufacturer string    `db:"manufacturer"`
	PartGroup    string    `db:"part_group"`
	ResultCount  int       `db:"result_count"`
	DurationMS   int64     `db:"duration_ms"`
	CacheHit     bool      `db:"cache_hit"`
	CreatedAt    time.Time `db:"created_at"`
}

// EnsureSchema creates the searches table when it does not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS searches (
			id UUID PRIMARY KEY,
			part_number TEXT NOT NULL,
			manufacturer TEXT NOT NULL DEFAULT '',
			part_group TEXT NOT NULL DEFAULT '',
			result_count INT NOT NULL DEFAULT 0,
			duration_ms BIGINT NOT NULL DEFAULT 0,
			cache_hit BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`

	if _, err := db.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create searches table: %w", err)
	}
	return nil
}

// InsertSearch records one completed search.
func (db *DB) InsertSearch(ctx context.Context, s *SearchLog) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	query := `
		INSERT INTO searches (id, part_number, manufacturer, part_group, result_count, duration_ms, cache_hit)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := db.pool.QueryRow(ctx, query,
		s.ID, s.PartNumber, s.Manufacturer, s.PartGroup, s.ResultCount, s.DurationMS, s.CacheHit,
	).Scan(&s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert search log: %w", err)
	}
	return nil
}

// RecentSearches returns the newest search logs, most recent first.
func (db *DB) RecentSearches(ctx context.Context, limit int) ([]*SearchLog, error) {
	query := `
		SELECT id, part_number, manufacturer, part_group, result_count, duration_ms, cache_hit, created_at
		FROM searches
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := db.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query searches: %w", err)
	}
	defer rows.Close()

	var logs []*SearchLog
	for rows.Next() {
		s := &SearchLog{}
		if err := rows.Scan(&s.ID, &s.PartNumber, &s.Manufacturer, &s.PartGroup,
			&s.ResultCount, &s.DurationMS, &s.CacheHit, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan search log: %w", err)
		}
		logs = append(logs, s)
	}
	return logs, rows.Err()
}
