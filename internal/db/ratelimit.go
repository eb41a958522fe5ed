package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// CountVersionsSince returns how many version rows were written since the
// given time, plus the oldest such timestamp. Every create, update, and
// restore leaves a version row, so this doubles as a durable write counter
// that survives server restarts.
func CountVersionsSince(ctx context.Context, database *sql.DB, since time.Time) (int, *time.Time, error) {
	var (
		count       int
		oldestValue sql.NullString
	)
	if err := database.QueryRowContext(ctx, `
SELECT COUNT(1), MIN(created_at)
FROM prompt_versions
WHERE created_at >= ?`, since.UTC().Format(time.RFC3339)).Scan(&count, &oldestValue); err != nil {
		return 0, nil, err
	}

	if !oldestValue.Valid || strings.TrimSpace(oldestValue.String) == "" {
		return count, nil, nil
	}
	oldest, err := time.Parse(time.RFC3339, oldestValue.String)
	if err != nil {
		return 0, nil, fmt.Errorf("parse oldest created_at timestamp: %w", err)
	}
	oldest = oldest.UTC()
	return count, &oldest, nil
}
