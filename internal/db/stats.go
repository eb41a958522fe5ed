package db

import (
	"context"
	"database/sql"
)

type LibraryStats struct {
	Prompts       int `json:"prompts"`
	Folders       int `json:"folders"`
	Versions      int `json:"versions"`
	Uncategorized int `json:"uncategorized"`
}

func GetLibraryStats(ctx context.Context, database *sql.DB) (LibraryStats, error) {
	stats := LibraryStats{}
	queries := []struct {
		sql string
		dst *int
	}{
		{`SELECT COUNT(1) FROM prompts`, &stats.Prompts},
		{`SELECT COUNT(1) FROM folders`, &stats.Folders},
		{`SELECT COUNT(1) FROM prompt_versions`, &stats.Versions},
		{`SELECT COUNT(1) FROM prompts WHERE folder_id IS NULL`, &stats.Uncategorized},
	}
	for _, q := range queries {
		if err := database.QueryRowContext(ctx, q.sql).Scan(q.dst); err != nil {
			return LibraryStats{}, err
		}
	}
	return stats, nil
}
