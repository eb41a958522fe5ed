package db

import (
	"context"
	"database/sql"

	"quill/internal/models"
)

type SearchParams struct {
	Query    string
	FolderID *int64
	Limit    int
	Offset   int
}

// SearchPrompts runs a full-text query over prompt titles and current
// content. Historic versions are not indexed; only the current view is
// searchable.
func SearchPrompts(ctx context.Context, database *sql.DB, params SearchParams) ([]models.SearchResult, error) {
	limit := params.Limit
	offset := params.Offset
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	whereClause := " WHERE prompts_fts MATCH ?"
	args := []any{params.Query}
	if params.FolderID != nil {
		whereClause += " AND p.folder_id = ?"
		args = append(args, *params.FolderID)
	}

	query := `
SELECT p.id, p.title, p.folder_id, p.current_version,
       snippet(prompts_fts, 1, '>>>', '<<<', '...', 20) AS snippet
FROM prompts_fts
JOIN prompts p ON p.id = prompts_fts.rowid` + whereClause +
		" ORDER BY rank LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.SearchResult, 0)
	for rows.Next() {
		var r models.SearchResult
		if err := rows.Scan(&r.ID, &r.Title, &r.FolderID, &r.CurrentVersion, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
