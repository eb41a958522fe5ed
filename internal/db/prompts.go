package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"quill/internal/models"
)

// ErrValidation covers empty or whitespace-only titles, contents, and folder
// names on creation. Updates intentionally skip this check, see UpdatePrompt.
var ErrValidation = errors.New("validation failed")

// ErrDuplicateTitle is returned when creating a prompt whose title collides
// case-insensitively with an existing one.
var ErrDuplicateTitle = errors.New("a prompt with this title already exists")

type ListPromptsParams struct {
	FolderID *int64
	Search   string
}

// CreatePrompt inserts a new prompt together with its version-1 snapshot.
// Both rows land in one transaction so a reader never sees a prompt without
// a matching version row.
func CreatePrompt(ctx context.Context, database *sql.DB, title, content string, folderID *int64) (*models.Prompt, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrValidation)
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var existing int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM prompts WHERE LOWER(title) = LOWER(?)`,
		strings.TrimSpace(title),
	).Scan(&existing)
	if err == nil {
		return nil, ErrDuplicateTitle
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	res, err := tx.ExecContext(ctx, `
INSERT INTO prompts (title, content, folder_id, current_version)
VALUES (?, ?, ?, 1)`, title, content, folderID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO prompt_versions (prompt_id, title, content, folder_id, created_at, version_number)
VALUES (?, ?, ?, ?, ?, 1)`, id, title, content, folderID, nowRFC3339()); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &models.Prompt{
		ID:             id,
		Title:          title,
		Content:        content,
		FolderID:       folderID,
		CurrentVersion: 1,
	}, nil
}

func GetPrompt(ctx context.Context, database *sql.DB, id int64) (*models.Prompt, error) {
	row := database.QueryRowContext(ctx, `
SELECT id, title, content, folder_id, current_version
FROM prompts
WHERE id = ?`, id)
	p := &models.Prompt{}
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.FolderID, &p.CurrentVersion); err != nil {
		return nil, err
	}
	return p, nil
}

// GetPromptByTitle matches the title exactly, case-sensitively. The reference
// resolver relies on that: `{{Foo}}` and `{{foo}}` are different markers.
func GetPromptByTitle(ctx context.Context, database *sql.DB, title string) (*models.Prompt, error) {
	row := database.QueryRowContext(ctx, `
SELECT id, title, content, folder_id, current_version
FROM prompts
WHERE title = ?`, title)
	p := &models.Prompt{}
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.FolderID, &p.CurrentVersion); err != nil {
		return nil, err
	}
	return p, nil
}

func ListPrompts(ctx context.Context, database *sql.DB, params ListPromptsParams) ([]models.Prompt, error) {
	query := `
SELECT id, title, content, folder_id, current_version
FROM prompts`
	var (
		conditions []string
		args       []any
	)
	if params.FolderID != nil {
		conditions = append(conditions, "folder_id = ?")
		args = append(args, *params.FolderID)
	}
	if strings.TrimSpace(params.Search) != "" {
		conditions = append(conditions, "LOWER(title) LIKE ?")
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(params.Search))+"%")
	}
	if len(conditions) > 0 {
		query += "\nWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\nORDER BY id ASC"

	rows, err := database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Prompt, 0)
	for rows.Next() {
		var p models.Prompt
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.FolderID, &p.CurrentVersion); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdatePrompt snapshots the new state as version current_version+1 and moves
// the prompt row to match, atomically. Returns false when the prompt does not
// exist; no version row is written in that case.
//
// Unlike CreatePrompt this performs no emptiness or duplicate-title checks.
// The looseness is inherited behavior that callers may rely on, so it stays.
func UpdatePrompt(ctx context.Context, database *sql.DB, id int64, title, content string, folderID *int64) (bool, error) {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var currentVersion int
	err = tx.QueryRowContext(ctx,
		`SELECT current_version FROM prompts WHERE id = ?`, id,
	).Scan(&currentVersion)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	nextVersion := currentVersion + 1

	if _, err := tx.ExecContext(ctx, `
INSERT INTO prompt_versions (prompt_id, title, content, folder_id, created_at, version_number)
VALUES (?, ?, ?, ?, ?, ?)`, id, title, content, folderID, nowRFC3339(), nextVersion); err != nil {
		return false, err
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE prompts
SET title = ?, content = ?, folder_id = ?, current_version = ?
WHERE id = ?`, title, content, folderID, nextVersion, id); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// DeletePrompt removes the prompt and every one of its version rows in one
// transaction. The schema also declares ON DELETE CASCADE, but the delete is
// explicit so the cascade holds even on connections without the foreign_keys
// pragma applied.
func DeletePrompt(ctx context.Context, database *sql.DB, id int64) (bool, error) {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM prompt_versions WHERE prompt_id = ?`, id); err != nil {
		return false, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM prompts WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return n > 0, nil
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}
