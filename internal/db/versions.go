package db

import (
	"context"
	"database/sql"
	"errors"

	"quill/internal/models"
)

func ListVersions(ctx context.Context, database *sql.DB, promptID int64) ([]models.PromptVersion, error) {
	rows, err := database.QueryContext(ctx, `
SELECT id, prompt_id, title, content, folder_id, created_at, version_number
FROM prompt_versions
WHERE prompt_id = ?
ORDER BY version_number DESC`, promptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.PromptVersion, 0)
	for rows.Next() {
		var v models.PromptVersion
		if err := rows.Scan(&v.ID, &v.PromptID, &v.Title, &v.Content, &v.FolderID, &v.CreatedAt, &v.VersionNumber); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func GetVersion(ctx context.Context, database *sql.DB, promptID int64, versionNumber int) (*models.PromptVersion, error) {
	row := database.QueryRowContext(ctx, `
SELECT id, prompt_id, title, content, folder_id, created_at, version_number
FROM prompt_versions
WHERE prompt_id = ? AND version_number = ?`, promptID, versionNumber)
	v := &models.PromptVersion{}
	if err := row.Scan(&v.ID, &v.PromptID, &v.Title, &v.Content, &v.FolderID, &v.CreatedAt, &v.VersionNumber); err != nil {
		return nil, err
	}
	return v, nil
}

// RestoreVersion re-applies an old snapshot as a fresh update. History is
// append-only: restoring version 1 on top of version 3 produces version 4
// carrying version 1's title, content, and folder.
func RestoreVersion(ctx context.Context, database *sql.DB, promptID int64, versionNumber int) (bool, error) {
	version, err := GetVersion(ctx, database, promptID, versionNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return UpdatePrompt(ctx, database, promptID, version.Title, version.Content, version.FolderID)
}
