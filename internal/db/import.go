package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
)

// ImportJSON loads a JSONExport payload into the database, preserving ids,
// current_version pointers, and version numbering. Prompts that arrive
// without any version rows get a synthesized version 1 from their current
// state, mirroring how the very first schema backfilled history.
func ImportJSON(ctx context.Context, database *sql.DB, filePath string) error {
	b, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	var payload JSONExport
	if err := json.Unmarshal(b, &payload); err != nil {
		return fmt.Errorf("parse json export: %w", err)
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, f := range payload.Folders {
		if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO folders (id, name)
VALUES (?, ?)`, f.ID, f.Name); err != nil {
			return fmt.Errorf("import folder %d: %w", f.ID, err)
		}
	}

	versionsByPrompt := make(map[int64]int)
	for _, v := range payload.Versions {
		versionsByPrompt[v.PromptID]++
	}

	for _, p := range payload.Prompts {
		if _, err := tx.ExecContext(ctx, `
INSERT OR REPLACE INTO prompts (id, title, content, folder_id, current_version)
VALUES (?, ?, ?, ?, ?)`, p.ID, p.Title, p.Content, p.FolderID, p.CurrentVersion); err != nil {
			return fmt.Errorf("import prompt %d: %w", p.ID, err)
		}
		if versionsByPrompt[p.ID] == 0 {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO prompt_versions (prompt_id, title, content, folder_id, created_at, version_number)
VALUES (?, ?, ?, ?, ?, 1)`, p.ID, p.Title, p.Content, p.FolderID, nowRFC3339()); err != nil {
				return fmt.Errorf("backfill version for prompt %d: %w", p.ID, err)
			}
		}
	}

	for _, v := range payload.Versions {
		if _, err := tx.ExecContext(ctx, `
INSERT OR REPLACE INTO prompt_versions (id, prompt_id, title, content, folder_id, created_at, version_number)
VALUES (?, ?, ?, ?, ?, ?, ?)`, v.ID, v.PromptID, v.Title, v.Content, v.FolderID, v.CreatedAt, v.VersionNumber); err != nil {
			return fmt.Errorf("import version %d of prompt %d: %w", v.VersionNumber, v.PromptID, err)
		}
	}

	return tx.Commit()
}
