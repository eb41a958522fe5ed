package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"quill/internal/models"
)

func CreateFolder(ctx context.Context, database *sql.DB, name string) (*models.Folder, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: folder name cannot be empty", ErrValidation)
	}

	res, err := database.ExecContext(ctx,
		`INSERT INTO folders (name) VALUES (?)`, name)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Folder{ID: id, Name: name}, nil
}

func ListFolders(ctx context.Context, database *sql.DB) ([]models.Folder, error) {
	rows, err := database.QueryContext(ctx, `
SELECT id, name
FROM folders
ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Folder, 0)
	for rows.Next() {
		var f models.Folder
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func FolderExists(ctx context.Context, database *sql.DB, id int64) (bool, error) {
	var count int
	if err := database.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM folders WHERE id = ?`, id,
	).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// FolderNames returns an id-to-name lookup built from a single read.
func FolderNames(ctx context.Context, database *sql.DB) (map[int64]string, error) {
	folders, err := ListFolders(ctx, database)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]string, len(folders))
	for _, f := range folders {
		out[f.ID] = f.Name
	}
	return out, nil
}

func RenameFolder(ctx context.Context, database *sql.DB, id int64, newName string) (bool, error) {
	res, err := database.ExecContext(ctx,
		`UPDATE folders SET name = ? WHERE id = ?`, newName, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteFolder removes the folder only. Prompts and version snapshots that
// pointed at it keep existing with folder_id cleared. The clearing happens
// explicitly in the same transaction rather than leaning on the SET NULL
// foreign keys, since pooled connections may miss the foreign_keys pragma.
func DeleteFolder(ctx context.Context, database *sql.DB, id int64) (bool, error) {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE prompts SET folder_id = NULL WHERE folder_id = ?`, id); err != nil {
		return false, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE prompt_versions SET folder_id = NULL WHERE folder_id = ?`, id); err != nil {
		return false, err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM folders WHERE id = ?`, id)
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
