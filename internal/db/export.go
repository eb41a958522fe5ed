package db

import (
	"context"
	"database/sql"
	"fmt"
	"path"
	"strings"

	"quill/internal/models"
)

type JSONExport struct {
	ExportedAt string                 `json:"exported_at"`
	Folders    []models.Folder        `json:"folders"`
	Prompts    []models.Prompt        `json:"prompts"`
	Versions   []models.PromptVersion `json:"versions"`
}

type MarkdownFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// ExportJSON snapshots the whole library: folders, current prompt rows, and
// the full version history.
func ExportJSON(ctx context.Context, database *sql.DB) (*JSONExport, error) {
	folders, err := ListFolders(ctx, database)
	if err != nil {
		return nil, err
	}
	prompts, err := ListPrompts(ctx, database, ListPromptsParams{})
	if err != nil {
		return nil, err
	}
	versions, err := listAllVersions(ctx, database)
	if err != nil {
		return nil, err
	}
	return &JSONExport{
		ExportedAt: nowRFC3339(),
		Folders:    folders,
		Prompts:    prompts,
		Versions:   versions,
	}, nil
}

// ExportMarkdown renders one file per prompt, grouped into directories by
// folder name. Only the current content is exported, not historic versions.
func ExportMarkdown(ctx context.Context, database *sql.DB) ([]MarkdownFile, error) {
	prompts, err := ListPrompts(ctx, database, ListPromptsParams{})
	if err != nil {
		return nil, err
	}
	folderNames, err := FolderNames(ctx, database)
	if err != nil {
		return nil, err
	}

	files := make([]MarkdownFile, 0, len(prompts))
	for _, p := range prompts {
		dir := "uncategorized"
		if p.FolderID != nil {
			if name, ok := folderNames[*p.FolderID]; ok {
				dir = slugify(name)
			}
		}
		var b strings.Builder
		fmt.Fprintf(&b, "# %s\n\n", p.Title)
		b.WriteString(p.Content)
		if !strings.HasSuffix(p.Content, "\n") {
			b.WriteString("\n")
		}
		files = append(files, MarkdownFile{
			Path:    path.Join(dir, fmt.Sprintf("%d-%s.md", p.ID, slugify(p.Title))),
			Content: b.String(),
		})
	}
	return files, nil
}

func listAllVersions(ctx context.Context, database *sql.DB) ([]models.PromptVersion, error) {
	rows, err := database.QueryContext(ctx, `
SELECT id, prompt_id, title, content, folder_id, created_at, version_number
FROM prompt_versions
ORDER BY prompt_id ASC, version_number ASC`)
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

func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "untitled"
	}
	return slug
}
