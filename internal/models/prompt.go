package models

type Prompt struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	FolderID       *int64 `json:"folder_id"`
	CurrentVersion int    `json:"current_version"`
}

// PromptVersion is an immutable snapshot of a prompt taken at write time.
// Version numbers start at 1 and strictly increase per prompt.
type PromptVersion struct {
	ID            int64  `json:"id"`
	PromptID      int64  `json:"prompt_id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	FolderID      *int64 `json:"folder_id"`
	CreatedAt     string `json:"created_at"`
	VersionNumber int    `json:"version_number"`
}
