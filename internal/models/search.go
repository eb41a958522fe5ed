package models

type SearchResult struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	FolderID       *int64 `json:"folder_id"`
	CurrentVersion int    `json:"current_version"`
	Snippet        string `json:"snippet"`
}
