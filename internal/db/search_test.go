package db

import (
	"context"
	"strings"
	"testing"
)

func TestSearchPromptsMatchesTitleAndContent(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t, "search.db")
	defer database.Close()

	if _, err := CreatePrompt(ctx, database, "Kubernetes Debugging", "Walk through pod crash loops step by step.", nil); err != nil {
		t.Fatalf("create prompt: %v", err)
	}
	if _, err := CreatePrompt(ctx, database, "Email Opener", "Mention the kubernetes migration in passing.", nil); err != nil {
		t.Fatalf("create prompt: %v", err)
	}
	if _, err := CreatePrompt(ctx, database, "Unrelated", "Nothing to see here.", nil); err != nil {
		t.Fatalf("create prompt: %v", err)
	}

	results, err := SearchPrompts(ctx, database, SearchParams{Query: "kubernetes"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d: %+v", len(results), results)
	}
	for _, r := range results {
		if !strings.Contains(r.Snippet, ">>>") {
			t.Fatalf("expected highlighted snippet, got %q", r.Snippet)
		}
	}
}

func TestSearchPromptsTracksUpdates(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t, "search-updates.db")
	defer database.Close()

	created, err := CreatePrompt(ctx, database, "Draft", "about elephants", nil)
	if err != nil {
		t.Fatalf("create prompt: %v", err)
	}
	if ok, err := UpdatePrompt(ctx, database, created.ID, "Draft", "about giraffes", nil); err != nil || !ok {
		t.Fatalf("update prompt: ok=%v err=%v", ok, err)
	}

	// Only the current content is indexed, not historic versions.
	if results, err := SearchPrompts(ctx, database, SearchParams{Query: "elephants"}); err != nil {
		t.Fatalf("search old content: %v", err)
	} else if len(results) != 0 {
		t.Fatalf("old content must leave the index, got %+v", results)
	}
	if results, err := SearchPrompts(ctx, database, SearchParams{Query: "giraffes"}); err != nil {
		t.Fatalf("search new content: %v", err)
	} else if len(results) != 1 {
		t.Fatalf("new content must be indexed, got %+v", results)
	}

	if ok, err := DeletePrompt(ctx, database, created.ID); err != nil || !ok {
		t.Fatalf("delete prompt: ok=%v err=%v", ok, err)
	}
	if results, err := SearchPrompts(ctx, database, SearchParams{Query: "giraffes"}); err != nil {
		t.Fatalf("search after delete: %v", err)
	} else if len(results) != 0 {
		t.Fatalf("deleted prompt must leave the index, got %+v", results)
	}
}

func TestSearchPromptsFolderFilter(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t, "search-folder.db")
	defer database.Close()

	folder, err := CreateFolder(ctx, database, "Work")
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	if _, err := CreatePrompt(ctx, database, "Standup Notes", "daily report template", &folder.ID); err != nil {
		t.Fatalf("create prompt: %v", err)
	}
	if _, err := CreatePrompt(ctx, database, "Status Report", "weekly report template", nil); err != nil {
		t.Fatalf("create prompt: %v", err)
	}

	results, err := SearchPrompts(ctx, database, SearchParams{Query: "report", FolderID: &folder.ID})
	if err != nil {
		t.Fatalf("search with folder filter: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Standup Notes" {
		t.Fatalf("unexpected filtered results: %+v", results)
	}
}
