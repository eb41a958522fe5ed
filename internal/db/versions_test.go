package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

func TestUpdatesAppendVersionsInOrder(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t, "versions-append.db")
	defer database.Close()

	created, err := CreatePrompt(ctx, database, "Draft", "v1 content", nil)
	if err != nil {
		t.Fatalf("create prompt: %v", err)
	}

	updates := []string{"v2 content", "v3 content", "v4 content"}
	for _, content := range updates {
		ok, err := UpdatePrompt(ctx, database, created.ID, "Draft", content, nil)
		if err != nil {
			t.Fatalf("update prompt: %v", err)
		}
		if !ok {
			t.Fatalf("expected update to succeed")
		}
	}

	prompt, err := GetPrompt(ctx, database, created.ID)
	if err != nil {
		t.Fatalf("get prompt: %v", err)
	}
	if prompt.CurrentVersion != len(updates)+1 {
		t.Fatalf("expected current_version %d, got %d", len(updates)+1, prompt.CurrentVersion)
	}
	if prompt.Content != "v4 content" {
		t.Fatalf("prompt row should mirror latest snapshot, got %q", prompt.Content)
	}

	versions, err := ListVersions(ctx, database, created.ID)
	if err != nil {
		t.Fatalf("list versions: %v", err)
	}
	if len(versions) != len(updates)+1 {
		t.Fatalf("expected %d versions, got %d", len(updates)+1, len(versions))
	}
	for i, v := range versions {
		want := len(versions) - i
		if v.VersionNumber != want {
			t.Fatalf("expected newest-first ordering, got version %d at index %d", v.VersionNumber, i)
		}
	}
}

func TestUpdateMissingPromptIsNoOp(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t, "versions-missing.db")
	defer database.Close()

	ok, err := UpdatePrompt(ctx, database, 9999, "Ghost", "content", nil)
	if err != nil {
		t.Fatalf("update missing prompt: %v", err)
	}
	if ok {
		t.Fatalf("expected update of missing prompt to report false")
	}

	var count int
	if err := database.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM prompt_versions WHERE prompt_id = 9999`,
	).Scan(&count); err != nil {
		t.Fatalf("count versions: %v", err)
	}
	if count != 0 {
		t.Fatalf("no version row may be written for a missing prompt, got %d", count)
	}
}

// Update deliberately skips the create-path validation: empty titles,
// empty content, and duplicate titles are all accepted. This looseness is
// inherited behavior, not an oversight to fix.
func TestUpdateSkipsCreatePathValidation(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t, "versions-loose.db")
	defer database.Close()

	first, err := CreatePrompt(ctx, database, "First", "content", nil)
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := CreatePrompt(ctx, database, "Second", "content", nil)
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	if ok, err := UpdatePrompt(ctx, database, second.ID, "First", "colliding title", nil); err != nil || !ok {
		t.Fatalf("expected duplicate title to be accepted on update: ok=%v err=%v", ok, err)
	}
	if ok, err := UpdatePrompt(ctx, database, first.ID, "", "", nil); err != nil || !ok {
		t.Fatalf("expected empty snapshot to be accepted on update: ok=%v err=%v", ok, err)
	}

	prompt, err := GetPrompt(ctx, database, first.ID)
	if err != nil {
		t.Fatalf("get prompt: %v", err)
	}
	if prompt.Title != "" || prompt.CurrentVersion != 2 {
		t.Fatalf("unexpected prompt after loose update: %+v", prompt)
	}
}

func TestRestoreVersionAppendsInsteadOfRewinding(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t, "versions-restore.db")
	defer database.Close()

	folder, err := CreateFolder(ctx, database, "Snippets")
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}

	created, err := CreatePrompt(ctx, database, "Original", "first content", &folder.ID)
	if err != nil {
		t.Fatalf("create prompt: %v", err)
	}
	if ok, err := UpdatePrompt(ctx, database, created.ID, "Renamed", "second content", nil); err != nil || !ok {
		t.Fatalf("update to v2: ok=%v err=%v", ok, err)
	}
	if ok, err := UpdatePrompt(ctx, database, created.ID, "Renamed Again", "third content", nil); err != nil || !ok {
		t.Fatalf("update to v3: ok=%v err=%v", ok, err)
	}

	ok, err := RestoreVersion(ctx, database, created.ID, 1)
	if err != nil {
		t.Fatalf("restore version 1: %v", err)
	}
	if !ok {
		t.Fatalf("expected restore to succeed")
	}

	prompt, err := GetPrompt(ctx, database, created.ID)
	if err != nil {
		t.Fatalf("get prompt: %v", err)
	}
	if prompt.CurrentVersion != 4 {
		t.Fatalf("restore must append a new version, got current_version %d", prompt.CurrentVersion)
	}
	if prompt.Title != "Original" || prompt.Content != "first content" {
		t.Fatalf("restored prompt should carry version 1's snapshot, got %+v", prompt)
	}
	if prompt.FolderID == nil || *prompt.FolderID != folder.ID {
		t.Fatalf("restored prompt should carry version 1's folder, got %+v", prompt.FolderID)
	}

	top, err := GetVersion(ctx, database, created.ID, 4)
	if err != nil {
		t.Fatalf("get version 4: %v", err)
	}
	if top.Content != "first content" {
		t.Fatalf("version 4 should duplicate version 1's content, got %q", top.Content)
	}

	versions, err := ListVersions(ctx, database, created.ID)
	if err != nil {
		t.Fatalf("list versions: %v", err)
	}
	if len(versions) != 4 {
		t.Fatalf("restore must never drop history, expected 4 versions got %d", len(versions))
	}
}

func TestRestoreMissingVersionFails(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t, "versions-restore-missing.db")
	defer database.Close()

	created, err := CreatePrompt(ctx, database, "Solo", "only version", nil)
	if err != nil {
		t.Fatalf("create prompt: %v", err)
	}

	ok, err := RestoreVersion(ctx, database, created.ID, 7)
	if err != nil {
		t.Fatalf("restore missing version: %v", err)
	}
	if ok {
		t.Fatalf("expected restore of missing version to report false")
	}

	prompt, err := GetPrompt(ctx, database, created.ID)
	if err != nil {
		t.Fatalf("get prompt: %v", err)
	}
	if prompt.CurrentVersion != 1 {
		t.Fatalf("failed restore must not create versions, got current_version %d", prompt.CurrentVersion)
	}
}

func TestGetVersionMissing(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t, "versions-get-missing.db")
	defer database.Close()

	if _, err := GetVersion(ctx, database, 1, 1); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}
