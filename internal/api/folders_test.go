package api

import (
	"fmt"
	"net/http"
	"testing"

	"quill/internal/models"
)

func TestFolderLifecycleOverHTTP(t *testing.T) {
	server, database := setupTestServer(t)
	defer server.Close()
	defer database.Close()

	createResp := doReq(t, server.URL, http.MethodPost, "/api/v1/folders", map[string]any{"name": "Drafts"})
	if createResp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", createResp.StatusCode)
	}
	var folder models.Folder
	decodeJSON(t, createResp, &folder)
	if folder.ID == 0 || folder.Name != "Drafts" {
		t.Fatalf("unexpected folder: %+v", folder)
	}

	blankResp := doReq(t, server.URL, http.MethodPost, "/api/v1/folders", map[string]any{"name": "  "})
	if blankResp.StatusCode != http.StatusBadRequest {
		t.Fatalf("blank name status = %d", blankResp.StatusCode)
	}
	_ = blankResp.Body.Close()

	renameResp := doReq(t, server.URL, http.MethodPut, fmt.Sprintf("/api/v1/folders/%d", folder.ID), map[string]any{"name": "Final Drafts"})
	if renameResp.StatusCode != http.StatusOK {
		t.Fatalf("rename status = %d", renameResp.StatusCode)
	}
	_ = renameResp.Body.Close()

	var listPayload struct {
		Folders []models.Folder `json:"folders"`
		Total   int             `json:"total"`
	}
	listResp := doReq(t, server.URL, http.MethodGet, "/api/v1/folders", nil)
	decodeJSON(t, listResp, &listPayload)
	if listPayload.Total != 1 || listPayload.Folders[0].Name != "Final Drafts" {
		t.Fatalf("unexpected list payload: %+v", listPayload)
	}

	deleteResp := doReq(t, server.URL, http.MethodDelete, fmt.Sprintf("/api/v1/folders/%d", folder.ID), nil)
	if deleteResp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", deleteResp.StatusCode)
	}
	_ = deleteResp.Body.Close()

	missingResp := doReq(t, server.URL, http.MethodDelete, fmt.Sprintf("/api/v1/folders/%d", folder.ID), nil)
	if missingResp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete status = %d", missingResp.StatusCode)
	}
	_ = missingResp.Body.Close()
}

func TestDeleteFolderKeepsPromptsOverHTTP(t *testing.T) {
	server, database := setupTestServer(t)
	defer server.Close()
	defer database.Close()

	folderResp := doReq(t, server.URL, http.MethodPost, "/api/v1/folders", map[string]any{"name": "Doomed"})
	if folderResp.StatusCode != http.StatusCreated {
		t.Fatalf("create folder status = %d", folderResp.StatusCode)
	}
	var folder models.Folder
	decodeJSON(t, folderResp, &folder)

	promptResp := doReq(t, server.URL, http.MethodPost, "/api/v1/prompts", map[string]any{
		"title":     "Survivor",
		"content":   "still here",
		"folder_id": folder.ID,
	})
	if promptResp.StatusCode != http.StatusCreated {
		t.Fatalf("create prompt status = %d", promptResp.StatusCode)
	}
	prompt := decodePrompt(t, promptResp)

	deleteResp := doReq(t, server.URL, http.MethodDelete, fmt.Sprintf("/api/v1/folders/%d", folder.ID), nil)
	if deleteResp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete folder status = %d", deleteResp.StatusCode)
	}
	_ = deleteResp.Body.Close()

	getResp := doReq(t, server.URL, http.MethodGet, fmt.Sprintf("/api/v1/prompts/%d", prompt.ID), nil)
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("prompt must survive folder deletion, status = %d", getResp.StatusCode)
	}
	reloaded := decodePrompt(t, getResp)
	if reloaded.FolderID != nil {
		t.Fatalf("expected folder_id cleared, got %v", *reloaded.FolderID)
	}
}
