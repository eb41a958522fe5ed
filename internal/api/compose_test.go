package api

import (
	"fmt"
	"net/http"
	"testing"
)

func TestComposeEndpoint(t *testing.T) {
	server, database := setupTestServer(t)
	defer server.Close()
	defer database.Close()

	resp := doReq(t, server.URL, http.MethodPost, "/api/v1/compose", map[string]any{
		"content":   "Hello {name}!",
		"variables": map[string]string{"name": "World"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("compose status = %d", resp.StatusCode)
	}
	var payload struct {
		Composed string `json:"composed"`
	}
	decodeJSON(t, resp, &payload)
	if payload.Composed != "Hello World!" {
		t.Fatalf("unexpected composed text: %q", payload.Composed)
	}
}

func TestComposeByPromptID(t *testing.T) {
	server, database := setupTestServer(t)
	defer server.Close()
	defer database.Close()

	sigResp := doReq(t, server.URL, http.MethodPost, "/api/v1/prompts", map[string]any{
		"title":   "Signoff",
		"content": "Cheers, {author}",
	})
	if sigResp.StatusCode != http.StatusCreated {
		t.Fatalf("create signoff status = %d", sigResp.StatusCode)
	}
	sig := decodePrompt(t, sigResp)

	letterResp := doReq(t, server.URL, http.MethodPost, "/api/v1/prompts", map[string]any{
		"title":   "Letter",
		"content": fmt.Sprintf("Body.\n\n{{%d}}", sig.ID),
	})
	if letterResp.StatusCode != http.StatusCreated {
		t.Fatalf("create letter status = %d", letterResp.StatusCode)
	}
	letter := decodePrompt(t, letterResp)

	resp := doReq(t, server.URL, http.MethodPost, "/api/v1/compose", map[string]any{
		"prompt_id": letter.ID,
		"variables": map[string]string{"author": "Ada"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("compose status = %d", resp.StatusCode)
	}
	var payload struct {
		Composed string `json:"composed"`
	}
	decodeJSON(t, resp, &payload)
	if payload.Composed != "Body.\n\nCheers, Ada" {
		t.Fatalf("unexpected composed text: %q", payload.Composed)
	}
}

func TestComposeRequiresInput(t *testing.T) {
	server, database := setupTestServer(t)
	defer server.Close()
	defer database.Close()

	resp := doReq(t, server.URL, http.MethodPost, "/api/v1/compose", map[string]any{
		"variables": map[string]string{"name": "ignored"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty compose status = %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	missingResp := doReq(t, server.URL, http.MethodPost, "/api/v1/compose", map[string]any{
		"prompt_id": 9999,
	})
	if missingResp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing prompt compose status = %d", missingResp.StatusCode)
	}
	_ = missingResp.Body.Close()
}
