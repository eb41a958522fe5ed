package api

import (
	"net/http"
	"testing"

	"quill/internal/models"
)

func TestSearchEndpoint(t *testing.T) {
	server, database := setupTestServer(t)
	defer server.Close()
	defer database.Close()

	createResp := doReq(t, server.URL, http.MethodPost, "/api/v1/prompts", map[string]any{
		"title":   "Incident Review",
		"content": "Walk through the outage timeline.",
	})
	if createResp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", createResp.StatusCode)
	}
	_ = createResp.Body.Close()

	resp := doReq(t, server.URL, http.MethodGet, "/api/v1/search?q=outage", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search status = %d", resp.StatusCode)
	}
	var payload struct {
		Results []models.SearchResult `json:"results"`
		Total   int                   `json:"total"`
		Query   string                `json:"query"`
	}
	decodeJSON(t, resp, &payload)
	if payload.Total != 1 || payload.Results[0].Title != "Incident Review" {
		t.Fatalf("unexpected search payload: %+v", payload)
	}
	if payload.Query != "outage" {
		t.Fatalf("query echo = %q", payload.Query)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	server, database := setupTestServer(t)
	defer server.Close()
	defer database.Close()

	resp := doReq(t, server.URL, http.MethodGet, "/api/v1/search", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing q status = %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}
