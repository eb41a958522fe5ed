package api

import (
	"net/http"
	"testing"
)

func TestStatusEndpoint(t *testing.T) {
	server, database := setupTestServer(t)
	defer server.Close()
	defer database.Close()

	resp := doReq(t, server.URL, http.MethodGet, "/api/v1/status", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status endpoint returned %d", resp.StatusCode)
	}
	var payload struct {
		Status    string `json:"status"`
		Version   string `json:"version"`
		Timestamp string `json:"timestamp"`
		Server    struct {
			UptimeSeconds int64 `json:"uptime_seconds"`
		} `json:"server"`
	}
	decodeJSON(t, resp, &payload)
	if payload.Status != "ok" || payload.Version != "test" || payload.Timestamp == "" {
		t.Fatalf("unexpected status payload: %+v", payload)
	}
	if payload.Server.UptimeSeconds < 0 {
		t.Fatalf("unexpected uptime: %d", payload.Server.UptimeSeconds)
	}
}

func TestStatsEndpoint(t *testing.T) {
	server, database := setupTestServer(t)
	defer server.Close()
	defer database.Close()

	createResp := doReq(t, server.URL, http.MethodPost, "/api/v1/prompts", map[string]any{
		"title":   "Counted",
		"content": "content",
	})
	if createResp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", createResp.StatusCode)
	}
	_ = createResp.Body.Close()

	statsResp := doReq(t, server.URL, http.MethodGet, "/api/v1/stats", nil)
	if statsResp.StatusCode != http.StatusOK {
		t.Fatalf("stats status = %d", statsResp.StatusCode)
	}
	var payload struct {
		Stats struct {
			Prompts       int `json:"prompts"`
			Folders       int `json:"folders"`
			Versions      int `json:"versions"`
			Uncategorized int `json:"uncategorized"`
		} `json:"stats"`
	}
	decodeJSON(t, statsResp, &payload)
	if payload.Stats.Prompts != 1 || payload.Stats.Versions != 1 || payload.Stats.Uncategorized != 1 {
		t.Fatalf("unexpected stats payload: %+v", payload.Stats)
	}
}

func TestUnknownMethodRejected(t *testing.T) {
	server, database := setupTestServer(t)
	defer server.Close()
	defer database.Close()

	resp := doReq(t, server.URL, http.MethodDelete, "/api/v1/stats", nil)
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("stats DELETE status = %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}
