package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"quill/internal/db"
	"quill/internal/ratelimit"
)

// NewRouter wires the full HTTP surface. Every /api/v1 route sits behind the
// CORS and rate-limit middleware; /mcp is mounted raw since the MCP transport
// manages its own request framing.
func NewRouter(database *sql.DB, version string) http.Handler {
	mux := http.NewServeMux()
	limiter := ratelimit.NewLimiter()
	limited := func(h http.Handler) http.Handler {
		return rateLimitMiddleware(database, limiter, h)
	}

	mux.HandleFunc("/api/v1/status", statusHandler(database, version))
	mux.Handle("/api/v1/prompts", limited(promptsCollectionHandler(database)))
	mux.Handle("/api/v1/prompts/", limited(promptsScopedHandler(database)))
	mux.Handle("/api/v1/folders", limited(foldersCollectionHandler(database)))
	mux.Handle("/api/v1/folders/", limited(folderItemHandler(database)))
	mux.Handle("/api/v1/compose", limited(composeHandler(database)))
	mux.Handle("/api/v1/search", limited(searchHandler(database)))
	mux.Handle("/api/v1/stats", limited(libraryStatsHandler(database)))
	mux.Handle("/api/v1/admin/export", limited(exportHandler(database)))
	mux.Handle("/mcp", mcpHandler(database, version))

	return corsMiddleware(mux)
}

func statusHandler(database *sql.DB, version string) http.HandlerFunc {
	started := time.Now().UTC()

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}

		if err := database.PingContext(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}

		now := time.Now().UTC()
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"version":   version,
			"timestamp": now.Format(time.RFC3339),
			"server": map[string]any{
				"uptime_seconds": int64(now.Sub(started).Seconds()),
			},
		})
	}
}

func promptsScopedHandler(database *sql.DB) http.Handler {
	item := promptItemHandler(database)
	versions := promptVersionsHandler(database)
	restore := promptRestoreHandler(database)
	resolved := promptResolvedHandler(database)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tail := pathTail(r.URL.Path, "/api/v1/prompts/")
		parts := strings.Split(tail, "/")
		switch {
		case len(parts) >= 2 && parts[1] == "versions":
			versions.ServeHTTP(w, r)
		case len(parts) >= 2 && parts[1] == "restore":
			restore.ServeHTTP(w, r)
		case len(parts) == 2 && parts[1] == "resolved":
			resolved.ServeHTTP(w, r)
		case len(parts) == 1:
			item.ServeHTTP(w, r)
		default:
			writeError(w, http.StatusNotFound, "not found")
		}
	})
}

func pathTail(path, prefix string) string {
	tail := strings.TrimPrefix(path, prefix)
	tail = strings.Trim(tail, "/")
	return tail
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// writeDBError maps the data layer's error taxonomy onto HTTP statuses.
func writeDBError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, db.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, db.ErrDuplicateTitle):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, sql.ErrNoRows):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
