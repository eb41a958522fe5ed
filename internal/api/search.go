package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"quill/internal/db"
)

func searchHandler(database *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		if q == "" {
			writeError(w, http.StatusBadRequest, "missing q query parameter")
			return
		}
		limit, offset := parseLimitOffset(r)
		params := db.SearchParams{
			Query:  q,
			Limit:  limit,
			Offset: offset,
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("folder_id")); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid folder_id value")
				return
			}
			params.FolderID = &id
		}

		results, err := db.SearchPrompts(r.Context(), database, params)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "search failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"results": results,
			"total":   len(results),
			"query":   q,
		})
	})
}

func parseLimitOffset(r *http.Request) (int, int) {
	limit := 0
	offset := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("offset")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			offset = n
		}
	}
	return limit, offset
}
