package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"quill/internal/db"
)

type promptRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	FolderID *int64 `json:"folder_id"`
}

func promptsCollectionHandler(database *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			params := db.ListPromptsParams{
				Search: strings.TrimSpace(r.URL.Query().Get("search")),
			}
			if raw := strings.TrimSpace(r.URL.Query().Get("folder_id")); raw != "" {
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					writeError(w, http.StatusBadRequest, "invalid folder_id value")
					return
				}
				params.FolderID = &id
			}
			prompts, err := db.ListPrompts(r.Context(), database, params)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to list prompts")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"prompts": prompts, "total": len(prompts)})
		case http.MethodPost:
			var req promptRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid json payload")
				return
			}
			if req.FolderID != nil {
				exists, err := db.FolderExists(r.Context(), database, *req.FolderID)
				if err != nil {
					writeError(w, http.StatusInternalServerError, "failed to check folder")
					return
				}
				if !exists {
					writeError(w, http.StatusBadRequest, "folder does not exist")
					return
				}
			}
			prompt, err := db.CreatePrompt(r.Context(), database, req.Title, req.Content, req.FolderID)
			if err != nil {
				writeDBError(w, err, "failed to create prompt")
				return
			}
			writeJSON(w, http.StatusCreated, prompt)
		default:
			methodNotAllowed(w)
		}
	})
}

func promptItemHandler(database *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := promptIDFromPath(w, r.URL.Path)
		if !ok {
			return
		}

		switch r.Method {
		case http.MethodGet:
			prompt, err := db.GetPrompt(r.Context(), database, id)
			if err != nil {
				writeDBError(w, err, "failed to load prompt")
				return
			}
			writeJSON(w, http.StatusOK, prompt)
		case http.MethodPut:
			var req promptRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid json payload")
				return
			}
			updated, err := db.UpdatePrompt(r.Context(), database, id, req.Title, req.Content, req.FolderID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to update prompt")
				return
			}
			if !updated {
				writeError(w, http.StatusNotFound, "prompt not found")
				return
			}
			prompt, err := db.GetPrompt(r.Context(), database, id)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to reload prompt")
				return
			}
			writeJSON(w, http.StatusOK, prompt)
		case http.MethodDelete:
			deleted, err := db.DeletePrompt(r.Context(), database, id)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to delete prompt")
				return
			}
			if !deleted {
				writeError(w, http.StatusNotFound, "prompt not found")
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			methodNotAllowed(w)
		}
	})
}

// promptVersionsHandler serves both the version list and single versions:
// GET /api/v1/prompts/{id}/versions and /versions/{n}.
func promptVersionsHandler(database *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		parts := strings.Split(pathTail(r.URL.Path, "/api/v1/prompts/"), "/")
		id, ok := parsePromptID(w, parts[0])
		if !ok {
			return
		}

		switch len(parts) {
		case 2:
			versions, err := db.ListVersions(r.Context(), database, id)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to list versions")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"versions": versions, "total": len(versions)})
		case 3:
			n, err := strconv.Atoi(parts[2])
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, "invalid version number")
				return
			}
			version, err := db.GetVersion(r.Context(), database, id, n)
			if err != nil {
				writeDBError(w, err, "failed to load version")
				return
			}
			writeJSON(w, http.StatusOK, version)
		default:
			writeError(w, http.StatusNotFound, "not found")
		}
	})
}

// POST /api/v1/prompts/{id}/restore/{n}
func promptRestoreHandler(database *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		parts := strings.Split(pathTail(r.URL.Path, "/api/v1/prompts/"), "/")
		if len(parts) != 3 {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		id, ok := parsePromptID(w, parts[0])
		if !ok {
			return
		}
		n, err := strconv.Atoi(parts[2])
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid version number")
			return
		}

		restored, err := db.RestoreVersion(r.Context(), database, id, n)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to restore version")
			return
		}
		if !restored {
			writeError(w, http.StatusNotFound, "version not found")
			return
		}
		prompt, err := db.GetPrompt(r.Context(), database, id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to reload prompt")
			return
		}
		writeJSON(w, http.StatusOK, prompt)
	})
}

// GET /api/v1/prompts/{id}/resolved returns the prompt with its {{reference}}
// markers expanded. Variables are not substituted here; that is compose's job.
func promptResolvedHandler(database *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		parts := strings.Split(pathTail(r.URL.Path, "/api/v1/prompts/"), "/")
		id, ok := parsePromptID(w, parts[0])
		if !ok {
			return
		}

		prompt, err := db.GetPrompt(r.Context(), database, id)
		if err != nil {
			writeDBError(w, err, "failed to load prompt")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id":      prompt.ID,
			"title":   prompt.Title,
			"content": db.ResolveReferences(r.Context(), database, prompt.Content),
			"raw":     prompt.Content,
			"version": prompt.CurrentVersion,
		})
	})
}

func promptIDFromPath(w http.ResponseWriter, path string) (int64, bool) {
	return parsePromptID(w, pathTail(path, "/api/v1/prompts/"))
}

func parsePromptID(w http.ResponseWriter, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusNotFound, "not found")
		return 0, false
	}
	return id, true
}
