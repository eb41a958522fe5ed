package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"quill/internal/db"
)

type folderRequest struct {
	Name string `json:"name"`
}

func foldersCollectionHandler(database *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			folders, err := db.ListFolders(r.Context(), database)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to list folders")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"folders": folders, "total": len(folders)})
		case http.MethodPost:
			var req folderRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid json payload")
				return
			}
			folder, err := db.CreateFolder(r.Context(), database, req.Name)
			if err != nil {
				writeDBError(w, err, "failed to create folder")
				return
			}
			writeJSON(w, http.StatusCreated, folder)
		default:
			methodNotAllowed(w)
		}
	})
}

func folderItemHandler(database *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tail := pathTail(r.URL.Path, "/api/v1/folders/")
		if tail == "" || strings.Contains(tail, "/") {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		id, err := strconv.ParseInt(tail, 10, 64)
		if err != nil || id < 1 {
			writeError(w, http.StatusNotFound, "not found")
			return
		}

		switch r.Method {
		case http.MethodPut:
			var req folderRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid json payload")
				return
			}
			if strings.TrimSpace(req.Name) == "" {
				writeError(w, http.StatusBadRequest, "folder name cannot be empty")
				return
			}
			renamed, err := db.RenameFolder(r.Context(), database, id, req.Name)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to rename folder")
				return
			}
			if !renamed {
				writeError(w, http.StatusNotFound, "folder not found")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"id": id, "name": req.Name})
		case http.MethodDelete:
			deleted, err := db.DeleteFolder(r.Context(), database, id)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to delete folder")
				return
			}
			if !deleted {
				writeError(w, http.StatusNotFound, "folder not found")
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			methodNotAllowed(w)
		}
	})
}
