package api

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"quill/internal/db"
)

type composeRequest struct {
	Content   string            `json:"content,omitempty"`
	PromptID  *int64            `json:"prompt_id,omitempty"`
	Variables map[string]string `json:"variables,omitempty"`
}

// composeHandler renders final text from either raw content or a stored
// prompt. References expand first, then {name} variables substitute.
func composeHandler(database *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		var req composeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json payload")
			return
		}
		if req.Content == "" && req.PromptID == nil {
			writeError(w, http.StatusBadRequest, "content or prompt_id is required")
			return
		}

		content := req.Content
		if req.PromptID != nil {
			prompt, err := db.GetPrompt(r.Context(), database, *req.PromptID)
			if err != nil {
				writeDBError(w, err, "failed to load prompt")
				return
			}
			content = prompt.Content
		}

		composed, err := db.Compose(r.Context(), database, content, req.Variables)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to compose prompt")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"composed": composed})
	})
}
