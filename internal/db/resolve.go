package db

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strconv"
)

// referencePattern matches {{token}} markers, token being any run of
// characters that does not contain a closing brace.
var referencePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// ResolveReferences expands {{token}} markers into the referenced prompt's
// current content. An all-digits token is tried as a prompt id first, then as
// an exact case-sensitive title; any token that resolves to nothing, or whose
// lookup fails, is left in place verbatim. The pass is single and
// non-recursive: substituted content is inserted literally and never
// re-scanned, so reference cycles cannot expand unboundedly.
func ResolveReferences(ctx context.Context, database *sql.DB, content string) string {
	return referencePattern.ReplaceAllStringFunc(content, func(marker string) string {
		token := marker[2 : len(marker)-2]

		if isDigits(token) {
			id, err := strconv.ParseInt(token, 10, 64)
			if err == nil {
				prompt, err := GetPrompt(ctx, database, id)
				if err == nil {
					return prompt.Content
				}
				if !errors.Is(err, sql.ErrNoRows) {
					return marker
				}
			}
		}

		prompt, err := GetPromptByTitle(ctx, database, token)
		if err != nil {
			return marker
		}
		return prompt.Content
	})
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
