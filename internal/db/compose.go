package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Compose renders final text from raw content: prompt references are resolved
// first, then every {name} placeholder is replaced with its mapped value.
// Map iteration order is unspecified, so when one variable's value contains
// another variable's placeholder the outcome depends on iteration order; that
// quirk is inherited and not a guaranteed behavior. Single-brace {name}
// placeholders and double-brace {{reference}} markers are distinct syntaxes;
// malformed braces pass through untouched.
func Compose(ctx context.Context, database *sql.DB, content string, variables map[string]string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("compose prompt: %w", err)
	}

	resolved := ResolveReferences(ctx, database, content)
	for name, value := range variables {
		resolved = strings.ReplaceAll(resolved, "{"+name+"}", value)
	}
	return resolved, nil
}
