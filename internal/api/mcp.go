package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"quill/internal/db"
	"quill/internal/models"
)

type mcpListPromptsArgs struct {
	FolderID *int64  `json:"folder_id,omitempty"`
	Search   *string `json:"search,omitempty"`
}

type mcpGetPromptArgs struct {
	ID      *int64  `json:"id,omitempty"`
	Title   *string `json:"title,omitempty"`
	Resolve bool    `json:"resolve,omitempty"`
}

type mcpAddPromptArgs struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	FolderID *int64 `json:"folder_id,omitempty"`
}

type mcpComposeArgs struct {
	Content   string            `json:"content,omitempty"`
	PromptID  *int64            `json:"prompt_id,omitempty"`
	Variables map[string]string `json:"variables,omitempty"`
}

type mcpSearchArgs struct {
	Query string `json:"query"`
	Limit *int   `json:"limit,omitempty"`
}

// mcpHandler exposes the library over the MCP streamable HTTP transport. The
// server is single-user and local, so the endpoint carries no token check.
func mcpHandler(database *sql.DB, version string) http.Handler {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "quill-server",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "quill_list_prompts",
		Description: "List prompts in the library, optionally filtered by folder or title substring",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args mcpListPromptsArgs) (*mcp.CallToolResult, any, error) {
		params := db.ListPromptsParams{FolderID: args.FolderID}
		if args.Search != nil {
			params.Search = strings.TrimSpace(*args.Search)
		}
		prompts, err := db.ListPrompts(ctx, database, params)
		if err != nil {
			return nil, nil, err
		}
		out, err := toJSONText(map[string]any{"prompts": prompts, "total": len(prompts)})
		if err != nil {
			return nil, nil, err
		}
		return textToolResult(out), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "quill_get_prompt",
		Description: "Fetch one prompt by id or exact title, optionally with references resolved",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args mcpGetPromptArgs) (*mcp.CallToolResult, any, error) {
		if args.ID == nil && args.Title == nil {
			return nil, nil, errors.New("id or title is required")
		}
		p, err := lookupPrompt(ctx, database, args.ID, args.Title)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil, errors.New("prompt not found")
			}
			return nil, nil, err
		}
		content := p.Content
		if args.Resolve {
			content = db.ResolveReferences(ctx, database, p.Content)
		}
		out, err := toJSONText(map[string]any{
			"id":              p.ID,
			"title":           p.Title,
			"content":         content,
			"folder_id":       p.FolderID,
			"current_version": p.CurrentVersion,
		})
		if err != nil {
			return nil, nil, err
		}
		return textToolResult(out), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "quill_add_prompt",
		Description: "Create a new prompt",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args mcpAddPromptArgs) (*mcp.CallToolResult, any, error) {
		prompt, err := db.CreatePrompt(ctx, database, args.Title, args.Content, args.FolderID)
		if err != nil {
			return nil, nil, err
		}
		out, err := toJSONText(prompt)
		if err != nil {
			return nil, nil, err
		}
		return textToolResult(out), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "quill_compose",
		Description: "Compose final text from raw content or a stored prompt, expanding references and substituting variables",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args mcpComposeArgs) (*mcp.CallToolResult, any, error) {
		content := args.Content
		if args.PromptID != nil {
			p, err := db.GetPrompt(ctx, database, *args.PromptID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return nil, nil, errors.New("prompt not found")
				}
				return nil, nil, err
			}
			content = p.Content
		}
		if content == "" {
			return nil, nil, errors.New("content or prompt_id is required")
		}
		composed, err := db.Compose(ctx, database, content, args.Variables)
		if err != nil {
			return nil, nil, err
		}
		return textToolResult(composed), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "quill_search",
		Description: "Full-text search over prompt titles and content",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args mcpSearchArgs) (*mcp.CallToolResult, any, error) {
		query := strings.TrimSpace(args.Query)
		if query == "" {
			return nil, nil, errors.New("query is required")
		}
		params := db.SearchParams{Query: query}
		if args.Limit != nil {
			params.Limit = *args.Limit
		}
		results, err := db.SearchPrompts(ctx, database, params)
		if err != nil {
			return nil, nil, err
		}
		out, err := toJSONText(map[string]any{"results": results, "total": len(results)})
		if err != nil {
			return nil, nil, err
		}
		return textToolResult(out), nil, nil
	})

	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}

func lookupPrompt(ctx context.Context, database *sql.DB, id *int64, title *string) (*models.Prompt, error) {
	if id != nil {
		return db.GetPrompt(ctx, database, *id)
	}
	return db.GetPromptByTitle(ctx, database, strings.TrimSpace(*title))
}

func textToolResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func toJSONText(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
