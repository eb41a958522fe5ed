// quill-mcp bridges stdio JSON-RPC to a running quill-server, for MCP hosts
// that cannot speak the streamable HTTP transport directly.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"quill/internal/cli/client"
)

type rpcRequest struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      any            `json:"id,omitempty"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id,omitempty"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func main() {
	baseURL := strings.TrimSpace(os.Getenv("QUILL_URL"))
	if baseURL == "" {
		fmt.Fprintln(os.Stderr, "QUILL_URL is required")
		os.Exit(1)
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		fmt.Fprintln(os.Stderr, "invalid QUILL_URL:", err)
		os.Exit(1)
	}

	cl := client.New(baseURL)
	in := bufio.NewScanner(os.Stdin)
	out := json.NewEncoder(os.Stdout)

	for in.Scan() {
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		var req rpcRequest
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			_ = out.Encode(rpcResponse{
				JSONRPC: "2.0",
				Error: &rpcError{
					Code:    -32700,
					Message: "parse error",
				},
			})
			continue
		}
		resp := handle(cl, req)
		if err := out.Encode(resp); err != nil {
			fmt.Fprintln(os.Stderr, "encode response:", err)
			os.Exit(1)
		}
	}
	if err := in.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "read stdin:", err)
		os.Exit(1)
	}
}

func handle(cl *client.Client, req rpcRequest) rpcResponse {
	resp := rpcResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
	}

	switch req.Method {
	case "initialize":
		resp.Result = map[string]any{
			"serverInfo": map[string]any{
				"name":    "quill-mcp",
				"version": "0.1.0",
			},
			"capabilities": map[string]any{
				"tools": map[string]any{},
			},
		}
		return resp
	case "tools/list":
		resp.Result = map[string]any{
			"tools": []map[string]any{
				{
					"name":        "quill_list_prompts",
					"description": "List prompts in the library",
					"inputSchema": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"folder_id": map[string]any{"type": "integer"},
							"search":    map[string]any{"type": "string"},
						},
					},
				},
				{
					"name":        "quill_get_prompt",
					"description": "Fetch one prompt by id, optionally with references resolved",
					"inputSchema": map[string]any{
						"type": "object",
						"required": []string{
							"id",
						},
						"properties": map[string]any{
							"id":      map[string]any{"type": "integer"},
							"resolve": map[string]any{"type": "boolean"},
						},
					},
				},
				{
					"name":        "quill_add_prompt",
					"description": "Create a new prompt",
					"inputSchema": map[string]any{
						"type": "object",
						"required": []string{
							"title",
							"content",
						},
						"properties": map[string]any{
							"title":     map[string]any{"type": "string"},
							"content":   map[string]any{"type": "string"},
							"folder_id": map[string]any{"type": "integer"},
						},
					},
				},
				{
					"name":        "quill_compose",
					"description": "Compose final text from raw content or a stored prompt",
					"inputSchema": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"content":   map[string]any{"type": "string"},
							"prompt_id": map[string]any{"type": "integer"},
							"variables": map[string]any{"type": "object"},
						},
					},
				},
			},
		}
		return resp
	case "tools/call":
		result, err := handleToolCall(cl, req.Params)
		if err != nil {
			resp.Error = &rpcError{Code: -32000, Message: err.Error()}
			return resp
		}
		resp.Result = map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": result},
			},
		}
		return resp
	default:
		resp.Error = &rpcError{Code: -32601, Message: "method not found"}
		return resp
	}
}

func handleToolCall(cl *client.Client, params map[string]any) (string, error) {
	name, _ := params["name"].(string)
	args, _ := params["arguments"].(map[string]any)

	switch name {
	case "quill_list_prompts":
		query := url.Values{}
		if v, ok := args["folder_id"].(float64); ok && v > 0 {
			query.Set("folder_id", strconv.FormatInt(int64(v), 10))
		}
		if search, _ := args["search"].(string); strings.TrimSpace(search) != "" {
			query.Set("search", strings.TrimSpace(search))
		}
		path := "/api/v1/prompts"
		if len(query) > 0 {
			path += "?" + query.Encode()
		}
		var resp map[string]any
		if err := cl.Get(path, &resp); err != nil {
			return "", err
		}
		return toJSONString(resp)
	case "quill_get_prompt":
		id, ok := args["id"].(float64)
		if !ok || id < 1 {
			return "", errors.New("id is required")
		}
		path := fmt.Sprintf("/api/v1/prompts/%d", int64(id))
		if resolve, _ := args["resolve"].(bool); resolve {
			path += "/resolved"
		}
		var resp map[string]any
		if err := cl.Get(path, &resp); err != nil {
			return "", err
		}
		return toJSONString(resp)
	case "quill_add_prompt":
		title, _ := args["title"].(string)
		content, _ := args["content"].(string)
		if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
			return "", errors.New("title and content are required")
		}
		req := map[string]any{
			"title":   title,
			"content": content,
		}
		if v, ok := args["folder_id"].(float64); ok && v > 0 {
			req["folder_id"] = int64(v)
		}
		var resp map[string]any
		if err := cl.Post("/api/v1/prompts", req, &resp); err != nil {
			return "", err
		}
		return toJSONString(resp)
	case "quill_compose":
		req := map[string]any{}
		if content, _ := args["content"].(string); content != "" {
			req["content"] = content
		}
		if v, ok := args["prompt_id"].(float64); ok && v > 0 {
			req["prompt_id"] = int64(v)
		}
		if len(req) == 0 {
			return "", errors.New("content or prompt_id is required")
		}
		if vars, ok := args["variables"].(map[string]any); ok {
			variables := make(map[string]string, len(vars))
			for name, value := range vars {
				if s, ok := value.(string); ok {
					variables[name] = s
				}
			}
			if len(variables) > 0 {
				req["variables"] = variables
			}
		}
		var resp map[string]any
		if err := cl.Post("/api/v1/compose", req, &resp); err != nil {
			return "", err
		}
		if composed, ok := resp["composed"].(string); ok {
			return composed, nil
		}
		return toJSONString(resp)
	default:
		return "", errors.New("unknown tool")
	}
}

func toJSONString(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
