package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"quill/internal/cli/client"
	"quill/internal/cli/config"
	"quill/internal/cli/output"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return usage()
	}
	switch args[0] {
	case "connect":
		return cmdConnect(args[1:])
	case "disconnect":
		return cmdDisconnect()
	case "status":
		return cmdStatus()
	case "folders":
		return cmdFolders(args[1:])
	case "prompts":
		return cmdPrompts(args[1:])
	case "versions":
		return cmdVersions(args[1:])
	case "compose":
		return cmdCompose(args[1:])
	case "search":
		return cmdSearch(args[1:])
	case "stats":
		return cmdStats()
	case "export":
		return cmdExport(args[1:])
	default:
		return usage()
	}
}

func cmdConnect(args []string) error {
	fs := flag.NewFlagSet("connect", flag.ContinueOnError)
	inDir := fs.Bool("in-dir", false, "Write config to ./.quill/config.json in current directory")
	positionals, err := parseInterspersedFlags(fs, args)
	if err != nil {
		return err
	}
	if len(positionals) != 1 {
		return errors.New("usage: quill connect <url> [--in-dir]")
	}
	rawURL := strings.TrimSpace(positionals[0])
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	cl := client.New(rawURL)
	var status map[string]any
	if err := cl.Get("/api/v1/status", &status); err != nil {
		return fmt.Errorf("validate server: %w", err)
	}

	cfgPath := ""
	if *inDir {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		cfgPath = filepath.Join(cwd, ".quill", "config.json")
	}

	var cfg *config.Config
	if cfgPath == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFromPath(cfgPath)
	}
	if err != nil {
		return err
	}
	cfg.SetDefault(rawURL)
	if cfgPath == "" {
		err = config.Save(cfg)
	} else {
		err = config.SaveToPath(cfg, cfgPath)
	}
	if err != nil {
		return err
	}
	fmt.Printf("connected to %s\n", rawURL)
	return nil
}

func cmdDisconnect() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if _, ok := cfg.Default(); !ok {
		fmt.Println("no active connection")
		return nil
	}
	cfg.ClearDefault()
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Println("disconnected")
	return nil
}

func cmdStatus() error {
	cl, err := defaultClient()
	if err != nil {
		return err
	}
	var resp map[string]any
	if err := cl.Get("/api/v1/status", &resp); err != nil {
		return err
	}
	return printJSON(resp)
}

func cmdFolders(args []string) error {
	if len(args) == 0 || args[0] == "list" {
		fs := flag.NewFlagSet("folders list", flag.ContinueOnError)
		format := fs.String("format", "", "Output format: table|json|plain|md")
		quiet := fs.Bool("quiet", false, "Print ids only")
		rest := args
		if len(rest) > 0 {
			rest = rest[1:]
		}
		if _, err := parseInterspersedFlags(fs, rest); err != nil {
			return err
		}
		cl, err := defaultClient()
		if err != nil {
			return err
		}
		var resp map[string]any
		if err := cl.Get("/api/v1/folders", &resp); err != nil {
			return err
		}
		return output.Print(resp, *format, *quiet)
	}
	switch args[0] {
	case "add":
		if len(args) != 2 {
			return errors.New("usage: quill folders add <name>")
		}
		cl, err := defaultClient()
		if err != nil {
			return err
		}
		var resp map[string]any
		if err := cl.Post("/api/v1/folders", map[string]any{"name": args[1]}, &resp); err != nil {
			return err
		}
		return printJSON(resp)
	case "rename":
		if len(args) != 3 {
			return errors.New("usage: quill folders rename <id> <new-name>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		cl, err := defaultClient()
		if err != nil {
			return err
		}
		var resp map[string]any
		if err := cl.Put(fmt.Sprintf("/api/v1/folders/%d", id), map[string]any{"name": args[2]}, &resp); err != nil {
			return err
		}
		return printJSON(resp)
	case "delete":
		if len(args) != 2 {
			return errors.New("usage: quill folders delete <id>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		cl, err := defaultClient()
		if err != nil {
			return err
		}
		if err := cl.Delete(fmt.Sprintf("/api/v1/folders/%d", id)); err != nil {
			return err
		}
		fmt.Printf("deleted folder %d (prompts keep existing, unfiled)\n", id)
		return nil
	}
	return errors.New("usage: quill folders <list|add|rename|delete>")
}

func cmdPrompts(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: quill prompts <add|list|get|resolved|edit|delete>")
	}
	switch args[0] {
	case "add":
		return cmdPromptsAdd(args[1:])
	case "list":
		return cmdPromptsList(args[1:])
	case "get":
		return cmdPromptsGet(args[1:], false)
	case "resolved":
		return cmdPromptsGet(args[1:], true)
	case "edit":
		return cmdPromptsEdit(args[1:])
	case "delete":
		if len(args) != 2 {
			return errors.New("usage: quill prompts delete <id>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		cl, err := defaultClient()
		if err != nil {
			return err
		}
		if err := cl.Delete(fmt.Sprintf("/api/v1/prompts/%d", id)); err != nil {
			return err
		}
		fmt.Printf("deleted prompt %d and its version history\n", id)
		return nil
	}
	return errors.New("usage: quill prompts <add|list|get|resolved|edit|delete>")
}

func cmdPromptsAdd(args []string) error {
	fs := flag.NewFlagSet("prompts add", flag.ContinueOnError)
	title := fs.String("title", "", "Prompt title")
	fromFile := fs.String("from-file", "", "Read content from file")
	folderID := fs.Int64("folder", 0, "Folder id")
	positionals, err := parseInterspersedFlags(fs, args)
	if err != nil {
		return err
	}
	content, err := contentFromArgs(positionals, *fromFile)
	if err != nil {
		return err
	}
	if strings.TrimSpace(*title) == "" {
		return errors.New("usage: quill prompts add [content] --title <t> [--from-file f] [--folder id]")
	}

	req := map[string]any{"title": *title, "content": content}
	if *folderID > 0 {
		req["folder_id"] = *folderID
	}
	cl, err := defaultClient()
	if err != nil {
		return err
	}
	var resp map[string]any
	if err := cl.Post("/api/v1/prompts", req, &resp); err != nil {
		return err
	}
	return printJSON(resp)
}

func cmdPromptsList(args []string) error {
	fs := flag.NewFlagSet("prompts list", flag.ContinueOnError)
	folderID := fs.Int64("folder", 0, "Filter by folder id")
	search := fs.String("search", "", "Filter by title substring")
	format := fs.String("format", "", "Output format: table|json|plain|md")
	quiet := fs.Bool("quiet", false, "Print ids only")
	if _, err := parseInterspersedFlags(fs, args); err != nil {
		return err
	}

	query := url.Values{}
	if *folderID > 0 {
		query.Set("folder_id", strconv.FormatInt(*folderID, 10))
	}
	if strings.TrimSpace(*search) != "" {
		query.Set("search", strings.TrimSpace(*search))
	}
	path := "/api/v1/prompts"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	cl, err := defaultClient()
	if err != nil {
		return err
	}
	var resp map[string]any
	if err := cl.Get(path, &resp); err != nil {
		return err
	}
	return output.Print(resp, *format, *quiet)
}

func cmdPromptsGet(args []string, resolved bool) error {
	if len(args) != 1 {
		if resolved {
			return errors.New("usage: quill prompts resolved <id>")
		}
		return errors.New("usage: quill prompts get <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	path := fmt.Sprintf("/api/v1/prompts/%d", id)
	if resolved {
		path += "/resolved"
	}
	cl, err := defaultClient()
	if err != nil {
		return err
	}
	var resp map[string]any
	if err := cl.Get(path, &resp); err != nil {
		return err
	}
	return printJSON(resp)
}

func cmdPromptsEdit(args []string) error {
	fs := flag.NewFlagSet("prompts edit", flag.ContinueOnError)
	title := fs.String("title", "", "New title (defaults to current)")
	fromFile := fs.String("from-file", "", "Read content from file")
	folderID := fs.Int64("folder", 0, "Folder id, 0 clears the folder")
	positionals, err := parseInterspersedFlags(fs, args)
	if err != nil {
		return err
	}
	if len(positionals) == 0 {
		return errors.New("usage: quill prompts edit <id> [content] [--title t] [--from-file f] [--folder id]")
	}
	id, err := parseID(positionals[0])
	if err != nil {
		return err
	}

	cl, err := defaultClient()
	if err != nil {
		return err
	}
	var current map[string]any
	if err := cl.Get(fmt.Sprintf("/api/v1/prompts/%d", id), &current); err != nil {
		return err
	}

	content, err := contentFromArgs(positionals[1:], *fromFile)
	if err != nil {
		if len(positionals) == 1 && *fromFile == "" {
			content, _ = current["content"].(string)
		} else {
			return err
		}
	}
	newTitle := strings.TrimSpace(*title)
	if newTitle == "" {
		newTitle, _ = current["title"].(string)
	}

	req := map[string]any{"title": newTitle, "content": content}
	if *folderID > 0 {
		req["folder_id"] = *folderID
	}
	var resp map[string]any
	if err := cl.Put(fmt.Sprintf("/api/v1/prompts/%d", id), req, &resp); err != nil {
		return err
	}
	return printJSON(resp)
}

func cmdVersions(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: quill versions <list|get|restore>")
	}
	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("versions list", flag.ContinueOnError)
		format := fs.String("format", "", "Output format: table|json|plain|md")
		quiet := fs.Bool("quiet", false, "Print version numbers only")
		positionals, err := parseInterspersedFlags(fs, args[1:])
		if err != nil {
			return err
		}
		if len(positionals) != 1 {
			return errors.New("usage: quill versions list <prompt-id>")
		}
		id, err := parseID(positionals[0])
		if err != nil {
			return err
		}
		cl, err := defaultClient()
		if err != nil {
			return err
		}
		var resp map[string]any
		if err := cl.Get(fmt.Sprintf("/api/v1/prompts/%d/versions", id), &resp); err != nil {
			return err
		}
		return output.Print(resp, *format, *quiet)
	case "get":
		if len(args) != 3 {
			return errors.New("usage: quill versions get <prompt-id> <version>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		n, err := parseID(args[2])
		if err != nil {
			return err
		}
		cl, err := defaultClient()
		if err != nil {
			return err
		}
		var resp map[string]any
		if err := cl.Get(fmt.Sprintf("/api/v1/prompts/%d/versions/%d", id, n), &resp); err != nil {
			return err
		}
		return printJSON(resp)
	case "restore":
		if len(args) != 3 {
			return errors.New("usage: quill versions restore <prompt-id> <version>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		n, err := parseID(args[2])
		if err != nil {
			return err
		}
		cl, err := defaultClient()
		if err != nil {
			return err
		}
		var resp map[string]any
		if err := cl.Post(fmt.Sprintf("/api/v1/prompts/%d/restore/%d", id, n), map[string]any{}, &resp); err != nil {
			return err
		}
		return printJSON(resp)
	}
	return errors.New("usage: quill versions <list|get|restore>")
}

func cmdCompose(args []string) error {
	fs := flag.NewFlagSet("compose", flag.ContinueOnError)
	promptID := fs.Int64("prompt", 0, "Compose a stored prompt by id")
	fromFile := fs.String("from-file", "", "Read content from file")
	var vars multiStringFlag
	fs.Var(&vars, "var", "Variable as name=value, repeatable")
	positionals, err := parseInterspersedFlags(fs, args)
	if err != nil {
		return err
	}

	variables := map[string]string{}
	for _, raw := range vars.values {
		name, value, ok := strings.Cut(raw, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return fmt.Errorf("invalid --var %q, want name=value", raw)
		}
		variables[strings.TrimSpace(name)] = value
	}

	req := map[string]any{}
	if len(variables) > 0 {
		req["variables"] = variables
	}
	if *promptID > 0 {
		req["prompt_id"] = *promptID
	} else {
		content, err := contentFromArgs(positionals, *fromFile)
		if err != nil {
			return errors.New("usage: quill compose [content] [--prompt id] [--from-file f] [--var name=value]")
		}
		req["content"] = content
	}

	cl, err := defaultClient()
	if err != nil {
		return err
	}
	var resp map[string]any
	if err := cl.Post("/api/v1/compose", req, &resp); err != nil {
		return err
	}
	if composed, ok := resp["composed"].(string); ok {
		fmt.Println(composed)
		return nil
	}
	return printJSON(resp)
}

func cmdSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	folderID := fs.Int64("folder", 0, "Filter by folder id")
	limit := fs.Int("limit", 0, "Max results")
	offset := fs.Int("offset", 0, "Results offset")
	format := fs.String("format", "", "Output format: table|json|plain|md")
	quiet := fs.Bool("quiet", false, "Print ids only")
	positionals, err := parseInterspersedFlags(fs, args)
	if err != nil {
		return err
	}
	if len(positionals) != 1 {
		return errors.New("usage: quill search <query> [--folder id] [--limit n] [--offset n]")
	}

	query := url.Values{}
	query.Set("q", positionals[0])
	if *folderID > 0 {
		query.Set("folder_id", strconv.FormatInt(*folderID, 10))
	}
	if *limit > 0 {
		query.Set("limit", strconv.Itoa(*limit))
	}
	if *offset > 0 {
		query.Set("offset", strconv.Itoa(*offset))
	}

	cl, err := defaultClient()
	if err != nil {
		return err
	}
	var resp map[string]any
	if err := cl.Get("/api/v1/search?"+query.Encode(), &resp); err != nil {
		return err
	}
	return output.Print(resp, *format, *quiet)
}

func cmdStats() error {
	cl, err := defaultClient()
	if err != nil {
		return err
	}
	var resp map[string]any
	if err := cl.Get("/api/v1/stats", &resp); err != nil {
		return err
	}
	return printJSON(resp)
}

func cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	format := fs.String("format", "json", "Export format: json|markdown")
	out := fs.String("out", "", "Output path: file for json, directory for markdown")
	if _, err := parseInterspersedFlags(fs, args); err != nil {
		return err
	}
	if strings.TrimSpace(*out) == "" {
		return errors.New("usage: quill export --format json|markdown --out <path>")
	}

	cl, err := defaultClient()
	if err != nil {
		return err
	}
	var resp map[string]any
	if err := cl.Post("/api/v1/admin/export", map[string]any{"format": *format}, &resp); err != nil {
		return err
	}

	switch strings.ToLower(strings.TrimSpace(*format)) {
	case "json":
		b, err := json.MarshalIndent(resp["data"], "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(*out, append(b, '\n'), 0o644); err != nil {
			return err
		}
		fmt.Printf("exported library to %s\n", *out)
	case "markdown", "md":
		files, ok := resp["files"].([]any)
		if !ok {
			return errors.New("unexpected export payload")
		}
		for _, item := range files {
			row, ok := item.(map[string]any)
			if !ok {
				continue
			}
			relPath, _ := row["path"].(string)
			content, _ := row["content"].(string)
			if relPath == "" {
				continue
			}
			target := filepath.Join(*out, filepath.FromSlash(relPath))
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
				return err
			}
		}
		fmt.Printf("exported %d files to %s\n", len(files), *out)
	default:
		return errors.New("--format must be json or markdown")
	}
	return nil
}

func contentFromArgs(positionals []string, fromFile string) (string, error) {
	if fromFile != "" {
		b, err := os.ReadFile(fromFile)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	if len(positionals) > 0 {
		return strings.Join(positionals, " "), nil
	}
	return "", errors.New("missing content")
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func defaultClient() (*client.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	srv, ok := cfg.Default()
	if !ok {
		return nil, errors.New("not connected. run: quill connect <url>")
	}
	return client.New(srv.URL), nil
}

type multiStringFlag struct {
	values []string
}

func (m *multiStringFlag) String() string {
	return strings.Join(m.values, ",")
}

func (m *multiStringFlag) Set(value string) error {
	m.values = append(m.values, value)
	return nil
}

func parseInterspersedFlags(fs *flag.FlagSet, args []string) ([]string, error) {
	positionals := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := strings.TrimSpace(args[i])
		if arg == "" {
			continue
		}
		if arg == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positionals = append(positionals, arg)
			continue
		}

		trimmed := strings.TrimLeft(arg, "-")
		if trimmed == "" {
			positionals = append(positionals, arg)
			continue
		}
		name := trimmed
		value := ""
		hasValue := false
		if idx := strings.Index(trimmed, "="); idx >= 0 {
			name = trimmed[:idx]
			value = trimmed[idx+1:]
			hasValue = true
		}

		f := fs.Lookup(name)
		if f == nil {
			return nil, fmt.Errorf("flag provided but not defined: -%s", name)
		}
		isBool := false
		if bf, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && bf.IsBoolFlag() {
			isBool = true
		}

		if !hasValue {
			if isBool {
				value = "true"
			} else {
				if i+1 >= len(args) {
					return nil, fmt.Errorf("flag needs an argument: -%s", name)
				}
				i++
				value = args[i]
			}
		}

		if err := fs.Set(name, value); err != nil {
			return nil, err
		}
	}
	return positionals, nil
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func usage() error {
	return errors.New(`usage:
  quill connect <url> [--in-dir]
  quill disconnect
  quill status
  quill folders list [--format f] [--quiet]
  quill folders add <name>
  quill folders rename <id> <new-name>
  quill folders delete <id>
  quill prompts add [content] --title <t> [--from-file f] [--folder id]
  quill prompts list [--folder id] [--search text] [--format f] [--quiet]
  quill prompts get <id>
  quill prompts resolved <id>
  quill prompts edit <id> [content] [--title t] [--from-file f] [--folder id]
  quill prompts delete <id>
  quill versions list <prompt-id> [--format f] [--quiet]
  quill versions get <prompt-id> <version>
  quill versions restore <prompt-id> <version>
  quill compose [content] [--prompt id] [--from-file f] [--var name=value]
  quill search <query> [--folder id] [--limit n] [--offset n]
  quill stats
  quill export --format json|markdown --out <path>`)
}
