package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

func DefaultFormat() string {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		return "table"
	}
	return "json"
}

func Print(payload map[string]any, format string, quiet bool) error {
	if quiet {
		format = "quiet"
	}
	format = strings.TrimSpace(strings.ToLower(format))
	if format == "" {
		format = DefaultFormat()
	}

	switch format {
	case "json":
		return printJSON(payload)
	case "table":
		return printTable(payload)
	case "plain":
		return printPlain(payload)
	case "md":
		return printMarkdown(payload)
	case "quiet":
		return printQuiet(payload)
	default:
		return errors.New("invalid --format value")
	}
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printTable(payload map[string]any) error {
	switch {
	case hasKey(payload, "prompts"):
		fmt.Println("ID\tTITLE\tFOLDER\tVERSION")
		for _, row := range toObjectSlice(payload["prompts"]) {
			fmt.Printf("%s\t%s\t%s\t%s\n",
				str(row["id"]), str(row["title"]), str(row["folder_id"]), str(row["current_version"]))
		}
	case hasKey(payload, "folders"):
		fmt.Println("ID\tNAME")
		for _, row := range toObjectSlice(payload["folders"]) {
			fmt.Printf("%s\t%s\n", str(row["id"]), str(row["name"]))
		}
	case hasKey(payload, "versions"):
		fmt.Println("VERSION\tTITLE\tCREATED")
		for _, row := range toObjectSlice(payload["versions"]) {
			fmt.Printf("%s\t%s\t%s\n",
				str(row["version_number"]), str(row["title"]), str(row["created_at"]))
		}
	case hasKey(payload, "results"):
		fmt.Println("ID\tTITLE\tSNIPPET")
		for _, row := range toObjectSlice(payload["results"]) {
			fmt.Printf("%s\t%s\t%s\n",
				str(row["id"]), str(row["title"]), str(row["snippet"]))
		}
	default:
		return printJSON(payload)
	}
	return nil
}

func printPlain(payload map[string]any) error {
	switch {
	case hasKey(payload, "prompts"):
		for _, row := range toObjectSlice(payload["prompts"]) {
			fmt.Printf("%s %s\n", str(row["id"]), str(row["title"]))
		}
	case hasKey(payload, "folders"):
		for _, row := range toObjectSlice(payload["folders"]) {
			fmt.Printf("%s %s\n", str(row["id"]), str(row["name"]))
		}
	case hasKey(payload, "versions"):
		for _, row := range toObjectSlice(payload["versions"]) {
			fmt.Printf("v%s %s\n", str(row["version_number"]), str(row["created_at"]))
		}
	case hasKey(payload, "results"):
		for _, row := range toObjectSlice(payload["results"]) {
			fmt.Printf("%s %s\n", str(row["id"]), str(row["snippet"]))
		}
	case hasKey(payload, "composed"):
		fmt.Println(str(payload["composed"]))
	default:
		return printJSON(payload)
	}
	return nil
}

func printMarkdown(payload map[string]any) error {
	switch {
	case hasKey(payload, "prompts"):
		for _, row := range toObjectSlice(payload["prompts"]) {
			fmt.Printf("- `%s` **%s** (v%s)\n",
				str(row["id"]), str(row["title"]), str(row["current_version"]))
		}
	case hasKey(payload, "folders"):
		for _, row := range toObjectSlice(payload["folders"]) {
			fmt.Printf("- `%s` %s\n", str(row["id"]), str(row["name"]))
		}
	case hasKey(payload, "versions"):
		for _, row := range toObjectSlice(payload["versions"]) {
			fmt.Printf("- v%s **%s** (%s)\n",
				str(row["version_number"]), str(row["title"]), str(row["created_at"]))
		}
	case hasKey(payload, "results"):
		for _, row := range toObjectSlice(payload["results"]) {
			fmt.Printf("- `%s` **%s**: %s\n",
				str(row["id"]), str(row["title"]), str(row["snippet"]))
		}
	default:
		return printJSON(payload)
	}
	return nil
}

func printQuiet(payload map[string]any) error {
	switch {
	case hasKey(payload, "prompts"):
		for _, row := range toObjectSlice(payload["prompts"]) {
			fmt.Println(str(row["id"]))
		}
	case hasKey(payload, "folders"):
		for _, row := range toObjectSlice(payload["folders"]) {
			fmt.Println(str(row["id"]))
		}
	case hasKey(payload, "versions"):
		for _, row := range toObjectSlice(payload["versions"]) {
			fmt.Println(str(row["version_number"]))
		}
	case hasKey(payload, "results"):
		for _, row := range toObjectSlice(payload["results"]) {
			fmt.Println(str(row["id"]))
		}
	default:
		if id, ok := payload["id"]; ok {
			fmt.Println(str(id))
			return nil
		}
		return printJSON(payload)
	}
	return nil
}

func hasKey(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

func toObjectSlice(v any) []map[string]any {
	in, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(in))
	for _, item := range in {
		if row, ok := item.(map[string]any); ok {
			out = append(out, row)
		}
	}
	return out
}

func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
