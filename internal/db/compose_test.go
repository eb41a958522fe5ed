package db

import (
	"context"
	"fmt"
	"testing"
)

func TestComposeSubstitutesVariables(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t, "compose-vars.db")
	defer database.Close()

	out, err := Compose(ctx, database, "Hello {name}!", map[string]string{"name": "World"})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if out != "Hello World!" {
		t.Fatalf("unexpected composition: %q", out)
	}
}

func TestComposeResolvesReferencesFirst(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t, "compose-refs.db")
	defer database.Close()

	target, err := CreatePrompt(ctx, database, "Greeting", "Hi {name}, welcome.", nil)
	if err != nil {
		t.Fatalf("create target: %v", err)
	}

	// Variables substitute into resolved reference content as well.
	out, err := Compose(ctx, database,
		fmt.Sprintf("{{%d}} Enjoy your stay.", target.ID),
		map[string]string{"name": "Ada"})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if out != "Hi Ada, welcome. Enjoy your stay." {
		t.Fatalf("unexpected composition: %q", out)
	}
}

func TestComposeLeavesUnknownPlaceholders(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t, "compose-unknown.db")
	defer database.Close()

	out, err := Compose(ctx, database, "Keep {missing} and {{missing}} alike.", map[string]string{})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if out != "Keep {missing} and {{missing}} alike." {
		t.Fatalf("unexpected composition: %q", out)
	}
}

func TestComposeDoesNotConfuseMarkerSyntaxes(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t, "compose-syntax.db")
	defer database.Close()

	if _, err := CreatePrompt(ctx, database, "name", "REFERENCED", nil); err != nil {
		t.Fatalf("create prompt: %v", err)
	}

	// {{name}} hits the reference path, {name} the variable path.
	out, err := Compose(ctx, database, "{{name}} vs {name}", map[string]string{"name": "VARIABLE"})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if out != "REFERENCED vs VARIABLE" {
		t.Fatalf("unexpected composition: %q", out)
	}
}
