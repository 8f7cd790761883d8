package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-cms-layout/internal/content"
)

func TestValidateRequiresTitleOnPersistentTypes(t *testing.T) {
	v := NewValidator()
	md := content.MarkdownType(content.NewMarkdown(content.MarkdownOptions{}))

	err := v.Validate(md, map[string]any{"raw": "# hi"})
	if !errors.Is(err, ErrFieldsInvalid) {
		t.Fatalf("expected ErrFieldsInvalid, got %v", err)
	}
	issues := Issues(err)
	if len(issues) == 0 || !strings.Contains(issues[0].Message, "title") {
		t.Fatalf("expected title issue, got %#v", issues)
	}

	if err := v.Validate(md, map[string]any{"title": "Intro", "raw": "# hi", "keywords": []string{"a"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateChecksChoicesAndTypes(t *testing.T) {
	v := NewValidator()
	grid := content.DataTableType()

	err := v.Validate(grid, map[string]any{"title": "Users", "url": "/api/users", "style": "fancy"})
	if err == nil {
		t.Fatal("expected invalid choice to fail")
	}
	if issues := Issues(err); len(issues) != 1 || issues[0].Location != "/style" {
		t.Fatalf("unexpected issues %#v", issues)
	}

	err = v.Validate(grid, map[string]any{"title": "Users", "url": "/api/users", "sortable": "on", "style": ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTransientTypesAcceptEmptyPayload(t *testing.T) {
	v := NewValidator()
	if err := v.Validate(content.BlankType(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	schema := Schema(content.BlankType())
	if _, ok := schema["required"]; ok {
		t.Fatal("blank content has no required fields")
	}
}
