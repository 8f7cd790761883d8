package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-cms-layout/internal/content"
)

var (
	ErrSchemaInvalid = errors.New("schema invalid")
	ErrFieldsInvalid = errors.New("content fields invalid")
)

// Issue captures a single validation failure.
type Issue struct {
	Location string
	Message  string
}

// FieldsError lists the issues found in a submitted field map.
type FieldsError struct {
	ContentType string
	Issues      []Issue
}

func (e *FieldsError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return fmt.Sprintf("%s: %s", e.ContentType, strings.Join(parts, "; "))
}

func (e *FieldsError) Unwrap() error {
	return ErrFieldsInvalid
}

// Issues extracts validation issues from err.
func Issues(err error) []Issue {
	var fieldsErr *FieldsError
	if errors.As(err, &fieldsErr) && fieldsErr != nil {
		return fieldsErr.Issues
	}
	if err == nil {
		return nil
	}
	return []Issue{{Message: err.Error()}}
}

// Validator compiles one JSON schema per content type and checks submitted
// field maps against it.
type Validator struct {
	mu      sync.Mutex
	schemas map[*content.Type]*jsonschema.Schema
}

// NewValidator returns a validator with an empty schema cache.
func NewValidator() *Validator {
	return &Validator{schemas: map[*content.Type]*jsonschema.Schema{}}
}

// Validate checks fields against the schema derived from t.
func (v *Validator) Validate(t *content.Type, fields map[string]any) error {
	schema, err := v.schema(t)
	if err != nil {
		return err
	}
	payload, err := normalizePayload(fields)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFieldsInvalid, err)
	}
	if err := schema.Validate(payload); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &FieldsError{ContentType: t.Name(), Issues: collectIssues(validationErr)}
		}
		return fmt.Errorf("%w: %v", ErrFieldsInvalid, err)
	}
	return nil
}

func (v *Validator) schema(t *content.Type) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if compiled, ok := v.schemas[t]; ok {
		return compiled, nil
	}
	compiled, err := compileSchema(Schema(t))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSchemaInvalid, t.Name(), err)
	}
	v.schemas[t] = compiled
	return compiled, nil
}

// Schema derives a JSON schema from the editable fields of t. Base fields
// selecting type, wrapper and skin are checked by their registries instead.
func Schema(t *content.Type) map[string]any {
	properties := map[string]any{}
	required := []any{}
	for _, field := range t.Fields() {
		if field.Fieldset == content.FieldsetContentType {
			continue
		}
		prop := fieldSchema(field)
		if field.Required {
			required = append(required, field.Name)
			if prop["type"] == "string" {
				prop["minLength"] = 1
			}
		}
		properties[field.Name] = prop
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func fieldSchema(field content.FieldDefinition) map[string]any {
	switch field.Type {
	case content.FieldCheckbox:
		return map[string]any{"type": []any{"boolean", "string"}}
	case content.FieldNumber:
		return map[string]any{"type": []any{"number", "string"}}
	case content.FieldList:
		return map[string]any{"type": []any{"array", "string"}}
	case content.FieldSelect:
		prop := map[string]any{"type": "string"}
		if len(field.Choices) > 0 {
			enum := make([]any, 0, len(field.Choices)+1)
			for _, choice := range field.Choices {
				enum = append(enum, choice)
			}
			if !field.Required {
				enum = append(enum, "")
			}
			prop["enum"] = enum
		}
		return prop
	default:
		return map[string]any{"type": "string"}
	}
}

func normalizePayload(fields map[string]any) (any, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	encoded, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	var payload any
	if err := json.Unmarshal(encoded, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("schema.json")
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	issues := []Issue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
