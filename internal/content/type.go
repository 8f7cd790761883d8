package content

import (
	"errors"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-cms-layout/internal/registry"
)

// ErrNoRenderer is returned when a type without a renderer is rendered.
var ErrNoRenderer = errors.New("content: type has no renderer")

// Renderer materialises an instance inside container.
type Renderer func(container *html.Node, inst *Instance, skin string) error

// Type describes a content variant.
type Type struct {
	name       string
	title      string
	persistent bool
	fields     []FieldDefinition
	render     Renderer
}

// TypeOption customises a Type.
type TypeOption func(*Type)

// Persistent marks the type as stored in the backend and referenced by key.
func Persistent() TypeOption {
	return func(t *Type) {
		t.persistent = true
	}
}

// WithFields appends type-specific field definitions.
func WithFields(fields ...FieldDefinition) TypeOption {
	return func(t *Type) {
		t.fields = append(t.fields, fields...)
	}
}

// WithRenderer sets the render behaviour.
func WithRenderer(render Renderer) TypeOption {
	return func(t *Type) {
		t.render = render
	}
}

// NewType builds a descriptor. The name is lower-cased; an empty title
// falls back to the name.
func NewType(name, title string, opts ...TypeOption) *Type {
	t := &Type{
		name:  strings.ToLower(strings.TrimSpace(name)),
		title: strings.TrimSpace(title),
	}
	if t.title == "" {
		t.title = t.name
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

func (t *Type) Name() string     { return t.name }
func (t *Type) Title() string    { return t.title }
func (t *Type) Persistent() bool { return t.persistent }

// Fields returns the full ordered field list: base fields, storage fields
// for persistent types, then the type's own fields.
func (t *Type) Fields() []FieldDefinition {
	out := baseFields()
	if t.persistent {
		out = append(out, dbFields()...)
	}
	return append(out, t.fields...)
}

// FormFields returns the fields edited through the type's own form.
func (t *Type) FormFields() []FieldDefinition {
	out := make([]FieldDefinition, 0, len(t.fields))
	for _, field := range t.Fields() {
		if field.Fieldset == "" {
			out = append(out, field)
		}
	}
	return out
}

// Field looks up a field definition by name.
func (t *Type) Field(name string) (FieldDefinition, bool) {
	for _, field := range t.Fields() {
		if field.Name == name {
			return field, true
		}
	}
	return FieldDefinition{}, false
}

// New creates an instance seeded with fields. Layout-level keys are ignored.
func (t *Type) New(fields map[string]any) *Instance {
	inst := &Instance{typ: t, fields: map[string]any{}}
	inst.Update(fields)
	if t.persistent {
		if _, ok := inst.fields[FieldKeywords]; !ok {
			inst.fields[FieldKeywords] = []any{}
		}
	}
	return inst
}

// Registry is the content type registry.
type Registry = registry.Registry[*Type]

// NewRegistry builds an isolated content type registry.
func NewRegistry(opts ...registry.Option) *Registry {
	return registry.New[*Type]("content type", opts...)
}

// Register stores every type under its own name.
func Register(reg *Registry, types ...*Type) error {
	for _, t := range types {
		if err := reg.Register(t.Name(), t); err != nil {
			return err
		}
	}
	return nil
}
