package content

import (
	"fmt"
	"maps"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-cms-layout/internal/layoutdoc"
)

// Instance holds the field data of one content unit.
type Instance struct {
	typ    *Type
	fields map[string]any
}

func (i *Instance) Type() *Type      { return i.typ }
func (i *Instance) TypeName() string { return i.typ.Name() }
func (i *Instance) Persistent() bool { return i.typ.Persistent() }

// ID returns the storage key of a persistent instance.
func (i *Instance) ID() string {
	return i.String(FieldID)
}

// SetID records the storage key assigned by the backend.
func (i *Instance) SetID(id string) {
	if id = strings.TrimSpace(id); id == "" {
		delete(i.fields, FieldID)
		return
	}
	i.fields[FieldID] = id
}

// Title returns the title field.
func (i *Instance) Title() string {
	return i.String(FieldTitle)
}

// Get returns a raw field value.
func (i *Instance) Get(name string) any {
	return i.fields[name]
}

// String returns a field value formatted as a string.
func (i *Instance) String(name string) string {
	switch v := i.fields[name].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Fields returns a copy of the field map.
func (i *Instance) Fields() map[string]any {
	return maps.Clone(i.fields)
}

// Update merges fields into the instance. The content type, wrapper and
// skin belong to the owning node and are skipped.
func (i *Instance) Update(fields map[string]any) {
	for key, value := range fields {
		switch key {
		case FieldContentType, FieldWrapper, FieldSkin:
			continue
		case FieldID:
			if s, ok := value.(string); ok {
				i.SetID(s)
				continue
			}
		}
		i.fields[key] = value
	}
}

// Serialize returns the layout reference for the instance. A persistent
// instance serialises to its key and reports false until it has one.
func (i *Instance) Serialize() (layoutdoc.ContentRef, bool) {
	if i.Persistent() {
		id := i.ID()
		if id == "" {
			return layoutdoc.ContentRef{}, false
		}
		return layoutdoc.KeyRef(id), true
	}
	fields := maps.Clone(i.fields)
	if fields == nil {
		fields = map[string]any{}
	}
	delete(fields, FieldID)
	fields[layoutdoc.ContentTypeField] = i.TypeName()
	return layoutdoc.InlineRef(fields), true
}

// StoredFields returns the payload sent to the backend for a persistent
// instance.
func (i *Instance) StoredFields() map[string]any {
	fields := i.Fields()
	fields[FieldContentType] = i.TypeName()
	return fields
}

// Render materialises the instance inside container.
func (i *Instance) Render(container *html.Node, skin string) error {
	if i.typ.render == nil {
		return fmt.Errorf("%w: %s", ErrNoRenderer, i.TypeName())
	}
	return i.typ.render(container, i, skin)
}
