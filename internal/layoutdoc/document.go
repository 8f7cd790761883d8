// Package layoutdoc holds the persisted nested form of a page layout.
//
//	{gridName: [ {template, children: [ [ {template, children: [ {content, skin, wrapper} | null ]} ] | null ]} ]}
package layoutdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Document maps grid names to their serialised rows.
type Document map[string]GridLayout

// GridLayout is the ordered list of non-empty rows of a grid.
type GridLayout []RowLayout

// RowLayout records the row template and one entry per column slot. A nil
// column marks an empty slot.
type RowLayout struct {
	Template string         `json:"template"`
	Children []ColumnLayout `json:"children"`
}

// ColumnLayout is the ordered list of non-empty blocks of a column.
type ColumnLayout []BlockLayout

// BlockLayout records the block template and one entry per content slot. A
// nil entry marks an empty slot.
type BlockLayout struct {
	Template string           `json:"template"`
	Children []*ContentLayout `json:"children"`
}

// ContentLayout is the leaf fragment.
type ContentLayout struct {
	Content ContentRef `json:"content"`
	Skin    string     `json:"skin,omitempty"`
	Wrapper string     `json:"wrapper,omitempty"`
}

// ContentTypeField is the inline field naming the content type.
const ContentTypeField = "content_type"

// ContentRef is either a storage key (persistent content) or the inline
// field map of a transient content.
type ContentRef struct {
	Key    string
	Fields map[string]any
}

// KeyRef references persistent content.
func KeyRef(key string) ContentRef {
	return ContentRef{Key: key}
}

// InlineRef embeds transient fields.
func InlineRef(fields map[string]any) ContentRef {
	return ContentRef{Fields: fields}
}

// IsKey reports whether the reference points at stored content.
func (r ContentRef) IsKey() bool {
	return r.Key != ""
}

// IsZero reports whether the reference carries nothing.
func (r ContentRef) IsZero() bool {
	return r.Key == "" && len(r.Fields) == 0
}

// ContentType returns the inline content type name, if any.
func (r ContentRef) ContentType() string {
	name, _ := r.Fields[ContentTypeField].(string)
	return name
}

func (r ContentRef) MarshalJSON() ([]byte, error) {
	if r.Key != "" {
		return json.Marshal(r.Key)
	}
	if r.Fields == nil {
		return []byte("null"), nil
	}
	return json.Marshal(r.Fields)
}

func (r *ContentRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = ContentRef{}
	switch {
	case bytes.Equal(data, []byte("null")):
		return nil
	case len(data) > 0 && data[0] == '"':
		return json.Unmarshal(data, &r.Key)
	case len(data) > 0 && data[0] == '{':
		return json.Unmarshal(data, &r.Fields)
	default:
		return fmt.Errorf("layoutdoc: content must be a key or an object, got %s", data)
	}
}

// Marshal encodes doc. Grid names are emitted in sorted order.
func Marshal(doc Document) ([]byte, error) {
	if doc == nil {
		doc = Document{}
	}
	return json.Marshal(doc)
}

// Unmarshal decodes a layout document. An empty payload yields an empty
// document.
func Unmarshal(data []byte) (Document, error) {
	doc := Document{}
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("layoutdoc: decode: %w", err)
	}
	return doc, nil
}

// FromMap converts a generic decoded value, as carried by a transport, into
// a Document.
func FromMap(value map[string]any) (Document, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("layoutdoc: encode: %w", err)
	}
	return Unmarshal(data)
}

// ToMap converts doc into the generic form carried by a transport.
func ToMap(doc Document) (map[string]any, error) {
	data, err := Marshal(doc)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("layoutdoc: decode: %w", err)
	}
	return out, nil
}

// GridNames returns the grid names of doc in sorted order.
func (d Document) GridNames() []string {
	return slices.Sorted(maps.Keys(d))
}

// Keys returns every persistent content key referenced by doc, in
// traversal order without duplicates.
func (d Document) Keys() []string {
	var keys []string
	for _, name := range d.GridNames() {
		for _, row := range d[name] {
			for _, column := range row.Children {
				for _, block := range column {
					for _, leaf := range block.Children {
						if leaf != nil && leaf.Content.IsKey() && !slices.Contains(keys, leaf.Content.Key) {
							keys = append(keys, leaf.Content.Key)
						}
					}
				}
			}
		}
	}
	return keys
}

// Equal reports whether a and b encode to the same JSON.
func Equal(a, b Document) bool {
	left, err := Marshal(a)
	if err != nil {
		return false
	}
	right, err := Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(left, right)
}
