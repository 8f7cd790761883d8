package content

// FieldType selects the form control used to edit a field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextArea FieldType = "textarea"
	FieldURL      FieldType = "url"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
	FieldNumber   FieldType = "number"
	FieldHidden   FieldType = "hidden"
	FieldList     FieldType = "list"
)

// Fieldsets group the base fields every content type carries. Fields
// without a fieldset belong to the type's own form.
const (
	FieldsetContentType = "content_type"
	FieldsetDB          = "dbfields"
)

// Well-known field names.
const (
	FieldContentType = "content_type"
	FieldWrapper     = "wrapper"
	FieldSkin        = "skin"
	FieldID          = "id"
	FieldTitle       = "title"
	FieldKeywords    = "keywords"
)

// FieldDefinition describes one editable attribute of a content type.
type FieldDefinition struct {
	Name        string    `json:"name"`
	Label       string    `json:"label,omitempty"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required,omitempty"`
	Fieldset    string    `json:"fieldset,omitempty"`
	Choices     []string  `json:"choices,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Rows        int       `json:"rows,omitempty"`
	Default     any       `json:"default,omitempty"`
}

func baseFields() []FieldDefinition {
	return []FieldDefinition{
		{Name: FieldContentType, Label: "Content", Type: FieldSelect, Fieldset: FieldsetContentType},
		{Name: FieldWrapper, Label: "Wrapper", Type: FieldSelect, Fieldset: FieldsetContentType},
		{Name: FieldSkin, Label: "Skin", Type: FieldSelect, Fieldset: FieldsetContentType},
	}
}

func dbFields() []FieldDefinition {
	return []FieldDefinition{
		{Name: FieldID, Type: FieldHidden, Fieldset: FieldsetDB},
		{Name: FieldTitle, Label: "Title", Type: FieldText, Required: true, Fieldset: FieldsetDB},
		{Name: FieldKeywords, Label: "Keywords", Type: FieldList, Fieldset: FieldsetDB},
	}
}
