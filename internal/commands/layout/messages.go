package layoutcmd

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	addRowMessageType            = "layout.grid.add_row"
	removeRowMessageType         = "layout.grid.remove_row"
	addBlockMessageType          = "layout.column.add_block"
	selectColumnMessageType      = "layout.column.select"
	removeBlockMessageType       = "layout.column.remove_block"
	moveBlockMessageType         = "layout.page.move_block"
	syncPageMessageType          = "layout.page.sync"
	changeContentTypeMessageType = "layout.content.change_type"
	submitFieldsMessageType      = "layout.content.submit_fields"
	decorateContentMessageType   = "layout.content.decorate"
)

// ErrEmptyDecoration is returned when a decorate command changes nothing.
var ErrEmptyDecoration = errors.New("layoutcmd: wrapper or skin required")

// AddRowCommand appends a row built from Template to Grid.
type AddRowCommand struct {
	Grid     string `json:"grid"`
	Template string `json:"template"`
}

// Type implements command.Message.
func (AddRowCommand) Type() string { return addRowMessageType }

// Validate satisfies command.Message.
func (m AddRowCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Grid, validation.Required),
		validation.Field(&m.Template, validation.Required),
	)
}

// RemoveRowCommand removes the row at position Row of Grid.
type RemoveRowCommand struct {
	Grid string `json:"grid"`
	Row  int    `json:"row"`
}

// Type implements command.Message.
func (RemoveRowCommand) Type() string { return removeRowMessageType }

// Validate satisfies command.Message.
func (m RemoveRowCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Grid, validation.Required),
		validation.Field(&m.Row, validation.Min(0)),
	)
}

// AddBlockCommand appends a block to Column, or to the page's current column
// when Column is nil.
type AddBlockCommand struct {
	Column   *ColumnRef `json:"column,omitempty"`
	Template string     `json:"template"`
}

// Type implements command.Message.
func (AddBlockCommand) Type() string { return addBlockMessageType }

// Validate satisfies command.Message.
func (m AddBlockCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Column),
		validation.Field(&m.Template, validation.Required),
	)
}

// SelectColumnCommand makes a column the target of page level add block.
type SelectColumnCommand struct {
	Column ColumnRef `json:"column"`
}

// Type implements command.Message.
func (SelectColumnCommand) Type() string { return selectColumnMessageType }

// Validate satisfies command.Message.
func (m SelectColumnCommand) Validate() error {
	return validation.ValidateStruct(&m, validation.Field(&m.Column))
}

// RemoveBlockCommand removes a block from its column.
type RemoveBlockCommand struct {
	Block BlockRef `json:"block"`
}

// Type implements command.Message.
func (RemoveBlockCommand) Type() string { return removeBlockMessageType }

// Validate satisfies command.Message.
func (m RemoveBlockCommand) Validate() error {
	return validation.ValidateStruct(&m, validation.Field(&m.Block))
}

// MoveBlockCommand moves a block into To at Index. A negative or out of
// range index appends.
type MoveBlockCommand struct {
	Block BlockRef  `json:"block"`
	To    ColumnRef `json:"to"`
	Index int       `json:"index"`
}

// Type implements command.Message.
func (MoveBlockCommand) Type() string { return moveBlockMessageType }

// Validate satisfies command.Message.
func (m MoveBlockCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Block),
		validation.Field(&m.To),
	)
}

// SyncPageCommand hands the page to the sync coordinator.
type SyncPageCommand struct{}

// Type implements command.Message.
func (SyncPageCommand) Type() string { return syncPageMessageType }

// Validate satisfies command.Message.
func (SyncPageCommand) Validate() error { return nil }

// ChangeContentTypeCommand switches the content type of a slot. An empty
// ContentType clears the slot.
type ChangeContentTypeCommand struct {
	Target      ContentRef `json:"target"`
	ContentType string     `json:"content_type"`
}

// Type implements command.Message.
func (ChangeContentTypeCommand) Type() string { return changeContentTypeMessageType }

// Validate satisfies command.Message.
func (m ChangeContentTypeCommand) Validate() error {
	return validation.ValidateStruct(&m, validation.Field(&m.Target))
}

// SubmitFieldsCommand applies an edit form submission to a slot.
type SubmitFieldsCommand struct {
	Target ContentRef     `json:"target"`
	Fields map[string]any `json:"fields"`
}

// Type implements command.Message.
func (SubmitFieldsCommand) Type() string { return submitFieldsMessageType }

// Validate satisfies command.Message.
func (m SubmitFieldsCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Target),
		validation.Field(&m.Fields, validation.Required),
	)
}

// DecorateContentCommand changes the wrapper and/or skin of a slot. Nil
// fields are left untouched.
type DecorateContentCommand struct {
	Target  ContentRef `json:"target"`
	Wrapper *string    `json:"wrapper,omitempty"`
	Skin    *string    `json:"skin,omitempty"`
}

// Type implements command.Message.
func (DecorateContentCommand) Type() string { return decorateContentMessageType }

// Validate satisfies command.Message.
func (m DecorateContentCommand) Validate() error {
	if m.Wrapper == nil && m.Skin == nil {
		return ErrEmptyDecoration
	}
	return validation.ValidateStruct(&m, validation.Field(&m.Target))
}
