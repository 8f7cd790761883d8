package layoutcmd

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ColumnRef addresses a column by grid name and zero based row and column
// positions.
type ColumnRef struct {
	Grid   string `json:"grid"`
	Row    int    `json:"row"`
	Column int    `json:"column"`
}

// Validate satisfies validation.Validatable.
func (r ColumnRef) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Grid, validation.Required),
		validation.Field(&r.Row, validation.Min(0)),
		validation.Field(&r.Column, validation.Min(0)),
	)
}

// BlockRef addresses a block inside a column.
type BlockRef struct {
	Column ColumnRef `json:"column"`
	Block  int       `json:"block"`
}

// Validate satisfies validation.Validatable.
func (r BlockRef) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Column),
		validation.Field(&r.Block, validation.Min(0)),
	)
}

// ContentRef addresses a content slot inside a block.
type ContentRef struct {
	Block BlockRef `json:"block"`
	Slot  int      `json:"slot"`
}

// Validate satisfies validation.Validatable.
func (r ContentRef) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Block),
		validation.Field(&r.Slot, validation.Min(0)),
	)
}
