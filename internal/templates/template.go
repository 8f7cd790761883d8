package templates

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/net/html"

	"github.com/goliatone/go-cms-layout/internal/markup"
)

// Family identifies which structural level a template serves.
type Family string

const (
	FamilyRow   Family = "row"
	FamilyBlock Family = "block"
)

const ratioTolerance = 1e-6

var errRatioSum = errors.New("ratios must sum to 1")

// Slot describes one child being placed inside its parent.
type Slot struct {
	Parent  *html.Node
	Child   *html.Node
	Index   int
	Columns int
	// Scope is a stable identifier of the parent, used for generated ids.
	Scope string
}

// Template decides how many children a Row or Block has and where each
// child's element goes.
type Template interface {
	Name() string
	Family() Family
	SlotCount() int
	Place(slot Slot)
}

// Ratio splits a row into columns proportional to its ratios.
type Ratio struct {
	name   string
	ratios []float64
}

// NewRatio builds a row template. Ratios must be positive and sum to 1.
func NewRatio(name string, ratios ...float64) (*Ratio, error) {
	t := &Ratio{name: name, ratios: append([]float64(nil), ratios...)}
	err := validation.Validate(name, validation.Required)
	if err == nil {
		err = validation.Validate(t.ratios,
			validation.Required,
			validation.Each(validation.Min(0.0).Exclusive()),
			validation.By(sumsToOne),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("templates: %s: %w", name, err)
	}
	return t, nil
}

func sumsToOne(value any) error {
	ratios, _ := value.([]float64)
	total := 0.0
	for _, r := range ratios {
		total += r
	}
	if math.Abs(total-1) > ratioTolerance {
		return errRatioSum
	}
	return nil
}

func (t *Ratio) Name() string      { return t.name }
func (t *Ratio) Family() Family    { return FamilyRow }
func (t *Ratio) SlotCount() int    { return len(t.ratios) }
func (t *Ratio) Ratios() []float64 { return append([]float64(nil), t.ratios...) }

// Span returns the column units of slot for a parent of columns units.
func (t *Ratio) Span(slot, columns int) int {
	if slot < 0 || slot >= len(t.ratios) {
		return 0
	}
	return int(math.Round(t.ratios[slot] * float64(columns)))
}

func (t *Ratio) Place(slot Slot) {
	markup.AddClass(slot.Child, "column", "span"+strconv.Itoa(t.Span(slot.Index, slot.Columns)))
	markup.Append(slot.Parent, slot.Child)
}

// Stacked arranges block children one after another. With more than one
// slot the children share the row evenly.
type Stacked struct {
	name  string
	slots int
}

// NewStacked builds a block template with slots elements.
func NewStacked(name string, slots int) (*Stacked, error) {
	if err := validateSlots(name, slots); err != nil {
		return nil, err
	}
	return &Stacked{name: name, slots: slots}, nil
}

func (t *Stacked) Name() string   { return t.name }
func (t *Stacked) Family() Family { return FamilyBlock }
func (t *Stacked) SlotCount() int { return t.slots }

func (t *Stacked) Place(slot Slot) {
	if t.slots > 1 {
		markup.AddClass(slot.Parent, "row", "grid"+strconv.Itoa(slot.Columns))
		markup.AddClass(slot.Child, "span"+strconv.Itoa(slot.Columns/t.slots))
	}
	markup.Append(slot.Parent, slot.Child)
}

func validateSlots(name string, slots int) error {
	err := validation.Validate(slots, validation.Required, validation.Min(1))
	if err == nil {
		err = validation.Validate(name, validation.Required)
	}
	if err != nil {
		return fmt.Errorf("templates: %s: %w", name, err)
	}
	return nil
}
