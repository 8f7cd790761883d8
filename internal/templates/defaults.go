package templates

// DefaultColumns is the number of column units a row spans.
const DefaultColumns = 24

// Definition describes a template coming from configuration.
type Definition struct {
	Name   string
	Ratios []float64
	Slots  int
	Tabbed bool
}

// DefaultRowTemplates returns the built-in column splits.
func DefaultRowTemplates() *Set {
	set := NewSet(FamilyRow)
	for _, def := range []struct {
		name   string
		ratios []float64
	}{
		{"One Column", []float64{1}},
		{"Half-Half", []float64{1.0 / 2, 1.0 / 2}},
		{"33-66", []float64{1.0 / 3, 2.0 / 3}},
		{"66-33", []float64{2.0 / 3, 1.0 / 3}},
		{"25-75", []float64{1.0 / 4, 3.0 / 4}},
		{"75-25", []float64{3.0 / 4, 1.0 / 4}},
		{"33-33-33", []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}},
		{"50-25-25", []float64{1.0 / 2, 1.0 / 4, 1.0 / 4}},
		{"25-25-50", []float64{1.0 / 4, 1.0 / 4, 1.0 / 2}},
		{"25-50-25", []float64{1.0 / 4, 1.0 / 2, 1.0 / 4}},
		{"25-25-25-25", []float64{1.0 / 4, 1.0 / 4, 1.0 / 4, 1.0 / 4}},
	} {
		t, err := NewRatio(def.name, def.ratios...)
		if err != nil {
			panic(err)
		}
		if err := set.Add(t); err != nil {
			panic(err)
		}
	}
	return set
}

// DefaultBlockTemplates returns the built-in stacked and tabbed layouts.
func DefaultBlockTemplates() *Set {
	set := NewSet(FamilyBlock)
	for _, def := range []Definition{
		{Name: "1 element", Slots: 1},
		{Name: "2 elements", Slots: 2},
		{Name: "3 elements", Slots: 3},
		{Name: "2 tabs", Slots: 2, Tabbed: true},
		{Name: "3 tabs", Slots: 3, Tabbed: true},
		{Name: "4 tabs", Slots: 4, Tabbed: true},
	} {
		t, err := def.Block()
		if err != nil {
			panic(err)
		}
		if err := set.Add(t); err != nil {
			panic(err)
		}
	}
	return set
}

// Row builds a ratio template from the definition.
func (d Definition) Row() (Template, error) {
	return NewRatio(d.Name, d.Ratios...)
}

// Block builds a stacked or tabbed template from the definition.
func (d Definition) Block() (Template, error) {
	if d.Tabbed {
		return NewTabbed(d.Name, d.Slots)
	}
	return NewStacked(d.Name, d.Slots)
}

// Extend adds configured definitions to set.
func Extend(set *Set, defs ...Definition) error {
	for _, def := range defs {
		var (
			t   Template
			err error
		)
		if set.Family() == FamilyRow {
			t, err = def.Row()
		} else {
			t, err = def.Block()
		}
		if err != nil {
			return err
		}
		if err := set.Add(t); err != nil {
			return err
		}
	}
	return nil
}
