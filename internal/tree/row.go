package tree

import (
	"golang.org/x/net/html"

	"github.com/goliatone/go-cms-layout/internal/layoutdoc"
	"github.com/goliatone/go-cms-layout/internal/markup"
)

// Row splits its width between a fixed number of columns chosen by its
// template.
type Row struct {
	base
	slotted
}

func newRow(g *Grid, view *html.Node, template string) *Row {
	r := &Row{}
	r.init(r, KindRow, g, view)
	r.slotted = slotted{set: r.page.env.RowTemplates, requested: template}
	return r
}

func (r *Row) ChildKind() Kind { return KindColumn }

// Render resolves the template and fills every column slot.
func (r *Row) Render() error {
	if r.state != StateConstructed {
		return nil
	}
	r.markRendered()
	markup.AddClass(r.view, "row", gridClass(r.page.env.Columns))
	return r.materialize(&r.base, KindColumn, func(view *html.Node) (Node, error) {
		c := newColumn(r, view)
		r.appendChild(c)
		if err := r.adopt(c); err != nil {
			return nil, err
		}
		return c, nil
	})
}

func (r *Row) EnterEdit() {
	r.armChildren()
}

// CreateChild always fails once the row is rendered: its columns are
// fixed by the template.
func (r *Row) CreateChild(_ *html.Node, _ Seed) (Node, error) {
	if err := r.Render(); err != nil {
		return nil, err
	}
	return nil, ErrFixedArity
}

// Columns returns the columns in slot order.
func (r *Row) Columns() []*Column {
	out := make([]*Column, 0, len(r.children))
	for _, child := range r.children {
		out = append(out, child.(*Column))
	}
	return out
}

// Layout reports false when no column carries content.
func (r *Row) Layout() (layoutdoc.RowLayout, bool) {
	out := layoutdoc.RowLayout{
		Template: r.TemplateName(),
		Children: make([]layoutdoc.ColumnLayout, 0, len(r.children)),
	}
	filled := false
	for _, c := range r.Columns() {
		layout := c.Layout()
		if layout != nil {
			filled = true
		}
		out.Children = append(out.Children, layout)
	}
	return out, filled
}

func (r *Row) LayoutFragment() any {
	if layout, ok := r.Layout(); ok {
		return layout
	}
	return nil
}
