package tree

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/goliatone/go-cms-layout/internal/layoutdoc"
	"github.com/goliatone/go-cms-layout/internal/markup"
)

// Grid is a named, variable-length list of rows.
type Grid struct {
	base
	name string
}

func newGrid(p *Page, view *html.Node, name string) *Grid {
	g := &Grid{name: name}
	g.init(g, KindGrid, p, view)
	markup.SetAttr(g.view, "data-context", name)
	return g
}

func (g *Grid) ChildKind() Kind { return KindRow }
func (g *Grid) Name() string    { return g.name }
func (g *Grid) String() string  { return "grid-" + g.name }

// Render materialises the rows found in the grid markup.
func (g *Grid) Render() error {
	if g.state != StateConstructed {
		return nil
	}
	g.markRendered()
	for _, view := range markup.OutermostByClass(g.view, KindRow.Class()) {
		if _, err := g.createRow(view, ""); err != nil {
			return err
		}
	}
	return nil
}

func (g *Grid) EnterEdit() {
	g.armChildren()
}

// CreateChild appends a row built on view using the seeded template.
func (g *Grid) CreateChild(view *html.Node, seed Seed) (Node, error) {
	return g.createRow(view, seed.Template)
}

func (g *Grid) createRow(view *html.Node, template string) (*Row, error) {
	r := newRow(g, view, template)
	if r.view.Parent == nil {
		markup.Append(g.view, r.view)
	}
	g.appendChild(r)
	if err := g.adopt(r); err != nil {
		return nil, err
	}
	return r, nil
}

// AddRow appends a new row using template.
func (g *Grid) AddRow(template string) (*Row, error) {
	if err := g.requireEditing(); err != nil {
		return nil, err
	}
	r, err := g.createRow(nil, template)
	if err != nil {
		return nil, err
	}
	g.page.markDirty()
	g.log().info(r, "row.added", fmt.Sprintf("Added new %s", r), "template", r.TemplateName())
	return r, nil
}

// RemoveRow detaches r and its subtree.
func (g *Grid) RemoveRow(r *Row) error {
	if err := g.requireEditing(); err != nil {
		return err
	}
	label := r.String()
	if !g.removeChild(r) {
		return ErrNotChild
	}
	markup.Detach(r.view)
	detachSubtree(r)
	g.page.markDirty()
	g.log().info(g, "row.removed", fmt.Sprintf("Removed %s", label))
	return nil
}

// Rows returns the rows in order.
func (g *Grid) Rows() []*Row {
	out := make([]*Row, 0, len(g.children))
	for _, child := range g.children {
		out = append(out, child.(*Row))
	}
	return out
}

// Layout returns the non-empty rows. It reports false when none remain.
func (g *Grid) Layout() (layoutdoc.GridLayout, bool) {
	var rows layoutdoc.GridLayout
	for _, r := range g.Rows() {
		if layout, ok := r.Layout(); ok {
			rows = append(rows, layout)
		}
	}
	return rows, len(rows) > 0
}

func (g *Grid) LayoutFragment() any {
	if rows, ok := g.Layout(); ok {
		return rows
	}
	return nil
}
