package tree

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/goliatone/go-cms-layout/internal/layoutdoc"
	"github.com/goliatone/go-cms-layout/internal/markup"
)

// Column holds a variable list of blocks.
type Column struct {
	base
}

func newColumn(r *Row, view *html.Node) *Column {
	c := &Column{}
	c.init(c, KindColumn, r, view)
	return c
}

func (c *Column) ChildKind() Kind { return KindBlock }

func (c *Column) Render() error {
	if c.state != StateConstructed {
		return nil
	}
	c.markRendered()
	for _, view := range markup.OutermostByClass(c.view, KindBlock.Class()) {
		if _, err := c.createBlock(view, ""); err != nil {
			return err
		}
	}
	return nil
}

func (c *Column) EnterEdit() {
	c.armChildren()
}

func (c *Column) CreateChild(view *html.Node, seed Seed) (Node, error) {
	return c.createBlock(view, seed.Template)
}

func (c *Column) createBlock(view *html.Node, template string) (*Block, error) {
	b := newBlock(c, view, template)
	if b.view.Parent == nil {
		markup.Append(c.view, b.view)
	}
	c.appendChild(b)
	if err := c.adopt(b); err != nil {
		return nil, err
	}
	return b, nil
}

// AddBlock appends a block using template.
func (c *Column) AddBlock(template string) (*Block, error) {
	if err := c.requireEditing(); err != nil {
		return nil, err
	}
	b, err := c.createBlock(nil, template)
	if err != nil {
		return nil, err
	}
	c.page.markDirty()
	c.log().info(b, "block.added", fmt.Sprintf("Added new %s", b), "template", b.TemplateName())
	return b, nil
}

// RemoveBlock detaches b and its contents.
func (c *Column) RemoveBlock(b *Block) error {
	if err := c.requireEditing(); err != nil {
		return err
	}
	label := b.String()
	if !c.removeChild(b) {
		return ErrNotChild
	}
	markup.Detach(b.view)
	detachSubtree(b)
	c.page.markDirty()
	c.log().info(c, "block.removed", fmt.Sprintf("Removed %s", label))
	return nil
}

// Select makes c the target of page-level add block.
func (c *Column) Select() error {
	if !c.Live() {
		return ErrDetached
	}
	return c.page.SetCurrentColumn(c)
}

// Blocks returns the blocks in order.
func (c *Column) Blocks() []*Block {
	out := make([]*Block, 0, len(c.children))
	for _, child := range c.children {
		out = append(out, child.(*Block))
	}
	return out
}

// Layout returns the non-empty blocks, or nil when none remain.
func (c *Column) Layout() layoutdoc.ColumnLayout {
	var out layoutdoc.ColumnLayout
	for _, b := range c.Blocks() {
		if layout, ok := b.Layout(); ok {
			out = append(out, layout)
		}
	}
	return out
}

func (c *Column) LayoutFragment() any {
	if layout := c.Layout(); layout != nil {
		return layout
	}
	return nil
}
