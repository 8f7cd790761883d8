package tree

import (
	"golang.org/x/net/html"

	"github.com/goliatone/go-cms-layout/internal/layoutdoc"
)

// Block arranges a fixed number of content slots, stacked or in tabs.
type Block struct {
	base
	slotted
}

func newBlock(c *Column, view *html.Node, template string) *Block {
	b := &Block{}
	b.init(b, KindBlock, c, view)
	b.slotted = slotted{set: b.page.env.BlockTemplates, requested: template}
	return b
}

func (b *Block) ChildKind() Kind { return KindContent }

func (b *Block) Render() error {
	if b.state != StateConstructed {
		return nil
	}
	b.markRendered()
	return b.materialize(&b.base, KindContent, func(view *html.Node) (Node, error) {
		c := newContent(b, view)
		b.appendChild(c)
		if err := b.adopt(c); err != nil {
			return nil, err
		}
		return c, nil
	})
}

func (b *Block) EnterEdit() {
	b.armChildren()
}

// CreateChild fails once the block is rendered.
func (b *Block) CreateChild(_ *html.Node, _ Seed) (Node, error) {
	if err := b.Render(); err != nil {
		return nil, err
	}
	return nil, ErrFixedArity
}

// Contents returns the content slots in order.
func (b *Block) Contents() []*Content {
	out := make([]*Content, 0, len(b.children))
	for _, child := range b.children {
		out = append(out, child.(*Content))
	}
	return out
}

// Layout reports false when every slot is empty.
func (b *Block) Layout() (layoutdoc.BlockLayout, bool) {
	out := layoutdoc.BlockLayout{
		Template: b.TemplateName(),
		Children: make([]*layoutdoc.ContentLayout, 0, len(b.children)),
	}
	filled := false
	for _, c := range b.Contents() {
		layout := c.Layout()
		if layout != nil {
			filled = true
		}
		out.Children = append(out.Children, layout)
	}
	return out, filled
}

func (b *Block) LayoutFragment() any {
	if layout, ok := b.Layout(); ok {
		return layout
	}
	return nil
}
