package tree

import (
	"context"

	"github.com/goliatone/go-cms-layout/internal/layoutdoc"
)

// Hydrate appends the rows described by doc to the page grids, creating
// missing grids. Persistent content is fetched through the environment
// fetcher and appears once the event loop applies the result.
func (p *Page) Hydrate(ctx context.Context, doc layoutdoc.Document) error {
	if err := p.Render(); err != nil {
		return err
	}
	for _, name := range doc.GridNames() {
		g, err := p.EnsureGrid(name)
		if err != nil {
			return err
		}
		for _, rowLayout := range doc[name] {
			if err := g.hydrateRow(ctx, rowLayout); err != nil {
				return err
			}
		}
	}
	p.debug(p, "page.hydrated", "grids", len(doc))
	return nil
}

func (g *Grid) hydrateRow(ctx context.Context, layout layoutdoc.RowLayout) error {
	r, err := g.createRow(nil, layout.Template)
	if err != nil {
		return err
	}
	columns := r.Columns()
	if len(layout.Children) > len(columns) {
		g.log().warn(r, "hydrate.truncated", hydrationArity(r.String(), r.TemplateName(), len(columns), len(layout.Children)))
	}
	for i, column := range columns {
		if i >= len(layout.Children) {
			break
		}
		for _, blockLayout := range layout.Children[i] {
			if err := column.hydrateBlock(ctx, blockLayout); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Column) hydrateBlock(ctx context.Context, layout layoutdoc.BlockLayout) error {
	b, err := c.createBlock(nil, layout.Template)
	if err != nil {
		return err
	}
	slots := b.Contents()
	if len(layout.Children) > len(slots) {
		c.log().warn(b, "hydrate.truncated", hydrationArity(b.String(), b.TemplateName(), len(slots), len(layout.Children)))
	}
	for i, slot := range slots {
		if i >= len(layout.Children) {
			break
		}
		if leaf := layout.Children[i]; leaf != nil {
			slot.hydrateLeaf(ctx, leaf)
		}
	}
	return nil
}
