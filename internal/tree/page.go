package tree

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-cms-layout/internal/layoutdoc"
	"github.com/goliatone/go-cms-layout/internal/markup"
)

// Page is the root of the tree. It owns grids keyed by name.
type Page struct {
	base
	*pageLog
	env     *Environment
	name    string
	grids   map[string]*Grid
	current *Column
	dirty   bool
}

// NewPage builds an empty page around view. A nil view creates a fresh
// element.
func NewPage(env *Environment, view *html.Node) *Page {
	if env == nil {
		env = &Environment{}
	}
	env.withDefaults()
	p := &Page{
		pageLog: newPageLog(env.Logger),
		env:     env,
		grids:   map[string]*Grid{},
	}
	p.init(p, KindPage, nil, view)
	p.page = p
	p.name = strings.TrimSpace(markup.GetAttr(p.view, "data-page"))
	if p.name == "" {
		p.name = DefaultPageName
	}
	return p
}

// DefaultPageName identifies pages whose markup carries no data-page.
const DefaultPageName = "default"

// Name is the storage key of the page layout.
func (p *Page) Name() string { return p.name }

// SetName changes the storage key of the page layout.
func (p *Page) SetName(name string) {
	if name = strings.TrimSpace(name); name != "" {
		p.name = name
		markup.SetAttr(p.view, "data-page", name)
	}
}

// FromMarkup builds a page over existing markup: the first element marked
// cms-page, or root itself. Call Render to materialise the tree.
func FromMarkup(env *Environment, root *html.Node) *Page {
	view := markup.FindFirst(root, func(n *html.Node) bool { return markup.HasClass(n, KindPage.Class()) })
	if view == nil {
		view = root
		if view != nil && view.Type == html.DocumentNode {
			if body := markup.FindFirst(root, func(n *html.Node) bool { return n.Data == "body" }); body != nil {
				view = body
			}
		}
	}
	return NewPage(env, view)
}

func (p *Page) ChildKind() Kind { return KindGrid }

// Environment returns the collaborators shared by the page's nodes.
func (p *Page) Environment() *Environment { return p.env }

func (p *Page) String() string { return string(KindPage) }

// Render materialises every grid marked in the page markup.
func (p *Page) Render() error {
	if p.state != StateConstructed {
		return nil
	}
	p.markRendered()
	for i, view := range markup.OutermostByClass(p.view, KindGrid.Class()) {
		name := strings.TrimSpace(markup.GetAttr(view, "data-context"))
		if name == "" {
			name = fmt.Sprintf("grid-%d", i)
			p.warn(p, "grid.unnamed", nil, "assigned", name)
		}
		if g, exists := p.grids[name]; exists {
			if g.view != view {
				p.warn(p, "grid.duplicate", nil, "grid", name)
			}
			continue
		}
		if _, err := p.createGrid(view, name); err != nil {
			return err
		}
	}
	return nil
}

// EnterEdit arms the page and every grid below it.
func (p *Page) EnterEdit() {
	p.armChildren()
}

// CreateChild adds a grid built on view, named after its data-context.
func (p *Page) CreateChild(view *html.Node, _ Seed) (Node, error) {
	name := strings.TrimSpace(markup.GetAttr(view, "data-context"))
	if name == "" {
		name = fmt.Sprintf("grid-%d", len(p.children))
	}
	if g, ok := p.grids[name]; ok {
		return g, nil
	}
	if view != nil && view.Parent == nil {
		markup.Append(p.view, view)
	}
	return p.createGrid(view, name)
}

func (p *Page) createGrid(view *html.Node, name string) (*Grid, error) {
	g := newGrid(p, view, name)
	if view == nil {
		markup.Append(p.view, g.view)
	}
	p.grids[name] = g
	p.appendChild(g)
	if err := p.adopt(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Grid returns the grid called name.
func (p *Page) Grid(name string) (*Grid, bool) {
	g, ok := p.grids[name]
	return g, ok
}

// EnsureGrid returns the grid called name, creating it when missing.
func (p *Page) EnsureGrid(name string) (*Grid, error) {
	if g, ok := p.grids[name]; ok {
		return g, nil
	}
	return p.createGrid(nil, name)
}

// Grids returns the grids in document order.
func (p *Page) Grids() []*Grid {
	out := make([]*Grid, 0, len(p.children))
	for _, child := range p.children {
		out = append(out, child.(*Grid))
	}
	return out
}

// Layout assembles the page document from its grids.
func (p *Page) Layout() layoutdoc.Document {
	doc := layoutdoc.Document{}
	for _, g := range p.Grids() {
		if rows, ok := g.Layout(); ok {
			doc[g.Name()] = rows
		}
	}
	return doc
}

func (p *Page) LayoutFragment() any { return p.Layout() }

// Sync hands the page to the sync coordinator.
func (p *Page) Sync() {
	if !p.Live() {
		return
	}
	if p.env.Syncer == nil {
		p.warn(p, "page.sync.unavailable", nil)
		return
	}
	p.env.Syncer.SyncPage(p)
}

// Dirty reports whether the page changed since the last successful sync.
func (p *Page) Dirty() bool { return p.dirty }

// MarkClean clears the dirty notice after a successful sync.
func (p *Page) MarkClean() { p.dirty = false }

func (p *Page) markDirty() { p.dirty = true }

// Notice returns the last message reported on the page log surface.
func (p *Page) Notice() Notice { return p.notice }

// Notify reports a message on the page log surface.
func (p *Page) Notify(level, message string) {
	switch level {
	case NoticeError:
		p.pageLog.logger.Error("page.notice", "message", message)
	case NoticeWarning:
		p.pageLog.logger.Warn("page.notice", "message", message)
	default:
		level = NoticeInfo
		p.pageLog.logger.Info("page.notice", "message", message)
	}
	p.notice = Notice{Level: level, Message: message}
}

// SetCurrentColumn records the column targeted by page-level add block.
func (p *Page) SetCurrentColumn(c *Column) error {
	if c != nil && c.Page() != p {
		return ErrNotChild
	}
	p.current = c
	return nil
}

// CurrentColumn returns the selected column, or the first column of the
// first grid when none is selected.
func (p *Page) CurrentColumn() *Column {
	if p.current != nil && p.current.Live() {
		return p.current
	}
	p.current = nil
	for _, g := range p.Grids() {
		for _, r := range g.Rows() {
			if cols := r.Columns(); len(cols) > 0 {
				return cols[0]
			}
		}
	}
	return nil
}

// AddBlock appends a block using template to the current column.
func (p *Page) AddBlock(template string) (*Block, error) {
	if err := p.requireEditing(); err != nil {
		return nil, err
	}
	column := p.CurrentColumn()
	if column == nil {
		p.warn(p, "block.add.no_column", ErrNoColumn)
		return nil, ErrNoColumn
	}
	return column.AddBlock(template)
}

// MoveBlock moves b into target at index. An out of range index appends.
func (p *Page) MoveBlock(b *Block, target *Column, index int) error {
	if err := p.requireEditing(); err != nil {
		return err
	}
	if b == nil || target == nil || b.Page() != p || target.Page() != p {
		return ErrNotChild
	}
	if !b.Live() || !target.Live() {
		return ErrDetached
	}
	source, ok := b.Parent().(*Column)
	if !ok || !source.removeChild(b) {
		return ErrNotChild
	}
	markup.Detach(b.view)

	if index < 0 || index > len(target.children) {
		index = len(target.children)
	}
	if index < len(target.children) {
		next := target.children[index].View()
		next.Parent.InsertBefore(b.view, next)
	} else {
		markup.Append(target.view, b.view)
	}
	target.insertChild(b, index)
	b.parent = target
	if target.Editing() {
		b.EnterEdit()
	}
	p.markDirty()
	p.info(b, "block.moved", fmt.Sprintf("Moved %s to %s", b, target))
	return nil
}

// ApplyContentUpdate refreshes every content node holding key with fields
// pushed by the backend. It returns the number of nodes updated.
func (p *Page) ApplyContentUpdate(key string, fields map[string]any) int {
	if fields == nil {
		p.error(p, "content.update.empty", nil, "key", key)
		return 0
	}
	if name, _ := fields[layoutdoc.ContentTypeField].(string); name != "" {
		if _, err := p.env.ContentTypes.Lookup(name); err != nil {
			p.error(p, "content.update.unknown_type", err, "key", key)
			return 0
		}
	}
	updated := 0
	for _, c := range p.Contents() {
		inst := c.Instance()
		if inst == nil || inst.ID() != key {
			continue
		}
		inst.Update(fields)
		c.renderInstance()
		updated++
	}
	p.debug(p, "content.update.applied", "key", key, "nodes", updated)
	return updated
}

// Contents returns every live content node in document order.
func (p *Page) Contents() []*Content {
	var out []*Content
	contents(p, func(c *Content) { out = append(out, c) })
	return out
}

// Discard tears the page down. Completions arriving afterwards no-op.
func (p *Page) Discard() {
	p.detached = true
	for _, child := range p.children {
		detachSubtree(child)
	}
	p.current = nil
}
