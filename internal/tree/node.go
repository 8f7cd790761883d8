package tree

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/goliatone/go-cms-layout/internal/markup"
)

// Kind names a structural level.
type Kind string

const (
	KindPage    Kind = "page"
	KindGrid    Kind = "grid"
	KindRow     Kind = "row"
	KindColumn  Kind = "column"
	KindBlock   Kind = "block"
	KindContent Kind = "content"
)

// Class is the markup marker identifying elements of this kind.
func (k Kind) Class() string {
	return "cms-" + string(k)
}

// State is the lifecycle position of a node. Transitions only move forward.
type State int

const (
	StateConstructed State = iota
	StateRendered
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateRendered:
		return "rendered"
	case StateEditing:
		return "editing"
	default:
		return "constructed"
	}
}

// Seed carries structural data for a new child.
type Seed struct {
	Template string
}

// Node is the contract shared by every level of the tree.
type Node interface {
	Kind() Kind
	ChildKind() Kind
	Parent() Node
	Children() []Node
	State() State
	Editing() bool
	Live() bool
	View() *html.Node
	Index() int
	Page() *Page
	// Render materialises children from the node's markup. Repeated calls
	// are no-ops.
	Render() error
	// EnterEdit arms the node and its current children for editing.
	EnterEdit()
	// CreateChild appends a new child built on view, or on a fresh element
	// when view is nil.
	CreateChild(view *html.Node, seed Seed) (Node, error)
	// LayoutFragment returns the serialised subtree or nil when it carries
	// no content.
	LayoutFragment() any
	String() string
}

type base struct {
	kind     Kind
	self     Node
	parent   Node
	children []Node
	state    State
	view     *html.Node
	page     *Page
	detached bool
}

func (b *base) init(self Node, kind Kind, parent Node, view *html.Node) {
	b.self = self
	b.kind = kind
	b.parent = parent
	if parent != nil {
		b.page = parent.Page()
	}
	if view == nil {
		view = markup.Element("div")
	}
	markup.AddClass(view, kind.Class())
	b.view = view
}

func (b *base) Kind() Kind       { return b.kind }
func (b *base) Parent() Node     { return b.parent }
func (b *base) State() State     { return b.state }
func (b *base) Editing() bool    { return b.state == StateEditing }
func (b *base) View() *html.Node { return b.view }
func (b *base) Page() *Page      { return b.page }

func (b *base) Children() []Node {
	return append([]Node(nil), b.children...)
}

func (b *base) Live() bool {
	if b.detached {
		return false
	}
	if b.page != nil && b.page.self != b.self {
		return b.page.Live()
	}
	return true
}

func (b *base) Index() int {
	if b.parent == nil {
		return -1
	}
	for i, child := range b.parent.Children() {
		if child == b.self {
			return i
		}
	}
	return -1
}

func (b *base) String() string {
	if n := b.Index(); n >= 0 {
		return fmt.Sprintf("%s-%d", b.kind, n)
	}
	return string(b.kind)
}

func (b *base) markRendered() {
	if b.state == StateConstructed {
		b.state = StateRendered
	}
}

// armChildren propagates edit mode to current children, then marks the
// node itself so mutations are only accepted once the subtree is armed.
func (b *base) armChildren() {
	if b.state == StateEditing {
		return
	}
	if b.state == StateConstructed {
		_ = b.self.Render()
	}
	for _, child := range b.children {
		child.EnterEdit()
	}
	markup.AddClass(b.view, "editing")
	b.state = StateEditing
}

func (b *base) requireEditing() error {
	if !b.Live() {
		return ErrDetached
	}
	if b.state != StateEditing {
		return ErrNotEditing
	}
	return nil
}

func (b *base) appendChild(child Node) {
	b.children = append(b.children, child)
}

func (b *base) removeChild(child Node) bool {
	for i, c := range b.children {
		if c == child {
			b.children = append(b.children[:i], b.children[i+1:]...)
			return true
		}
	}
	return false
}

func (b *base) insertChild(child Node, index int) {
	if index < 0 || index > len(b.children) {
		index = len(b.children)
	}
	b.children = append(b.children, nil)
	copy(b.children[index+1:], b.children[index:])
	b.children[index] = child
}

// adopt places a freshly created child: it is rendered, and armed when
// this node is already editing.
func (b *base) adopt(child Node) error {
	if err := child.Render(); err != nil {
		return err
	}
	if b.state == StateEditing {
		child.EnterEdit()
	}
	return nil
}

func (b *base) log() *pageLog {
	if b.page == nil {
		return nil
	}
	return b.page.pageLog
}

// markupChildren returns the elements below view that carry the marker of
// kind, falling back to direct element children.
func markupChildren(view *html.Node, kind Kind) []*html.Node {
	found := markup.OutermostByClass(view, kind.Class())
	if len(found) > 0 {
		return found
	}
	for child := range markup.ElementChildren(view) {
		found = append(found, child)
	}
	return found
}

type detachable interface {
	markDetached()
}

func (b *base) markDetached() {
	b.detached = true
}

func detachSubtree(n Node) {
	if d, ok := n.(detachable); ok {
		d.markDetached()
	}
	for _, child := range n.Children() {
		detachSubtree(child)
	}
}

func contents(n Node, visit func(*Content)) {
	if c, ok := n.(*Content); ok {
		visit(c)
		return
	}
	for _, child := range n.Children() {
		contents(child, visit)
	}
}

// Ancestor returns the closest ancestor of n with the given kind.
func Ancestor(n Node, kind Kind) Node {
	if n == nil {
		return nil
	}
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		if cur.Kind() == kind {
			return cur
		}
	}
	return nil
}
