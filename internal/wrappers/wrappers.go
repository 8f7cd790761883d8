package wrappers

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-cms-layout/internal/markup"
	"github.com/goliatone/go-cms-layout/internal/registry"
)

// View is what a wrapper sees of the content it decorates.
type View struct {
	Title string
	Skin  string
	// Render materialises the wrapped content inside the given element.
	Render func(container *html.Node) error
}

// WrapFunc builds scaffolding inside container and renders the content
// into it.
type WrapFunc func(container *html.Node, view View) error

// Wrapper is a named decorator around rendered content.
type Wrapper struct {
	name  string
	title string
	wrap  WrapFunc
}

// New builds a wrapper. A nil wrap renders the content directly.
func New(name, title string, wrap WrapFunc) *Wrapper {
	w := &Wrapper{
		name:  strings.ToLower(strings.TrimSpace(name)),
		title: strings.TrimSpace(title),
		wrap:  wrap,
	}
	if w.title == "" {
		w.title = w.name
	}
	return w
}

func (w *Wrapper) Name() string  { return w.name }
func (w *Wrapper) Title() string { return w.title }

// Render decorates view inside container.
func (w *Wrapper) Render(container *html.Node, view View) error {
	if w.wrap == nil {
		return view.Render(container)
	}
	return w.wrap(container, view)
}

// Registry is the wrapper registry.
type Registry = registry.Registry[*Wrapper]

// NewRegistry builds an isolated wrapper registry.
func NewRegistry(opts ...registry.Option) *Registry {
	return registry.New[*Wrapper]("wrapper", opts...)
}

// Register stores every wrapper under its own name.
func Register(reg *Registry, wrappers ...*Wrapper) error {
	for _, w := range wrappers {
		if err := reg.Register(w.Name(), w); err != nil {
			return err
		}
	}
	return nil
}

// Defaults returns the built-in wrappers.
func Defaults() []*Wrapper {
	return []*Wrapper{
		New("nothing", "No Wrapper", nil),
		New("well", "Well", well("well", false)),
		New("welllg", "Well Large", well("well well-lg", true)),
		New("wellsm", "Well Small", well("well well-sm", true)),
		New("panel", "Panel", panel(false, false)),
		New("panelheading", "Panel with heading", panel(true, false)),
		New("paneltitle", "Panel with title", panel(true, true)),
	}
}

// RegisterDefaults registers the built-in wrappers on reg.
func RegisterDefaults(reg *Registry) error {
	return Register(reg, Defaults()...)
}

func well(class string, skinned bool) WrapFunc {
	return func(container *html.Node, view View) error {
		elem := markup.Append(container, markup.Element("div", "class", class))
		if skinned && view.Skin != "" {
			markup.AddClass(elem, view.Skin)
		}
		return view.Render(elem)
	}
}

func panel(withHeader, withTitle bool) WrapFunc {
	return func(container *html.Node, view View) error {
		outer := markup.Append(container, markup.Element("div", "class", "panel panel-default"))
		if view.Skin != "" {
			markup.AddClass(outer, view.Skin)
		}
		if withHeader {
			head := markup.Append(outer, markup.Element("div", "class", "header"))
			if withTitle {
				head = markup.Append(head, markup.Element("h3", "class", "title"))
			}
			if view.Title != "" {
				markup.SetText(head, view.Title)
			}
		}
		body := markup.Append(outer, markup.Element("div", "class", "body"))
		return view.Render(body)
	}
}
