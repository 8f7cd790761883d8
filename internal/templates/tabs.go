package templates

import (
	"strconv"

	"github.com/goliatone/go-slug"
	"golang.org/x/net/html"

	"github.com/goliatone/go-cms-layout/internal/identity"
	"github.com/goliatone/go-cms-layout/internal/markup"
)

const (
	tabsClass   = "nav nav-tabs"
	panesClass  = "tab-content"
	paneClass   = "tab-pane"
	activeClass = "active"
)

// Tabbed wraps each block child in a labelled tab panel. The first tab is
// active.
type Tabbed struct {
	name  string
	slots int
}

// NewTabbed builds a block template with slots tabs.
func NewTabbed(name string, slots int) (*Tabbed, error) {
	if err := validateSlots(name, slots); err != nil {
		return nil, err
	}
	return &Tabbed{name: name, slots: slots}, nil
}

func (t *Tabbed) Name() string   { return t.name }
func (t *Tabbed) Family() Family { return FamilyBlock }
func (t *Tabbed) SlotCount() int { return t.slots }

func (t *Tabbed) Place(slot Slot) {
	if t.slots == 1 {
		markup.Append(slot.Parent, slot.Child)
		return
	}
	nav, panes := tabContainers(slot.Parent)

	id := paneID(slot)
	label := markup.GetAttr(slot.Child, "title")
	if label == "" {
		label = id
	}

	li := markup.Append(nav, markup.Element("li"))
	a := markup.Append(li, markup.Element("a", "href", "#"+id, "data-toggle", "tab"))
	a.AppendChild(markup.Text(label))

	pane := markup.Append(panes, markup.Element("div", "id", id, "class", paneClass))
	markup.Append(pane, slot.Child)

	if slot.Index == 0 {
		markup.AddClass(li, activeClass)
		markup.AddClass(pane, activeClass)
	}
}

func tabContainers(parent *html.Node) (*html.Node, *html.Node) {
	var nav, panes *html.Node
	for child := range markup.ElementChildren(parent) {
		switch {
		case nav == nil && child.Data == "ul" && markup.HasClass(child, "nav-tabs"):
			nav = child
		case panes == nil && markup.HasClass(child, panesClass):
			panes = child
		}
	}
	if nav == nil {
		nav = markup.Append(parent, markup.Element("ul", "class", tabsClass))
	}
	if panes == nil {
		panes = markup.Append(parent, markup.Element("div", "class", panesClass))
	}
	return nav, panes
}

func paneID(slot Slot) string {
	scope := slot.Scope + "/" + strconv.Itoa(slot.Index)
	if title := markup.GetAttr(slot.Child, "title"); title != "" {
		if normalized, err := slug.Default().Normalize(title); err == nil && normalized != "" {
			return identity.ElementID(normalized, scope)
		}
	}
	return identity.ElementID("tab", scope)
}
