package tree

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-cms-layout/internal/markup"
	"github.com/goliatone/go-cms-layout/internal/templates"
)

// slotted is the fixed-arity machinery shared by rows and blocks. The
// template is chosen once, when the node renders.
type slotted struct {
	set       *templates.Set
	requested string
	template  templates.Template
}

func (s *slotted) Template() templates.Template { return s.template }

// TemplateName returns the name of the resolved template.
func (s *slotted) TemplateName() string {
	if s.template == nil {
		return ""
	}
	return s.template.Name()
}

// materialize resolves the template, reuses existing child markup up to
// the slot count and creates empty children for the remaining slots.
func (s *slotted) materialize(b *base, childKind Kind, create func(view *html.Node) (Node, error)) error {
	name := strings.TrimSpace(s.requested)
	if name == "" {
		name = strings.TrimSpace(markup.GetAttr(b.view, "data-template"))
	}
	tpl, fellBack := s.set.Resolve(name)
	if tpl == nil {
		return templateSetEmpty(string(s.set.Family()))
	}
	if fellBack && name != "" {
		b.log().warn(b.self, "template.fallback", nil, "requested", name, "template", tpl.Name())
	}
	s.template = tpl
	markup.SetAttr(b.view, "data-template", tpl.Name())

	existing := markupChildren(b.view, childKind)
	markup.Clear(b.view)

	slots := tpl.SlotCount()
	if len(existing) > slots {
		b.log().warn(b.self, "hydrate.truncated", hydrationArity(b.self.String(), tpl.Name(), slots, len(existing)))
		existing = existing[:slots]
	}

	columns := templates.DefaultColumns
	if b.page != nil {
		columns = b.page.env.Columns
	}
	scope := path(b.self)
	for i := 0; i < slots; i++ {
		var view *html.Node
		if i < len(existing) {
			view = existing[i]
			markup.Detach(view)
			clearSpans(view)
		}
		child, err := create(view)
		if err != nil {
			return err
		}
		tpl.Place(templates.Slot{
			Parent:  b.view,
			Child:   child.View(),
			Index:   i,
			Columns: columns,
			Scope:   scope,
		})
	}
	return nil
}

func path(n Node) string {
	var parts []string
	for cur := n; cur != nil; cur = cur.Parent() {
		parts = append(parts, cur.String())
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// clearSpans drops width classes left by a previous placement.
func clearSpans(view *html.Node) {
	for _, class := range markup.Classes(view) {
		if strings.HasPrefix(class, "span") {
			markup.RemoveClass(view, class)
		}
	}
}

func gridClass(columns int) string {
	return "grid" + strconv.Itoa(columns)
}
