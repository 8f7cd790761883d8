package content

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-cms-layout/internal/markup"
)

// ErrMissingContentURL is reported when site content has no url to load.
var ErrMissingContentURL = errors.New("content: missing underlying page url and html")

const nbsp = "\u00a0"

// Library is one entry rendered by the versions content type.
type Library struct {
	Name    string
	Version string
	URL     string
}

// DefaultOptions feeds the default content types.
type DefaultOptions struct {
	Markdown    *Markdown
	Libraries   []Library
	ContentURLs []string
}

// Defaults returns the built-in content types.
func Defaults(opts DefaultOptions) []*Type {
	md := opts.Markdown
	if md == nil {
		md = NewMarkdown(MarkdownOptions{})
	}
	return []*Type{
		SiteContentType(opts.ContentURLs),
		BlankType(),
		MarkdownType(md),
		VersionsType(opts.Libraries),
		DataTableType(),
	}
}

// RegisterDefaults registers the built-in content types on reg.
func RegisterDefaults(reg *Registry, opts DefaultOptions) error {
	return Register(reg, Defaults(opts)...)
}

// SiteContentType renders the page served by a url, or inline html when the
// url is "this".
func SiteContentType(urls []string) *Type {
	return NewType("contenturl", "Site Content",
		WithFields(FieldDefinition{Name: "content_url", Label: "Choose a content", Type: FieldSelect, Choices: urls}),
		WithRenderer(func(container *html.Node, inst *Instance, _ string) error {
			url := inst.String("content_url")
			switch url {
			case "":
				return ErrMissingContentURL
			case "this":
				return markup.SetInnerHTML(container, inst.String("this"))
			default:
				placeholder := markup.Element("div", "class", "cms-contenturl", "data-content-url", url)
				placeholder.AppendChild(markup.Text(nbsp))
				markup.Append(container, placeholder)
				return nil
			}
		}),
	)
}

// BlankType inserts a non-breaking space.
func BlankType() *Type {
	return NewType("blank", "Blank",
		WithRenderer(func(container *html.Node, _ *Instance, _ string) error {
			markup.SetText(container, nbsp)
			return nil
		}),
	)
}

// MarkdownType renders the raw field through md. The javascript field is
// stored with the content and never executed.
func MarkdownType(md *Markdown) *Type {
	return NewType("markdown", "Text using markdown",
		Persistent(),
		WithFields(
			FieldDefinition{Name: "raw", Type: FieldTextArea, Rows: 10, Placeholder: "Write markdown"},
			FieldDefinition{Name: "javascript", Type: FieldTextArea, Rows: 7, Placeholder: "javascript"},
		),
		WithRenderer(func(container *html.Node, inst *Instance, _ string) error {
			out, err := md.Convert([]byte(inst.String("raw")))
			if err != nil {
				return err
			}
			return markup.SetInnerHTML(container, string(out))
		}),
	)
}

// VersionsType lists libraries and their versions.
func VersionsType(libs []Library) *Type {
	return NewType("versions", "Versions of libraries",
		WithRenderer(func(container *html.Node, _ *Instance, _ string) error {
			ul := markup.Append(container, markup.Element("ul"))
			for _, lib := range libs {
				li := markup.Append(ul, markup.Element("li"))
				a := markup.Append(li, markup.Element("a", "href", lib.URL))
				a.AppendChild(markup.Text(lib.Name))
				li.AppendChild(markup.Text(" " + lib.Version))
			}
			return nil
		}),
	)
}

// DataTableType renders a placeholder for the external data grid widget,
// carrying its options as data attributes.
func DataTableType() *Type {
	return NewType("datatable", "Data Grid",
		Persistent(),
		WithFields(
			FieldDefinition{Name: "url", Label: "Data url", Type: FieldURL, Required: true},
			FieldDefinition{Name: "fields", Label: "Fields", Type: FieldList},
			FieldDefinition{Name: "row_actions", Label: "Row actions", Type: FieldList},
			FieldDefinition{Name: "style", Type: FieldSelect, Choices: []string{"table", "table-striped", "table-bordered", "table-condensed"}},
			FieldDefinition{Name: "sortable", Type: FieldCheckbox},
			FieldDefinition{Name: "editable", Type: FieldCheckbox},
			FieldDefinition{Name: "collapsable", Type: FieldCheckbox},
			FieldDefinition{Name: "fullscreen", Type: FieldCheckbox},
			FieldDefinition{Name: "footer", Type: FieldCheckbox},
		),
		WithRenderer(func(container *html.Node, inst *Instance, skin string) error {
			grid := markup.Element("div", "class", "datagrid")
			if skin != "" {
				markup.AddClass(grid, skin)
			}
			markup.SetAttr(grid, "data-url", inst.String("url"))
			if style := inst.String("style"); style != "" {
				markup.SetAttr(grid, "data-style", style)
			}
			for _, name := range []string{"fields", "row_actions"} {
				if values := stringList(inst.Get(name)); len(values) > 0 {
					markup.SetAttr(grid, "data-"+name, strings.Join(values, ","))
				}
			}
			for _, flag := range []string{"sortable", "editable", "collapsable", "fullscreen", "footer"} {
				if truthy(inst.Get(flag)) {
					markup.SetAttr(grid, "data-"+flag, "true")
				}
			}
			markup.Append(container, grid)
			return nil
		}),
	)
}

func stringList(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	default:
		return nil
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		if v == "on" {
			return true
		}
		b, err := strconv.ParseBool(v)
		return err == nil && b
	default:
		return false
	}
}
