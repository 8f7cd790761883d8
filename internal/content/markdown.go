package content

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Markdown converts the raw field of markdown content to HTML. A single
// engine is shared; goldmark engines are safe for concurrent use.
type Markdown struct {
	engine goldmark.Markdown
}

// MarkdownOptions mirrors the goldmark knobs exposed to configuration.
type MarkdownOptions struct {
	HardWraps bool
	// Unsafe lets raw HTML in the source reach the output. Off by default so
	// stored markup and scripts are escaped.
	Unsafe bool
}

// NewMarkdown builds a GFM engine with automatic heading ids.
func NewMarkdown(opts MarkdownOptions) *Markdown {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.Unsafe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}
	engine := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOptions...),
	)
	return &Markdown{engine: engine}
}

// Convert renders markdown source to HTML.
func (m *Markdown) Convert(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := m.engine.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("markdown parse: %w", err)
	}
	return buf.Bytes(), nil
}
