package main

import (
	"fmt"
	"io"

	cmslayout "github.com/goliatone/go-cms-layout"
	"github.com/goliatone/go-cms-layout/internal/layoutdoc"
)

// RenderCmd prints the HTML of a page built from a layout document.
type RenderCmd struct {
	Page   string `arg:"" help:"Page name"`
	Layout string `help:"Layout document JSON file; defaults to the stored layout"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := root.context()
	defer cancel()

	var (
		page *cmslayout.Page
		err  error
	)
	if r.Layout == "" {
		page, err = g.Module.LoadPage(ctx, r.Page)
	} else {
		var doc layoutdoc.Document
		doc, err = readDocument(r.Layout)
		if err == nil {
			page, err = g.Module.Hydrate(ctx, r.Page, doc)
		}
	}
	if err != nil {
		return err
	}
	if err := g.Module.Wait(ctx); err != nil {
		return err
	}
	html, err := g.Module.Render(page)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(g.Out, html)
	return err
}

func readDocument(path string) (layoutdoc.Document, error) {
	in, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	return layoutdoc.Unmarshal(data)
}
