package main

import (
	"fmt"

	layoutcmd "github.com/goliatone/go-cms-layout/internal/commands/layout"
	"github.com/goliatone/go-cms-layout/internal/layoutdoc"
)

// LayoutCmd hydrates page markup and prints the resulting document.
type LayoutCmd struct {
	File  string `arg:"" help:"HTML file holding the page markup, - for stdin"`
	Store bool   `help:"Also store the layout in the configured backend"`
}

func (l *LayoutCmd) Run(g *Global, root *CLI) error {
	in, err := openInput(l.File)
	if err != nil {
		return err
	}
	defer in.Close()

	page, err := g.Module.ParseMarkup(in)
	if err != nil {
		return err
	}
	ctx, cancel := root.context()
	defer cancel()
	if err := g.Module.Wait(ctx); err != nil {
		return err
	}

	raw, err := layoutdoc.Marshal(page.Layout())
	if err != nil {
		return err
	}
	fmt.Fprintln(g.Out, string(raw))

	if !l.Store {
		return nil
	}
	editor := g.Module.Edit(page)
	if err := editor.Dispatch(ctx, layoutcmd.SyncPageCommand{}); err != nil {
		return err
	}
	if err := g.Module.Wait(ctx); err != nil {
		return err
	}
	if notice := page.Notice(); notice.Message != "" {
		fmt.Fprintf(g.Out, "%s: %s\n", notice.Level, notice.Message)
	}
	return nil
}
