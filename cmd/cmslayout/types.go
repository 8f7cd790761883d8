package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	cmslayout "github.com/goliatone/go-cms-layout"
)

// TypesCmd prints the registered variants.
type TypesCmd struct {
	JSON bool `help:"Print the catalog as JSON"`
}

func (t *TypesCmd) Run(g *Global) error {
	catalog := g.Module.Catalog()
	if t.JSON {
		enc := json.NewEncoder(g.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(catalog)
	}
	w := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	printChoices(w, "content types", catalog.ContentTypes)
	printChoices(w, "wrappers", catalog.Wrappers)
	printChoices(w, "row templates", catalog.RowTemplates)
	printChoices(w, "block templates", catalog.BlockTemplates)
	return w.Flush()
}

func printChoices(w io.Writer, heading string, choices []cmslayout.Choice) {
	fmt.Fprintf(w, "%s:\n", heading)
	for _, choice := range choices {
		fmt.Fprintf(w, "  %s\t%s\n", choice.Value, choice.Text)
	}
}
