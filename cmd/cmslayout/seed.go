package main

import (
	"fmt"
	"os"
)

// SeedCmd imports markdown files as persistent content.
type SeedCmd struct {
	Dir       string `arg:"" help:"Directory holding markdown files" type:"existingdir"`
	Recursive bool   `short:"r" help:"Walk sub-directories"`
}

func (s *SeedCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := root.context()
	defer cancel()

	results, err := g.Module.Import(ctx, os.DirFS(s.Dir), ".", s.Recursive)
	if err != nil {
		return err
	}
	for _, result := range results {
		fmt.Fprintf(g.Out, "%s\t%s\t%s\n", result.ID, result.Path, result.Title)
	}
	fmt.Fprintf(g.Out, "imported %d documents\n", len(results))
	return nil
}
