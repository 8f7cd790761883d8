package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

func main() {
	var cli CLI
	global := &Global{Out: os.Stdout}
	ctx := kong.Parse(&cli,
		kong.Name("cmslayout"),
		kong.Description("Inspect, render and seed editable page layouts."),
		kong.UsageOnError(),
		kong.Bind(global),
	)
	err := ctx.Run(&cli)
	if global.Module != nil {
		_ = global.Module.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
