package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"time"

	cmslayout "github.com/goliatone/go-cms-layout"
)

// Global carries state shared by every sub command.
type Global struct {
	Module *cmslayout.Module
	Out    io.Writer
}

// CLI is the root command.
type CLI struct {
	Config  string        `short:"c" help:"Configuration file path" default:"cmslayout.yaml"`
	Verbose bool          `short:"v" help:"Enable console logging"`
	Timeout time.Duration `help:"Maximum time to wait for storage" default:"30s"`

	Types  TypesCmd  `cmd:"" help:"List content types, wrappers and templates"`
	Layout LayoutCmd `cmd:"" help:"Hydrate page markup and print its layout document"`
	Render RenderCmd `cmd:"" help:"Render a stored or supplied layout document to HTML"`
	Seed   SeedCmd   `cmd:"" help:"Import a directory of markdown files as content"`
}

// AfterApply loads the configuration and builds the module once.
func (c *CLI) AfterApply(g *Global) error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Verbose {
		cfg.Features.Logger = true
		cfg.Logging.Level = "debug"
	}
	module, err := cmslayout.New(cfg)
	if err != nil {
		return err
	}
	g.Module = module
	return nil
}

func (c *CLI) context() (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.Timeout)
}

// loadConfig reads path when it exists and falls back to the defaults.
func loadConfig(path string) (cmslayout.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return cmslayout.DefaultConfig(), nil
	}
	return cmslayout.LoadConfig(path)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}
