// Package cmslayout is the editable page layout engine: pages made of
// grids, rows, columns, blocks and content slots that hydrate from markup or
// a stored layout document, are edited through commands and sync back to a
// backend of record.
package cmslayout

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"slices"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-cms-layout/internal/commands"
	layoutcmd "github.com/goliatone/go-cms-layout/internal/commands/layout"
	"github.com/goliatone/go-cms-layout/internal/di"
	"github.com/goliatone/go-cms-layout/internal/layoutdoc"
	"github.com/goliatone/go-cms-layout/internal/logging"
	"github.com/goliatone/go-cms-layout/internal/markup"
	"github.com/goliatone/go-cms-layout/internal/registry"
	"github.com/goliatone/go-cms-layout/internal/seed"
	"github.com/goliatone/go-cms-layout/internal/storage"
	"github.com/goliatone/go-cms-layout/internal/tree"
	"github.com/goliatone/go-cms-layout/pkg/interfaces"
)

// ErrBackendUnavailable is returned by operations that need the built-in
// storage backend when a custom transport was supplied.
var ErrBackendUnavailable = errors.New("cmslayout: storage backend unavailable")

type (
	Page       = tree.Page
	Document   = layoutdoc.Document
	Editor     = layoutcmd.Editor
	Choice     = registry.Choice
	SeedResult = seed.Result
	Option     = di.Option
)

var (
	WithLoggerProvider  = di.WithLoggerProvider
	WithBunDB           = di.WithBunDB
	WithCache           = di.WithCache
	WithTransport       = di.WithTransport
	WithMetricsRegistry = di.WithMetricsRegistry
)

// Module is the top level layout runtime facade.
type Module struct {
	container *di.Container
	logger    interfaces.Logger
}

// New constructs a module from cfg.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{
		container: container,
		logger:    logging.ModuleLogger(container.LoggerProvider(), "layout"),
	}, nil
}

// Container exposes the underlying container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// NewPage builds an empty rendered page named name.
func (m *Module) NewPage(name string) (*Page, error) {
	page := tree.NewPage(m.container.Environment(), nil)
	page.SetName(name)
	if err := page.Render(); err != nil {
		return nil, err
	}
	return page, nil
}

// ParseMarkup reads an HTML document and materialises the page it contains.
func (m *Module) ParseMarkup(r io.Reader) (*Page, error) {
	root, err := markup.Parse(r)
	if err != nil {
		return nil, err
	}
	page := tree.FromMarkup(m.container.Environment(), root)
	if err := page.Render(); err != nil {
		return nil, err
	}
	return page, nil
}

// LoadPage hydrates the layout stored under name. A page without a stored
// layout comes back empty.
func (m *Module) LoadPage(ctx context.Context, name string) (*Page, error) {
	backend := m.container.Backend()
	if backend == nil {
		return nil, ErrBackendUnavailable
	}
	doc, err := backend.LoadLayout(ctx, name)
	if err != nil && !storage.IsNotFound(err) {
		return nil, err
	}
	return m.Hydrate(ctx, name, doc)
}

// Hydrate builds a page named name from doc. Persistent content appears once
// Wait or Run applies the fetch results.
func (m *Module) Hydrate(ctx context.Context, name string, doc Document) (*Page, error) {
	page, err := m.NewPage(name)
	if err != nil {
		return nil, err
	}
	if err := page.Hydrate(ctx, doc); err != nil {
		return nil, err
	}
	return page, nil
}

// Pages lists the names of stored layouts.
func (m *Module) Pages(ctx context.Context) ([]string, error) {
	backend := m.container.Backend()
	if backend == nil {
		return nil, ErrBackendUnavailable
	}
	return backend.Pages(ctx)
}

// Edit puts page in edit mode and returns a command editor for it.
func (m *Module) Edit(page *Page) *Editor {
	page.EnterEdit()
	return layoutcmd.NewEditor(page,
		layoutcmd.WithLogger(commands.CommandLogger(m.container.LoggerProvider(), page.Name())),
		layoutcmd.WithTimeout(m.container.Config.Sync.Timeout),
	)
}

// Wait blocks until every pending fetch and sync has been applied.
func (m *Module) Wait(ctx context.Context) error {
	return m.container.Loop().Drain(ctx)
}

// Run applies async completions until ctx is done.
func (m *Module) Run(ctx context.Context) error {
	return m.container.Loop().Run(ctx)
}

// Render serialises the current view of page.
func (m *Module) Render(page *Page) (string, error) {
	return markup.Render(page.View())
}

// Import stores the markdown files under dir as persistent content.
func (m *Module) Import(ctx context.Context, filesystem fs.FS, dir string, recursive bool) ([]SeedResult, error) {
	importer := seed.NewImporter(filesystem, m.container.Transport(), seed.Options{
		Recursive: recursive,
		Logger:    logging.StorageLogger(m.container.LoggerProvider()),
	})
	return importer.Import(ctx, dir)
}

// Catalog lists the registered variants and templates.
type Catalog struct {
	ContentTypes   []Choice `json:"content_types"`
	Wrappers       []Choice `json:"wrappers"`
	RowTemplates   []Choice `json:"row_templates"`
	BlockTemplates []Choice `json:"block_templates"`
}

// Catalog returns the sorted registries and the ordered template sets.
func (m *Module) Catalog() Catalog {
	return Catalog{
		ContentTypes:   slices.Collect(m.container.ContentTypes().ListSorted()),
		Wrappers:       slices.Collect(m.container.Wrappers().ListSorted()),
		RowTemplates:   slices.Collect(m.container.RowTemplates().Choices()),
		BlockTemplates: slices.Collect(m.container.BlockTemplates().Choices()),
	}
}

// Metrics exposes the sync metrics registry, nil when metrics are disabled.
func (m *Module) Metrics() prom.Gatherer {
	return m.container.Gatherer()
}

// Close releases resources owned by the module.
func (m *Module) Close() error {
	m.logger.Debug("module.close")
	return m.container.Close()
}
