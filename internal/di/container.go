package di

import (
	"context"
	"fmt"
	"strings"

	repocache "github.com/goliatone/go-repository-cache/cache"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-cms-layout/internal/content"
	"github.com/goliatone/go-cms-layout/internal/eventloop"
	"github.com/goliatone/go-cms-layout/internal/logging"
	"github.com/goliatone/go-cms-layout/internal/logging/console"
	"github.com/goliatone/go-cms-layout/internal/logging/gologger"
	"github.com/goliatone/go-cms-layout/internal/metrics"
	"github.com/goliatone/go-cms-layout/internal/runtimeconfig"
	"github.com/goliatone/go-cms-layout/internal/storage"
	"github.com/goliatone/go-cms-layout/internal/syncer"
	"github.com/goliatone/go-cms-layout/internal/templates"
	"github.com/goliatone/go-cms-layout/internal/tree"
	"github.com/goliatone/go-cms-layout/internal/validation"
	"github.com/goliatone/go-cms-layout/internal/wrappers"
	"github.com/goliatone/go-cms-layout/pkg/interfaces"
)

// Container wires the layout engine collaborators from configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	registerer prom.Registerer
	gatherer   prom.Gatherer
	recorder   metrics.Recorder

	contentTypes   *content.Registry
	wrappers       *wrappers.Registry
	rowTemplates   *templates.Set
	blockTemplates *templates.Set
	validator      *validation.Validator

	backend     *storage.Backend
	transport   interfaces.Transport
	fetcher     interfaces.ContentFetcher
	loop        *eventloop.Loop
	coordinator *syncer.Coordinator
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB supplies the database used by sql storage providers.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the cache service placed in front of content reads.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithTransport replaces the storage backend used for syncing and fetching.
// When transport also implements ContentFetcher it is used for fetches.
func WithTransport(transport interfaces.Transport) Option {
	return func(c *Container) {
		c.transport = transport
		if fetcher, ok := transport.(interfaces.ContentFetcher); ok {
			c.fetcher = fetcher
		}
	}
}

// WithMetricsRegistry registers sync metrics on reg instead of a private
// registry.
func WithMetricsRegistry(reg *prom.Registry) Option {
	return func(c *Container) {
		if reg != nil {
			c.registerer = reg
			c.gatherer = reg
		}
	}
}

// WithContentTypes replaces the content type registry.
func WithContentTypes(reg *content.Registry) Option {
	return func(c *Container) {
		c.contentTypes = reg
	}
}

// WithLoop supplies the event loop shared by the pages and the coordinator.
func WithLoop(loop *eventloop.Loop) Option {
	return func(c *Container) {
		c.loop = loop
	}
}

// NewContainer validates cfg and builds every collaborator.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	steps := []func() error{
		c.configureLogging,
		c.configureRegistries,
		c.configureTemplates,
		c.configureStorage,
		c.configureMetrics,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			_ = c.Close()
			return nil, err
		}
	}
	if c.loop == nil {
		c.loop = eventloop.New()
	}
	c.validator = validation.NewValidator()
	c.coordinator = syncer.New(syncer.Options{
		Transport: c.transport,
		Loop:      c.loop,
		Timeout:   cfg.Sync.Timeout,
		Metrics:   c.recorder,
		Logger:    logging.SyncLogger(c.loggerProvider),
	})
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: console.ParseLevel(logCfg.Level)})
	}
	return nil
}

func (c *Container) configureRegistries() error {
	logger := logging.RegistryLogger(c.loggerProvider)
	if c.contentTypes == nil {
		c.contentTypes = content.NewRegistry()
		libraries := make([]content.Library, 0, len(c.Config.Libraries))
		for _, lib := range c.Config.Libraries {
			libraries = append(libraries, content.Library{Name: lib.Name, Version: lib.Version, URL: lib.URL})
		}
		if err := content.RegisterDefaults(c.contentTypes, content.DefaultOptions{
			Libraries: libraries,
			Markdown: content.NewMarkdown(content.MarkdownOptions{
				HardWraps: c.Config.Markdown.HardWraps,
				Unsafe:    c.Config.Markdown.Unsafe,
			}),
		}); err != nil {
			return err
		}
	}
	c.wrappers = wrappers.NewRegistry()
	if err := wrappers.RegisterDefaults(c.wrappers); err != nil {
		return err
	}
	logger.Debug("registries.ready", "content_types", c.contentTypes.Len(), "wrappers", c.wrappers.Len())
	return nil
}

func (c *Container) configureTemplates() error {
	c.rowTemplates = templates.DefaultRowTemplates()
	if err := templates.Extend(c.rowTemplates, definitions(c.Config.RowTemplates)...); err != nil {
		return fmt.Errorf("row templates: %w", err)
	}
	c.blockTemplates = templates.DefaultBlockTemplates()
	if err := templates.Extend(c.blockTemplates, definitions(c.Config.BlockTemplates)...); err != nil {
		return fmt.Errorf("block templates: %w", err)
	}
	return nil
}

func definitions(defs []runtimeconfig.TemplateDefinition) []templates.Definition {
	out := make([]templates.Definition, 0, len(defs))
	for _, def := range defs {
		out = append(out, templates.Definition{Name: def.Name, Ratios: def.Ratios, Slots: def.Slots, Tabbed: def.Tabbed})
	}
	return out
}

func (c *Container) configureStorage() error {
	if c.transport != nil {
		return nil
	}
	logger := logging.StorageLogger(c.loggerProvider)
	provider := strings.ToLower(strings.TrimSpace(c.Config.Storage.Provider))
	if provider == "" || provider == storage.ProviderMemory {
		c.backend = storage.NewMemoryBackend(storage.WithLogger(logger))
		c.transport, c.fetcher = c.backend, c.backend
		return nil
	}

	if c.bunDB == nil {
		db, err := storage.OpenDB(provider, c.Config.Storage.DSN)
		if err != nil {
			return err
		}
		c.bunDB, c.ownsDB = db, true
	}
	if err := storage.Migrate(context.Background(), c.bunDB); err != nil {
		return err
	}

	if c.Config.Cache.Enabled && c.cacheService == nil {
		cacheCfg := repocache.DefaultConfig()
		if c.Config.Cache.TTL > 0 {
			cacheCfg.TTL = c.Config.Cache.TTL
		}
		service, err := repocache.NewCacheService(cacheCfg)
		if err != nil {
			return fmt.Errorf("cache service: %w", err)
		}
		c.cacheService = service
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}

	var contents storage.ContentRepository
	if c.cacheService != nil && c.keySerializer != nil {
		contents = storage.NewBunContentRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	} else {
		contents = storage.NewBunContentRepository(c.bunDB)
	}
	c.backend = storage.NewBackend(contents, storage.NewBunPageRepository(c.bunDB), storage.WithLogger(logger))
	c.transport, c.fetcher = c.backend, c.backend
	logger.Info("storage.ready", "provider", provider, "cache", c.cacheService != nil)
	return nil
}

func (c *Container) configureMetrics() error {
	if !c.Config.Features.Metrics {
		c.recorder = metrics.NoopRecorder{}
		return nil
	}
	if c.registerer == nil {
		reg := prom.NewRegistry()
		c.registerer, c.gatherer = reg, reg
	}
	c.recorder = metrics.NewPrometheusRecorder(c.registerer)
	return nil
}

// LoggerProvider returns the configured provider, nil when logging is off.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// ContentTypes returns the content type registry.
func (c *Container) ContentTypes() *content.Registry { return c.contentTypes }

// Wrappers returns the wrapper registry.
func (c *Container) Wrappers() *wrappers.Registry { return c.wrappers }

// RowTemplates returns the row template set.
func (c *Container) RowTemplates() *templates.Set { return c.rowTemplates }

// BlockTemplates returns the block template set.
func (c *Container) BlockTemplates() *templates.Set { return c.blockTemplates }

// Backend returns the storage backend, nil when a custom transport is used.
func (c *Container) Backend() *storage.Backend { return c.backend }

// Transport returns the transport used for syncing.
func (c *Container) Transport() interfaces.Transport { return c.transport }

// Loop returns the event loop shared by every page.
func (c *Container) Loop() *eventloop.Loop { return c.loop }

// Coordinator returns the sync coordinator.
func (c *Container) Coordinator() *syncer.Coordinator { return c.coordinator }

// Gatherer exposes the metrics registry, nil when metrics are disabled.
func (c *Container) Gatherer() prom.Gatherer { return c.gatherer }

// Environment builds the node environment for a new page.
func (c *Container) Environment() *tree.Environment {
	return &tree.Environment{
		ContentTypes:   c.contentTypes,
		Wrappers:       c.wrappers,
		RowTemplates:   c.rowTemplates,
		BlockTemplates: c.blockTemplates,
		Columns:        c.Config.Columns,
		Skins:          append([]string(nil), c.Config.Skins...),
		Loop:           c.loop,
		Syncer:         c.coordinator,
		Fetcher:        c.fetcher,
		Validator:      c.validator,
		Logger:         logging.TreeLogger(c.loggerProvider),
	}
}

// Close releases the database opened by the container.
func (c *Container) Close() error {
	if c.ownsDB && c.bunDB != nil {
		err := c.bunDB.Close()
		c.bunDB = nil
		return err
	}
	return nil
}
