package di_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-cms-layout/internal/di"
	"github.com/goliatone/go-cms-layout/internal/markup"
	"github.com/goliatone/go-cms-layout/internal/runtimeconfig"
	"github.com/goliatone/go-cms-layout/internal/tree"
	"github.com/goliatone/go-cms-layout/pkg/interfaces"
	"github.com/goliatone/go-cms-layout/pkg/testsupport"
)

func TestContainerDefaultsToMemoryStorage(t *testing.T) {
	c, err := di.NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if c.Backend() == nil || c.Transport() == nil {
		t.Fatal("expected memory backend")
	}
	if c.Gatherer() != nil {
		t.Fatal("metrics should be disabled by default")
	}
	if c.LoggerProvider() != nil {
		t.Fatal("logger feature is off by default")
	}
	env := c.Environment()
	if env.Columns != 24 || len(env.Skins) == 0 || env.Syncer == nil || env.Fetcher == nil {
		t.Fatalf("unexpected environment %#v", env)
	}
	if _, err := env.ContentTypes.Lookup("markdown"); err != nil {
		t.Fatalf("expected default content types: %v", err)
	}
}

func TestContainerExtendsTemplatesFromConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.RowTemplates = []runtimeconfig.TemplateDefinition{{Name: "20-80", Ratios: []float64{0.2, 0.8}}}
	cfg.BlockTemplates = []runtimeconfig.TemplateDefinition{{Name: "5 tabs", Slots: 5, Tabbed: true}}

	c, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if tpl, err := c.RowTemplates().Get("20-80"); err != nil || tpl.SlotCount() != 2 {
		t.Fatalf("expected configured row template, got %v (%v)", tpl, err)
	}
	if tpl, err := c.BlockTemplates().Get("5 tabs"); err != nil || tpl.SlotCount() != 5 {
		t.Fatalf("expected configured block template, got %v (%v)", tpl, err)
	}
}

func TestContainerMarkdownEscapesRawHTMLUnlessConfigured(t *testing.T) {
	render := func(t *testing.T, cfg runtimeconfig.Config) string {
		t.Helper()
		c, err := di.NewContainer(cfg)
		if err != nil {
			t.Fatalf("new container: %v", err)
		}
		t.Cleanup(func() { _ = c.Close() })
		md, err := c.ContentTypes().Lookup("markdown")
		if err != nil {
			t.Fatalf("lookup markdown: %v", err)
		}
		container := markup.Element("div")
		if err := md.New(map[string]any{"raw": "<script>alert(1)</script>"}).Render(container, ""); err != nil {
			t.Fatalf("render: %v", err)
		}
		return markup.InnerHTML(container)
	}

	if out := render(t, runtimeconfig.DefaultConfig()); strings.Contains(out, "<script") {
		t.Fatalf("default config must omit raw html, got %q", out)
	}

	cfg := runtimeconfig.DefaultConfig()
	cfg.Markdown.Unsafe = true
	if out := render(t, cfg); !strings.Contains(out, "<script>") {
		t.Fatalf("unsafe config should keep raw html, got %q", out)
	}
}

func TestContainerSQLiteWithCacheAndMetrics(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)

	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage = runtimeconfig.StorageConfig{Provider: "sqlite", DSN: "unused"}
	cfg.Cache = runtimeconfig.CacheConfig{Enabled: true, TTL: time.Minute}
	cfg.Features.Metrics = true

	c, err := di.NewContainer(cfg, di.WithBunDB(db))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	env := c.Environment()
	page := tree.NewPage(env, nil)
	if err := page.Render(); err != nil {
		t.Fatalf("render: %v", err)
	}
	grid, _ := page.EnsureGrid("main")
	page.EnterEdit()
	row, _ := grid.AddRow("One Column")
	block, _ := row.Columns()[0].AddBlock("1 element")
	slot := block.Contents()[0]
	if err := slot.ChangeContentType("markdown"); err != nil {
		t.Fatalf("change type: %v", err)
	}
	if err := slot.SubmitFields(map[string]any{"title": "Intro", "raw": "# hi"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	drainCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Loop().Drain(drainCtx); err != nil {
		t.Fatalf("drain: %v", err)
	}

	id := slot.Instance().ID()
	if id == "" {
		t.Fatal("expected persistent content to receive an id")
	}
	stored, err := c.Backend().LoadLayout(ctx, page.Name())
	if err != nil {
		t.Fatalf("load layout: %v", err)
	}
	if keys := stored.Keys(); len(keys) != 1 || keys[0] != id {
		t.Fatalf("expected layout to reference %s, got %v", id, keys)
	}

	families, err := c.Gatherer().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected sync metrics to be registered")
	}
}

type nopTransport struct{}

func (nopTransport) Store(context.Context, string, map[string]any) (map[string]any, error) {
	return map[string]any{}, nil
}

func TestContainerTransportOverrideSkipsStorage(t *testing.T) {
	var transport interfaces.Transport = nopTransport{}
	c, err := di.NewContainer(runtimeconfig.DefaultConfig(), di.WithTransport(transport))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if c.Backend() != nil {
		t.Fatal("expected no backend when a transport is supplied")
	}
	if c.Environment().Fetcher != nil {
		t.Fatal("transport without fetch support must leave the fetcher unset")
	}
}

func TestContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Columns = 0
	if _, err := di.NewContainer(cfg); err == nil {
		t.Fatal("expected validation error")
	}
}
