package cmslayout_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	cmslayout "github.com/goliatone/go-cms-layout"
	layoutcmd "github.com/goliatone/go-cms-layout/internal/commands/layout"
	"github.com/goliatone/go-cms-layout/internal/layoutdoc"
	"github.com/goliatone/go-cms-layout/pkg/testsupport"
)

func newModule(t *testing.T) *cmslayout.Module {
	t.Helper()
	module, err := cmslayout.New(cmslayout.DefaultConfig())
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })
	return module
}

func wait(t *testing.T, module *cmslayout.Module) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := module.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
}

func TestMarkupRoundTripsThroughStorage(t *testing.T) {
	ctx := context.Background()
	module := newModule(t)

	source, err := testsupport.LoadFixture("testdata/home.html")
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	var want layoutdoc.Document
	if err := testsupport.LoadGolden("testdata/home_layout.json", &want); err != nil {
		t.Fatalf("golden: %v", err)
	}

	page, err := module.ParseMarkup(bytes.NewReader(source))
	if err != nil {
		t.Fatalf("parse markup: %v", err)
	}
	if page.Name() != "home" {
		t.Fatalf("expected page name from markup, got %q", page.Name())
	}
	if got := page.Layout(); !layoutdoc.Equal(got, want) {
		raw, _ := layoutdoc.Marshal(got)
		t.Fatalf("unexpected layout from markup: %s", raw)
	}

	editor := module.Edit(page)
	if err := editor.Dispatch(ctx, layoutcmd.SyncPageCommand{}); err != nil {
		t.Fatalf("sync: %v", err)
	}
	wait(t, module)

	names, err := module.Pages(ctx)
	if err != nil || len(names) != 1 || names[0] != "home" {
		t.Fatalf("expected stored home page, got %v (%v)", names, err)
	}

	loaded, err := module.LoadPage(ctx, "home")
	if err != nil {
		t.Fatalf("load page: %v", err)
	}
	if got := loaded.Layout(); !layoutdoc.Equal(got, want) {
		raw, _ := layoutdoc.Marshal(got)
		t.Fatalf("unexpected layout after reload: %s", raw)
	}
	html, err := module.Render(loaded)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, `data-page="home"`) || !strings.Contains(html, "cms-row") {
		t.Fatalf("unexpected render output: %s", html)
	}
}

func TestLoadPageFetchesSeededContent(t *testing.T) {
	ctx := context.Background()
	module := newModule(t)

	results, err := module.Import(ctx, fstest.MapFS{
		"pages/intro.md": {Data: []byte("---\ntitle: Intro\n---\n# Welcome\n")},
	}, "pages", false)
	if err != nil || len(results) != 1 {
		t.Fatalf("import: %v (%v)", results, err)
	}

	page, err := module.NewPage("landing")
	if err != nil {
		t.Fatalf("new page: %v", err)
	}
	if _, err := page.EnsureGrid("main"); err != nil {
		t.Fatalf("ensure grid: %v", err)
	}
	editor := module.Edit(page)
	msgs := []interface{ Type() string }{
		layoutcmd.AddRowCommand{Grid: "main", Template: "One Column"},
		layoutcmd.AddBlockCommand{Template: "1 element"},
		layoutcmd.ChangeContentTypeCommand{
			Target:      layoutcmd.ContentRef{Block: layoutcmd.BlockRef{Column: layoutcmd.ColumnRef{Grid: "main"}}},
			ContentType: "markdown",
		},
	}
	for _, msg := range msgs {
		if err := editor.Dispatch(ctx, msg); err != nil {
			t.Fatalf("%s: %v", msg.Type(), err)
		}
	}
	slot := page.Contents()[0]
	slot.Instance().SetID(results[0].ID)
	page.Sync()
	wait(t, module)

	loaded, err := module.LoadPage(ctx, "landing")
	if err != nil {
		t.Fatalf("load page: %v", err)
	}
	wait(t, module)

	contents := loaded.Contents()
	if len(contents) != 1 || contents[0].Instance() == nil {
		t.Fatalf("expected fetched content, got %d nodes", len(contents))
	}
	if contents[0].Instance().Title() != "Intro" {
		t.Fatalf("expected seeded title, got %q", contents[0].Instance().Title())
	}
	html, _ := module.Render(loaded)
	if !strings.Contains(html, `<h1 id="welcome">Welcome</h1>`) {
		t.Fatalf("expected rendered markdown, got %s", html)
	}
}

func TestCatalogListsVariants(t *testing.T) {
	module := newModule(t)
	catalog := module.Catalog()

	if len(catalog.ContentTypes) != 5 {
		t.Fatalf("expected five content types, got %v", catalog.ContentTypes)
	}
	for i := 1; i < len(catalog.ContentTypes); i++ {
		if catalog.ContentTypes[i-1].Text > catalog.ContentTypes[i].Text {
			t.Fatalf("content types are not sorted: %v", catalog.ContentTypes)
		}
	}
	if catalog.RowTemplates[0].Value != "One Column" {
		t.Fatalf("expected row templates in definition order, got %v", catalog.RowTemplates)
	}
	if len(catalog.BlockTemplates) != 6 || len(catalog.Wrappers) != 7 {
		t.Fatalf("unexpected template/wrapper counts: %d/%d", len(catalog.BlockTemplates), len(catalog.Wrappers))
	}
	if module.Metrics() != nil {
		t.Fatal("metrics should be disabled by default")
	}
}

func TestLoadPageWithoutStoredLayoutIsEmpty(t *testing.T) {
	module := newModule(t)
	page, err := module.LoadPage(context.Background(), "missing")
	if err != nil {
		t.Fatalf("load page: %v", err)
	}
	if len(page.Layout()) != 0 {
		t.Fatalf("expected empty layout, got %v", page.Layout())
	}
}
