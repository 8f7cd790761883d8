package tree_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-layout/internal/content"
	"github.com/goliatone/go-cms-layout/internal/layoutdoc"
	"github.com/goliatone/go-cms-layout/internal/markup"
	"github.com/goliatone/go-cms-layout/internal/tree"
)

type stubFetcher struct {
	mu      sync.Mutex
	records map[string]map[string]any
	calls   []string
}

func (f *stubFetcher) Fetch(_ context.Context, _ string, key string) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, key)
	record, ok := f.records[key]
	if !ok {
		return nil, errors.New("missing record")
	}
	out := map[string]any{}
	for k, v := range record {
		out[k] = v
	}
	return out, nil
}

type recordingSyncer struct {
	pages    int
	contents []*tree.Content
}

func (s *recordingSyncer) SyncPage(*tree.Page)           { s.pages++ }
func (s *recordingSyncer) SyncContent(c *tree.Content) { s.contents = append(s.contents, c) }

type rejectingValidator struct {
	types []string
}

func (v *rejectingValidator) Validate(t *content.Type, _ map[string]any) error {
	v.types = append(v.types, t.Name())
	return errors.New("rejected")
}

func editingPage(t *testing.T, env *tree.Environment) *tree.Page {
	t.Helper()
	page := tree.NewPage(env, nil)
	if err := page.Render(); err != nil {
		t.Fatalf("render: %v", err)
	}
	page.EnterEdit()
	return page
}

func drain(t *testing.T, page *tree.Page) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := page.Environment().Loop.Drain(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}
}

func mustDocument(t *testing.T, raw string) layoutdoc.Document {
	t.Helper()
	doc, err := layoutdoc.Unmarshal([]byte(raw))
	if err != nil {
		t.Fatalf("unmarshal document: %v", err)
	}
	return doc
}

func TestPageLayoutExampleScenario(t *testing.T) {
	page := editingPage(t, nil)
	grid, err := page.EnsureGrid("main")
	if err != nil {
		t.Fatalf("ensure grid: %v", err)
	}
	row, err := grid.AddRow("33-66")
	if err != nil {
		t.Fatalf("add row: %v", err)
	}
	columns := row.Columns()
	if len(columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(columns))
	}
	block, err := columns[0].AddBlock("1 element")
	if err != nil {
		t.Fatalf("add block: %v", err)
	}
	if err := block.Contents()[0].ChangeContentType("blank"); err != nil {
		t.Fatalf("change type: %v", err)
	}

	want := mustDocument(t, `{"main":[{"template":"33-66","children":[[{"template":"1 element","children":[{"content":{"content_type":"blank"}}]}],null]}]}`)
	if got := page.Layout(); !layoutdoc.Equal(got, want) {
		raw, _ := layoutdoc.Marshal(got)
		t.Fatalf("unexpected layout: %s", raw)
	}
	if !page.Dirty() {
		t.Fatalf("expected page to be dirty after edits")
	}
}

func TestEmptyScaffoldingIsOmitted(t *testing.T) {
	page := editingPage(t, nil)
	grid, _ := page.EnsureGrid("main")
	row, _ := grid.AddRow("Half-Half")
	if _, err := row.Columns()[1].AddBlock("2 elements"); err != nil {
		t.Fatalf("add block: %v", err)
	}

	if _, ok := row.Layout(); ok {
		t.Fatalf("row without content should serialise as absent")
	}
	if fragment := row.LayoutFragment(); fragment != nil {
		t.Fatalf("expected nil fragment, got %#v", fragment)
	}
	if doc := page.Layout(); len(doc) != 0 {
		t.Fatalf("expected empty document, got %v", doc)
	}
}

func TestRowAndBlockArityFromMarkup(t *testing.T) {
	cases := []struct {
		name    string
		columns int
	}{
		{name: "none", columns: 0},
		{name: "fewer", columns: 1},
		{name: "exact", columns: 2},
		{name: "more", columns: 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var b strings.Builder
			b.WriteString(`<div class="cms-page"><div class="cms-grid" data-context="main"><div class="cms-row" data-template="Half-Half">`)
			for i := 0; i < tc.columns; i++ {
				b.WriteString(`<div class="cms-column"><div class="cms-block" data-template="2 tabs"><div class="cms-content"></div><div class="cms-content"></div><div class="cms-content"></div></div></div>`)
			}
			b.WriteString(`</div></div></div>`)
			root, err := markup.ParseFragment(b.String())
			if err != nil {
				t.Fatalf("parse: %v", err)
			}

			page := tree.FromMarkup(nil, root)
			if err := page.Render(); err != nil {
				t.Fatalf("render: %v", err)
			}
			grid, ok := page.Grid("main")
			if !ok || len(grid.Rows()) != 1 {
				t.Fatalf("expected one row in grid main")
			}
			row := grid.Rows()[0]
			if got := len(row.Columns()); got != 2 {
				t.Fatalf("expected 2 columns, got %d", got)
			}
			elements := 0
			for range markup.ElementChildren(row.View()) {
				elements++
			}
			if elements != 2 {
				t.Fatalf("expected excess markup to be detached, found %d children", elements)
			}
			for _, column := range row.Columns() {
				for _, block := range column.Blocks() {
					if got := len(block.Contents()); got != 2 {
						t.Fatalf("expected 2 content slots, got %d", got)
					}
				}
			}
			if tc.columns > 2 && page.Notice().Level != tree.NoticeWarning {
				t.Fatalf("expected a warning notice for truncated markup, got %+v", page.Notice())
			}
		})
	}
}

func TestTemplateFallbackUsesFirstTemplate(t *testing.T) {
	page := editingPage(t, nil)
	grid, _ := page.EnsureGrid("main")
	row, err := grid.AddRow("does-not-exist")
	if err != nil {
		t.Fatalf("add row: %v", err)
	}
	if row.TemplateName() != "One Column" {
		t.Fatalf("expected fallback to first row template, got %q", row.TemplateName())
	}
	if len(row.Columns()) != 1 {
		t.Fatalf("expected one column")
	}
}

func TestHydrateRoundTripIsIdempotent(t *testing.T) {
	doc := mustDocument(t, `{
		"main": [
			{"template": "33-66", "children": [
				[{"template": "2 elements", "children": [
					{"content": {"content_type": "contenturl", "content_url": "about"}, "wrapper": "well"},
					null
				]}],
				[{"template": "1 element", "children": [null]}]
			]},
			{"template": "One Column", "children": [null]}
		],
		"sidebar": [
			{"template": "One Column", "children": [[{"template": "2 tabs", "children": [
				{"content": {"content_type": "blank"}, "skin": "info"},
				{"content": {"content_type": "versions"}}
			]}]]}
		]
	}`)

	first := tree.NewPage(nil, nil)
	if err := first.Hydrate(context.Background(), doc); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	normalized := first.Layout()
	if len(normalized["main"]) != 1 {
		t.Fatalf("expected empty row to be dropped, got %d rows", len(normalized["main"]))
	}

	second := tree.NewPage(nil, nil)
	if err := second.Hydrate(context.Background(), normalized); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if got := second.Layout(); !layoutdoc.Equal(got, normalized) {
		a, _ := layoutdoc.Marshal(normalized)
		b, _ := layoutdoc.Marshal(got)
		t.Fatalf("round trip mismatch:\n%s\n%s", a, b)
	}
}

func TestContentHistoryRestoresEditedFields(t *testing.T) {
	page := editingPage(t, nil)
	grid, _ := page.EnsureGrid("main")
	row, _ := grid.AddRow("One Column")
	block, _ := row.Columns()[0].AddBlock("1 element")
	node := block.Contents()[0]

	if err := node.ChangeContentType("contenturl"); err != nil {
		t.Fatalf("change type: %v", err)
	}
	if err := node.SubmitFields(map[string]any{"content_url": "about"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := node.ChangeContentType("blank"); err != nil {
		t.Fatalf("change type: %v", err)
	}
	if node.Instance().TypeName() != "blank" {
		t.Fatalf("expected blank instance")
	}
	if err := node.ChangeContentType("CONTENTURL"); err != nil {
		t.Fatalf("change type: %v", err)
	}
	if got := node.Instance().String("content_url"); got != "about" {
		t.Fatalf("expected restored field, got %q", got)
	}
}

func TestMutationsRequireEditing(t *testing.T) {
	page := tree.NewPage(nil, nil)
	grid, _ := page.EnsureGrid("main")
	if _, err := grid.AddRow("One Column"); !errors.Is(err, tree.ErrNotEditing) {
		t.Fatalf("expected ErrNotEditing, got %v", err)
	}
	if _, err := page.AddBlock("1 element"); !errors.Is(err, tree.ErrNotEditing) {
		t.Fatalf("expected ErrNotEditing, got %v", err)
	}

	page.EnterEdit()
	page.EnterEdit()
	if !grid.Editing() {
		t.Fatalf("expected grid armed by page edit")
	}
	if _, err := page.AddBlock("1 element"); !errors.Is(err, tree.ErrNoColumn) {
		t.Fatalf("expected ErrNoColumn, got %v", err)
	}
	row, err := grid.AddRow("One Column")
	if err != nil {
		t.Fatalf("add row: %v", err)
	}
	if !row.Columns()[0].Editing() {
		t.Fatalf("expected new row to be armed")
	}
	if _, err := page.AddBlock("1 element"); err != nil {
		t.Fatalf("add block to fallback column: %v", err)
	}
}

func TestFixedArityAndLeafChildren(t *testing.T) {
	page := editingPage(t, nil)
	grid, _ := page.EnsureGrid("main")
	row, _ := grid.AddRow("Half-Half")
	if _, err := row.CreateChild(nil, tree.Seed{}); !errors.Is(err, tree.ErrFixedArity) {
		t.Fatalf("expected ErrFixedArity, got %v", err)
	}
	block, _ := row.Columns()[0].AddBlock("1 element")
	leaf := block.Contents()[0]

	_, err := leaf.CreateChild(nil, tree.Seed{})
	var unsupported *tree.UnsupportedChildError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedChildError, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryInternal) {
		t.Fatalf("expected internal category, got %v", err)
	}
	if got := tree.Ancestor(leaf, tree.KindRow); got != row {
		t.Fatalf("expected row ancestor, got %v", got)
	}
}

func TestRemoveRowAndMoveBlock(t *testing.T) {
	page := editingPage(t, nil)
	grid, _ := page.EnsureGrid("main")
	first, _ := grid.AddRow("Half-Half")
	second, _ := grid.AddRow("One Column")

	left, right := first.Columns()[0], first.Columns()[1]
	a, _ := left.AddBlock("1 element")
	b, _ := left.AddBlock("1 element")
	_ = a.Contents()[0].ChangeContentType("blank")
	_ = b.Contents()[0].ChangeContentType("versions")

	if err := page.MoveBlock(b, right, 0); err != nil {
		t.Fatalf("move: %v", err)
	}
	if len(left.Blocks()) != 1 || len(right.Blocks()) != 1 || right.Blocks()[0] != b {
		t.Fatalf("unexpected blocks after move")
	}
	if b.Parent() != right || b.View().Parent != right.View() {
		t.Fatalf("expected view and parent to follow the move")
	}

	if err := right.Select(); err != nil {
		t.Fatalf("select: %v", err)
	}
	if page.CurrentColumn() != right {
		t.Fatalf("expected selected column")
	}
	if err := grid.RemoveRow(first); err != nil {
		t.Fatalf("remove row: %v", err)
	}
	if b.Live() {
		t.Fatalf("expected removed subtree to be detached")
	}
	if page.CurrentColumn() != second.Columns()[0] {
		t.Fatalf("expected current column to fall back after removal")
	}
	if err := grid.RemoveRow(first); !errors.Is(err, tree.ErrNotChild) {
		t.Fatalf("expected ErrNotChild, got %v", err)
	}
	if doc := page.Layout(); len(doc) != 0 {
		t.Fatalf("expected empty layout, got %v", doc)
	}
}

func TestPersistentContentIsFetchedAsynchronously(t *testing.T) {
	fetcher := &stubFetcher{records: map[string]map[string]any{
		"k1": {"content_type": "markdown", "title": "Intro", "raw": "# Hello"},
	}}
	env := &tree.Environment{Fetcher: fetcher}
	page := tree.NewPage(env, nil)
	doc := mustDocument(t, `{"main":[{"template":"One Column","children":[[{"template":"1 element","children":[{"content":"k1","wrapper":"panel"}]}]]}]}`)
	if err := page.Hydrate(context.Background(), doc); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	node := page.Contents()[0]
	if node.Instance() != nil {
		t.Fatalf("content must stay absent until the fetch is applied")
	}
	drain(t, page)
	if node.Instance() == nil || node.Instance().ID() != "k1" {
		t.Fatalf("expected fetched instance with key k1")
	}
	if !layoutdoc.Equal(page.Layout(), doc) {
		raw, _ := layoutdoc.Marshal(page.Layout())
		t.Fatalf("unexpected layout after fetch: %s", raw)
	}
	if !strings.Contains(markup.TextContent(node.View()), "Hello") {
		t.Fatalf("expected rendered markdown in view")
	}

	if n := page.ApplyContentUpdate("k1", map[string]any{"raw": "# Updated"}); n != 1 {
		t.Fatalf("expected one node updated, got %d", n)
	}
	if !strings.Contains(markup.TextContent(node.View()), "Updated") {
		t.Fatalf("expected refreshed view")
	}
}

func TestFetchCompletionAfterDiscardIsIgnored(t *testing.T) {
	fetcher := &stubFetcher{records: map[string]map[string]any{
		"k1": {"content_type": "markdown", "title": "Intro"},
	}}
	page := tree.NewPage(&tree.Environment{Fetcher: fetcher}, nil)
	doc := mustDocument(t, `{"main":[{"template":"One Column","children":[[{"template":"1 element","children":[{"content":"k1"}]}]]}]}`)
	if err := page.Hydrate(context.Background(), doc); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	node := page.Contents()[0]
	page.Discard()
	drain(t, page)
	if node.Instance() != nil {
		t.Fatalf("expected completion to no-op on a discarded page")
	}
}

func TestMarkupHydrationReadsAnnotations(t *testing.T) {
	root, err := markup.ParseFragment(`<div class="cms-grid" data-context="main">
		<div class="cms-row" data-template="One Column"><div class="cms-column">
			<div class="cms-block" data-template="1 element">
				<div class="cms-content" data-content_type="contenturl" data-wrapper="well" data-skin="info">
					<span data-field="content_url" data-value="about"></span>
				</div>
			</div>
		</div></div>
	</div>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	page := tree.FromMarkup(nil, root)
	if err := page.Render(); err != nil {
		t.Fatalf("render: %v", err)
	}
	contents := page.Contents()
	if len(contents) != 1 {
		t.Fatalf("expected one content node, got %d", len(contents))
	}
	node := contents[0]
	if node.Wrapper() != "well" || node.Skin() != "info" {
		t.Fatalf("unexpected wrapper/skin %q/%q", node.Wrapper(), node.Skin())
	}
	if node.Instance() == nil || node.Instance().String("content_url") != "about" {
		t.Fatalf("expected content_url field from markup")
	}
	if !markup.HasClass(node.View().FirstChild, "well") {
		t.Fatalf("expected content rendered through the well wrapper")
	}
	want := mustDocument(t, `{"main":[{"template":"One Column","children":[[{"template":"1 element","children":[{"content":{"content_type":"contenturl","content_url":"about"},"skin":"info","wrapper":"well"}]}]]}]}`)
	if !layoutdoc.Equal(page.Layout(), want) {
		raw, _ := layoutdoc.Marshal(page.Layout())
		t.Fatalf("unexpected layout: %s", raw)
	}
}

func TestSubmitFieldsSyncsContent(t *testing.T) {
	syncer := &recordingSyncer{}
	page := editingPage(t, &tree.Environment{Syncer: syncer, Skins: []string{"info", "danger"}})
	grid, _ := page.EnsureGrid("main")
	row, _ := grid.AddRow("One Column")
	block, _ := row.Columns()[0].AddBlock("1 element")
	node := block.Contents()[0]

	if err := node.SubmitFields(map[string]any{"raw": "x"}); !errors.Is(err, tree.ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
	err := node.SubmitFields(map[string]any{"content_type": "markdown", "title": "Intro", "raw": "text", "wrapper": "panel"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(syncer.contents) != 1 || syncer.contents[0] != node {
		t.Fatalf("expected one content sync, got %d", len(syncer.contents))
	}
	if node.Wrapper() != "panel" {
		t.Fatalf("expected wrapper to be applied")
	}
	if node.Layout() != nil {
		t.Fatalf("persistent content without key must serialise as absent")
	}

	page.Sync()
	if syncer.pages != 1 {
		t.Fatalf("expected one page sync, got %d", syncer.pages)
	}
	if err := node.SetSkin("unknown"); err == nil {
		t.Fatalf("expected unknown skin to be rejected")
	}
}

func TestRejectedSubmitLeavesNodeUntouched(t *testing.T) {
	syncer := &recordingSyncer{}
	validator := &rejectingValidator{}
	page := editingPage(t, &tree.Environment{Syncer: syncer, Validator: validator})
	grid, _ := page.EnsureGrid("main")
	row, _ := grid.AddRow("One Column")
	block, _ := row.Columns()[0].AddBlock("1 element")
	node := block.Contents()[0]
	if err := node.ChangeContentType("blank"); err != nil {
		t.Fatalf("change type: %v", err)
	}
	page.MarkClean()
	before := page.Layout()

	err := node.SubmitFields(map[string]any{"content_type": "contenturl", "content_url": "x", "wrapper": "panel"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(validator.types) != 1 || validator.types[0] != "contenturl" {
		t.Fatalf("expected fields validated against the target type, got %v", validator.types)
	}
	if node.Instance().TypeName() != "blank" || node.Wrapper() != "" {
		t.Fatalf("rejected submit changed the node: %s/%q", node.Instance().TypeName(), node.Wrapper())
	}
	if page.Dirty() || len(syncer.contents) != 0 {
		t.Fatalf("rejected submit must not dirty or sync the page")
	}
	if !layoutdoc.Equal(page.Layout(), before) {
		raw, _ := layoutdoc.Marshal(page.Layout())
		t.Fatalf("layout changed after rejected submit: %s", raw)
	}

	if err := node.SubmitFields(map[string]any{"wrapper": "missing"}); err == nil {
		t.Fatalf("expected unknown wrapper to be rejected")
	}
	if len(validator.types) != 1 {
		t.Fatalf("unknown wrapper must be rejected before validation")
	}
}

func TestUnresolvedKeySurvivesFailedFetch(t *testing.T) {
	fetcher := &stubFetcher{records: map[string]map[string]any{}}
	page := tree.NewPage(&tree.Environment{Fetcher: fetcher}, nil)
	doc := mustDocument(t, `{"main":[{"template":"One Column","children":[[{"template":"1 element","children":[{"content":"abc-key","wrapper":"panel"}]}]]}]}`)
	if err := page.Hydrate(context.Background(), doc); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	node := page.Contents()[0]
	if node.PendingKey() != "abc-key" {
		t.Fatalf("expected pending key, got %q", node.PendingKey())
	}
	if !layoutdoc.Equal(page.Layout(), doc) {
		raw, _ := layoutdoc.Marshal(page.Layout())
		t.Fatalf("unexpected layout while pending: %s", raw)
	}

	drain(t, page)
	if node.Instance() != nil || node.Pending() {
		t.Fatalf("failed fetch must leave the node empty")
	}
	if markup.TextContent(node.View()) != "" {
		t.Fatalf("unresolved content must not render")
	}
	if !layoutdoc.Equal(page.Layout(), doc) {
		raw, _ := layoutdoc.Marshal(page.Layout())
		t.Fatalf("key lost after failed fetch: %s", raw)
	}

	page.EnterEdit()
	if err := node.ChangeContentType("blank"); err != nil {
		t.Fatalf("change type: %v", err)
	}
	if node.PendingKey() != "" {
		t.Fatalf("installed content must replace the pending key")
	}
	want := mustDocument(t, `{"main":[{"template":"One Column","children":[[{"template":"1 element","children":[{"content":{"content_type":"blank"},"wrapper":"panel"}]}]]}]}`)
	if !layoutdoc.Equal(page.Layout(), want) {
		raw, _ := layoutdoc.Marshal(page.Layout())
		t.Fatalf("unexpected layout after edit: %s", raw)
	}
}

func TestTransientFieldsSurviveMarkupRoundTrip(t *testing.T) {
	page := editingPage(t, nil)
	grid, _ := page.EnsureGrid("main")
	row, _ := grid.AddRow("One Column")
	block, _ := row.Columns()[0].AddBlock("1 element")
	node := block.Contents()[0]
	if err := node.ChangeContentType("blank"); err != nil {
		t.Fatalf("change type: %v", err)
	}
	err := node.SubmitFields(map[string]any{
		"label":   "x",
		"visible": true,
		"count":   float64(3),
		"tags":    []any{"a", "b"},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := markup.GetAttr(node.View(), "data-json-visible"); got != "true" {
		t.Fatalf("expected json annotation for bool field, got %q", got)
	}

	src, err := markup.Render(page.View())
	if err != nil {
		t.Fatalf("render markup: %v", err)
	}
	root, err := markup.ParseFragment(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	reloaded := tree.FromMarkup(nil, root)
	if err := reloaded.Render(); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !layoutdoc.Equal(reloaded.Layout(), page.Layout()) {
		a, _ := layoutdoc.Marshal(page.Layout())
		b, _ := layoutdoc.Marshal(reloaded.Layout())
		t.Fatalf("round trip mismatch:\n%s\n%s", a, b)
	}
	inst := reloaded.Contents()[0].Instance()
	if v, ok := inst.Fields()["visible"].(bool); !ok || !v {
		t.Fatalf("expected bool field restored, got %#v", inst.Fields()["visible"])
	}
}
