package seed_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-cms-layout/internal/identity"
	"github.com/goliatone/go-cms-layout/internal/seed"
	"github.com/goliatone/go-cms-layout/internal/storage"
)

const about = `---
title: About us
keywords: [team, history]
---
# About

We build things.
`

const pinned = `---
id: 3f0b3c1e-9a52-4c55-a8a3-2d7c3c0e5f11
title: Pinned
keywords: release
---
Pinned body.
`

func TestImportStoresMarkdownRecords(t *testing.T) {
	ctx := context.Background()
	files := fstest.MapFS{
		"docs/about.md":       {Data: []byte(about)},
		"docs/pinned.md":      {Data: []byte(pinned)},
		"docs/notes.txt":      {Data: []byte("ignored")},
		"docs/nested/deep.md": {Data: []byte("# deep")},
	}
	backend := storage.NewMemoryBackend()
	importer := seed.NewImporter(files, backend, seed.Options{})

	results, err := importer.Import(ctx, "docs")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected two results without recursion, got %#v", results)
	}
	if results[0].Path != "docs/about.md" || results[1].ID != "3f0b3c1e-9a52-4c55-a8a3-2d7c3c0e5f11" {
		t.Fatalf("unexpected results %#v", results)
	}

	wantID := identity.ContentUUID(seed.ContentType, "docs/about.md").String()
	if results[0].ID != wantID {
		t.Fatalf("expected derived id %s, got %s", wantID, results[0].ID)
	}
	record, err := backend.Fetch(ctx, seed.ContentType, results[0].ID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if record["title"] != "About us" || record["keywords"] != "team, history" {
		t.Fatalf("unexpected record %#v", record)
	}
	if raw, _ := record["raw"].(string); raw == "" || raw[0] != '#' {
		t.Fatalf("expected body without frontmatter, got %q", raw)
	}

	found, err := backend.Search(ctx, seed.ContentType, "pin", 10)
	if err != nil || len(found) != 1 || found[0].Title != "Pinned" {
		t.Fatalf("expected pinned search hit, got %#v (%v)", found, err)
	}
}

func TestImportIsIdempotentAndRecursive(t *testing.T) {
	ctx := context.Background()
	files := fstest.MapFS{
		"a.md":     {Data: []byte("plain body")},
		"sub/b.md": {Data: []byte(about)},
	}
	backend := storage.NewMemoryBackend()
	importer := seed.NewImporter(files, backend, seed.Options{Recursive: true})

	first, err := importer.Import(ctx, ".")
	if err != nil {
		t.Fatalf("first import: %v", err)
	}
	second, err := importer.Import(ctx, ".")
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected two files, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("expected stable ids, got %s and %s", first[i].ID, second[i].ID)
		}
	}
	if first[0].Title != "a" {
		t.Fatalf("expected title from file name, got %q", first[0].Title)
	}
	found, _ := backend.Search(ctx, seed.ContentType, "", 10)
	if len(found) != 2 {
		t.Fatalf("expected re-import to update records, got %d", len(found))
	}
}

func TestImportRequiresTransport(t *testing.T) {
	importer := seed.NewImporter(fstest.MapFS{"a.md": {Data: []byte("x")}}, nil, seed.Options{})
	if _, err := importer.ImportFile(context.Background(), "a.md"); err != seed.ErrTransportRequired {
		t.Fatalf("expected ErrTransportRequired, got %v", err)
	}
}
