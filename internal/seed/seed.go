// Package seed imports markdown files with frontmatter as persistent
// markdown content records.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-cms-layout/internal/identity"
	"github.com/goliatone/go-cms-layout/internal/logging"
	"github.com/goliatone/go-cms-layout/pkg/interfaces"
)

// ContentType is the content type of every imported record.
const ContentType = "markdown"

// ErrTransportRequired is returned when the importer has no backend.
var ErrTransportRequired = errors.New("seed: transport is required")

// Options configures an Importer.
type Options struct {
	// Pattern filters file names. Defaults to "*.md".
	Pattern string
	// Recursive walks sub-directories.
	Recursive bool
	Logger    interfaces.Logger
}

// Result describes one imported file.
type Result struct {
	Path  string
	ID    string
	Title string
}

// Importer reads markdown documents from a filesystem and stores them.
type Importer struct {
	fs        fs.FS
	transport interfaces.Transport
	pattern   string
	recursive bool
	logger    interfaces.Logger
}

// NewImporter builds an importer reading from filesystem.
func NewImporter(filesystem fs.FS, transport interfaces.Transport, opts Options) *Importer {
	pattern := strings.TrimSpace(opts.Pattern)
	if pattern == "" {
		pattern = "*.md"
	}
	return &Importer{
		fs:        filesystem,
		transport: transport,
		pattern:   pattern,
		recursive: opts.Recursive,
		logger:    logging.Ensure(opts.Logger),
	}
}

type frontMatter struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Keywords any    `yaml:"keywords"`
}

// Document is a parsed markdown file.
type Document struct {
	Path     string
	ID       string
	Title    string
	Keywords string
	Body     []byte
}

// Parse splits source into frontmatter and body. Files without an id get a
// key derived from their path so re-importing updates the same record.
func Parse(name string, source []byte) (*Document, error) {
	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("seed: parse %s: %w", name, err)
	}
	doc := &Document{
		Path:     name,
		ID:       strings.TrimSpace(meta.ID),
		Title:    strings.TrimSpace(meta.Title),
		Keywords: keywords(meta.Keywords),
		Body:     body,
	}
	if doc.ID == "" {
		doc.ID = identity.ContentUUID(ContentType, name).String()
	}
	if doc.Title == "" {
		doc.Title = strings.TrimSuffix(path.Base(name), path.Ext(name))
	}
	return doc, nil
}

// Fields returns the record payload stored for d.
func (d *Document) Fields() map[string]any {
	return map[string]any{
		"content_type": ContentType,
		"id":           d.ID,
		"title":        d.Title,
		"keywords":     d.Keywords,
		"raw":          string(d.Body),
	}
}

// ImportFile parses and stores a single file.
func (i *Importer) ImportFile(ctx context.Context, name string) (Result, error) {
	if i.transport == nil {
		return Result{}, ErrTransportRequired
	}
	source, err := fs.ReadFile(i.fs, name)
	if err != nil {
		return Result{}, fmt.Errorf("seed: read %s: %w", name, err)
	}
	doc, err := Parse(name, source)
	if err != nil {
		return Result{}, err
	}
	resp, err := i.transport.Store(ctx, interfaces.PathContent, doc.Fields())
	if err != nil {
		return Result{}, fmt.Errorf("seed: store %s: %w", name, err)
	}
	id, _ := resp["id"].(string)
	if id == "" {
		id = doc.ID
	}
	i.logger.Info("seed.imported", "path", name, "id", id, "title", doc.Title)
	return Result{Path: name, ID: id, Title: doc.Title}, nil
}

// Import stores every matching file under dir in path order.
func (i *Importer) Import(ctx context.Context, dir string) ([]Result, error) {
	root := path.Clean(strings.TrimPrefix(dir, "/"))
	var files []string
	err := fs.WalkDir(i.fs, root, func(name string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if name != root && !i.recursive {
				return fs.SkipDir
			}
			return nil
		}
		if ok, _ := path.Match(i.pattern, path.Base(name)); ok {
			files = append(files, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed: walk %s: %w", root, err)
	}
	sort.Strings(files)

	results := make([]Result, 0, len(files))
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := i.ImportFile(ctx, name)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

func keywords(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}
