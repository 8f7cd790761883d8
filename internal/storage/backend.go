package storage

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-cms-layout/internal/identity"
	"github.com/goliatone/go-cms-layout/internal/layoutdoc"
	"github.com/goliatone/go-cms-layout/internal/logging"
	"github.com/goliatone/go-cms-layout/pkg/interfaces"
)

var (
	// ErrUnknownPath rejects store requests for paths the backend does not serve.
	ErrUnknownPath = errors.New("storage: unknown transport path")
	// ErrContentTypeRequired rejects content without a content type.
	ErrContentTypeRequired = errors.New("storage: content_type required")
	// ErrContentTypeMismatch is returned when a fetched record has another type.
	ErrContentTypeMismatch = errors.New("storage: content type mismatch")
)

// Payload keys understood by Store.
const (
	fieldID          = "id"
	fieldTitle       = "title"
	fieldContentType = layoutdoc.ContentTypeField
	fieldPage        = "page"
	fieldLayout      = "layout"
	fieldRevision    = "revision"
	defaultPageName  = "default"
)

// Backend is the backend of record. It serves the transport used by the
// sync coordinator and resolves persistent content for hydration.
type Backend struct {
	contents ContentRepository
	pages    PageRepository
	newID    func() uuid.UUID
	now      func() time.Time
	logger   interfaces.Logger
}

var (
	_ interfaces.Transport       = (*Backend)(nil)
	_ interfaces.ContentFetcher  = (*Backend)(nil)
	_ interfaces.ContentSearcher = (*Backend)(nil)
)

// BackendOption customises a Backend.
type BackendOption func(*Backend)

// WithIDGenerator overrides the generator for new content keys.
func WithIDGenerator(fn func() uuid.UUID) BackendOption {
	return func(b *Backend) {
		if fn != nil {
			b.newID = fn
		}
	}
}

// WithNow overrides the clock used for timestamps.
func WithNow(fn func() time.Time) BackendOption {
	return func(b *Backend) {
		if fn != nil {
			b.now = fn
		}
	}
}

// WithLogger sets the backend logger.
func WithLogger(logger interfaces.Logger) BackendOption {
	return func(b *Backend) {
		b.logger = logging.Ensure(logger)
	}
}

// NewBackend builds a backend over the given repositories.
func NewBackend(contents ContentRepository, pages PageRepository, opts ...BackendOption) *Backend {
	b := &Backend{
		contents: contents,
		pages:    pages,
		newID:    uuid.New,
		now:      time.Now,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewMemoryBackend builds a backend on in-memory repositories.
func NewMemoryBackend(opts ...BackendOption) *Backend {
	return NewBackend(NewMemoryContentRepository(), NewMemoryPageRepository(), opts...)
}

// Store handles one transport request.
func (b *Backend) Store(ctx context.Context, path string, data map[string]any) (map[string]any, error) {
	switch path {
	case interfaces.PathLayout:
		return b.storeLayout(ctx, data)
	case interfaces.PathContent:
		return b.storeContent(ctx, data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPath, path)
	}
}

func (b *Backend) storeLayout(ctx context.Context, data map[string]any) (map[string]any, error) {
	name, _ := data[fieldPage].(string)
	if name = strings.TrimSpace(name); name == "" {
		name = defaultPageName
	}
	raw, _ := data[fieldLayout].(map[string]any)
	doc, err := layoutdoc.FromMap(raw)
	if err != nil {
		return nil, fmt.Errorf("storage: decode layout %s: %w", name, err)
	}
	layout, err := layoutdoc.ToMap(doc)
	if err != nil {
		return nil, err
	}

	now := b.now()
	existing, err := b.pages.GetByName(ctx, name)
	var missing *NotFoundError
	switch {
	case errors.As(err, &missing):
		created, err := b.pages.Create(ctx, &PageLayoutRecord{
			ID:        b.newID(),
			Name:      name,
			Layout:    layout,
			Revision:  1,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return nil, err
		}
		b.logger.Info("layout.created", "page", name)
		return map[string]any{fieldPage: name, fieldRevision: created.Revision}, nil
	case err != nil:
		return nil, err
	}

	existing.Layout = layout
	existing.Revision++
	existing.UpdatedAt = now
	updated, err := b.pages.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("layout.updated", "page", name, "revision", updated.Revision)
	return map[string]any{fieldPage: name, fieldRevision: updated.Revision}, nil
}

func (b *Backend) storeContent(ctx context.Context, data map[string]any) (map[string]any, error) {
	fields := maps.Clone(data)
	contentType, _ := fields[fieldContentType].(string)
	if contentType = strings.TrimSpace(contentType); contentType == "" {
		return nil, ErrContentTypeRequired
	}
	key, _ := fields[fieldID].(string)
	title, _ := fields[fieldTitle].(string)
	delete(fields, fieldID)
	delete(fields, fieldContentType)
	delete(fields, fieldTitle)

	now := b.now()
	record := &ContentRecord{
		ContentType: contentType,
		Title:       title,
		Fields:      fields,
		UpdatedAt:   now,
	}

	if key = strings.TrimSpace(key); key == "" {
		record.ID = b.newID()
	} else {
		record.ID = keyToUUID(key)
		if _, err := b.contents.GetByID(ctx, record.ID); err == nil {
			updated, err := b.contents.Update(ctx, record)
			if err != nil {
				return nil, err
			}
			b.logger.Debug("content.updated", "id", updated.ID.String())
			return contentResponse(updated), nil
		} else if !isNotFound(err) {
			return nil, err
		}
	}

	record.CreatedAt = now
	created, err := b.contents.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	b.logger.Info("content.created", "id", created.ID.String(), "content_type", contentType)
	return contentResponse(created), nil
}

func contentResponse(record *ContentRecord) map[string]any {
	return map[string]any{fieldID: record.ID.String(), fieldContentType: record.ContentType}
}

// Fetch returns the fields of the content stored under key.
func (b *Backend) Fetch(ctx context.Context, contentType, key string) (map[string]any, error) {
	record, err := b.contents.GetByID(ctx, keyToUUID(key))
	if err != nil {
		return nil, err
	}
	if contentType != "" && !strings.EqualFold(contentType, record.ContentType) {
		return nil, fmt.Errorf("%w: %s is %s, not %s", ErrContentTypeMismatch, key, record.ContentType, contentType)
	}
	return recordFields(record), nil
}

// Search lists stored content whose title contains query.
func (b *Backend) Search(ctx context.Context, contentType, query string, limit int) ([]interfaces.SearchResult, error) {
	records, err := b.contents.Search(ctx, contentType, query, limit)
	if err != nil {
		return nil, err
	}
	out := make([]interfaces.SearchResult, 0, len(records))
	for _, record := range records {
		out = append(out, interfaces.SearchResult{ID: record.ID.String(), Title: record.Title})
	}
	return out, nil
}

// LoadLayout returns the stored layout of the named page.
func (b *Backend) LoadLayout(ctx context.Context, name string) (layoutdoc.Document, error) {
	record, err := b.pages.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return layoutdoc.FromMap(record.Layout)
}

// Pages lists the names of stored page layouts.
func (b *Backend) Pages(ctx context.Context) ([]string, error) {
	records, err := b.pages.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(records))
	for _, record := range records {
		names = append(names, record.Name)
	}
	return names, nil
}

func recordFields(record *ContentRecord) map[string]any {
	fields := maps.Clone(record.Fields)
	if fields == nil {
		fields = map[string]any{}
	}
	fields[fieldID] = record.ID.String()
	fields[fieldTitle] = record.Title
	fields[fieldContentType] = record.ContentType
	return fields
}

// keyToUUID accepts canonical uuids and maps any other key to a stable one.
func keyToUUID(key string) uuid.UUID {
	if id, err := uuid.Parse(strings.TrimSpace(key)); err == nil {
		return id
	}
	return identity.UUID("go-cms-layout:content-key:" + strings.TrimSpace(key))
}

func isNotFound(err error) bool {
	var missing *NotFoundError
	return errors.As(err, &missing)
}

// IsNotFound reports whether err marks a missing record.
func IsNotFound(err error) bool {
	return isNotFound(err)
}
