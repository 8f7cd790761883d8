package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewContentRecordRepository creates the generic repository for content records.
func NewContentRecordRepository(db *bun.DB) repository.Repository[*ContentRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ContentRecord]{
		NewRecord:          func() *ContentRecord { return &ContentRecord{} },
		GetID:              func(record *ContentRecord) uuid.UUID { return record.ID },
		SetID:              func(record *ContentRecord, id uuid.UUID) { record.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(record *ContentRecord) string { return record.ID.String() },
	})
}

// NewPageLayoutRepository creates the generic repository for page layouts.
func NewPageLayoutRepository(db *bun.DB) repository.Repository[*PageLayoutRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*PageLayoutRecord]{
		NewRecord:          func() *PageLayoutRecord { return &PageLayoutRecord{} },
		GetID:              func(record *PageLayoutRecord) uuid.UUID { return record.ID },
		SetID:              func(record *PageLayoutRecord, id uuid.UUID) { record.ID = id },
		GetIdentifier:      func() string { return "name" },
		GetIdentifierValue: func(record *PageLayoutRecord) string { return record.Name },
	})
}

// BunContentRepository implements ContentRepository with optional caching.
type BunContentRepository struct {
	repo repository.Repository[*ContentRecord]
}

// NewBunContentRepository creates a content repository without caching.
func NewBunContentRepository(db *bun.DB) *BunContentRepository {
	return NewBunContentRepositoryWithCache(db, nil, nil)
}

// NewBunContentRepositoryWithCache creates a content repository whose reads
// go through cacheService.
func NewBunContentRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunContentRepository {
	base := NewContentRecordRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunContentRepository{repo: base}
}

func (r *BunContentRepository) Create(ctx context.Context, record *ContentRecord) (*ContentRecord, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "content", record.ID.String())
	}
	return created, nil
}

func (r *BunContentRepository) Update(ctx context.Context, record *ContentRecord) (*ContentRecord, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns("content_type", "title", "fields", "updated_at"),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "content", record.ID.String())
	}
	return updated, nil
}

func (r *BunContentRepository) GetByID(ctx context.Context, id uuid.UUID) (*ContentRecord, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "content", id.String())
	}
	return record, nil
}

func (r *BunContentRepository) Search(ctx context.Context, contentType, query string, limit int) ([]*ContentRecord, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		if contentType != "" {
			q = q.Where("?TableAlias.content_type = ?", contentType)
		}
		if query != "" {
			q = q.Where("LOWER(?TableAlias.title) LIKE ?", "%"+query+"%")
		}
		q = q.OrderExpr("LOWER(?TableAlias.title) ASC")
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q
	}))
	if err != nil {
		return nil, mapRepositoryError(err, "content", query)
	}
	return records, nil
}

// BunPageRepository implements PageRepository.
type BunPageRepository struct {
	repo repository.Repository[*PageLayoutRecord]
}

// NewBunPageRepository creates a page layout repository.
func NewBunPageRepository(db *bun.DB) *BunPageRepository {
	return &BunPageRepository{repo: NewPageLayoutRepository(db)}
}

func (r *BunPageRepository) GetByName(ctx context.Context, name string) (*PageLayoutRecord, error) {
	record, err := r.repo.GetByIdentifier(ctx, name)
	if err != nil {
		return nil, mapRepositoryError(err, "page_layout", name)
	}
	return record, nil
}

func (r *BunPageRepository) Create(ctx context.Context, record *PageLayoutRecord) (*PageLayoutRecord, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "page_layout", record.Name)
	}
	return created, nil
}

func (r *BunPageRepository) Update(ctx context.Context, record *PageLayoutRecord) (*PageLayoutRecord, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns("layout", "revision", "updated_at"),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "page_layout", record.Name)
	}
	return updated, nil
}

func (r *BunPageRepository) List(ctx context.Context) ([]*PageLayoutRecord, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.name ASC")
	}))
	return records, err
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if errors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
