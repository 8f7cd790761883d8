package storage

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// NewMemoryContentRepository constructs an in-memory content repository.
func NewMemoryContentRepository() ContentRepository {
	return &memoryContentRepository{byID: make(map[uuid.UUID]*ContentRecord)}
}

type memoryContentRepository struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*ContentRecord
	order []uuid.UUID
}

func (m *memoryContentRepository) Create(_ context.Context, record *ContentRecord) (*ContentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneContent(record)
	if _, exists := m.byID[cloned.ID]; !exists {
		m.order = append(m.order, cloned.ID)
	}
	m.byID[cloned.ID] = cloned
	return cloneContent(cloned), nil
}

func (m *memoryContentRepository) Update(_ context.Context, record *ContentRecord) (*ContentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "content", Key: record.ID.String()}
	}
	cloned := cloneContent(record)
	cloned.CreatedAt = existing.CreatedAt
	m.byID[cloned.ID] = cloned
	return cloneContent(cloned), nil
}

func (m *memoryContentRepository) GetByID(_ context.Context, id uuid.UUID) (*ContentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "content", Key: id.String()}
	}
	return cloneContent(record), nil
}

func (m *memoryContentRepository) Search(_ context.Context, contentType, query string, limit int) ([]*ContentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	var out []*ContentRecord
	for _, id := range m.order {
		record := m.byID[id]
		if contentType != "" && record.ContentType != contentType {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(record.Title), query) {
			continue
		}
		out = append(out, cloneContent(record))
	}
	slices.SortStableFunc(out, func(a, b *ContentRecord) int {
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// NewMemoryPageRepository constructs an in-memory page layout repository.
func NewMemoryPageRepository() PageRepository {
	return &memoryPageRepository{byName: make(map[string]*PageLayoutRecord)}
}

type memoryPageRepository struct {
	mu     sync.RWMutex
	byName map[string]*PageLayoutRecord
}

func (m *memoryPageRepository) GetByName(_ context.Context, name string) (*PageLayoutRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byName[name]
	if !ok {
		return nil, &NotFoundError{Resource: "page_layout", Key: name}
	}
	return clonePage(record), nil
}

func (m *memoryPageRepository) Create(_ context.Context, record *PageLayoutRecord) (*PageLayoutRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := clonePage(record)
	m.byName[cloned.Name] = cloned
	return clonePage(cloned), nil
}

func (m *memoryPageRepository) Update(_ context.Context, record *PageLayoutRecord) (*PageLayoutRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byName[record.Name]; !ok {
		return nil, &NotFoundError{Resource: "page_layout", Key: record.Name}
	}
	cloned := clonePage(record)
	m.byName[cloned.Name] = cloned
	return clonePage(cloned), nil
}

func (m *memoryPageRepository) List(_ context.Context) ([]*PageLayoutRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*PageLayoutRecord, 0, len(m.byName))
	for _, record := range m.byName {
		out = append(out, clonePage(record))
	}
	slices.SortFunc(out, func(a, b *PageLayoutRecord) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}
