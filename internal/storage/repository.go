package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ContentRepository persists content records.
type ContentRepository interface {
	Create(ctx context.Context, record *ContentRecord) (*ContentRecord, error)
	Update(ctx context.Context, record *ContentRecord) (*ContentRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ContentRecord, error)
	// Search matches title substrings case-insensitively. An empty
	// contentType matches every type; limit <= 0 means no limit.
	Search(ctx context.Context, contentType, query string, limit int) ([]*ContentRecord, error)
}

// PageRepository persists page layouts keyed by page name.
type PageRepository interface {
	GetByName(ctx context.Context, name string) (*PageLayoutRecord, error)
	Create(ctx context.Context, record *PageLayoutRecord) (*PageLayoutRecord, error)
	Update(ctx context.Context, record *PageLayoutRecord) (*PageLayoutRecord, error)
	List(ctx context.Context) ([]*PageLayoutRecord, error)
}

// NotFoundError reports a missing record.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
