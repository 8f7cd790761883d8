package storage

import (
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ContentRecord is the stored form of a persistent content instance.
type ContentRecord struct {
	bun.BaseModel `bun:"table:layout_contents,alias:lc"`

	ID          uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	ContentType string         `bun:"content_type,notnull" json:"content_type"`
	Title       string         `bun:"title,notnull" json:"title"`
	Fields      map[string]any `bun:"fields,type:jsonb" json:"fields"`
	CreatedAt   time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// PageLayoutRecord stores the layout document of one page.
type PageLayoutRecord struct {
	bun.BaseModel `bun:"table:layout_pages,alias:lp"`

	ID        uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Name      string         `bun:"name,notnull,unique" json:"name"`
	Layout    map[string]any `bun:"layout,type:jsonb" json:"layout"`
	Revision  int            `bun:"revision,notnull,default:0" json:"revision"`
	CreatedAt time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Models lists the tables owned by the storage backend.
func Models() []any {
	return []any{
		(*ContentRecord)(nil),
		(*PageLayoutRecord)(nil),
	}
}

func cloneContent(record *ContentRecord) *ContentRecord {
	if record == nil {
		return nil
	}
	cloned := *record
	cloned.Fields = maps.Clone(record.Fields)
	return &cloned
}

func clonePage(record *PageLayoutRecord) *PageLayoutRecord {
	if record == nil {
		return nil
	}
	cloned := *record
	cloned.Layout = maps.Clone(record.Layout)
	return &cloned
}
