package tree

import (
	"github.com/goliatone/go-cms-layout/internal/content"
	"github.com/goliatone/go-cms-layout/internal/eventloop"
	"github.com/goliatone/go-cms-layout/internal/logging"
	"github.com/goliatone/go-cms-layout/internal/templates"
	"github.com/goliatone/go-cms-layout/internal/wrappers"
	"github.com/goliatone/go-cms-layout/pkg/interfaces"
)

// Syncer persists page layouts and content on behalf of the tree.
type Syncer interface {
	SyncPage(page *Page)
	SyncContent(node *Content)
}

// FieldValidator checks a submitted field map against a content type.
type FieldValidator interface {
	Validate(t *content.Type, fields map[string]any) error
}

// Environment holds the collaborators shared by every node of a page.
type Environment struct {
	ContentTypes   *content.Registry
	Wrappers       *wrappers.Registry
	RowTemplates   *templates.Set
	BlockTemplates *templates.Set
	Columns        int
	Skins          []string
	Loop           *eventloop.Loop
	Syncer         Syncer
	Fetcher        interfaces.ContentFetcher
	Validator      FieldValidator
	Logger         interfaces.Logger
}

// DefaultEnvironment returns an environment with the built-in variants and
// templates and no backend.
func DefaultEnvironment() *Environment {
	return (&Environment{}).withDefaults()
}

func (e *Environment) withDefaults() *Environment {
	if e.ContentTypes == nil {
		e.ContentTypes = content.NewRegistry()
		_ = content.RegisterDefaults(e.ContentTypes, content.DefaultOptions{})
	}
	if e.Wrappers == nil {
		e.Wrappers = wrappers.NewRegistry()
		_ = wrappers.RegisterDefaults(e.Wrappers)
	}
	if e.RowTemplates == nil {
		e.RowTemplates = templates.DefaultRowTemplates()
	}
	if e.BlockTemplates == nil {
		e.BlockTemplates = templates.DefaultBlockTemplates()
	}
	if e.Columns <= 0 {
		e.Columns = templates.DefaultColumns
	}
	if e.Loop == nil {
		e.Loop = eventloop.New()
	}
	e.Logger = logging.Ensure(e.Logger)
	return e
}
