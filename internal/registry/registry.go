package registry

import (
	"cmp"
	"iter"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-cms-layout/internal/logging"
	"github.com/goliatone/go-cms-layout/pkg/interfaces"
)

// Titled is implemented by every registered variant.
type Titled interface {
	Title() string
}

// Choice is one entry of a sorted listing, ready for a select control.
type Choice struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// Registry maps case-insensitive names to variant descriptors. It is safe
// for concurrent use; entries are never removed.
type Registry[T Titled] struct {
	mu      sync.RWMutex
	kind    string
	entries map[string]T
	logger  interfaces.Logger
}

// Option configures a registry.
type Option func(*options)

type options struct {
	logger interfaces.Logger
}

// WithLogger attaches a logger used for registration traces.
func WithLogger(logger interfaces.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New builds an empty registry. kind names the variant family in errors.
func New[T Titled](kind string, opts ...Option) *Registry[T] {
	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Registry[T]{
		kind:    kind,
		entries: make(map[string]T),
		logger:  logging.Ensure(cfg.logger),
	}
}

// Kind returns the variant family name.
func (r *Registry[T]) Kind() string {
	return r.kind
}

// Register stores descriptor under name. A duplicate name is rejected and
// the original entry is kept.
func (r *Registry[T]) Register(name string, descriptor T) error {
	key := canonicalKey(name)
	if key == "" {
		return ErrInvalidName
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[key]; exists {
		return duplicateKind(r.kind, key)
	}
	r.entries[key] = descriptor
	r.logger.Debug("registry.register", "kind", r.kind, "name", key)
	return nil
}

// MustRegister panics when Register fails. Intended for startup defaults.
func (r *Registry[T]) MustRegister(name string, descriptor T) {
	if err := r.Register(name, descriptor); err != nil {
		panic(err)
	}
}

// Lookup returns the descriptor stored under name or a *NotFoundError.
func (r *Registry[T]) Lookup(name string) (T, error) {
	key := canonicalKey(name)
	r.mu.RLock()
	descriptor, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, &NotFoundError{Kind: r.kind, Name: key}
	}
	return descriptor, nil
}

// Has reports whether name is registered.
func (r *Registry[T]) Has(name string) bool {
	_, err := r.Lookup(name)
	return err == nil
}

// Len returns the number of registered variants.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// ListSorted yields every entry ordered by title, then name. The sequence
// takes a snapshot when iteration starts so it can be ranged repeatedly.
func (r *Registry[T]) ListSorted() iter.Seq[Choice] {
	return func(yield func(Choice) bool) {
		r.mu.RLock()
		choices := make([]Choice, 0, len(r.entries))
		for name, descriptor := range r.entries {
			choices = append(choices, Choice{Value: name, Text: descriptor.Title()})
		}
		r.mu.RUnlock()

		slices.SortFunc(choices, func(a, b Choice) int {
			if c := cmp.Compare(a.Text, b.Text); c != 0 {
				return c
			}
			return cmp.Compare(a.Value, b.Value)
		})
		for _, choice := range choices {
			if !yield(choice) {
				return
			}
		}
	}
}

func canonicalKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
