package templates

import (
	"fmt"
	"iter"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-layout/internal/registry"
)

// Set is an ordered collection of templates of one family. Order matters:
// the first template is the fallback for unknown names.
type Set struct {
	mu     sync.RWMutex
	family Family
	order  []string
	byName map[string]Template
}

// NewSet builds an empty set for family.
func NewSet(family Family) *Set {
	return &Set{family: family, byName: map[string]Template{}}
}

// Family returns the family served by the set.
func (s *Set) Family() Family {
	return s.family
}

// Add appends t. Names are unique within a set and t must belong to the
// set's family.
func (s *Set) Add(templates ...Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range templates {
		if t.Family() != s.family {
			return fmt.Errorf("templates: %s is a %s template, set holds %s templates", t.Name(), t.Family(), s.family)
		}
		key := canonical(t.Name())
		if _, exists := s.byName[key]; exists {
			return goerrors.Wrap(&registry.DuplicateKindError{Kind: string(s.family) + " template", Name: t.Name()},
				goerrors.CategoryConflict, "duplicate template").WithTextCode("REGISTRY_DUPLICATE_KIND")
		}
		s.byName[key] = t
		s.order = append(s.order, t.Name())
	}
	return nil
}

// Get returns the template stored under name or a *registry.NotFoundError.
func (s *Set) Get(name string) (Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.byName[canonical(name)]; ok {
		return t, nil
	}
	return nil, &registry.NotFoundError{Kind: string(s.family) + " template", Name: name}
}

// Resolve returns the template for name, falling back to the first
// template of the set. The boolean reports whether the fallback was used.
func (s *Set) Resolve(name string) (Template, bool) {
	if t, err := s.Get(name); err == nil {
		return t, false
	}
	return s.First(), true
}

// First returns the first template added, or nil for an empty set.
func (s *Set) First() Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.order) == 0 {
		return nil
	}
	return s.byName[canonical(s.order[0])]
}

// Names returns the template names in insertion order.
func (s *Set) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Len returns the number of templates.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Choices yields the templates in insertion order for a select control.
func (s *Set) Choices() iter.Seq[registry.Choice] {
	return func(yield func(registry.Choice) bool) {
		for _, name := range s.Names() {
			if !yield(registry.Choice{Value: name, Text: name}) {
				return
			}
		}
	}
}

func canonical(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
