package registry

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const duplicateKindCode = "REGISTRY_DUPLICATE_KIND"

// ErrInvalidName is returned when a registration uses a blank name.
var ErrInvalidName = errors.New("registry: name is required")

// DuplicateKindError reports a second registration under an existing name.
type DuplicateKindError struct {
	Kind string
	Name string
}

func (e *DuplicateKindError) Error() string {
	return fmt.Sprintf("registry: %s %q already registered", e.Kind, e.Name)
}

// NotFoundError reports a lookup miss. Callers treat it as "nothing to
// render" and recover locally.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("registry: %s %q not found", e.Kind, e.Name)
}

// IsNotFound reports whether err is a lookup miss.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func duplicateKind(kind, name string) error {
	return goerrors.Wrap(&DuplicateKindError{Kind: kind, Name: name}, goerrors.CategoryConflict, "duplicate registration").
		WithTextCode(duplicateKindCode)
}
