package tree

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	unsupportedChildCode = "TREE_UNSUPPORTED_CHILD"
	hydrationArityCode   = "TREE_HYDRATION_ARITY"
	invalidFieldsCode    = "TREE_INVALID_FIELDS"
)

var (
	// ErrNotEditing rejects mutations on a node that has not entered edit mode.
	ErrNotEditing = errors.New("tree: node is not in editing mode")
	// ErrFixedArity rejects adding children to a full row or block.
	ErrFixedArity = errors.New("tree: node has a fixed number of children")
	// ErrNotChild is returned when removing a node from a parent it does not belong to.
	ErrNotChild = errors.New("tree: node is not a child of this parent")
	// ErrNoColumn is returned when a block has no column to go to.
	ErrNoColumn = errors.New("tree: no column available")
	// ErrNoContent is returned when editing a content node with no content set.
	ErrNoContent = errors.New("tree: content node holds no content")
	// ErrDetached rejects operations on nodes removed from their page.
	ErrDetached = errors.New("tree: node is detached")
)

// UnsupportedChildError reports an attempt to add a child to a leaf node.
type UnsupportedChildError struct {
	Kind Kind
}

func (e *UnsupportedChildError) Error() string {
	return fmt.Sprintf("tree: %s nodes have no children", e.Kind)
}

// HydrationArityError reports markup carrying more children than the
// template of a row or block allows. The excess is detached.
type HydrationArityError struct {
	Node     string
	Template string
	Slots    int
	Found    int
}

func (e *HydrationArityError) Error() string {
	return fmt.Sprintf("tree: %s template %q has %d slots, markup supplied %d children", e.Node, e.Template, e.Slots, e.Found)
}

func unsupportedChild(kind Kind) error {
	return goerrors.Wrap(&UnsupportedChildError{Kind: kind}, goerrors.CategoryInternal, "unsupported child").
		WithTextCode(unsupportedChildCode)
}

func hydrationArity(node, template string, slots, found int) error {
	return goerrors.Wrap(&HydrationArityError{Node: node, Template: template, Slots: slots, Found: found},
		goerrors.CategoryValidation, "excess children detached").WithTextCode(hydrationArityCode)
}

func invalidFields(err error) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "content fields rejected").
		WithTextCode(invalidFieldsCode)
}

func templateSetEmpty(family string) error {
	return goerrors.Wrap(fmt.Errorf("tree: no %s templates registered", family), goerrors.CategoryInternal, "template set empty").
		WithTextCode("TREE_TEMPLATES_EMPTY")
}
