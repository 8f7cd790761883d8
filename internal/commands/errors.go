package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	validationCode    = "LAYOUT_COMMAND_INVALID"
	contextCanceled   = "LAYOUT_COMMAND_CANCELED"
	contextTimeout    = "LAYOUT_COMMAND_TIMEOUT"
	executeFailedCode  = "LAYOUT_COMMAND_FAILED"
	nodeNotFoundCode  = "LAYOUT_NODE_NOT_FOUND"
)

// ErrNodeNotFound is returned when a command addresses a node that does not
// exist in the page.
var ErrNodeNotFound = errors.New("commands: node not found")

// NodeNotFound tags a failed node lookup.
func NodeNotFound(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryNotFound, "layout node not found").
		WithTextCode(nodeNotFoundCode)
}

func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(validationCode)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command deadline exceeded").
			WithTextCode(contextTimeout)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command cancelled").
		WithTextCode(contextCanceled)
}

func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(executeFailedCode)
}
