package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCycle is returned when a container already observed in a tree is assigned again
	// anywhere in the same tree.
	ErrCycle = errors.New("container is already observed in this tree")

	// ErrUnsupportedContainer is returned for container-like values that are neither
	// map[string]any nor []any.
	ErrUnsupportedContainer = errors.New("only map[string]any and []any can be observed")

	// ErrInvalidPath is returned when a path does not resolve to an observed container.
	ErrInvalidPath = errors.New("invalid path")

	// ErrDetached is returned when writing through a view whose node was torn down.
	ErrDetached = errors.New("view is detached from its tree")

	// ErrNotSequence is returned when a sequence operation is called on a record view.
	ErrNotSequence = errors.New("view is not a sequence")

	// ErrInvalidLength is returned when a sequence length is negative, not an
	// integer or above the maximum length.
	ErrInvalidLength = errors.New("invalid sequence length")

	// ErrIndexOutOfRange is returned for a sequence index at or above the maximum length.
	ErrIndexOutOfRange = errors.New("sequence index out of range")

	// ErrInconsistent signals a container reachable from a view that has no node.
	// It should never be observed.
	ErrInconsistent = errors.New("observed container has no node")
)

// CycleError reports an assignment of an already observed container.
type CycleError struct {
	Path  Path // Where the write was attempted
	Owner Path // Where the container is currently observed
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cannot observe %s: container already observed at %s", e.Path, e.Owner)
}

func (e *CycleError) Is(target error) bool { return target == ErrCycle }

// UnsupportedContainerError reports an attempt to observe a container of the wrong shape.
type UnsupportedContainerError struct {
	Path Path
	Type string
}

func (e *UnsupportedContainerError) Error() string {
	return fmt.Sprintf("cannot observe %s: unsupported container %s", e.Path, e.Type)
}

func (e *UnsupportedContainerError) Is(target error) bool { return target == ErrUnsupportedContainer }

// InvalidPathError reports a path that does not lead through observed containers.
type InvalidPathError struct {
	Path   Path // The prefix that was resolved before failing
	Reason string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path at %s: %s", e.Path, e.Reason)
}

func (e *InvalidPathError) Is(target error) bool { return target == ErrInvalidPath }
