package domain

import (
	"time"
)

// EventKind distinguishes the two mutations an observer reports.
type EventKind string

const (
	EventChanged EventKind = "changed" // A value was added or replaced
	EventDeleted EventKind = "deleted" // A value was removed
)

// Event describes one mutation of an observed tree.
type Event struct {
	Kind EventKind
	Path Path

	// Value is the new value as it reads from the view. Nested containers are
	// delivered as their live view; use observe.ToPlain for a snapshot.
	// Always nil for EventDeleted.
	Value any
}

// NodeEvent describes a change in the node population of a tree.
type NodeEvent struct {
	Timestamp time.Time
	Path      Path
	Kind      Kind
	Size      int // Live nodes after the change
}

// RejectEvent describes a write that failed with an error.
type RejectEvent struct {
	Timestamp time.Time
	Path      Path
	Err       error
}

// LifecycleHooks defines callbacks for observer bookkeeping.
// Any field may be nil.
type LifecycleHooks struct {
	OnAdopt   func(*NodeEvent)   // A container became observed
	OnRelease func(*NodeEvent)   // A node was torn down
	OnMove    func(*NodeEvent)   // A node was re-parented by a bulk sequence operation
	OnReject  func(*RejectEvent) // A write failed
}
