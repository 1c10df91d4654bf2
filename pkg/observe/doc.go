/*
Package observe is the deep observation engine.

Observing a nested structure of map[string]any records and []any sequences
yields a *View. Every write through a view (or a nested view reached from it) is
intercepted, applied to the underlying container and reported as a
domain.Event carrying the full path from the root:

	obs, err := observe.New(map[string]any{"o": map[string]any{"a": "aa"}})
	if err != nil {
		return err
	}
	obs.Subscribe(func(ev domain.Event) {
		log.Println(ev.Kind, ev.Path, ev.Value)
	})
	_ = obs.View().Field("o").Set("a", "bb") // changed o.a bb

# Interception

Records use managed accessors: one get/set pair per admissible key. Sequences
use a single trap for every index and the "length" pseudo-property; writes to any
other key of a sequence are ignored. Bulk sequence operations (Pop, Splice,
SortFunc, Reverse, Shift, Unshift, Insert) are replayed through the same index
and length writes, so moved elements keep their views and only slots whose
occupant changed raise events.

# Ownership

Each container is observed by exactly one node. Assigning a container that is
already observed in the same tree fails with a *domain.CycleError, which covers
both self reference and aliasing. Deleting, overwriting or truncating a value
tears its node down and restores the container to plain data, after which it may
be assigned again, including by the same write that replaces its owner.

Identity is the map header of a record and the backing array of a sequence.
A zero-capacity slice has no backing array, so the same empty []any may be
assigned at several keys; each assignment gets its own node, and the first
element written to one of them moves it to storage of its own.

Sequences are dense: writing an index past the end fills the gap with holes.
Indices and lengths are bounded by MaxLength.

# Silent writes

Observer.SetValue applies the same write semantics at an explicit path and lets
the caller choose whether the event is announced.

# Thread Safety

An Observer and its views are not safe for concurrent use. Handlers run
synchronously on the writing goroutine and may themselves write to the tree.
*/
package observe
