package observe

import (
	"github.com/aretw0/deepwatch/pkg/domain"
)

// View is the live, mutable face of an observed container. Every read and write
// goes through the interception strategy of its node; nested containers read as
// their own *View.
//
// A View stays valid while its container is observed. Once the value is deleted,
// overwritten or truncated away the view is detached: reads report absence and
// writes fail with domain.ErrDetached.
type View struct {
	n *node
}

func (v *View) live() bool {
	return v != nil && v.n != nil && !v.n.dead
}

// Detached reports whether the view's container is no longer observed.
func (v *View) Detached() bool {
	return !v.live()
}

// Kind returns the container kind, fixed when the view was created.
func (v *View) Kind() domain.Kind {
	if v == nil || v.n == nil {
		return ""
	}
	return v.n.kind
}

// Path returns the root-relative location of the view.
func (v *View) Path() domain.Path {
	if v == nil || v.n == nil {
		return nil
	}
	return v.n.path
}

// Observer returns the tree the view belongs to.
func (v *View) Observer() *Observer {
	if v == nil || v.n == nil {
		return nil
	}
	return v.n.tree
}

// Len returns the number of keys of a record or the length of a sequence.
func (v *View) Len() int {
	if !v.live() {
		return 0
	}
	return v.n.strat.size(v.n)
}

// Keys returns record keys in sorted order, or the defined indices of a sequence.
func (v *View) Keys() []any {
	if !v.live() {
		return nil
	}
	return v.n.strat.keys(v.n)
}

// Get returns the value at key. Sequences also answer domain.LengthKey.
func (v *View) Get(key any) (any, bool) {
	if !v.live() {
		return nil, false
	}
	return v.n.strat.get(v.n, key)
}

// Has reports whether key holds a defined value.
func (v *View) Has(key any) bool {
	_, ok := v.Get(key)
	return ok
}

// Field returns the nested container view at key, or nil if key does not hold one.
func (v *View) Field(key string) *View {
	return v.child(key)
}

// Index returns the nested container view at index i of a sequence, or nil.
func (v *View) Index(i int) *View {
	return v.child(i)
}

func (v *View) child(key any) *View {
	val, ok := v.Get(key)
	if !ok {
		return nil
	}
	cv, _ := val.(*View)
	return cv
}

// Lookup walks path from the view through nested views and returns the value found.
func (v *View) Lookup(path ...any) (any, error) {
	var cur any = v
	for i, key := range path {
		cv, ok := cur.(*View)
		if !ok || !cv.live() {
			return nil, &domain.InvalidPathError{Path: domain.Path(path[:i]), Reason: "not an observed container"}
		}
		val, ok := cv.Get(key)
		if !ok {
			return nil, &domain.InvalidPathError{Path: domain.Path(path[:i+1]), Reason: "no value"}
		}
		cur = val
	}
	return cur, nil
}

// Set writes value at key and announces the change. Writing domain.Undefined
// deletes the key. Keys rejected by the key filter and non-index keys of a
// sequence are ignored without error.
func (v *View) Set(key, value any) error {
	if !v.live() {
		return domain.ErrDetached
	}
	return v.n.strat.set(v.n, key, value, true)
}

// Delete removes key. It is Set(key, domain.Undefined).
func (v *View) Delete(key any) error {
	return v.Set(key, domain.Undefined)
}

func (v *View) sequence() (*node, error) {
	if !v.live() {
		return nil, domain.ErrDetached
	}
	if v.n.kind != domain.KindSequence {
		return nil, domain.ErrNotSequence
	}
	return v.n, nil
}

// SetLen sets the length of a sequence. Shrinking tears down truncated children;
// growing leaves holes.
func (v *View) SetLen(l int) error {
	n, err := v.sequence()
	if err != nil {
		return err
	}
	return n.setLength(l, true)
}

// Push appends values to a sequence and returns the new length.
func (v *View) Push(values ...any) (int, error) {
	n, err := v.sequence()
	if err != nil {
		return 0, err
	}
	return n.push(values)
}

// Pop removes the last element of a sequence and returns it as plain data.
// An empty sequence returns domain.Undefined.
func (v *View) Pop() (any, error) {
	n, err := v.sequence()
	if err != nil {
		return domain.Undefined, err
	}
	return n.pop()
}

// Shift removes the first element of a sequence and returns it as plain data.
// An empty sequence returns domain.Undefined.
func (v *View) Shift() (any, error) {
	n, err := v.sequence()
	if err != nil {
		return domain.Undefined, err
	}
	if len(n.seq) == 0 {
		return domain.Undefined, nil
	}
	removed, err := n.splice(0, 1, nil)
	if err != nil {
		return domain.Undefined, err
	}
	return removed[0], nil
}

// Unshift inserts values at the front of a sequence and returns the new length.
func (v *View) Unshift(values ...any) (int, error) {
	return v.Insert(0, values...)
}

// Insert inserts values before index i and returns the new length.
func (v *View) Insert(i int, values ...any) (int, error) {
	n, err := v.sequence()
	if err != nil {
		return 0, err
	}
	if _, err := n.splice(i, 0, values); err != nil {
		return len(n.seq), err
	}
	return len(n.seq), nil
}

// Splice removes deleteCount elements at start, inserts items in their place and
// returns the removed elements as plain data, detached from the tree.
func (v *View) Splice(start, deleteCount int, items ...any) ([]any, error) {
	n, err := v.sequence()
	if err != nil {
		return nil, err
	}
	return n.splice(start, deleteCount, items)
}

// SortFunc sorts a sequence in place. Elements keep their views; one event is
// emitted per index whose occupant changed.
func (v *View) SortFunc(cmp func(a, b any) int) error {
	n, err := v.sequence()
	if err != nil {
		return err
	}
	return n.sortFunc(cmp)
}

// Reverse reverses a sequence in place.
func (v *View) Reverse() error {
	n, err := v.sequence()
	if err != nil {
		return err
	}
	return n.reverse()
}

// String renders the view as its plain contents.
func (v *View) String() string {
	if !v.live() {
		return "<detached>"
	}
	return sprintPlain(ToPlain(v))
}
