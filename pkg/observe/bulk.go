package observe

import (
	"slices"

	"github.com/aretw0/deepwatch/pkg/domain"
)

// Bulk sequence operations. Native slice semantics move many indices in one step,
// so each operation computes the resulting sequence on a copy and replays it
// through the index and length write paths: elements that keep their identity
// are re-parented to their new index, removed elements are torn down, and only
// slots whose occupant differs raise events.

// push appends values as consecutive index writes. The length follows each
// defined write; a length event is emitted only when trailing Undefined values
// leave it short.
func (n *node) push(values []any) (int, error) {
	start := len(n.seq)
	if err := checkLength(n.childPath(domain.LengthKey), start+len(values)); err != nil {
		n.tree.reject(n.childPath(domain.LengthKey), err)
		return start, err
	}
	seen := make(seenSet)
	for i, v := range values {
		path := n.childPath(start + i)
		if err := n.tree.admit(path, v, nil, seen); err != nil {
			n.tree.reject(path, err)
			return start, err
		}
	}
	for i, v := range values {
		if n.dead {
			return 0, domain.ErrDetached
		}
		if err := n.setIndex(start+i, v, true, nil, true); err != nil {
			return len(n.seq), err
		}
	}
	if n.dead {
		return 0, domain.ErrDetached
	}
	if err := n.setLength(start+len(values), true); err != nil {
		return len(n.seq), err
	}
	return len(n.seq), nil
}

// pop reads the last element from the raw sequence and shrinks the length by
// one. The removed element is returned as plain data.
func (n *node) pop() (any, error) {
	if len(n.seq) == 0 {
		return domain.Undefined, nil
	}
	last := n.seq[len(n.seq)-1]
	popped := plainOrUndefined(last)
	if err := n.setLength(len(n.seq)-1, true); err != nil {
		return domain.Undefined, err
	}
	return popped, nil
}

// splice removes deleteCount elements at start and inserts items in their place,
// returning the removed elements as plain data. start and deleteCount are clamped
// the way the native operation clamps them; a negative start counts from the end.
func (n *node) splice(start, deleteCount int, items []any) ([]any, error) {
	l := len(n.seq)
	if start < 0 {
		start = max(l+start, 0)
	}
	start = min(start, l)
	deleteCount = min(max(deleteCount, 0), l-start)

	next := make([]any, 0, l-deleteCount+len(items))
	next = append(next, n.seq[:start]...)
	next = append(next, items...)
	next = append(next, n.seq[start+deleteCount:]...)

	removed := make([]any, deleteCount)
	for i, v := range n.seq[start : start+deleteCount] {
		removed[i] = plainOrUndefined(v)
		if domain.IsUndefined(removed[i]) {
			removed[i] = nil
		}
	}

	if err := n.reorder(next); err != nil {
		return nil, err
	}
	return removed, nil
}

// sortFunc sorts the sequence in place with cmp, holes last. cmp receives values
// as they read from the view.
func (n *node) sortFunc(cmp func(a, b any) int) error {
	next := make([]any, 0, len(n.seq))
	holes := 0
	for _, v := range n.seq {
		if domain.IsUndefined(v) {
			holes++
			continue
		}
		next = append(next, v)
	}
	slices.SortStableFunc(next, cmp)
	for range holes {
		next = append(next, domain.Undefined)
	}
	return n.reorder(next)
}

func (n *node) reverse() error {
	next := slices.Clone(n.seq)
	slices.Reverse(next)
	return n.reorder(next)
}

// reorder replaces the contents of the sequence with next. Views in next must be
// live children of n; each may appear once. The operation is validated as a whole
// before any state changes.
func (n *node) reorder(next []any) error {
	o := n.tree
	if err := checkLength(n.childPath(domain.LengthKey), len(next)); err != nil {
		o.reject(n.childPath(domain.LengthKey), err)
		return err
	}

	moving := make(map[*node]bool)
	for i, v := range next {
		cv, ok := v.(*View)
		if !ok || cv.n == nil || cv.n.dead || cv.n.parent != n {
			continue
		}
		if moving[cv.n] {
			path := n.childPath(i)
			err := &domain.CycleError{Path: path, Owner: cv.n.path}
			o.reject(path, err)
			return err
		}
		moving[cv.n] = true
	}

	var releasing []*node
	for i, v := range n.seq {
		if c := n.ownedChild(v); c != nil && c.key == i && !moving[c] {
			releasing = append(releasing, c)
		}
	}

	seen := make(seenSet)
	for i, v := range next {
		if cv, ok := v.(*View); ok && cv.n != nil && moving[cv.n] {
			continue
		}
		path := n.childPath(i)
		if err := o.admit(path, v, releasing, seen); err != nil {
			o.reject(path, err)
			return err
		}
	}

	for _, c := range releasing {
		o.release(c)
	}
	for i, v := range next {
		if n.dead {
			return domain.ErrDetached
		}
		if err := n.setIndex(i, v, true, moving, true); err != nil {
			return err
		}
	}
	if n.dead {
		return domain.ErrDetached
	}
	return n.setLength(len(next), true)
}

func plainOrUndefined(v any) any {
	if domain.IsUndefined(v) {
		return domain.Undefined
	}
	return ToPlain(v)
}
