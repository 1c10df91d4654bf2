package observe

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/aretw0/deepwatch/pkg/domain"
)

// sequenceStrategy is the full-trap interception of []any: every index and the
// length pseudo-property go through one handler, so bulk operations decompose into
// the same per-index event stream as single writes.
type sequenceStrategy struct{}

// MaxLength bounds the length of an observed sequence. Sequences are dense, so
// writing index i allocates every hole below it; indices at or above MaxLength
// fail with domain.ErrIndexOutOfRange and longer lengths with
// domain.ErrInvalidLength.
const MaxLength = 1 << 24

// seqKey accepts non-negative integer indices (as int or base-10 string) and
// LengthKey. Anything else is not addressable on a sequence. Indices too large
// to represent are reported as MaxLength.
func seqKey(key any) (idx int, isLength bool, ok bool) {
	switch k := key.(type) {
	case int:
		return k, false, k >= 0
	case int64:
		if k > MaxLength {
			return MaxLength, false, true
		}
		return int(k), false, k >= 0
	case string:
		if k == domain.LengthKey {
			return 0, true, true
		}
		i, err := strconv.Atoi(k)
		if errors.Is(err, strconv.ErrRange) && k[0] >= '1' && k[0] <= '9' {
			return MaxLength, false, true
		}
		if err != nil || i < 0 || strconv.Itoa(i) != k {
			return 0, false, false
		}
		return i, false, true
	}
	return 0, false, false
}

func (sequenceStrategy) get(n *node, key any) (any, bool) {
	i, isLen, ok := seqKey(key)
	switch {
	case !ok:
		return nil, false
	case isLen:
		return len(n.seq), true
	case i >= len(n.seq) || domain.IsUndefined(n.seq[i]):
		return nil, false
	}
	return n.seq[i], true
}

func (sequenceStrategy) keys(n *node) []any {
	out := make([]any, 0, len(n.seq))
	for i, v := range n.seq {
		if !domain.IsUndefined(v) {
			out = append(out, i)
		}
	}
	return out
}

func (sequenceStrategy) size(n *node) int {
	return len(n.seq)
}

func (sequenceStrategy) set(n *node, key any, value any, announce bool) error {
	i, isLen, ok := seqKey(key)
	if !ok {
		return nil
	}
	if isLen {
		return n.setLength(value, announce)
	}
	if i >= MaxLength {
		err := &indexRangeError{path: n.path, index: key}
		n.tree.reject(n.path, err)
		return err
	}
	return n.setIndex(i, value, announce, nil, false)
}

// setIndex writes one slot. Views listed in moving are live children of n being
// reordered by a bulk operation: they are re-parented instead of adopted, and the
// slot they leave is not torn down. admitted skips validation already done by
// the caller for the whole batch.
func (n *node) setIndex(i int, value any, announce bool, moving map[*node]bool, admitted bool) error {
	o := n.tree
	old := domain.Undefined
	if i < len(n.seq) {
		old = n.seq[i]
	}
	if same(old, value) {
		return nil
	}

	path := n.childPath(i)
	var releasing []*node
	oc := n.ownedChild(old)
	if oc != nil && (oc.key != i || moving[oc]) {
		oc = nil
	}
	if oc != nil {
		releasing = []*node{oc}
	}

	var mover *node
	if cv, ok := value.(*View); ok && cv.n != nil && moving[cv.n] {
		mover = cv.n
	} else if !admitted {
		if err := o.admit(path, value, releasing, make(seenSet)); err != nil {
			o.reject(path, err)
			return err
		}
	}
	if oc != nil {
		o.release(oc)
	}

	if domain.IsUndefined(value) {
		if i < len(n.seq) {
			n.seq[i] = domain.Undefined
		}
		if announce && !domain.IsUndefined(old) {
			o.emit(domain.Event{Kind: domain.EventDeleted, Path: path})
		}
		return nil
	}

	n.grow(i + 1)
	var stored any
	if mover != nil {
		o.reparent(mover, n, i)
		stored = mover.view
	} else {
		stored = o.wrap(value, n, i)
	}
	n.seq[i] = stored
	if announce {
		o.emit(domain.Event{Kind: domain.EventChanged, Path: path, Value: stored})
	}
	return nil
}

// grow extends the sequence with holes up to length l.
func (n *node) grow(l int) {
	for len(n.seq) < l {
		n.seq = append(n.seq, domain.Undefined)
	}
}

func toLength(v any) (int, bool) {
	switch l := v.(type) {
	case int:
		return l, l >= 0 && l <= MaxLength
	case int64:
		return int(l), l >= 0 && l <= MaxLength
	case float64:
		return int(l), l >= 0 && l == math.Trunc(l) && l <= MaxLength
	}
	return 0, false
}

// checkLength validates the length a bulk operation is about to produce.
func checkLength(path domain.Path, l int) error {
	if l > MaxLength {
		return &invalidLengthError{path: path, value: l}
	}
	return nil
}

// setLength writes the length pseudo-property. Shrinking tears down every child
// in the truncated range, in descending index order, before the length changes.
func (n *node) setLength(value any, announce bool) error {
	o := n.tree
	path := n.childPath(domain.LengthKey)
	l, ok := toLength(value)
	if !ok {
		err := &invalidLengthError{path: path, value: value}
		o.reject(path, err)
		return err
	}
	if l == len(n.seq) {
		return nil
	}
	if l < len(n.seq) {
		for i := len(n.seq) - 1; i >= l; i-- {
			if c := n.ownedChild(n.seq[i]); c != nil && c.key == i {
				o.release(c)
			}
		}
		clear(n.seq[l:])
		n.seq = n.seq[:l]
	} else {
		n.grow(l)
	}
	if announce {
		o.emit(domain.Event{Kind: domain.EventChanged, Path: path, Value: l})
	}
	return nil
}

type invalidLengthError struct {
	path  domain.Path
	value any
}

func (e *invalidLengthError) Error() string {
	return fmt.Sprintf("invalid length %v at %s", e.value, e.path)
}

func (e *invalidLengthError) Unwrap() error { return domain.ErrInvalidLength }

type indexRangeError struct {
	path  domain.Path
	index any
}

func (e *indexRangeError) Error() string {
	return fmt.Sprintf("index %v at %s is out of range: maximum length is %d", e.index, e.path, MaxLength)
}

func (e *indexRangeError) Unwrap() error { return domain.ErrIndexOutOfRange }
