package observe

import (
	"fmt"
	"slices"
	"time"
	"unsafe"

	"github.com/aretw0/deepwatch/pkg/domain"
)

// node owns one raw container and mediates every access to it.
// Nested containers are stored in the raw container as their child's view.
type node struct {
	tree   *Observer
	parent *node // lookup only; nil for the root
	key    any   // string under a record, int under a sequence
	path   domain.Path
	kind   domain.Kind
	handle unsafe.Pointer

	rec map[string]any
	seq []any

	strat strategy
	view  *View
	dead  bool

	// released is the raw container restored by release, kept until a write
	// that admitted this node's view as free adopts it again.
	released any
}

// strategy is the interception table of a node, chosen by kind at construction.
type strategy interface {
	get(n *node, key any) (any, bool)
	set(n *node, key any, value any, announce bool) error
	keys(n *node) []any
	size(n *node) int
}

func (n *node) childPath(key any) domain.Path {
	return n.path.Append(key)
}

// ownedChild returns the live node behind v when v is a view owned by n.
func (n *node) ownedChild(v any) *node {
	cv, ok := v.(*View)
	if !ok || cv.n == nil || cv.n.dead || cv.n.parent != n {
		return nil
	}
	return cv.n
}

// children lists the live child nodes in key order.
func (n *node) children() []*node {
	var out []*node
	for _, k := range n.strat.keys(n) {
		v, _ := n.strat.get(n, k)
		if c := n.ownedChild(v); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// seenSet maps containers admitted by one write to the path they were admitted at.
type seenSet = map[unsafe.Pointer]domain.Path

// admit verifies that v can be adopted at path without touching any state.
// Containers owned by nodes under one of releasing count as free, since the
// write tears those nodes down before adopting. seen tracks containers already
// admitted by the same write, catching aliasing inside the incoming value.
func (o *Observer) admit(path domain.Path, v any, releasing []*node, seen seenSet) error {
	switch classify(v) {
	case shapeScalar:
		return nil
	case shapeUnsupported:
		return &domain.UnsupportedContainerError{Path: path, Type: typeName(v)}
	case shapeView:
		cv := v.(*View)
		switch {
		case cv.n == nil || cv.n.tree != o:
			return &domain.UnsupportedContainerError{Path: path, Type: typeName(v)}
		case cv.n.dead:
			return fmt.Errorf("cannot observe %s: %w", path, domain.ErrDetached)
		case !under(cv.n, releasing):
			return &domain.CycleError{Path: path, Owner: cv.n.path}
		}
		return o.admitReleased(path, cv.n, releasing, seen)
	}

	if h := identity(v); h != nil {
		if at, dup := seen[h]; dup {
			return &domain.CycleError{Path: path, Owner: at}
		}
		if owner, ok := o.registry.owner(h); ok && !under(owner, releasing) {
			return &domain.CycleError{Path: path, Owner: owner.path}
		}
		seen[h] = path
	}

	switch c := v.(type) {
	case map[string]any:
		for k, e := range c {
			if !o.filter(k) {
				continue
			}
			if err := o.admit(path.Append(k), e, releasing, seen); err != nil {
				return err
			}
		}
	case []any:
		for i, e := range c {
			if err := o.admit(path.Append(i), e, releasing, seen); err != nil {
				return err
			}
		}
	}
	return nil
}

// admitReleased admits the container of a live node the write is about to tear
// down. Its nested values are already views or scalars.
func (o *Observer) admitReleased(path domain.Path, n *node, releasing []*node, seen seenSet) error {
	if at, dup := seen[n.handle]; dup {
		return &domain.CycleError{Path: path, Owner: at}
	}
	seen[n.handle] = path
	for _, k := range n.strat.keys(n) {
		e, _ := n.strat.get(n, k)
		if err := o.admit(path.Append(k), e, releasing, seen); err != nil {
			return err
		}
	}
	return nil
}

func under(n *node, ancestors []*node) bool {
	for p := n; p != nil; p = p.parent {
		if slices.Contains(ancestors, p) {
			return true
		}
	}
	return false
}

// wrap stores v under parent: containers get a child node and are replaced by its
// view, anything else is returned unchanged. v must have been admitted.
// A view torn down by the same write stands for the container release restored.
func (o *Observer) wrap(v any, parent *node, key any) any {
	if cv, ok := v.(*View); ok && cv.n != nil && cv.n.tree == o && cv.n.dead && cv.n.released != nil {
		v, cv.n.released = cv.n.released, nil
	}
	if !isContainer(v) {
		return v
	}
	return o.adopt(v, parent, key).view
}

// adopt builds the node for a raw container and recursively wraps its contents.
func (o *Observer) adopt(raw any, parent *node, key any) *node {
	n := &node{tree: o, parent: parent, key: key}
	if parent == nil {
		n.path = domain.Path{}
	} else {
		n.path = parent.childPath(key)
	}
	n.view = &View{n: n}

	switch c := raw.(type) {
	case map[string]any:
		if c == nil {
			c = make(map[string]any)
		}
		n.kind, n.rec, n.strat = domain.KindRecord, c, recordStrategy{}
	case []any:
		if c == nil {
			c = []any{}
		}
		n.kind, n.seq, n.strat = domain.KindSequence, c, sequenceStrategy{}
	}

	n.handle = identity(raw)
	if n.handle == nil {
		n.handle = unsafe.Pointer(n)
	}
	o.registry.add(n.handle, n)

	switch n.kind {
	case domain.KindRecord:
		for k, v := range n.rec {
			if !o.filter(k) {
				delete(n.rec, k)
				o.logger.Debug("unsafe key dropped", "path", n.path.String(), "key", k)
				continue
			}
			n.rec[k] = o.wrap(v, n, k)
		}
	case domain.KindSequence:
		for i, v := range n.seq {
			n.seq[i] = o.wrap(v, n, i)
		}
	}

	o.logger.Debug("node adopted", "path", n.path.String(), "kind", n.kind, "size", o.registry.size())
	if o.hooks.OnAdopt != nil {
		o.hooks.OnAdopt(&domain.NodeEvent{Timestamp: time.Now(), Path: n.path, Kind: n.kind, Size: o.registry.size()})
	}
	return n
}

// release tears n down with all of its descendants, unregisters their containers
// and returns n's raw container with nested views restored to plain containers,
// ready to be observed again.
func (o *Observer) release(n *node) any {
	if n.dead {
		return nil
	}
	var raw any
	switch n.kind {
	case domain.KindRecord:
		for k, v := range n.rec {
			if c := n.ownedChild(v); c != nil {
				n.rec[k] = o.release(c)
			}
		}
		raw = n.rec
	case domain.KindSequence:
		for i, v := range n.seq {
			c := n.ownedChild(v)
			switch {
			case c != nil && c.key == i:
				n.seq[i] = o.release(c)
			case domain.IsUndefined(v):
				n.seq[i] = nil
			default:
				// A stale slot left by an interrupted reorder.
				if _, ok := v.(*View); ok {
					n.seq[i] = nil
				}
			}
		}
		raw = n.seq
	}

	o.registry.remove(n.handle)
	n.dead = true
	n.parent = nil
	n.rec, n.seq = nil, nil
	n.released = raw

	o.logger.Debug("node released", "path", n.path.String(), "kind", n.kind, "size", o.registry.size())
	if o.hooks.OnRelease != nil {
		o.hooks.OnRelease(&domain.NodeEvent{Timestamp: time.Now(), Path: n.path, Kind: n.kind, Size: o.registry.size()})
	}
	return raw
}

// reparent moves a live child of the same tree under parent at key and
// recomputes the paths of its subtree.
func (o *Observer) reparent(c *node, parent *node, key any) {
	if c.tree != parent.tree {
		panic("observe: reparent across trees")
	}
	c.parent = parent
	c.key = key
	c.repath()

	o.logger.Debug("node moved", "path", c.path.String(), "kind", c.kind)
	if o.hooks.OnMove != nil {
		o.hooks.OnMove(&domain.NodeEvent{Timestamp: time.Now(), Path: c.path, Kind: c.kind, Size: o.registry.size()})
	}
}

func (n *node) repath() {
	n.path = n.parent.childPath(n.key)
	for _, c := range n.children() {
		c.repath()
	}
}
