package observe

import (
	"reflect"
	"unsafe"
)

// registry is the tree-wide set of raw containers currently owned by a live node.
// Entries are opaque handles: the map header for records and the backing array for
// sequences. Zero-capacity slices share storage, so their nodes stand in as handle.
type registry struct {
	owners map[unsafe.Pointer]*node
}

func newRegistry() *registry {
	return &registry{owners: make(map[unsafe.Pointer]*node)}
}

func (r *registry) owner(h unsafe.Pointer) (*node, bool) {
	if h == nil {
		return nil, false
	}
	n, ok := r.owners[h]
	return n, ok
}

func (r *registry) add(h unsafe.Pointer, n *node) {
	r.owners[h] = n
}

func (r *registry) remove(h unsafe.Pointer) {
	delete(r.owners, h)
}

func (r *registry) size() int {
	return len(r.owners)
}

// identity returns the registry handle of a raw container, or nil when the value
// carries no identity of its own.
func identity(v any) unsafe.Pointer {
	switch c := v.(type) {
	case map[string]any:
		if c == nil {
			return nil
		}
		return reflect.ValueOf(c).UnsafePointer()
	case []any:
		if cap(c) == 0 {
			return nil
		}
		return unsafe.Pointer(unsafe.SliceData(c))
	}
	return nil
}
