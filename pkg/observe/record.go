package observe

import (
	"slices"
	"strconv"

	"github.com/aretw0/deepwatch/pkg/domain"
)

// recordStrategy is the managed-accessor interception of map[string]any: one
// get/set pair per admissible key, installed on construction or first write.
type recordStrategy struct{}

func recordKey(key any) (string, bool) {
	switch k := key.(type) {
	case string:
		return k, true
	case int:
		return strconv.Itoa(k), true
	case int64:
		return strconv.FormatInt(k, 10), true
	}
	return "", false
}

func (recordStrategy) get(n *node, key any) (any, bool) {
	k, ok := recordKey(key)
	if !ok {
		return nil, false
	}
	v, ok := n.rec[k]
	return v, ok
}

func (recordStrategy) keys(n *node) []any {
	ks := make([]string, 0, len(n.rec))
	for k := range n.rec {
		ks = append(ks, k)
	}
	slices.Sort(ks)
	out := make([]any, len(ks))
	for i, k := range ks {
		out[i] = k
	}
	return out
}

func (recordStrategy) size(n *node) int {
	return len(n.rec)
}

func (recordStrategy) set(n *node, key any, value any, announce bool) error {
	k, ok := recordKey(key)
	if !ok || !n.tree.filter(k) {
		return nil
	}
	o := n.tree

	old, exists := n.rec[k]
	if !exists {
		old = domain.Undefined
	}
	if same(old, value) {
		return nil
	}

	path := n.childPath(k)
	var releasing []*node
	oc := n.ownedChild(old)
	if oc != nil {
		releasing = []*node{oc}
	}
	if err := o.admit(path, value, releasing, make(seenSet)); err != nil {
		o.reject(path, err)
		return err
	}
	if oc != nil {
		o.release(oc)
	}

	if domain.IsUndefined(value) {
		delete(n.rec, k)
		if announce {
			o.emit(domain.Event{Kind: domain.EventDeleted, Path: path})
		}
		return nil
	}

	stored := o.wrap(value, n, k)
	n.rec[k] = stored
	if announce {
		o.emit(domain.Event{Kind: domain.EventChanged, Path: path, Value: stored})
	}
	return nil
}
