package observe

import (
	"log/slog"
	"time"

	"github.com/aretw0/deepwatch/internal/logging"
	"github.com/aretw0/deepwatch/pkg/domain"
)

// Observer is the root of an observed tree. It owns the identity registry shared
// by every node of the tree and the event channel all nodes report to.
//
// An Observer is not safe for concurrent use; see package session for guarded
// access from several goroutines.
type Observer struct {
	root     *node
	registry *registry
	events   channel
	filter   KeyFilter
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// Option configures an Observer.
type Option func(*Observer)

// WithLogger sets the structured logger used for node bookkeeping (Debug level).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Observer) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithKeyFilter replaces the property safety filter.
func WithKeyFilter(filter KeyFilter) Option {
	return func(o *Observer) {
		if filter != nil {
			o.filter = filter
		}
	}
}

// WithHooks registers lifecycle callbacks for adoption, release, moves and
// rejected writes.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(o *Observer) {
		o.hooks = hooks
	}
}

// New observes initial, which must be a map[string]any or a []any. A nil initial
// value observes a new empty record. The container is owned by the tree from now
// on: it is mutated in place and nested containers are replaced by their views.
func New(initial any, opts ...Option) (*Observer, error) {
	o := &Observer{
		registry: newRegistry(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.filter == nil {
		o.filter = DefaultKeyFilter()
	}

	if initial == nil {
		initial = make(map[string]any)
	}
	root := domain.Path{}
	if !isContainer(initial) {
		err := &domain.UnsupportedContainerError{Path: root, Type: typeName(initial)}
		o.reject(root, err)
		return nil, err
	}
	if err := o.admit(root, initial, nil, make(seenSet)); err != nil {
		o.reject(root, err)
		return nil, err
	}
	o.root = o.adopt(initial, nil, nil)
	return o, nil
}

// View returns the root view.
func (o *Observer) View() *View {
	return o.root.view
}

// Subscribe registers h for every event.
func (o *Observer) Subscribe(h Handler) *Subscription {
	s := o.events.add(nil, h)
	return &Subscription{id: s.id, ch: &o.events}
}

// On registers h for events of one kind.
func (o *Observer) On(kind domain.EventKind, h Handler) *Subscription {
	s := o.events.add(func(ev domain.Event) bool { return ev.Kind == kind }, h)
	return &Subscription{id: s.id, ch: &o.events}
}

// SubscribePath registers h for events at prefix or anywhere below it.
// Subscribing to ["editor"] receives changes to ["editor", "tabSize"].
func (o *Observer) SubscribePath(prefix domain.Path, h Handler) *Subscription {
	s := o.events.add(func(ev domain.Event) bool { return ev.Path.HasPrefix(prefix) }, h)
	return &Subscription{id: s.id, ch: &o.events}
}

// SetValue writes value at path with the normal write semantics but lets the
// caller decide whether the resulting event is announced. The path is walked
// from the root view; every segment but the last must name an observed container.
func (o *Observer) SetValue(path domain.Path, value any, announce bool) error {
	if len(path) == 0 {
		return &domain.InvalidPathError{Path: path, Reason: "empty path"}
	}
	cur := o.root.view
	for i, key := range path[:len(path)-1] {
		val, ok := cur.Get(key)
		next, isView := val.(*View)
		if !ok || !isView || !next.live() {
			return &domain.InvalidPathError{Path: path[:i+1], Reason: "not an observed container"}
		}
		cur = next
	}
	n := cur.n
	if n == nil || n.tree != o {
		return domain.ErrInconsistent
	}
	return n.strat.set(n, path[len(path)-1], value, announce)
}

// Size returns the number of live nodes (observed containers) in the tree.
func (o *Observer) Size() int {
	return o.registry.size()
}

// Paths returns the path of every observed container, depth first, keys in order.
func (o *Observer) Paths() []domain.Path {
	var out []domain.Path
	var walk func(n *node)
	walk = func(n *node) {
		out = append(out, n.path)
		for _, c := range n.children() {
			walk(c)
		}
	}
	walk(o.root)
	return out
}

func (o *Observer) emit(ev domain.Event) {
	o.logger.Debug("event", "kind", ev.Kind, "path", ev.Path.String())
	o.events.emit(ev)
}

func (o *Observer) reject(path domain.Path, err error) {
	o.logger.Debug("write rejected", "path", path.String(), "error", err)
	if o.hooks.OnReject != nil {
		o.hooks.OnReject(&domain.RejectEvent{Timestamp: time.Now(), Path: path, Err: err})
	}
}
