package observe

import (
	"slices"

	"github.com/aretw0/deepwatch/pkg/domain"
)

// Handler receives events synchronously, in the order mutations happen.
// A handler may mutate the tree it observes; the resulting events are delivered
// before the outer write returns.
type Handler func(domain.Event)

type subscriber struct {
	id      uint64
	match   func(domain.Event) bool
	handler Handler
	gone    bool
}

// channel is the event channel held by the root. Subscribers are called in
// registration order.
type channel struct {
	nextID uint64
	subs   []*subscriber
}

func (c *channel) add(match func(domain.Event) bool, h Handler) *subscriber {
	c.nextID++
	s := &subscriber{id: c.nextID, match: match, handler: h}
	c.subs = append(c.subs, s)
	return s
}

func (c *channel) remove(id uint64) {
	c.subs = slices.DeleteFunc(c.subs, func(s *subscriber) bool {
		if s.id == id {
			s.gone = true
			return true
		}
		return false
	})
}

func (c *channel) emit(ev domain.Event) {
	// Snapshot so handlers can subscribe and unsubscribe while we dispatch.
	for _, s := range slices.Clone(c.subs) {
		if s.gone || (s.match != nil && !s.match(ev)) {
			continue
		}
		s.handler(ev)
	}
}

// Subscription is an active event handler registration.
type Subscription struct {
	id uint64
	ch *channel
}

// Unsubscribe removes the handler. It is safe to call more than once, including
// from inside a handler.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.ch == nil {
		return
	}
	s.ch.remove(s.id)
	s.ch = nil
}
