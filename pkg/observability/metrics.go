package observability

import (
	"errors"
	"fmt"

	"github.com/aretw0/deepwatch/pkg/domain"
	"github.com/aretw0/deepwatch/pkg/observe"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes observer activity as Prometheus collectors.
// One Metrics value can serve any number of trees; the live node gauge is the
// sum over all of them.
type Metrics struct {
	events   *prometheus.CounterVec
	adopted  prometheus.Counter
	released prometheus.Counter
	rejected *prometheus.CounterVec
	live     prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deepwatch_events_total",
				Help: "Total number of change events emitted",
			},
			[]string{"kind"},
		),
		adopted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deepwatch_nodes_adopted_total",
			Help: "Total number of containers that became observed",
		}),
		released: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deepwatch_nodes_released_total",
			Help: "Total number of nodes torn down",
		}),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deepwatch_writes_rejected_total",
				Help: "Total number of writes that failed",
			},
			[]string{"reason"},
		),
		live: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "deepwatch_live_nodes",
			Help: "Number of observed containers currently alive",
		}),
	}
	for _, c := range []prometheus.Collector{m.events, m.adopted, m.released, m.rejected, m.live} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks feeding the node and rejection metrics.
// Pass them to observe.WithHooks, combined with others through ChainHooks.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAdopt: func(*domain.NodeEvent) {
			m.adopted.Inc()
			m.live.Inc()
		},
		OnRelease: func(*domain.NodeEvent) {
			m.released.Inc()
			m.live.Dec()
		},
		OnReject: func(e *domain.RejectEvent) {
			m.rejected.WithLabelValues(Reason(e.Err)).Inc()
		},
	}
}

// Attach counts the events of obs until the returned subscription is cancelled.
func (m *Metrics) Attach(obs *observe.Observer) *observe.Subscription {
	return obs.Subscribe(func(ev domain.Event) {
		m.events.WithLabelValues(string(ev.Kind)).Inc()
	})
}

// Reason maps a write error to a short metric label.
func Reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrCycle):
		return "cycle"
	case errors.Is(err, domain.ErrUnsupportedContainer):
		return "unsupported_container"
	case errors.Is(err, domain.ErrInvalidLength):
		return "invalid_length"
	case errors.Is(err, domain.ErrIndexOutOfRange):
		return "index_out_of_range"
	case errors.Is(err, domain.ErrInvalidPath):
		return "invalid_path"
	case errors.Is(err, domain.ErrDetached):
		return "detached"
	}
	return "other"
}

// ChainHooks merges several hook sets; callbacks run in argument order.
func ChainHooks(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var adopt, release, move []func(*domain.NodeEvent)
	var reject []func(*domain.RejectEvent)
	for _, h := range sets {
		if h.OnAdopt != nil {
			adopt = append(adopt, h.OnAdopt)
		}
		if h.OnRelease != nil {
			release = append(release, h.OnRelease)
		}
		if h.OnMove != nil {
			move = append(move, h.OnMove)
		}
		if h.OnReject != nil {
			reject = append(reject, h.OnReject)
		}
	}

	var out domain.LifecycleHooks
	if len(adopt) > 0 {
		out.OnAdopt = fanOut(adopt)
	}
	if len(release) > 0 {
		out.OnRelease = fanOut(release)
	}
	if len(move) > 0 {
		out.OnMove = fanOut(move)
	}
	if len(reject) > 0 {
		out.OnReject = fanOut(reject)
	}
	return out
}

func fanOut[E any](fns []func(*E)) func(*E) {
	return func(e *E) {
		for _, fn := range fns {
			fn(e)
		}
	}
}
