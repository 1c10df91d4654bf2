package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/aretw0/deepwatch/internal/logging"
	"github.com/aretw0/deepwatch/pkg/observe"
)

var (
	// ErrNotFound is returned when no tree is open under the given name.
	ErrNotFound = errors.New("tree not found")

	// ErrExists is returned when opening a name that is already open.
	ErrExists = errors.New("tree already open")
)

// lockEntry holds the per-tree lock and the reference count.
// sem is a one-slot semaphore so waiting can be abandoned on context cancellation.
type lockEntry struct {
	sem  chan struct{}
	refs int
}

// Manager holds named observed trees and serializes access to each of them.
// A tree is single-goroutine; every read or write must happen inside WithLock.
// Lock entries are reference counted and dropped once no caller holds or waits on them.
type Manager struct {
	mu    sync.Mutex                   // Global lock for the maps
	trees map[string]*observe.Observer // Open trees
	locks map[string]*lockEntry        // Active locks

	observerOpts []observe.Option
	logger       *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithObserverOptions sets options applied to every tree opened by the Manager,
// before the options passed to Open.
func WithObserverOptions(opts ...observe.Option) Option {
	return func(m *Manager) {
		m.observerOpts = append(m.observerOpts, opts...)
	}
}

// NewManager creates an empty Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		trees:  make(map[string]*observe.Observer),
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must call release(name) once it no longer holds or waits on the entry.
func (m *Manager) acquire(name string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[name]
	if !exists {
		entry = &lockEntry{sem: make(chan struct{}, 1)}
		m.locks[name] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[name]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, name)
	}
}

// lock takes the tree lock for name and returns the function that gives it back.
func (m *Manager) lock(ctx context.Context, name string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entry := m.acquire(name)
	select {
	case entry.sem <- struct{}{}:
	case <-ctx.Done():
		m.release(name)
		return nil, ctx.Err()
	}
	return func() {
		<-entry.sem
		m.release(name)
	}, nil
}

// Open observes initial and registers the tree under name.
func (m *Manager) Open(ctx context.Context, name string, initial any, opts ...observe.Option) error {
	unlock, err := m.lock(ctx, name)
	if err != nil {
		return err
	}
	defer unlock()

	m.mu.Lock()
	_, exists := m.trees[name]
	m.mu.Unlock()
	if exists {
		return fmt.Errorf("%w: %s", ErrExists, name)
	}

	obs, err := observe.New(initial, append(slices.Clone(m.observerOpts), opts...)...)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}

	m.mu.Lock()
	m.trees[name] = obs
	m.mu.Unlock()
	m.logger.Debug("tree opened", "name", name, "size", obs.Size())
	return nil
}

// WithLock executes fn while holding the lock for the tree.
// Event handlers registered on the tree run inside the same critical section.
func (m *Manager) WithLock(ctx context.Context, name string, fn func(context.Context, *observe.Observer) error) error {
	unlock, err := m.lock(ctx, name)
	if err != nil {
		return err
	}
	defer unlock()

	m.mu.Lock()
	obs, ok := m.trees[name]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return fn(ctx, obs)
}

// Close removes the tree once current holders of its lock are done. The
// returned materialized snapshot is the final content of the tree.
func (m *Manager) Close(ctx context.Context, name string) (any, error) {
	var final any
	err := m.WithLock(ctx, name, func(_ context.Context, obs *observe.Observer) error {
		final = observe.ToPlain(obs.View())
		m.mu.Lock()
		delete(m.trees, name)
		m.mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.logger.Debug("tree closed", "name", name)
	return final, nil
}

// Names lists the open trees in sorted order.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.trees))
	for name := range m.trees {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
