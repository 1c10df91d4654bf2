package deepwatch

import (
	"log/slog"

	"github.com/aretw0/deepwatch/pkg/domain"
	"github.com/aretw0/deepwatch/pkg/observe"
)

// Version is the release of the library and the CLI.
const Version = "0.1.0"

type (
	// Observer is the root of an observed tree.
	Observer = observe.Observer
	// View is the live face of an observed container.
	View = observe.View
	// Event describes one mutation.
	Event = domain.Event
	// Path locates a value from the root.
	Path = domain.Path
	// Option configures an Observer.
	Option = observe.Option
)

// Undefined deletes a key when written and marks sequence holes.
var Undefined = domain.Undefined

// Observe starts observing initial, a map[string]any or []any (nil observes an
// empty record), and returns the root view with the observer behind it.
func Observe(initial any, opts ...Option) (*View, *Observer, error) {
	obs, err := observe.New(initial, opts...)
	if err != nil {
		return nil, nil, err
	}
	return obs.View(), obs, nil
}

// WithLogger sets the structured logger used for node bookkeeping.
func WithLogger(logger *slog.Logger) Option {
	return observe.WithLogger(logger)
}

// WithKeyFilter replaces the default key filter.
func WithKeyFilter(filter observe.KeyFilter) Option {
	return observe.WithKeyFilter(filter)
}

// WithHooks registers lifecycle callbacks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return observe.WithHooks(hooks)
}

// ToPlain materializes a view into inert data.
func ToPlain(v any) any {
	return observe.ToPlain(v)
}

// Decode materializes v and decodes it into out.
func Decode(v any, out any) error {
	return observe.Decode(v, out)
}
