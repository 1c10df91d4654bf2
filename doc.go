/*
Package deepwatch observes nested data and reports every mutation with its full path.

Plain records (map[string]any) and sequences ([]any) are wrapped in live views.
Writes through a view, at any depth, are applied in place and delivered
synchronously to subscribers as change or delete events.

# Key Features

  - Deep paths: every event carries the location of the mutation from the root.
  - Sequence operations: Push, Pop, Shift, Unshift, Splice, SortFunc and Reverse report one event per slot whose occupant changed.
  - Ownership: a container lives in one place of a tree; assigning it twice fails with ErrCycle.
  - Silent writes: Observer.SetValue can apply a write without announcing it.
  - Key safety: keys that are dangerous to JavaScript clients (__proto__, constructor, ...) are never exposed.

# Usage

	package main

	import (
		"fmt"
		"log"

		"github.com/aretw0/deepwatch"
	)

	func main() {
		view, obs, err := deepwatch.Observe(map[string]any{"editor": map[string]any{"tabSize": 2}})
		if err != nil {
			log.Fatal(err)
		}

		obs.Subscribe(func(ev deepwatch.Event) {
			fmt.Println(ev.Kind, ev.Path, ev.Value)
		})

		_ = view.Field("editor").Set("tabSize", 4) // changed editor.tabSize 4
	}

# Packages

  - pkg/observe: the observation engine.
  - pkg/domain: paths, events, hooks and errors.
  - pkg/session: named trees guarded for use from several goroutines.
  - pkg/observability: Prometheus metrics fed by hooks and events.

The deepwatch command (cmd/deepwatch) applies mutation scripts to YAML or JSON
documents and prints the resulting event stream.
*/
package deepwatch
