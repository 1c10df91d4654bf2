package deepwatch_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/aretw0/deepwatch"
	"github.com/aretw0/deepwatch/pkg/domain"
)

// ExampleObserve shows nested writes and the events they produce.
func ExampleObserve() {
	view, obs, err := deepwatch.Observe(nil)
	if err != nil {
		log.Fatal(err)
	}
	obs.Subscribe(func(ev deepwatch.Event) {
		fmt.Println(ev.Kind, ev.Path, deepwatch.ToPlain(ev.Value))
	})

	_ = view.Set("o", map[string]any{"a": "aa"})
	_ = view.Field("o").Set("a", "bb")
	_ = view.Delete("o")

	// Output:
	// changed o map[a:aa]
	// changed o.a bb
	// deleted o <nil>
}

// ExampleView_Splice shows that moved elements produce one event per changed slot.
func ExampleView_Splice() {
	view, obs, err := deepwatch.Observe([]any{"a", "b", "c", "d"})
	if err != nil {
		log.Fatal(err)
	}
	obs.Subscribe(func(ev deepwatch.Event) {
		fmt.Println(ev.Path, ev.Value)
	})

	removed, _ := view.Splice(1, 2, "e")
	fmt.Println("removed", removed)
	fmt.Println(view)

	// Output:
	// [1] e
	// [2] d
	// length 3
	// removed [b c]
	// [a e d]
}

// ExampleObserver_SetValue shows a silent write.
func ExampleObserver_SetValue() {
	view, obs, err := deepwatch.Observe(map[string]any{"cursor": map[string]any{"line": 1}})
	if err != nil {
		log.Fatal(err)
	}
	obs.Subscribe(func(ev deepwatch.Event) {
		fmt.Println("event", ev.Path)
	})

	_ = obs.SetValue(deepwatch.Path{"cursor", "line"}, 42, false)
	line, _ := view.Lookup("cursor", "line")
	fmt.Println(line)

	// Output:
	// 42
}

// Example_cycle shows that a container can be in one place of a tree at a time.
func Example_cycle() {
	view, _, err := deepwatch.Observe(nil)
	if err != nil {
		log.Fatal(err)
	}
	shared := map[string]any{}

	_ = view.Set("a", shared)
	err = view.Set("b", shared)
	fmt.Println(errors.Is(err, domain.ErrCycle))

	_ = view.Delete("a")
	fmt.Println(view.Set("b", shared))

	// Output:
	// true
	// <nil>
}

// ExampleDecode shows decoding an observed record into a struct.
func ExampleDecode() {
	view, _, err := deepwatch.Observe(map[string]any{"name": "deepwatch", "retries": "3"})
	if err != nil {
		log.Fatal(err)
	}

	var cfg struct {
		Name    string
		Retries int
	}
	if err := deepwatch.Decode(view, &cfg); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%+v\n", cfg)

	// Output:
	// {Name:deepwatch Retries:3}
}
