package tui

import (
	"bytes"
	"fmt"
	"io"

	"github.com/aretw0/deepwatch/pkg/domain"
	"github.com/aretw0/deepwatch/pkg/observe"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

// EventPrinter writes one line per change event:
//
//	changed  editor.tabSize = 4
//	deleted  editor.theme
type EventPrinter struct {
	w   io.Writer
	out *termenv.Output
}

// NewEventPrinter creates a printer. Without color the output is plain ASCII;
// with color the profile is detected from w.
func NewEventPrinter(w io.Writer, color bool) *EventPrinter {
	var opts []termenv.OutputOption
	if !color {
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}
	return &EventPrinter{w: w, out: termenv.NewOutput(w, opts...)}
}

// Print renders ev. Container values are materialized at the time of the event.
func (p *EventPrinter) Print(ev domain.Event) {
	switch ev.Kind {
	case domain.EventDeleted:
		kind := p.out.String(fmt.Sprintf("%-8s", ev.Kind)).Foreground(p.out.Color("1"))
		fmt.Fprintf(p.w, "%s %s\n", kind, ev.Path)
	default:
		kind := p.out.String(fmt.Sprintf("%-8s", ev.Kind)).Foreground(p.out.Color("2"))
		value := p.out.String(FlowValue(observe.ToPlain(ev.Value))).Faint()
		fmt.Fprintf(p.w, "%s %s = %s\n", kind, ev.Path, value)
	}
}

// Separator marks the end of the event stream.
func (p *EventPrinter) Separator() {
	fmt.Fprintln(p.w, "---")
}

// FlowValue renders v as single-line YAML.
func FlowValue(v any) string {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	setFlow(&node)
	out, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(bytes.TrimSpace(out))
}

func setFlow(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style |= yaml.FlowStyle
	}
	for _, c := range n.Content {
		setFlow(c)
	}
}
