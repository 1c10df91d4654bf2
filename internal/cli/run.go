package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/aretw0/deepwatch/internal/presentation/graph"
	"github.com/aretw0/deepwatch/internal/presentation/tui"
	"github.com/aretw0/deepwatch/pkg/domain"
	"github.com/aretw0/deepwatch/pkg/observability"
	"github.com/aretw0/deepwatch/pkg/observe"
	"github.com/aretw0/deepwatch/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// ApplyOptions contains the configuration of the apply command.
type ApplyOptions struct {
	DocumentPath string
	ScriptPath   string
	Debug        bool
	Quiet        bool // Suppress event lines
	NoColor      bool
	Format       OutputFormat
	Metrics      bool // Dump Prometheus metrics to Stderr when done
	Graph        bool // Append a Mermaid graph of the tree with touched containers highlighted
}

// Apply observes the document, runs the script against it printing one line per
// event to stdout, then writes the final document to stdout.
func Apply(ctx context.Context, opts ApplyOptions, stdout, stderr io.Writer) error {
	logger := createLogger(opts.Debug, stderr)

	doc, err := LoadDocument(opts.DocumentPath)
	if err != nil {
		return err
	}
	ops, err := LoadScript(opts.ScriptPath)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return err
	}

	mgr := session.NewManager(
		session.WithLogger(logger),
		session.WithObserverOptions(
			observe.WithLogger(logger),
			observe.WithHooks(observability.ChainHooks(metrics.Hooks(), createDebugHooks(logger))),
		),
	)
	name := filepath.Base(opts.DocumentPath)
	if err := mgr.Open(ctx, name, doc); err != nil {
		return err
	}

	printer := tui.NewEventPrinter(stdout, !opts.NoColor)
	overlay := &graph.GraphOverlay{}
	var chart string
	runErr := mgr.WithLock(ctx, name, func(ctx context.Context, obs *observe.Observer) error {
		metrics.Attach(obs)
		if !opts.Quiet {
			obs.Subscribe(printer.Print)
		}
		obs.Subscribe(func(ev domain.Event) {
			overlay.Touched = append(overlay.Touched, ev.Path.Parent())
			overlay.Last = ev.Path.Parent()
		})
		logger.Debug("Script Started", "document", name, "ops", len(ops))
		err := RunScript(ctx, obs, ops)
		if opts.Graph {
			chart = graph.GenerateMermaid(containers(obs), overlay)
		}
		return err
	})

	final, err := mgr.Close(context.WithoutCancel(ctx), name)
	if err != nil {
		return err
	}
	if runErr != nil {
		if err := handleExecutionError(runErr); err != nil {
			return err
		}
		printSystemMessage(stderr, "Interrupted, writing the document as it stands.")
	}

	if !opts.Quiet {
		printer.Separator()
	}
	if err := WriteDocument(stdout, final, opts.Format); err != nil {
		return err
	}
	if opts.Graph {
		fmt.Fprint(stdout, "---\n", chart)
	}
	if opts.Metrics {
		return dumpMetrics(stderr, reg)
	}
	return nil
}

// Paths prints the path of every container observed in the document, or a
// Mermaid graph of them.
func Paths(documentPath string, w io.Writer, mermaid bool) error {
	doc, err := LoadDocument(documentPath)
	if err != nil {
		return err
	}
	obs, err := observe.New(doc)
	if err != nil {
		return err
	}
	if mermaid {
		fmt.Fprint(w, graph.GenerateMermaid(containers(obs), nil))
		return nil
	}
	for _, p := range obs.Paths() {
		fmt.Fprintln(w, p.String())
	}
	return nil
}

func containers(obs *observe.Observer) []graph.Container {
	var out []graph.Container
	for _, p := range obs.Paths() {
		val, err := obs.View().Lookup(p...)
		if err != nil {
			continue
		}
		if v, ok := val.(*observe.View); ok {
			out = append(out, graph.Container{Path: p, Kind: v.Kind()})
		}
	}
	return out
}

func dumpMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
