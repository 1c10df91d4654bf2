package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/deepwatch/pkg/domain"
)

// Container is one observed container of a tree.
type Container struct {
	Path domain.Path
	Kind domain.Kind
}

// GraphOverlay contains mutation data to visualize on the graph.
type GraphOverlay struct {
	Touched []domain.Path // Containers whose keys changed
	Last    domain.Path   // Container of the most recent event
}

// GenerateMermaid produces a Mermaid flowchart of the container tree.
// Parents are linked to their children; shapes follow the container kind:
// - Root: ((Circle))
// - Sequence: [[Subroutine]]
// - Record: [Rectangle]
// It also applies overlay styles (Touched/Last) if provided.
func GenerateMermaid(containers []Container, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, c := range containers {
		id := mermaidID(c.Path)

		opener, closer := "[", "]"
		switch {
		case len(c.Path) == 0:
			opener, closer = "((", "))"
		case c.Kind == domain.KindSequence:
			opener, closer = "[[", "]]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, label(c.Path), closer))

		if len(c.Path) > 0 {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", mermaidID(c.Path.Parent()), id))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast regardless of theme
		sb.WriteString("    classDef touched fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef last fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, p := range overlay.Touched {
			id := mermaidID(p)
			if !seen[id] {
				seen[id] = true
				sb.WriteString(fmt.Sprintf("    class %s touched;\n", id))
			}
		}
		if overlay.Last != nil {
			sb.WriteString(fmt.Sprintf("    class %s last;\n", mermaidID(overlay.Last)))
		}
	}

	return sb.String()
}

func label(p domain.Path) string {
	if len(p) == 0 {
		return "$"
	}
	return strings.ReplaceAll(p.String(), "\"", "'")
}

// mermaidID derives a stable identifier from a path. Segments are joined with
// "__" and every character outside [A-Za-z0-9_] is replaced by "_".
func mermaidID(p domain.Path) string {
	var sb strings.Builder
	sb.WriteString("root")
	for _, seg := range p {
		sb.WriteString("__")
		switch s := seg.(type) {
		case int:
			sb.WriteString(strconv.Itoa(s))
		default:
			sb.WriteString(sanitize(fmt.Sprint(s)))
		}
	}
	return sb.String()
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, s)
}
