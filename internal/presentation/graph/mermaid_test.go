package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/deepwatch/internal/presentation/graph"
	"github.com/aretw0/deepwatch/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name       string
		containers []graph.Container
		overlay    *graph.GraphOverlay
		contains   []string
		excludes   []string
	}{
		{
			name:       "Root Shape",
			containers: []graph.Container{{Path: domain.Path{}, Kind: domain.KindRecord}},
			contains:   []string{"root((\"$\"))"},
			excludes:   []string{"-->"},
		},
		{
			name: "Kind Shapes And Edges",
			containers: []graph.Container{
				{Path: domain.Path{}, Kind: domain.KindRecord},
				{Path: domain.Path{"editor"}, Kind: domain.KindRecord},
				{Path: domain.Path{"plugins"}, Kind: domain.KindSequence},
				{Path: domain.Path{"plugins", 0}, Kind: domain.KindRecord},
			},
			contains: []string{
				"root__editor[\"editor\"]",
				"root__plugins[[\"plugins\"]]",
				"root__plugins__0[\"plugins[0]\"]",
				"root --> root__editor",
				"root__plugins --> root__plugins__0",
			},
		},
		{
			name: "ID Sanitization",
			containers: []graph.Container{
				{Path: domain.Path{"path/to.file"}, Kind: domain.KindRecord},
				{Path: domain.Path{"hyphen-ated"}, Kind: domain.KindRecord},
			},
			contains: []string{"root__path_to_file", "root__hyphen_ated"},
		},
		{
			name: "Overlay",
			containers: []graph.Container{
				{Path: domain.Path{}, Kind: domain.KindRecord},
				{Path: domain.Path{"a"}, Kind: domain.KindRecord},
			},
			overlay: &graph.GraphOverlay{
				Touched: []domain.Path{{}, {"a"}, {"a"}},
				Last:    domain.Path{"a"},
			},
			contains: []string{
				"classDef touched",
				"class root touched;",
				"class root__a touched;",
				"class root__a last;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.containers, tt.overlay)
			assert.True(t, strings.HasPrefix(got, "graph TD\n"))
			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, got, s)
			}
			if tt.overlay != nil {
				assert.Equal(t, 1, strings.Count(got, "class root__a touched;"))
			}
		})
	}
}
