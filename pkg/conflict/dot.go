package conflict

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/trackbump/pkg/feature"
)

// palette cycles through fill colours by column.
var palette = []string{
	"#a6cee3", "#b2df8a", "#fb9a99", "#fdbf6f",
	"#cab2d6", "#ffff99", "#8dd3c7", "#bebada",
}

// ColumnColor returns the fill colour used for column c.
func ColumnColor(c int) string {
	if c < 0 {
		return "white"
	}
	return palette[c%len(palette)]
}

// Edge is a pair of overlapping features.
type Edge struct {
	From, To *feature.Feature
}

// Edges returns every overlapping pair among the visible features of fs,
// each once, ordered by the position of the first feature in fs.
func Edges(fs []*feature.Feature) ([]Edge, error) {
	idx, err := feature.NewIndex(fs)
	if err != nil {
		return nil, err
	}
	pos := make(map[*feature.Feature]int, len(fs))
	for i, f := range fs {
		pos[f] = i
	}

	var edges []Edge
	for i, f := range fs {
		if f.Hidden {
			continue
		}
		for _, o := range idx.Overlapping(f.Extent) {
			if pos[o] > i {
				edges = append(edges, Edge{From: f, To: o})
			}
		}
	}
	return edges, nil
}

// Conflicts returns the overlapping pairs that were placed in the same
// column. It is empty for any layout produced by the engine.
func Conflicts(fs []*feature.Feature) ([]Edge, error) {
	edges, err := Edges(fs)
	if err != nil {
		return nil, err
	}
	var out []Edge
	for _, e := range edges {
		if e.From.Layout.Column == e.To.Layout.Column {
			out = append(out, e)
		}
	}
	return out, nil
}

// ToDOT converts the overlap graph of fs to Graphviz DOT.
// Hidden features are omitted. Edges between features sharing a column are
// drawn red.
func ToDOT(name string, fs []*feature.Feature) (string, error) {
	edges, err := Edges(fs)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "graph %q {\n", name)
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"SF Mono, Menlo, monospace\", fontsize=12];\n")
	buf.WriteString("\n")

	for _, f := range fs {
		if f.Hidden {
			continue
		}
		label := fmt.Sprintf("%s\n%s\ncol %d", displayName(f), f.Extent, f.Layout.Column)
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q];\n", f.ID, label, ColumnColor(f.Layout.Column))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		if e.From.Layout.Column == e.To.Layout.Column {
			fmt.Fprintf(&buf, "  %q -- %q [color=red, penwidth=2];\n", e.From.ID, e.To.ID)
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.From.ID, e.To.ID)
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func displayName(f *feature.Feature) string {
	if f.Name != "" {
		return f.Name
	}
	return f.ID
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
