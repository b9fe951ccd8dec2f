package sink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/jsonviz/pkg/scene"
)

// RenderDOT converts a scene to Graphviz DOT. Each box becomes a record-like
// HTML table with one port per row, and each edge leaves the port of the row
// that names its child. Graphviz does its own placement.
func RenderDOT(s *scene.Scene) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=plain, fontname=\"monospace\", fontsize=11];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("\n")

	for _, b := range s.Boxes {
		fmt.Fprintf(&buf, "  %q [label=<%s>];\n", b.ID, dotLabel(b))
	}

	buf.WriteString("\n")
	for _, e := range s.Edges {
		fmt.Fprintf(&buf, "  %q:r%d:e -> %q:w;\n", e.From, e.Row, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(b scene.Box) string {
	var sb strings.Builder
	border := "#4285F4"
	if b.Kind == "array" {
		border = "#34A853"
	}
	fmt.Fprintf(&sb, `<table border="1" cellborder="0" cellspacing="0" cellpadding="3" color="%s">`, border)
	fmt.Fprintf(&sb, `<tr><td align="left"><b>%s</b></td></tr>`, dotEscape(b.Name))
	for _, r := range b.Rows {
		value := dotEscape(r.Value)
		if r.Kind == scene.RowLink {
			value = "<i>" + value + "</i>"
			if r.Dot != nil && r.Dot.Expanded {
				value += " ●"
			} else {
				value += " ○"
			}
		}
		fmt.Fprintf(&sb, `<tr><td align="left" port="r%d">%s: %s</td></tr>`, r.Index, dotEscape(r.Key), value)
	}
	sb.WriteString("</table>")
	return sb.String()
}

var dotReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func dotEscape(s string) string { return dotReplacer.Replace(s) }

// RenderGraphvizSVG lays out and renders DOT to SVG with Graphviz.
func RenderGraphvizSVG(ctx context.Context, dot string) ([]byte, error) {
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
