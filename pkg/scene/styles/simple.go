package styles

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/jsonviz/pkg/scene"
)

// Palette holds the colors of a [Simple] style.
type Palette struct {
	Name       string
	Background string

	ObjectFill   string
	ObjectStroke string
	ArrayFill    string
	ArrayStroke  string
	Circular     string

	Title   string
	Key     string
	Value   string
	Kind    string
	Divider string
	Hover   string
	Edge    string

	DotCollapsed string
	DotExpanded  string
	DotHover     string
}

// Light is the default palette.
var Light = Palette{
	Name:         StyleLight,
	Background:   "#ffffff",
	ObjectFill:   "#ffffff",
	ObjectStroke: "#4285F4",
	ArrayFill:    "#f8f9fa",
	ArrayStroke:  "#34A853",
	Circular:     "#D93025",
	Title:        "#202124",
	Key:          "#5f6368",
	Value:        "#188038",
	Kind:         "#80868b",
	Divider:      "#e8eaed",
	Hover:        "#e8f0fe",
	Edge:         "#9AA0A6",
	DotCollapsed: "#9AA0A6",
	DotExpanded:  "#1a73e8",
	DotHover:     "#4285F4",
}

// Dark is a palette for dark backgrounds.
var Dark = Palette{
	Name:         StyleDark,
	Background:   "#1e1e1e",
	ObjectFill:   "#252526",
	ObjectStroke: "#4fc1ff",
	ArrayFill:    "#2d2d30",
	ArrayStroke:  "#73c991",
	Circular:     "#f48771",
	Title:        "#e8eaed",
	Key:          "#9cdcfe",
	Value:        "#ce9178",
	Kind:         "#a0a0a0",
	Divider:      "#3c3c3c",
	Hover:        "#094771",
	Edge:         "#6e7681",
	DotCollapsed: "#6e7681",
	DotExpanded:  "#4fc1ff",
	DotHover:     "#4285F4",
}

const (
	boxRadius  = 6
	cellRadius = 3
	fontFamily = "ui-monospace, SFMono-Regular, Menlo, Consolas, monospace"
	fontSize   = 12
	transition = "150ms ease"
)

// Simple draws flat rounded boxes colored by a [Palette].
type Simple struct {
	Palette Palette
}

func (s Simple) Name() string       { return s.Palette.Name }
func (s Simple) Background() string { return s.Palette.Background }

func (s Simple) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	fmt.Fprintf(buf, `    <marker id="arrowhead" viewBox="0 -5 10 10" refX="8" refY="0" orient="auto" markerWidth="6" markerHeight="6">`+
		`<path d="M0,-5L10,0L0,5" fill="%s"/></marker>`+"\n", s.Palette.Edge)
	buf.WriteString("  </defs>\n")
}

func (s Simple) RenderCSS(buf *bytes.Buffer) {
	p := s.Palette
	fmt.Fprintf(buf, `
    .node-title { font: bold %dpx %s; fill: %s; }
    .node-text { font: %dpx %s; fill: %s; }
    .field-key { fill: %s; }
    .field-value { fill: %s; }
    .link-kind { fill: %s; font-style: italic; }
    .object-box { fill: %s; stroke: %s; stroke-width: 1.5; }
    .array-box { fill: %s; stroke: %s; stroke-width: 1.5; }
    .circular .object-box, .circular .array-box { stroke: %s; stroke-dasharray: 4 2; }
    .cell-divider { stroke: %s; stroke-width: 1; }
    .cell-hover-area { fill: transparent; stroke: none; }
    .row.link .cell-hover-area { cursor: pointer; }
    .cell-background { fill: %s; opacity: 0; transition: opacity %s; }
    .row:hover .cell-background { opacity: 0.8; }
    .child-link-dot { cursor: pointer; transition: fill %s, r %s; }
    .child-link-dot.collapsed { fill: %s; }
    .child-link-dot.expanded { fill: %s; }
    .row:hover .child-link-dot { fill: %s; r: %s; }
    .link { fill: none; stroke: %s; stroke-width: 1.5; }`,
		fontSize, fontFamily, p.Title,
		fontSize, fontFamily, p.Key,
		p.Key, p.Value, p.Kind,
		p.ObjectFill, p.ObjectStroke,
		p.ArrayFill, p.ArrayStroke,
		p.Circular,
		p.Divider,
		p.Hover, transition,
		transition, transition,
		p.DotCollapsed, p.DotExpanded,
		p.DotHover, "5px",
		p.Edge)
}

func (s Simple) RenderBox(buf *bytes.Buffer, b scene.Box) {
	fmt.Fprintf(buf, `    <rect class="%s-box" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%d"/>`+"\n",
		b.Kind, b.X, b.Y, b.Width, b.Height, boxRadius)
	fmt.Fprintf(buf, `    <text class="node-title" x="%.2f" y="%.2f">%s</text>`+"\n",
		b.TitleX, b.TitleY, EscapeXML(b.Name))
	if b.Classname != "" {
		fmt.Fprintf(buf, "    <title>%s</title>\n", EscapeXML(b.Classname))
	}
}

func (s Simple) RenderRow(buf *bytes.Buffer, b scene.Box, r scene.Row, last bool) {
	x1, x2 := r.DividerX1, r.DividerX2
	fmt.Fprintf(buf, `    <g class="row %s" data-index="%d">`+"\n", r.Kind, r.Index)
	fmt.Fprintf(buf, `      <line class="cell-divider" x1="%.2f" x2="%.2f" y1="%.2f" y2="%.2f"/>`+"\n", x1, x2, r.Top, r.Top)
	if last {
		bottom := r.Top + r.Height
		fmt.Fprintf(buf, `      <line class="cell-divider" x1="%.2f" x2="%.2f" y1="%.2f" y2="%.2f"/>`+"\n", x1, x2, bottom, bottom)
	}
	fmt.Fprintf(buf, `      <rect class="cell-hover-area" x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n",
		b.X+1, r.Top, b.Width-2, r.Height)
	fmt.Fprintf(buf, `      <rect class="cell-background" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%d"/>`+"\n",
		b.X+1, r.Top, b.Width-2, r.Height, cellRadius)

	fmt.Fprintf(buf, `      <text class="node-text" x="%.2f" y="%.2f" dominant-baseline="middle">`, r.TextX, r.Y)
	fmt.Fprintf(buf, `<tspan class="field-key">%s: </tspan>`, EscapeXML(r.Key))
	if r.Kind == scene.RowLink {
		fmt.Fprintf(buf, `<tspan class="link-kind">%s</tspan>`, EscapeXML(r.Value))
	} else {
		fmt.Fprintf(buf, `<tspan class="field-value">%s</tspan>`, EscapeXML(r.Value))
	}
	buf.WriteString("</text>\n")

	if d := r.Dot; d != nil {
		fmt.Fprintf(buf, `      <circle class="child-link-dot %s" data-path="%s" data-cell-index="%d" cx="%.2f" cy="%.2f" r="%.2f"/>`+"\n",
			dotState(d.Expanded), EscapeXML(d.Path), r.Index, d.CX, d.CY, d.R)
	}
	buf.WriteString("    </g>\n")
}

func (s Simple) RenderEdge(buf *bytes.Buffer, e scene.Edge) {
	fmt.Fprintf(buf, `    <path class="link" data-from="%s" data-to="%s" d="%s" marker-end="url(#arrowhead)"/>`+"\n",
		EscapeXML(e.From), EscapeXML(e.To), e.Path)
}

func dotState(expanded bool) string {
	if expanded {
		return "expanded"
	}
	return "collapsed"
}
