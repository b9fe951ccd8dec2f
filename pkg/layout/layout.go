package layout

import (
	"math"

	"github.com/matzehuels/jsonviz/pkg/materialize"
)

// Box is the positioned box of one visible node.
type Box struct {
	Node     *materialize.Node
	Parent   *Box
	Children []*Box
	Depth    int

	// X, Y is the middle of the left edge.
	X, Y          float64
	Width, Height float64
}

// Top returns the Y coordinate of the top edge.
func (b *Box) Top() float64 { return b.Y - b.Height/2 }

// Bottom returns the Y coordinate of the bottom edge.
func (b *Box) Bottom() float64 { return b.Y + b.Height/2 }

// Right returns the X coordinate of the right edge.
func (b *Box) Right() float64 { return b.X + b.Width }

// Rect returns the box outline.
func (b *Box) Rect() Rect { return Rect{X: b.X, Y: b.Top(), W: b.Width, H: b.Height} }

// Layout is a positioned visible tree.
type Layout struct {
	Root    *Box
	Boxes   []*Box // pre-order, row order among siblings
	Options Options
}

// Build sizes and positions every node of the visible tree v.
func Build(v *materialize.Node, opts Options) *Layout {
	opts.SetDefaults()
	l := &Layout{Options: opts}
	l.Root = l.box(v, nil, 0)
	tidy(l.Root, opts)
	return l
}

func (l *Layout) box(n *materialize.Node, parent *Box, depth int) *Box {
	w, h := l.Options.Size(n)
	b := &Box{Node: n, Parent: parent, Depth: depth, Width: w, Height: h}
	l.Boxes = append(l.Boxes, b)
	for _, c := range n.Links() {
		b.Children = append(b.Children, l.box(c, b, depth+1))
	}
	return b
}

// Find returns the box of the node at path.
func (l *Layout) Find(path string) (*Box, bool) {
	for _, b := range l.Boxes {
		if b.Node.Path == path {
			return b, true
		}
	}
	return nil, false
}

// TitleY returns the baseline of the title text of b.
func (l *Layout) TitleY(b *Box) float64 {
	return b.Top() + l.Options.Padding + 5
}

// RowY returns the vertical center of row i of b, counting from the first
// row under the title. Row text, dots and outgoing links share this value.
func (l *Layout) RowY(b *Box, i int) float64 {
	o := l.Options
	return b.Top() + o.Padding + o.LineHeight + o.TitleSpacing() + float64(i)*o.LineHeight
}

// Bounds returns the smallest rectangle holding every box.
func (l *Layout) Bounds() Rect {
	var r Rect
	for i, b := range l.Boxes {
		if i == 0 {
			r = b.Rect()
			continue
		}
		r = r.Union(b.Rect())
	}
	return r
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Union returns the smallest rectangle holding r and o.
func (r Rect) Union(o Rect) Rect {
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.X+r.W, o.X+o.W)
	y1 := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Center returns the midpoint of r.
func (r Rect) Center() (x, y float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}
