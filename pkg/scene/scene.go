package scene

import (
	"github.com/matzehuels/jsonviz/pkg/hierarchy"
	"github.com/matzehuels/jsonviz/pkg/layout"
	"github.com/matzehuels/jsonviz/pkg/materialize"
	"github.com/matzehuels/jsonviz/pkg/route"
)

// Default viewport size, used when the caller does not know the real one.
const (
	DefaultWidth  = 1200.0
	DefaultHeight = 800.0
)

// dividerInset is the gap between a box's left edge and its row dividers.
const dividerInset = 4

// Row kinds as they appear in the scene.
const (
	RowField = "field"
	RowLink  = "link"
	RowItem  = "item"
)

// Scene is a complete drawable description of one pass.
type Scene struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Style  string  `json:"style,omitempty"`

	Boxes  []Box       `json:"boxes"`
	Edges  []Edge      `json:"edges"`
	Bounds layout.Rect `json:"bounds"`

	// Fit is the transform that fits Bounds into Width x Height.
	Fit Transform `json:"fit"`
	// View is the transform to draw with. It equals Fit unless the user
	// has panned or zoomed.
	View Transform `json:"view"`

	DotRadius float64 `json:"dot_radius"`
	Padding   float64 `json:"padding"`
}

// Box is one node box. X, Y is the top-left corner.
type Box struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Classname string `json:"classname,omitempty"`
	Expanded  bool   `json:"expanded"`
	Circular  bool   `json:"circular,omitempty"`
	Depth     int    `json:"depth"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	TitleX float64 `json:"title_x"`
	TitleY float64 `json:"title_y"`

	Rows []Row `json:"rows"`
}

// Row is one line below a box title. Y is the vertical center of its text;
// the row cell spans Top to Top+Height.
type Row struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	Key   string `json:"key"`
	Value string `json:"value"`

	TextX  float64 `json:"text_x"`
	Y      float64 `json:"y"`
	Top    float64 `json:"top"`
	Height float64 `json:"height"`

	// Dividers run from DividerX1 to DividerX2, clear of the dot column.
	DividerX1 float64 `json:"divider_x1"`
	DividerX2 float64 `json:"divider_x2"`

	Dot *Dot `json:"dot,omitempty"`
}

// Label returns the full row text, "key: value".
func (r Row) Label() string { return r.Key + ": " + r.Value }

// Dot is the toggle affordance of a row naming a container child.
type Dot struct {
	Path     string  `json:"path"`
	Expanded bool    `json:"expanded"`
	CX       float64 `json:"cx"`
	CY       float64 `json:"cy"`
	R        float64 `json:"r"`
}

// Edge is a drawn parent to child link.
type Edge struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Row  int     `json:"row"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	X2   float64 `json:"x2"`
	Y2   float64 `json:"y2"`
	Path string  `json:"path"`
}

// Options configures [Build].
type Options struct {
	Width  float64
	Height float64
	Style  string

	// View, when set, replaces the fitted transform.
	View *Transform
}

// SetDefaults fills a zero viewport size.
func (o *Options) SetDefaults() {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
}

// Build describes l and its links as a scene.
func Build(l *layout.Layout, links []route.Link, opts Options) *Scene {
	opts.SetDefaults()
	o := l.Options

	s := &Scene{
		Width:     opts.Width,
		Height:    opts.Height,
		Style:     opts.Style,
		Boxes:     make([]Box, 0, len(l.Boxes)),
		Edges:     make([]Edge, 0, len(links)),
		DotRadius: o.DotRadius,
		Padding:   o.Padding,
	}

	for _, b := range l.Boxes {
		s.Boxes = append(s.Boxes, buildBox(l, b))
	}
	for _, lk := range links {
		s.Edges = append(s.Edges, Edge{
			From: lk.From.Node.Path,
			To:   lk.To.Node.Path,
			Row:  lk.Row,
			X1:   lk.X1,
			Y1:   lk.Y1,
			X2:   lk.X2,
			Y2:   lk.Y2,
			Path: lk.Path(),
		})
	}

	s.Bounds = bounds(s)
	s.Fit = Fit(s.Bounds, s.Width, s.Height)
	s.View = s.Fit
	if opts.View != nil {
		s.View = *opts.View
	}
	return s
}

func buildBox(l *layout.Layout, b *layout.Box) Box {
	o := l.Options
	n := b.Node
	out := Box{
		ID:        n.Path,
		Name:      n.Name,
		Kind:      string(n.Kind),
		Classname: n.Classname,
		Expanded:  n.Included,
		Circular:  n.Circular,
		Depth:     b.Depth,
		X:         b.X,
		Y:         b.Top(),
		Width:     b.Width,
		Height:    b.Height,
		TitleX:    b.X + o.Padding,
		TitleY:    l.TitleY(b),
	}

	for i, r := range n.Rows() {
		y := l.RowY(b, i)
		row := Row{
			Index:  i,
			Kind:   rowKind(r.Kind),
			Key:    r.Name,
			Value:  r.ValueText(),
			TextX:  b.X + o.Padding + 10,
			Y:      y,
			Top:    y - o.LineHeight/2,
			Height: o.LineHeight,

			DividerX1: b.X + dividerInset,
			DividerX2: b.Right() - 3*o.DotRadius,
		}
		if r.Kind == materialize.RowLink {
			row.Dot = &Dot{
				Path:     r.Child.Path,
				Expanded: r.Child.Included,
				CX:       b.Right(),
				CY:       y,
				R:        o.DotRadius,
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func rowKind(k materialize.RowKind) string {
	switch k {
	case materialize.RowLink:
		return RowLink
	case materialize.RowItem:
		return RowItem
	}
	return RowField
}

// bounds covers every box and every dot.
func bounds(s *Scene) layout.Rect {
	var r layout.Rect
	for i, b := range s.Boxes {
		br := layout.Rect{X: b.X, Y: b.Y, W: b.Width, H: b.Height}
		if i == 0 {
			r = br
		} else {
			r = r.Union(br)
		}
		for _, row := range b.Rows {
			if d := row.Dot; d != nil {
				r = r.Union(layout.Rect{X: d.CX - d.R, Y: d.CY - d.R, W: 2 * d.R, H: 2 * d.R})
			}
		}
	}
	return r
}

// Box returns the box with the given node path.
func (s *Scene) Box(path string) (Box, bool) {
	for _, b := range s.Boxes {
		if b.ID == path {
			return b, true
		}
	}
	return Box{}, false
}

// Dots returns every dot in drawing order.
func (s *Scene) Dots() []Dot {
	var out []Dot
	for _, b := range s.Boxes {
		for _, r := range b.Rows {
			if r.Dot != nil {
				out = append(out, *r.Dot)
			}
		}
	}
	return out
}

// IsPlaceholder reports whether the scene shows the empty fallback tree.
func (s *Scene) IsPlaceholder() bool {
	return len(s.Boxes) == 1 && s.Boxes[0].Name == hierarchy.PlaceholderName &&
		s.Boxes[0].ID == hierarchy.PlaceholderName && len(s.Boxes[0].Rows) == 0
}
