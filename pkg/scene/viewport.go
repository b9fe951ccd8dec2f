package scene

import (
	"fmt"
	"math"

	"github.com/matzehuels/jsonviz/pkg/layout"
)

// Zoom limits for user gestures.
const (
	MinZoom = 0.1
	MaxZoom = 3.0

	// fitMargin is the share of the viewport the fitted drawing fills.
	fitMargin = 0.9
)

// Transform is a uniform scale K followed by a translation X, Y.
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the transform that changes nothing.
var Identity = Transform{K: 1}

// String returns the SVG transform attribute value.
func (t Transform) String() string {
	return fmt.Sprintf("translate(%s,%s) scale(%s)", num(t.X), num(t.Y), num(t.K))
}

// Apply maps a drawing point to the viewport.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.K + t.X, y*t.K + t.Y
}

// Fit returns the transform that scales bounds to 90% of a width x height
// viewport and centers it. An empty bounds rectangle yields [Identity].
func Fit(bounds layout.Rect, width, height float64) Transform {
	if bounds.W == 0 || bounds.H == 0 {
		return Identity
	}
	k := math.Min(width/bounds.W, height/bounds.H) * fitMargin
	cx, cy := bounds.Center()
	return Transform{
		X: width/2 - k*cx,
		Y: height/2 - k*cy,
		K: k,
	}
}

// Viewport tracks the transform a user sees across passes.
type Viewport struct {
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Transform Transform `json:"transform"`

	// Manual is set once the user pans or zooms, and cleared by Fit.
	Manual bool `json:"manual"`
}

// NewViewport returns an untouched viewport of the given size.
func NewViewport(width, height float64) *Viewport {
	o := Options{Width: width, Height: height}
	o.SetDefaults()
	return &Viewport{Width: o.Width, Height: o.Height, Transform: Identity}
}

// Fit fits bounds into the viewport and forgets any manual pan or zoom.
func (v *Viewport) Fit(bounds layout.Rect) {
	v.Transform = Fit(bounds, v.Width, v.Height)
	v.Manual = false
}

// Resize changes the viewport size. The transform is kept.
func (v *Viewport) Resize(width, height float64) {
	if width > 0 {
		v.Width = width
	}
	if height > 0 {
		v.Height = height
	}
}

// Pan moves the drawing by dx, dy viewport units.
func (v *Viewport) Pan(dx, dy float64) {
	v.Transform.X += dx
	v.Transform.Y += dy
	v.Manual = true
}

// ZoomAt multiplies the scale by factor while keeping the viewport point
// x, y fixed. The resulting scale is clamped to [MinZoom, MaxZoom].
func (v *Viewport) ZoomAt(x, y, factor float64) {
	t := v.Transform
	if t.K == 0 {
		t = Identity
	}
	k := ClampZoom(t.K * factor)
	// Drawing point under the cursor stays put.
	px, py := (x-t.X)/t.K, (y-t.Y)/t.K
	v.Transform = Transform{X: x - px*k, Y: y - py*k, K: k}
	v.Manual = true
}

// Set replaces the transform as reported by the client. The scale is
// clamped.
func (v *Viewport) Set(t Transform) {
	t.K = ClampZoom(t.K)
	v.Transform = t
	v.Manual = true
}

// ClampZoom limits k to [MinZoom, MaxZoom].
func ClampZoom(k float64) float64 {
	if math.IsNaN(k) {
		return 1
	}
	return math.Max(MinZoom, math.Min(MaxZoom, k))
}

func num(f float64) string {
	s := fmt.Sprintf("%.4f", f)
	for s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	if s == "-0" {
		return "0"
	}
	return s
}
