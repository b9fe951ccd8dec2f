package scene

import (
	"testing"

	"github.com/matzehuels/jsonviz/pkg/layout"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name   string
		bounds layout.Rect
		w, h   float64
		want   Transform
	}{
		{
			name:   "width bound",
			bounds: layout.Rect{X: 0, Y: -50, W: 1000, H: 100},
			w:      500, h: 500,
			want: Transform{X: 250 - 0.45*500, Y: 250, K: 0.45},
		},
		{
			name:   "height bound",
			bounds: layout.Rect{X: 0, Y: 0, W: 100, H: 200},
			w:      400, h: 200,
			want: Transform{X: 200 - 0.9*50, Y: 100 - 0.9*100, K: 0.9},
		},
		{
			name:   "not clamped",
			bounds: layout.Rect{X: 0, Y: 0, W: 10, H: 10},
			w:      1000, h: 1000,
			want: Transform{X: 500 - 90*5, Y: 500 - 90*5, K: 90},
		},
		{
			name:   "empty",
			bounds: layout.Rect{},
			w:      100, h: 100,
			want: Identity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fit(tt.bounds, tt.w, tt.h)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) || !near(got.K, tt.want.K) {
				t.Errorf("Fit = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestZoomAtClamps(t *testing.T) {
	v := NewViewport(100, 100)
	v.ZoomAt(50, 50, 100)
	if v.Transform.K != MaxZoom {
		t.Errorf("K = %v, want %v", v.Transform.K, MaxZoom)
	}
	v.ZoomAt(50, 50, 0.0001)
	if v.Transform.K != MinZoom {
		t.Errorf("K = %v, want %v", v.Transform.K, MinZoom)
	}
	if !v.Manual {
		t.Error("zoom must mark the viewport as manual")
	}
}

func TestZoomAtKeepsPointFixed(t *testing.T) {
	v := NewViewport(100, 100)
	v.Pan(10, 20)
	before := v.Transform
	v.ZoomAt(40, 60, 2)

	// Drawing point under (40, 60) before the zoom.
	px, py := (40-before.X)/before.K, (60-before.Y)/before.K
	x, y := v.Transform.Apply(px, py)
	if !near(x, 40) || !near(y, 60) {
		t.Errorf("point moved to (%v, %v)", x, y)
	}
}

func TestViewportFitResetsManual(t *testing.T) {
	v := NewViewport(0, 0)
	if v.Width != DefaultWidth || v.Height != DefaultHeight {
		t.Fatalf("size = %vx%v", v.Width, v.Height)
	}
	v.Pan(5, 5)
	v.Fit(layout.Rect{W: 100, H: 100})
	if v.Manual {
		t.Error("Fit must clear Manual")
	}
}

func TestTransformString(t *testing.T) {
	got := Transform{X: 12.5, Y: -3, K: 0.9}.String()
	if want := "translate(12.5,-3) scale(0.9)"; got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}
