package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/jsonviz/pkg/expansion"
	"github.com/matzehuels/jsonviz/pkg/hierarchy"
	"github.com/matzehuels/jsonviz/pkg/materialize"
	"github.com/matzehuels/jsonviz/pkg/value"
)

func visible(t *testing.T, src string, expand ...string) *materialize.Node {
	t.Helper()
	raw, err := value.DecodeJSON([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	tree, err := hierarchy.Build(raw)
	if err != nil {
		t.Fatal(err)
	}
	set := expansion.New()
	for _, p := range expand {
		set.Expand(p)
	}
	return materialize.Materialize(tree, set)
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func find(t *testing.T, l *Layout, path string) *Box {
	t.Helper()
	b, ok := l.Find(path)
	if !ok {
		t.Fatalf("no box for %q", path)
	}
	return b
}

func TestSize(t *testing.T) {
	opts := DefaultOptions()
	tests := []struct {
		name  string
		src   string
		wantW float64
		wantH float64
	}{
		{"short rows use min width", `{"a":1,"b":{"c":2}}`, 180, 3*18 + 24 + 5.4},
		{"empty object", `{}`, 180, 18 + 24 + 5.4},
		{"long row widens", `{"k":"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}`, 3*7.5 + 33*7.5 + 24, 2*18 + 24 + 5.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := opts.Size(visible(t, tt.src))
			if !near(w, tt.wantW) || !near(h, tt.wantH) {
				t.Errorf("Size = %v x %v, want %v x %v", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestSizeClampsToMaxWidth(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}
	w, _ := DefaultOptions().Size(visible(t, `{"k":"`+string(long)+`"}`))
	if w != DefaultMaxWidth {
		t.Errorf("width = %v, want %v", w, DefaultMaxWidth)
	}
}

func TestTextWidthCountsUTF16Units(t *testing.T) {
	o := DefaultOptions()
	if got := o.TextWidth("é"); got != 7.5 {
		t.Errorf("TextWidth(é) = %v", got)
	}
	if got := o.TextWidth("😀"); got != 15 {
		t.Errorf("TextWidth(emoji) = %v", got)
	}
}

func TestBuildSingleChild(t *testing.T) {
	l := Build(visible(t, `{"a":1,"b":{"c":2}}`), Options{})

	if len(l.Boxes) != 2 {
		t.Fatalf("got %d boxes, want 2", len(l.Boxes))
	}
	root := l.Root
	if root.X != 0 || root.Y != 0 {
		t.Errorf("root at (%v, %v), want origin", root.X, root.Y)
	}
	b := find(t, l, "(root)/b")
	if b.X != 280 || b.Y != 0 || b.Depth != 1 {
		t.Errorf("b at (%v, %v) depth %d", b.X, b.Y, b.Depth)
	}
	if b.Parent != root || b.Height != 18+24+5.4 {
		t.Errorf("b = %+v", b)
	}
}

func TestBuildSiblingSpacing(t *testing.T) {
	l := Build(visible(t, `{"a":{},"b":{}}`), DefaultOptions())

	a := find(t, l, "(root)/a")
	b := find(t, l, "(root)/b")
	if !near(a.Y, -110) || !near(b.Y, 110) {
		t.Errorf("siblings at %v and %v, want -110 and 110", a.Y, b.Y)
	}
	if l.Root.Y != 0 {
		t.Errorf("parent must be centered over its children, got %v", l.Root.Y)
	}
}

func TestBuildCousinSpacing(t *testing.T) {
	l := Build(visible(t, `{"a":{"x":{}},"b":{"y":{}}}`, "(root)/a", "(root)/b"), DefaultOptions())

	x := find(t, l, "(root)/a/x")
	y := find(t, l, "(root)/b/y")
	if x.X != 560 || y.X != 560 {
		t.Errorf("depth-2 X = %v, %v, want 560", x.X, y.X)
	}
	if gap := y.Y - x.Y; !near(gap, 1.2*220) {
		t.Errorf("cousin gap = %v, want %v", gap, 1.2*220)
	}
}

func TestBuildRowOrder(t *testing.T) {
	l := Build(visible(t, `[{"n":1},2,{"n":3}]`), DefaultOptions())

	first := find(t, l, "(root)/0")
	last := find(t, l, "(root)/2")
	if first.Y >= last.Y {
		t.Errorf("items out of order: %v >= %v", first.Y, last.Y)
	}
	var paths []string
	for _, b := range l.Boxes {
		paths = append(paths, b.Node.Path)
	}
	want := []string{"(root)", "(root)/0", "(root)/2"}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("box order = %v, want %v", paths, want)
		}
	}
}

func TestRowY(t *testing.T) {
	l := Build(visible(t, `{"a":1,"b":{"c":2}}`), DefaultOptions())
	root := l.Root

	top := -(3*18 + 24 + 5.4) / 2
	if !near(root.Top(), top) {
		t.Fatalf("Top = %v, want %v", root.Top(), top)
	}
	if got, want := l.RowY(root, 0), top+12+18+5.4; !near(got, want) {
		t.Errorf("RowY(0) = %v, want %v", got, want)
	}
	if got, want := l.RowY(root, 1)-l.RowY(root, 0), 18.0; !near(got, want) {
		t.Errorf("row step = %v, want %v", got, want)
	}
	if got, want := l.TitleY(root), top+12+5; !near(got, want) {
		t.Errorf("TitleY = %v, want %v", got, want)
	}
}

func TestBounds(t *testing.T) {
	l := Build(visible(t, `{"a":{},"b":{}}`), DefaultOptions())
	r := l.Bounds()

	if r.X != 0 || !near(r.W, 280+180) {
		t.Errorf("horizontal bounds = %v..%v", r.X, r.X+r.W)
	}
	h := 18 + 24 + 5.4
	if !near(r.Y, -110-h/2) || !near(r.Y+r.H, 110+h/2) {
		t.Errorf("vertical bounds = %v..%v", r.Y, r.Y+r.H)
	}
	if r.Empty() {
		t.Error("bounds must not be empty")
	}
}

func TestRectUnion(t *testing.T) {
	got := Rect{X: 0, Y: 0, W: 10, H: 10}.Union(Rect{X: -5, Y: 5, W: 10, H: 10})
	want := Rect{X: -5, Y: 0, W: 15, H: 15}
	if got != want {
		t.Errorf("Union = %+v, want %+v", got, want)
	}
	if cx, cy := want.Center(); cx != 2.5 || cy != 7.5 {
		t.Errorf("Center = %v, %v", cx, cy)
	}
}
