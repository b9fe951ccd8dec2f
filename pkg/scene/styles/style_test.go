package styles

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/scene"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", StyleLight},
		{"light", StyleLight},
		{"dark", StyleDark},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Lookup(tt.name)
			if err != nil {
				t.Fatal(err)
			}
			if s.Name() != tt.want {
				t.Errorf("Name = %q, want %q", s.Name(), tt.want)
			}
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("neon")
	if !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Fatalf("err = %v, want INVALID_STYLE", err)
	}
	if msg := errors.UserMessage(err); !strings.Contains(msg, "light, dark") {
		t.Errorf("message %q should list the styles", msg)
	}
}

func TestRenderRow(t *testing.T) {
	s := Simple{Palette: Light}
	box := scene.Box{X: 0, Y: -20, Width: 180, Height: 40}
	link := scene.Row{
		Index: 1, Kind: scene.RowLink, Key: "a<b", Value: "object",
		TextX: 22, Y: 0, Top: -9, Height: 18, DividerX1: 4, DividerX2: 168,
		Dot: &scene.Dot{Path: "(root)/a<b", CX: 180, CY: 0, R: 4},
	}

	var buf bytes.Buffer
	s.RenderRow(&buf, box, link, true)
	out := buf.String()

	for _, want := range []string{
		`class="row link"`,
		`<tspan class="field-key">a&lt;b: </tspan>`,
		`<tspan class="link-kind">object</tspan>`,
		`class="child-link-dot collapsed" data-path="(root)/a&lt;b"`,
		`cx="180.00"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "cell-divider"); n != 2 {
		t.Errorf("last row should draw 2 dividers, got %d", n)
	}
}

func TestRenderRowField(t *testing.T) {
	var buf bytes.Buffer
	Simple{Palette: Dark}.RenderRow(&buf, scene.Box{Width: 180}, scene.Row{Kind: scene.RowField, Key: "n", Value: `"x"`}, false)
	out := buf.String()
	if strings.Contains(out, "circle") {
		t.Error("field rows have no dot")
	}
	if !strings.Contains(out, `<tspan class="field-value">&#34;x&#34;</tspan>`) {
		t.Errorf("value not escaped:\n%s", out)
	}
	if n := strings.Count(out, "cell-divider"); n != 1 {
		t.Errorf("got %d dividers, want 1", n)
	}
}

func TestRenderBoxClassname(t *testing.T) {
	var buf bytes.Buffer
	Simple{Palette: Light}.RenderBox(&buf, scene.Box{Name: "(root)", Kind: "array", Classname: "Point", Width: 180, Height: 40})
	out := buf.String()
	if !strings.Contains(out, `class="array-box"`) || !strings.Contains(out, "<title>Point</title>") {
		t.Errorf("unexpected box:\n%s", out)
	}
}
