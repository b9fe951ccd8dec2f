package sink

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/jsonviz/pkg/expansion"
	"github.com/matzehuels/jsonviz/pkg/hierarchy"
	"github.com/matzehuels/jsonviz/pkg/layout"
	"github.com/matzehuels/jsonviz/pkg/materialize"
	"github.com/matzehuels/jsonviz/pkg/route"
	"github.com/matzehuels/jsonviz/pkg/scene"
	"github.com/matzehuels/jsonviz/pkg/value"
)

func mustScene(src, style string) *scene.Scene {
	raw, err := value.DecodeJSON([]byte(src))
	if err != nil {
		panic(err)
	}
	tree, err := hierarchy.Build(raw)
	if err != nil {
		panic(err)
	}
	l := layout.Build(materialize.Materialize(tree, expansion.New()), layout.DefaultOptions())
	return scene.Build(l, route.Links(l), scene.Options{Style: style})
}

func TestRenderSVG(t *testing.T) {
	s := mustScene(`{"a":1,"b":{"c":2}}`, "")
	out, err := RenderSVG(s)
	if err != nil {
		t.Fatal(err)
	}
	svg := string(out)

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" width="1200" height="800" class="jsonviz" data-autofit="true">`,
		`<marker id="arrowhead" viewBox="0 -5 10 10" refX="8" refY="0" orient="auto" markerWidth="6" markerHeight="6">`,
		`transform="` + s.View.String() + `"`,
		`data-path="(root)/b"`,
		`class="object-box"`,
		`marker-end="url(#arrowhead)"`,
		`function jsonvizBind(svg, post)`,
		`var MIN = 0.1, MAX = 3, FIT = 0.9;`,
		`setTimeout(fit, 10)`,
		`e.stopPropagation()`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %s", want)
		}
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG not closed")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	s := mustScene(`[1,{"x":2}]`, "dark")
	out, err := RenderSVG(s, WithoutScript(), WithAutoFit(false))
	if err != nil {
		t.Fatal(err)
	}
	svg := string(out)
	if strings.Contains(svg, "<script") {
		t.Error("WithoutScript still embeds a script")
	}
	if !strings.Contains(svg, `data-autofit="false"`) {
		t.Error("auto-fit not disabled")
	}
	if !strings.Contains(svg, `fill="#1e1e1e"`) {
		t.Error("dark background missing")
	}
	if !strings.Contains(svg, `class="array-box"`) {
		t.Error("array box class missing")
	}
}

func TestRenderSVGUnknownStyle(t *testing.T) {
	if _, err := RenderSVG(mustScene(`{}`, "neon")); err == nil {
		t.Error("expected an error for an unknown style")
	}
}

func TestRenderHTML(t *testing.T) {
	s := mustScene(`{"a":1}`, "")
	out, err := RenderHTML(s, WithTitle("doc.json"), WithNonce("abc123"), WithSocket("/ws/42"), WithEditor())
	if err != nil {
		t.Fatal(err)
	}
	page := string(out)

	for _, want := range []string{
		`<title>doc.json</title>`,
		`script-src &#39;nonce-abc123&#39;`,
		`<script nonce="abc123">`,
		`var socketPath = "/ws/42";`,
		`<textarea id="editor"`,
		`data-cmd="expand-all"`,
		`function jsonvizBind(svg, post)`,
		`class="jsonviz"`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %s", want)
		}
	}
	if strings.Count(page, "<script") != 1 {
		t.Error("page must contain exactly one script, the nonced one")
	}
}

func TestRenderHTMLStatic(t *testing.T) {
	out, err := RenderHTML(mustScene(`{"a":1}`, ""))
	if err != nil {
		t.Fatal(err)
	}
	page := string(out)
	if strings.Contains(page, "expand-all") || strings.Contains(page, "<textarea") {
		t.Error("static page must not offer live commands")
	}
	if !strings.Contains(page, `var socketPath = "";`) {
		t.Error("static page must not open a socket")
	}
}

func TestNewNonce(t *testing.T) {
	a, err := NewNonce()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := NewNonce()
	if a == b || len(a) != 24 {
		t.Errorf("nonces %q and %q", a, b)
	}
}

func TestRenderJSONRoundTrip(t *testing.T) {
	s := mustScene(`{"a":1,"b":{"c":2}}`, "light")
	data, err := RenderJSON(s)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ReadJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestRenderGraphvizSVG(t *testing.T) {
	dot := RenderDOT(mustScene(`{"a":1,"b":{"c":2}}`, ""))
	svg, err := RenderGraphvizSVG(context.Background(), dot)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("not an SVG: %.80s", svg)
	}
}

func ExampleRenderDOT() {
	s := mustScene(`{"a":1,"b":{"c":2}}`, "")
	fmt.Print(RenderDOT(s))
	// Output:
	// digraph G {
	//   rankdir=LR;
	//   bgcolor="transparent";
	//   node [shape=plain, fontname="monospace", fontsize=11];
	//   edge [arrowsize=0.6];
	//
	//   "(root)" [label=<<table border="1" cellborder="0" cellspacing="0" cellpadding="3" color="#4285F4"><tr><td align="left"><b>(root)</b></td></tr><tr><td align="left" port="r0">a: 1</td></tr><tr><td align="left" port="r1">b: <i>object</i> ○</td></tr></table>>];
	//   "(root)/b" [label=<<table border="1" cellborder="0" cellspacing="0" cellpadding="3" color="#4285F4"><tr><td align="left"><b>b</b></td></tr></table>>];
	//
	//   "(root)":r1:e -> "(root)/b":w;
	// }
}
