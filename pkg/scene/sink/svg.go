package sink

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/matzehuels/jsonviz/pkg/scene"
	"github.com/matzehuels/jsonviz/pkg/scene/styles"
)

// interactionJS defines jsonvizBind, which wires dot clicks, pan, zoom and
// auto-fit to a drawn scene. Hover effects are CSS only.
const interactionJS = `
    function jsonvizBind(svg, post) {
      var view = svg.querySelector('#viewport');
      var content = svg.querySelector('#content');
      var MIN = %s, MAX = %s, FIT = 0.9;
      var t = {x: +view.dataset.x, y: +view.dataset.y, k: +view.dataset.k};
      var drag = null, pending = null;
      function clamp(k) { return Math.max(MIN, Math.min(MAX, k)); }
      function apply() { view.setAttribute('transform', 'translate(' + t.x + ',' + t.y + ') scale(' + t.k + ')'); }
      function report() {
        clearTimeout(pending);
        pending = setTimeout(function () { post({type: 'viewport', transform: {x: t.x, y: t.y, k: t.k}}); }, 200);
      }
      function size() {
        return [svg.clientWidth || +svg.getAttribute('width'), svg.clientHeight || +svg.getAttribute('height')];
      }
      function fit() {
        var b = content.getBBox();
        if (b.width === 0 || b.height === 0) return;
        var s = size();
        var k = Math.min(s[0] / b.width, s[1] / b.height) * FIT;
        t = {x: s[0] / 2 - k * (b.x + b.width / 2), y: s[1] / 2 - k * (b.y + b.height / 2), k: k};
        apply();
      }
      svg.querySelectorAll('.child-link-dot').forEach(function (dot) {
        dot.addEventListener('mousedown', function (e) { e.stopPropagation(); });
        dot.addEventListener('click', function (e) {
          e.stopPropagation();
          post({type: 'toggle', path: dot.getAttribute('data-path')});
        });
      });
      svg.addEventListener('mousedown', function (e) {
        drag = {x: e.clientX - t.x, y: e.clientY - t.y, moved: false};
      });
      svg.addEventListener('mousemove', function (e) {
        if (!drag) return;
        t.x = e.clientX - drag.x;
        t.y = e.clientY - drag.y;
        drag.moved = true;
        apply();
      });
      function end() {
        if (drag && drag.moved) report();
        drag = null;
      }
      svg.addEventListener('mouseup', end);
      svg.addEventListener('mouseleave', end);
      svg.addEventListener('wheel', function (e) {
        e.preventDefault();
        var r = svg.getBoundingClientRect();
        var px = e.clientX - r.left, py = e.clientY - r.top;
        var k = clamp(t.k * Math.pow(2, -e.deltaY * 0.002));
        t.x = px - (px - t.x) * k / t.k;
        t.y = py - (py - t.y) * k / t.k;
        t.k = k;
        apply();
        report();
      }, {passive: false});
      if (svg.getAttribute('data-autofit') === 'true') setTimeout(fit, 10);
      return {fit: fit};
    }`

// standaloneJS wires jsonvizBind to an embedding page.
const standaloneJS = `
    jsonvizBind(document.documentElement, function (msg) {
      if (window.parent && window.parent !== window) window.parent.postMessage(msg, '*');
      document.dispatchEvent(new CustomEvent('jsonviz', {detail: msg}));
    });`

// InteractionScript returns the script that defines jsonvizBind.
func InteractionScript() string {
	return fmt.Sprintf(interactionJS, fmtFloat(scene.MinZoom), fmtFloat(scene.MaxZoom))
}

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style   styles.Style
	script  bool
	autofit bool
}

// WithStyle sets the drawing style. The default is the style named by the
// scene, or light.
func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithoutScript omits the embedded script. Use it for static conversions and
// for pages that bind interaction themselves.
func WithoutScript() SVGOption { return func(r *svgRenderer) { r.script = false } }

// WithAutoFit controls whether the browser refits the drawing after it is
// inserted. It is on by default.
func WithAutoFit(on bool) SVGOption { return func(r *svgRenderer) { r.autofit = on } }

// RenderSVG draws s as a standalone SVG document.
func RenderSVG(s *scene.Scene, opts ...SVGOption) ([]byte, error) {
	r := svgRenderer{script: true, autofit: true}
	for _, opt := range opts {
		opt(&r)
	}
	if r.style == nil {
		st, err := styles.Lookup(s.Style)
		if err != nil {
			return nil, err
		}
		r.style = st
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" class="jsonviz" data-autofit="%t">`+"\n",
		s.Width, s.Height, r.autofit)
	fmt.Fprintf(&buf, `  <rect class="background" width="100%%" height="100%%" fill="%s"/>`+"\n", r.style.Background())
	r.style.RenderDefs(&buf)
	buf.WriteString("  <style>")
	r.style.RenderCSS(&buf)
	buf.WriteString("\n  </style>\n")

	v := s.View
	fmt.Fprintf(&buf, `  <g id="viewport" transform="%s" data-x="%s" data-y="%s" data-k="%s">`+"\n",
		v.String(), fmtFloat(v.X), fmtFloat(v.Y), fmtFloat(v.K))
	buf.WriteString(`  <g id="content">` + "\n")
	renderContent(&buf, r.style, s)
	buf.WriteString("  </g>\n  </g>\n")

	if r.script {
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s%s\n  ]]></script>\n", InteractionScript(), standaloneJS)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// renderContent draws boxes first and links on top, so arrowheads stay
// visible where they meet a box.
func renderContent(buf *bytes.Buffer, st styles.Style, s *scene.Scene) {
	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, b := range s.Boxes {
		class := "node"
		if b.Circular {
			class += " circular"
		}
		fmt.Fprintf(buf, `  <g class="%s" data-path="%s" data-depth="%d">`+"\n", class, styles.EscapeXML(b.ID), b.Depth)
		st.RenderBox(buf, b)
		for i, row := range b.Rows {
			st.RenderRow(buf, b, row, i == len(b.Rows)-1)
		}
		buf.WriteString("  </g>\n")
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="links">` + "\n")
	for _, e := range s.Edges {
		st.RenderEdge(buf, e)
	}
	buf.WriteString("  </g>\n")
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
