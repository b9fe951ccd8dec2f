package sink

import (
	"github.com/matzehuels/jsonviz/pkg/render"
	"github.com/matzehuels/jsonviz/pkg/scene"
)

// RasterOption configures PNG and PDF rendering.
type RasterOption func(*rasterRenderer)

type rasterRenderer struct {
	svgOpts []SVGOption
	scale   float64
}

// WithRasterSVGOptions passes options through to the underlying SVG renderer.
func WithRasterSVGOptions(opts ...SVGOption) RasterOption {
	return func(r *rasterRenderer) { r.svgOpts = opts }
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) RasterOption {
	return func(r *rasterRenderer) { r.scale = s }
}

func staticSVG(s *scene.Scene, opts []RasterOption) ([]byte, rasterRenderer, error) {
	r := rasterRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	svgOpts := append(append([]SVGOption{}, r.svgOpts...), WithoutScript())
	svg, err := RenderSVG(s, svgOpts...)
	return svg, r, err
}

// RenderPNG renders the scene as PNG via SVG conversion, using the scene's
// view transform. Requires librsvg.
func RenderPNG(s *scene.Scene, opts ...RasterOption) ([]byte, error) {
	svg, r, err := staticSVG(s, opts)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, r.scale)
}

// RenderPDF renders the scene as PDF via SVG conversion. Requires librsvg.
func RenderPDF(s *scene.Scene, opts ...RasterOption) ([]byte, error) {
	svg, _, err := staticSVG(s, opts)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}
