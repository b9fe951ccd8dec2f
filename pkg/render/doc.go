// Package render converts rendered SVG into other formats.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). The scene sinks use them for
// static exports:
//
//	svg, _ := sink.RenderSVG(s, sink.WithoutScript())
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// When rsvg-convert is missing, both return an error with code
// [errors.ErrCodeUnsupported]; [Available] checks up front.
//
// [errors.ErrCodeUnsupported]: github.com/matzehuels/jsonviz/pkg/errors
package render
