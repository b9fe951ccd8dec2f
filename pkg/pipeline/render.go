package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/scene"
	"github.com/matzehuels/jsonviz/pkg/scene/sink"
	"github.com/matzehuels/jsonviz/pkg/scene/styles"
)

// RenderFormat renders s in a single format.
func RenderFormat(ctx context.Context, s *scene.Scene, format string, opts Options) ([]byte, error) {
	st, err := styles.Lookup(opts.Style)
	if err != nil {
		return nil, err
	}
	svgOpts := buildSVGOptions(st, opts)

	var data []byte
	switch format {
	case FormatSVG:
		data, err = sink.RenderSVG(s, svgOpts...)
	case FormatHTML:
		htmlOpts := []sink.HTMLOption{sink.WithHTMLSVGOptions(svgOpts...)}
		if opts.Title != "" {
			htmlOpts = append(htmlOpts, sink.WithTitle(opts.Title))
		}
		data, err = sink.RenderHTML(s, htmlOpts...)
	case FormatJSON:
		data, err = sink.RenderJSON(s)
	case FormatDOT:
		data = []byte(sink.RenderDOT(s))
	case FormatGraphviz:
		data, err = sink.RenderGraphvizSVG(ctx, sink.RenderDOT(s))
	case FormatPNG:
		data, err = sink.RenderPNG(s, sink.WithRasterSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
	case FormatPDF:
		data, err = sink.RenderPDF(s, sink.WithRasterSVGOptions(svgOpts...))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(st styles.Style, opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithStyle(st)}
	if opts.Static {
		svgOpts = append(svgOpts, sink.WithoutScript(), sink.WithAutoFit(false))
	}
	return svgOpts
}
