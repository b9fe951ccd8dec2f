package styles

import (
	"bytes"

	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/scene"
)

// Style names.
const (
	StyleLight = "light"
	StyleDark  = "dark"
)

// Names lists the available styles, default first.
var Names = []string{StyleLight, StyleDark}

// Style defines the visual appearance of a scene.
// Implementations control how boxes, rows, dots and edges are drawn.
type Style interface {
	// Name returns the style name as accepted by [Lookup].
	Name() string
	// Background returns the canvas color.
	Background() string
	// RenderDefs writes SVG <defs> content (markers, filters).
	RenderDefs(buf *bytes.Buffer)
	// RenderCSS writes the style sheet, including hover transitions.
	RenderCSS(buf *bytes.Buffer)
	// RenderBox writes the outline and title of a box.
	RenderBox(buf *bytes.Buffer, b scene.Box)
	// RenderRow writes one row of a box: dividers, hover target, text and dot.
	RenderRow(buf *bytes.Buffer, b scene.Box, r scene.Row, last bool)
	// RenderEdge writes a parent to child link.
	RenderEdge(buf *bytes.Buffer, e scene.Edge)
}

// Lookup returns the style with the given name. An empty name selects the
// light style.
func Lookup(name string) (Style, error) {
	switch name {
	case "", StyleLight:
		return Simple{Palette: Light}, nil
	case StyleDark:
		return Simple{Palette: Dark}, nil
	}
	return nil, errors.ValidateOneOf(errors.ErrCodeInvalidStyle, "style", name, Names...)
}
