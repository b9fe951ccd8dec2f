// Package styles provides the visual styles for scene rendering.
//
// A [Style] draws the individual pieces of a scene into an SVG buffer:
// boxes, rows, dots and edges, plus the shared <defs> and CSS. Two
// palette-based styles ship with jsonviz:
//
//   - light: white boxes on a white canvas (the default)
//   - dark:  muted boxes on a dark canvas
//
// Use [Lookup] to resolve a style by name.
package styles
