// Package sink renders a [scene.Scene] into output formats.
//
// # Formats
//
//   - [RenderSVG]: standalone interactive SVG (hover, dot toggles, pan/zoom)
//   - [RenderHTML]: page shell hosting a live session over a websocket
//   - [RenderJSON]: the scene itself, for external renderers and caching
//   - [RenderDOT] and [RenderGraphvizSVG]: a Graphviz rendition of the tree
//   - [RenderPNG] and [RenderPDF]: static conversions of the SVG
//
// # Interaction
//
// The SVG carries a small script. Clicking a dot posts
// {"type":"toggle","path":...} to the embedding page (window.parent, or the
// page bridge in [RenderHTML]); the click never starts a pan. Dragging pans,
// the wheel zooms around the pointer within [scene.MinZoom, scene.MaxZoom],
// and each pan or zoom is reported as a "viewport" message. When auto-fit is
// on, the drawing is fitted to the visible area 10ms after it is inserted,
// once the browser can report real geometry.
package sink
