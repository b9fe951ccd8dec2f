// Package scene turns a positioned tree into a drawable description.
//
// A [Scene] is plain data: boxes with their rows, dots and dividers, edges
// with their path data, the drawing bounds and the transform that fits the
// drawing into the viewport. Sinks in package sink turn a scene into SVG,
// HTML, JSON or DOT without looking at the layout again.
//
// # Rows and dots
//
// Every row below a box title is placed with [layout.Layout.RowY]. Rows that
// name a container child carry a [Dot] at the right edge of the box; the dot
// records whether the child is currently expanded and the path to send back
// when it is clicked. Edges leave the box at the same Y, so dots and arrows
// always agree on which row names which child.
//
// # Viewport
//
// [Fit] computes the transform that scales the bounds to 90% of the viewport
// and centers them. A [Viewport] keeps the user's pan and zoom between passes;
// zoom is clamped to [MinZoom, MaxZoom]. Fitting is never clamped.
package scene
