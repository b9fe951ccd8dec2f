// Package layout sizes and positions the boxes of a visible tree.
//
// # Sizing
//
// Each box is as tall as its rows: one line per row (title included) plus
// padding and a small gap under the title. Its width follows the longest row
// label measured with a fixed per-character width, clamped between
// [Options.MinWidth] and [Options.MaxWidth]. Text is never measured with real
// font metrics.
//
// # Placement
//
// Boxes are placed with the linear-time tidy tree algorithm of Buchheim,
// Jünger and Leipert (an improvement of Walker's Reingold–Tilford variant)
// using a fixed node size. Depth grows to the right along X and siblings
// spread along Y. Siblings are separated by one node breadth, cousins by
// [Options.CousinSeparation] breadths.
//
// A box's origin (X, Y) is the middle of its left edge; that is where
// incoming links end.
package layout
