// Package route computes the edges between parent and child boxes.
//
// An edge leaves its parent at the right edge of the row that names the
// child and ends at the middle of the child's left edge, where an arrowhead
// is drawn. The row is looked up with [materialize.Node.RowIndex], the same
// function the layout and the scene use to place rows and dots.
package route

import (
	"fmt"

	"github.com/matzehuels/jsonviz/pkg/layout"
)

// Link is one parent to child edge.
type Link struct {
	From *layout.Box
	To   *layout.Box

	// Row is the index of the parent row that names To.
	Row int

	X1, Y1 float64 // parent anchor
	X2, Y2 float64 // child anchor
}

// Path returns the SVG path data of the straight segment.
func (l Link) Path() string {
	return fmt.Sprintf("M%s,%sL%s,%s", num(l.X1), num(l.Y1), num(l.X2), num(l.Y2))
}

// Links returns every edge of l in pre-order, children in row order.
func Links(l *layout.Layout) []Link {
	var out []Link
	for _, parent := range l.Boxes {
		for _, child := range parent.Children {
			row := parent.Node.RowIndex(child.Node)
			if row < 0 {
				continue
			}
			out = append(out, Link{
				From: parent,
				To:   child,
				Row:  row,
				X1:   parent.Right(),
				Y1:   l.RowY(parent, row),
				X2:   child.X,
				Y2:   child.Y,
			})
		}
	}
	return out
}

// num formats a coordinate with at most two decimals.
func num(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	for s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	if s == "-0" {
		return "0"
	}
	return s
}
