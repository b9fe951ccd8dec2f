package layout

import (
	"unicode/utf16"

	"github.com/matzehuels/jsonviz/pkg/materialize"
)

// TextWidth approximates the drawn width of s. Characters are counted the
// way a browser counts string length (UTF-16 code units).
func (o Options) TextWidth(s string) float64 {
	return float64(len(utf16.Encode([]rune(s)))) * o.CharWidth
}

// Size returns the width and height of the box drawn for n.
func (o Options) Size(n *materialize.Node) (w, h float64) {
	widest := o.TextWidth(n.Name)
	for _, r := range n.Rows() {
		widest = max(widest, o.TextWidth(r.Label()))
	}
	w = min(max(widest+2*o.Padding, o.MinWidth), o.MaxWidth)
	h = float64(n.RowCount())*o.LineHeight + 2*o.Padding + o.TitleSpacing()
	return w, h
}
