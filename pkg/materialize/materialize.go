// Package materialize derives the visible tree for one drawing pass.
//
// [Materialize] combines the canonical tree from package hierarchy with the
// expansion set from package expansion. Every container child stays in the
// visible tree so that its row, box and dot can be drawn; only expanded
// containers keep their own contents.
//
// The row model defined here ([Node.Rows], [Node.RowIndex]) is shared by
// layout sizing, link routing and dot placement.
package materialize

import (
	"github.com/matzehuels/jsonviz/pkg/expansion"
	"github.com/matzehuels/jsonviz/pkg/hierarchy"
	"github.com/matzehuels/jsonviz/pkg/value"
)

// Node is a node of the visible tree.
type Node struct {
	Name      string
	Path      string
	Kind      hierarchy.Kind
	Classname string
	Circular  bool

	// Included is true when the node is expanded in this pass. A node that
	// is not included is a placeholder with no fields, children or items.
	Included bool

	Fields   []hierarchy.Field
	Children []*Node
	Items    []Item
}

// Item is one element of a visible array node.
type Item struct {
	Node  *Node
	Field *hierarchy.Field
}

// Materialize returns the visible subtree of tree under set. The root is
// always included. tree is not modified, and every call returns a new
// structure.
func Materialize(tree *hierarchy.Node, set *expansion.Store) *Node {
	return visit(tree, tree.Name, set, true)
}

func visit(n *hierarchy.Node, path string, set *expansion.Store, root bool) *Node {
	out := &Node{
		Name:      n.Name,
		Path:      path,
		Kind:      n.Kind,
		Classname: n.Classname,
		Circular:  n.IsCircular(),
		Included:  root || set.Contains(path),
	}
	if !out.Included {
		return out
	}

	if len(n.Fields) > 0 {
		out.Fields = make([]hierarchy.Field, len(n.Fields))
		copy(out.Fields, n.Fields)
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, visit(c, hierarchy.Join(path, c.Name), set, false))
	}
	for _, it := range n.Items {
		if it.Node != nil {
			out.Items = append(out.Items, Item{Node: visit(it.Node, hierarchy.Join(path, it.Node.Name), set, false)})
			continue
		}
		f := *it.Field
		out.Items = append(out.Items, Item{Field: &f})
	}
	return out
}

// =============================================================================
// Rows
// =============================================================================

// RowKind classifies the rows below a node's title.
type RowKind int

const (
	// RowField is a primitive object member.
	RowField RowKind = iota
	// RowLink names a container child; it carries a dot and an edge.
	RowLink
	// RowItem is a primitive array element.
	RowItem
)

// Row is one line of a node box below the title.
type Row struct {
	Kind  RowKind
	Name  string
	Value any   // RowField and RowItem
	Child *Node // RowLink
}

// Label returns the text drawn for the row: "name: <json>" for primitives
// and "name: kind" for links.
func (r Row) Label() string {
	return r.Name + ": " + r.ValueText()
}

// ValueText returns the part of the label after "name: ".
func (r Row) ValueText() string {
	if r.Kind == RowLink {
		return string(r.Child.Kind)
	}
	return value.EncodePrimitive(r.Value)
}

// Rows returns the rows of n below its title. Object rows list the fields
// first and then the children; array rows follow item order.
func (n *Node) Rows() []Row {
	rows := make([]Row, 0, len(n.Fields)+len(n.Children)+len(n.Items))
	for _, f := range n.Fields {
		rows = append(rows, Row{Kind: RowField, Name: f.Name, Value: f.Value})
	}
	for _, c := range n.Children {
		rows = append(rows, Row{Kind: RowLink, Name: c.Name, Child: c})
	}
	for _, it := range n.Items {
		if it.Node != nil {
			rows = append(rows, Row{Kind: RowLink, Name: it.Node.Name, Child: it.Node})
			continue
		}
		rows = append(rows, Row{Kind: RowItem, Name: it.Field.Name, Value: it.Field.Value})
	}
	return rows
}

// RowCount returns the number of rows including the title.
func (n *Node) RowCount() int {
	return 1 + len(n.Fields) + len(n.Children) + len(n.Items)
}

// RowIndex returns the index of the row naming child among [Node.Rows], or
// -1 if child is not a direct child of n.
func (n *Node) RowIndex(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return len(n.Fields) + i
		}
	}
	for i, it := range n.Items {
		if it.Node != nil && it.Node == child {
			return len(n.Fields) + i
		}
	}
	return -1
}

// Links returns the container children of n in row order.
func (n *Node) Links() []*Node {
	if len(n.Items) == 0 {
		return n.Children
	}
	out := make([]*Node, 0, len(n.Items))
	out = append(out, n.Children...)
	for _, it := range n.Items {
		if it.Node != nil {
			out = append(out, it.Node)
		}
	}
	return out
}

// Walk visits n and its visible descendants depth-first in row order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Links() {
		c.Walk(fn)
	}
}
