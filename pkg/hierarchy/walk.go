package hierarchy

// Join returns the path of the child called name under parent.
func Join(parent, name string) string {
	return parent + Separator + name
}

// WalkFunc is called for every node visited by [Walk]. Returning false skips
// the node's descendants.
type WalkFunc func(path string, depth int, n *Node) bool

// Walk visits n and its descendants depth-first in row order. The root is
// visited with path [RootName] and depth 0.
func Walk(n *Node, fn WalkFunc) {
	walk(n, n.Name, 0, fn)
}

func walk(n *Node, path string, depth int, fn WalkFunc) {
	if !fn(path, depth, n) {
		return
	}
	for _, c := range n.Links() {
		walk(c, Join(path, c.Name), depth+1, fn)
	}
}

// Stats summarizes the size of a tree.
type Stats struct {
	Nodes    int // container nodes, root included
	Fields   int // primitive fields and primitive array items
	MaxDepth int
	Circular int // cycle sentinels
}

// Measure walks the tree and counts its nodes.
func Measure(n *Node) Stats {
	var s Stats
	Walk(n, func(_ string, depth int, n *Node) bool {
		s.Nodes++
		s.MaxDepth = max(s.MaxDepth, depth)
		if n.IsCircular() {
			s.Circular++
		}
		s.Fields += len(n.Fields)
		for _, it := range n.Items {
			if it.Field != nil {
				s.Fields++
			}
		}
		return true
	})
	return s
}
