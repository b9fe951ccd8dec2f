package hierarchy

import (
	"strconv"

	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/value"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// RootName is the name given to the root node.
	RootName = "(root)"

	// ClassKey is the reserved object key whose primitive value becomes a
	// node's Classname instead of a field. A null value leaves it empty.
	ClassKey = "__class__"

	// CircularName and CircularValue form the single field of a cycle sentinel.
	CircularName  = "[Circular]"
	CircularValue = "[Circular Reference]"

	// PlaceholderName is the name of the empty tree shown when no valid value
	// is available.
	PlaceholderName = "root"

	// Separator joins node names into paths.
	Separator = "/"
)

// Kind is the container kind of a node.
type Kind string

// Node kinds.
const (
	KindObject Kind = "object"
	KindArray  Kind = "array"
)

// =============================================================================
// Types
// =============================================================================

// Field is a primitive member of an object, or a primitive element of an array.
type Field struct {
	Name  string
	Value any
}

// Item is one element of an array node: either a container child (Node is
// set) or a primitive (Field is set).
type Item struct {
	Node  *Node
	Field *Field
}

// Name returns the element's index name.
func (it Item) Name() string {
	if it.Node != nil {
		return it.Node.Name
	}
	return it.Field.Name
}

// Node is one container of the canonical tree.
//
// Object nodes use Fields and Children; array nodes use Items. A Node is
// immutable once [Build] returns.
type Node struct {
	Name      string
	Kind      Kind
	Classname string
	Fields    []Field
	Children  []*Node
	Items     []Item
}

// Links returns the container children of n in row order: object children in
// key order, or array container items in index order.
func (n *Node) Links() []*Node {
	if n.Kind == KindObject {
		return n.Children
	}
	var out []*Node
	for _, it := range n.Items {
		if it.Node != nil {
			out = append(out, it.Node)
		}
	}
	return out
}

// IsCircular reports whether n is a cycle sentinel.
func (n *Node) IsCircular() bool {
	return len(n.Fields) == 1 && n.Fields[0].Name == CircularName &&
		len(n.Children) == 0 && len(n.Items) == 0
}

// =============================================================================
// Build
// =============================================================================

// Build converts a raw nested value into a tree of nodes.
//
// The root must be an object or an array; anything else fails with
// [errors.ErrCodeInvalidRoot]. A container that appears again inside itself
// is replaced by a sentinel node with a single [CircularName] field. The same
// container reached along two separate branches is built twice.
func Build(v any) (*Node, error) {
	if !value.IsContainer(v) {
		return nil, errors.New(errors.ErrCodeInvalidRoot, "root must be object or array")
	}
	b := builder{onPath: make(map[value.ID]bool)}
	return b.node(RootName, v), nil
}

// Placeholder returns the empty tree drawn when there is no valid value.
func Placeholder() *Node {
	return &Node{Name: PlaceholderName, Kind: KindObject}
}

type builder struct {
	onPath map[value.ID]bool
}

func (b *builder) node(name string, v any) *Node {
	n := &Node{Name: name, Kind: kindOf(v)}

	id, tracked := value.Identity(v)
	if tracked {
		if b.onPath[id] {
			n.Fields = []Field{{Name: CircularName, Value: CircularValue}}
			return n
		}
		b.onPath[id] = true
		defer delete(b.onPath, id)
	}

	if members, ok := value.Members(v); ok {
		for _, m := range members {
			switch {
			case value.IsContainer(m.Value):
				n.Children = append(n.Children, b.node(m.Key, m.Value))
			case m.Key == ClassKey:
				n.Classname = className(m.Value)
			default:
				n.Fields = append(n.Fields, Field{Name: m.Key, Value: m.Value})
			}
		}
		return n
	}

	items, _ := value.Items(v)
	for i, item := range items {
		name := strconv.Itoa(i)
		if value.IsContainer(item) {
			n.Items = append(n.Items, Item{Node: b.node(name, item)})
			continue
		}
		n.Items = append(n.Items, Item{Field: &Field{Name: name, Value: item}})
	}
	return n
}

func kindOf(v any) Kind {
	if value.IsArray(v) {
		return KindArray
	}
	return KindObject
}

func className(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return value.EncodePrimitive(v)
}
