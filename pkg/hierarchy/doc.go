// Package hierarchy turns a raw nested value into the tree that jsonviz draws.
//
// # Model
//
// Every object and array in the input becomes a [Node]. An object node keeps
// its primitive members as ordered [Field] values and its container members
// as ordered child nodes; an array node keeps one [Item] per element, which
// is either a child node or a primitive field named by its index. The reserved
// key [ClassKey] is lifted out of the fields into [Node.Classname].
//
// Sibling order always follows the source: object key order for decoded
// documents, index order for arrays.
//
// # Cycles
//
// [Build] tracks the containers on the current descent path. A container met
// again on that path becomes a sentinel node of the same kind holding the
// single field [CircularName]: [CircularValue]. Containers shared between
// separate branches are not cycles and are built in full under each parent.
//
// # Paths
//
// Nodes are addressed by slash-joined names starting at [RootName], for
// example "(root)/users/0". Paths are derived while walking and are not stored
// on the node; see [Walk] and [Join].
package hierarchy
