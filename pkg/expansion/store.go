// Package expansion tracks which nodes of a tree are expanded.
//
// A [Store] is a set of node paths. The root is always a member and cannot be
// removed. Stores are changed only by user actions ([Store.Toggle],
// [Store.ExpandAll], [Store.CollapseAll] and friends); building a tree never
// touches them. A Store is not safe for concurrent use; callers that share one
// across goroutines must serialize access.
package expansion

import (
	"slices"
	"strings"

	"github.com/matzehuels/jsonviz/pkg/hierarchy"
)

// Store is the set of expanded node paths.
type Store struct {
	paths map[string]struct{}
}

// New returns a store in which only the root is expanded.
func New() *Store {
	return &Store{paths: make(map[string]struct{})}
}

// Contains reports whether path is expanded. The root always is.
func (s *Store) Contains(path string) bool {
	if path == hierarchy.RootName {
		return true
	}
	_, ok := s.paths[path]
	return ok
}

// Len returns the number of expanded paths, root included.
func (s *Store) Len() int {
	return len(s.paths) + 1
}

// Toggle flips the expansion of path and reports whether it is now expanded.
//
// Expanding adds only path itself. Collapsing removes path and every
// descendant path, so re-expanding later shows the subtree one level deep.
// Toggling the root has no effect.
func (s *Store) Toggle(path string) bool {
	if path == hierarchy.RootName {
		return true
	}
	if _, ok := s.paths[path]; !ok {
		s.paths[path] = struct{}{}
		return true
	}
	s.Collapse(path)
	return false
}

// Expand adds path and all of its ancestors.
func (s *Store) Expand(path string) {
	for p := path; p != hierarchy.RootName; {
		s.paths[p] = struct{}{}
		i := strings.LastIndex(p, hierarchy.Separator)
		if i < 0 {
			return
		}
		p = p[:i]
	}
}

// Collapse removes path and every path below it.
func (s *Store) Collapse(path string) {
	if path == hierarchy.RootName {
		s.CollapseAll()
		return
	}
	delete(s.paths, path)
	prefix := path + hierarchy.Separator
	for p := range s.paths {
		if strings.HasPrefix(p, prefix) {
			delete(s.paths, p)
		}
	}
}

// ExpandAll expands every container node of tree at every depth.
func (s *Store) ExpandAll(tree *hierarchy.Node) {
	s.ExpandDepth(tree, -1)
}

// ExpandDepth expands every container node whose depth is at most depth.
// The root has depth 0; a negative depth means no limit.
func (s *Store) ExpandDepth(tree *hierarchy.Node, depth int) {
	hierarchy.Walk(tree, func(path string, d int, _ *hierarchy.Node) bool {
		if depth >= 0 && d > depth {
			return false
		}
		if d > 0 {
			s.paths[path] = struct{}{}
		}
		return true
	})
}

// CollapseAll resets the store to the root only.
func (s *Store) CollapseAll() {
	clear(s.paths)
}

// Paths returns the expanded paths in sorted order, root included.
func (s *Store) Paths() []string {
	out := make([]string, 0, len(s.paths)+1)
	out = append(out, hierarchy.RootName)
	for p := range s.paths {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Restore replaces the store contents with paths.
func (s *Store) Restore(paths []string) {
	s.CollapseAll()
	for _, p := range paths {
		if p != hierarchy.RootName && p != "" {
			s.paths[p] = struct{}{}
		}
	}
}

// Clone returns an independent copy of s.
func (s *Store) Clone() *Store {
	c := New()
	for p := range s.paths {
		c.paths[p] = struct{}{}
	}
	return c
}
