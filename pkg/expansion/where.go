package expansion

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/hierarchy"
)

// Candidate describes a node to a [Predicate]. Expressions compiled with
// [Compile] refer to the lower-case tag names, for example
//
//	kind == "array" && items > 10
//	name matches "^user" || classname == "Order"
type Candidate struct {
	Path      string `expr:"path"`
	Name      string `expr:"name"`
	Kind      string `expr:"kind"`
	Classname string `expr:"classname"`
	Depth     int    `expr:"depth"`
	Fields    int    `expr:"fields"`
	Children  int    `expr:"children"`
	Items     int    `expr:"items"`
}

// Predicate selects nodes for [Store.ExpandWhere].
type Predicate func(Candidate) (bool, error)

// Compile compiles a boolean expression over [Candidate] into a Predicate.
func Compile(expression string) (Predicate, error) {
	program, err := expr.Compile(expression, expr.Env(Candidate{}), expr.AsBool())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidExpression, err, "invalid expression %q", expression)
	}
	return func(c Candidate) (bool, error) {
		return run(program, c)
	}, nil
}

func run(program *vm.Program, c Candidate) (bool, error) {
	out, err := expr.Run(program, c)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInvalidExpression, err, "evaluate expression at %s", c.Path)
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, errors.New(errors.ErrCodeInvalidExpression, "expression returned %s, want bool", fmt.Sprintf("%T", out))
	}
	return ok, nil
}

// ExpandWhere expands every non-root node of tree matched by pred, together
// with its ancestors so that the match is reachable. It returns the number of
// matched nodes. On error the store is left unchanged.
func (s *Store) ExpandWhere(tree *hierarchy.Node, pred Predicate) (int, error) {
	var (
		matched int
		add     []string
		stack   []string
		walkErr error
	)
	hierarchy.Walk(tree, func(path string, depth int, n *hierarchy.Node) bool {
		if walkErr != nil {
			return false
		}
		stack = append(stack[:depth], path)
		if depth == 0 {
			return true
		}
		ok, err := pred(candidateOf(path, depth, n))
		if err != nil {
			walkErr = err
			return false
		}
		if ok {
			matched++
			add = append(add, stack[1:]...)
		}
		return true
	})
	if walkErr != nil {
		return 0, walkErr
	}
	for _, p := range add {
		s.paths[p] = struct{}{}
	}
	return matched, nil
}

func candidateOf(path string, depth int, n *hierarchy.Node) Candidate {
	return Candidate{
		Path:      path,
		Name:      n.Name,
		Kind:      string(n.Kind),
		Classname: n.Classname,
		Depth:     depth,
		Fields:    len(n.Fields),
		Children:  len(n.Children),
		Items:     len(n.Items),
	}
}
