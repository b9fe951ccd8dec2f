package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/jsonviz/pkg/hierarchy"
	"github.com/matzehuels/jsonviz/pkg/observability"
)

// BuildTree converts a raw value into the canonical tree. A root that is not
// an object or array fails with errors.ErrCodeInvalidRoot.
func BuildTree(ctx context.Context, v any) (*hierarchy.Node, error) {
	start := time.Now()
	tree, err := hierarchy.Build(v)

	count := 0
	if tree != nil {
		count = hierarchy.Measure(tree).Nodes
	}
	observability.Pipeline().OnBuild(ctx, count, time.Since(start), err)
	return tree, err
}

// TreeOrPlaceholder is like [BuildTree] but returns the placeholder tree
// together with the error when v cannot be drawn.
func TreeOrPlaceholder(ctx context.Context, v any) (*hierarchy.Node, error) {
	tree, err := BuildTree(ctx, v)
	if err != nil {
		return hierarchy.Placeholder(), err
	}
	return tree, nil
}
