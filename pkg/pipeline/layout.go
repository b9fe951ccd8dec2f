package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/jsonviz/pkg/expansion"
	"github.com/matzehuels/jsonviz/pkg/hierarchy"
	"github.com/matzehuels/jsonviz/pkg/layout"
	"github.com/matzehuels/jsonviz/pkg/materialize"
	"github.com/matzehuels/jsonviz/pkg/observability"
	"github.com/matzehuels/jsonviz/pkg/route"
	"github.com/matzehuels/jsonviz/pkg/scene"
)

// =============================================================================
// Drawing Pass
// =============================================================================

// Pass runs one drawing pass: the visible tree of tree under store is laid
// out, its links are routed and the result is described as a scene.
//
// Neither tree nor store is modified. A nil store draws the default
// expansion (root only).
func Pass(ctx context.Context, tree *hierarchy.Node, store *expansion.Store, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		store = expansion.New()
	}

	hooks := observability.Pipeline()
	hooks.OnPassStart(ctx, store.Len())
	start := time.Now()

	visible := materialize.Materialize(tree, store)
	l := layout.Build(visible, opts.Layout)
	links := route.Links(l)
	s := scene.Build(l, links, opts.SceneOptions())

	res := &Result{
		Tree:    tree,
		Visible: visible,
		Layout:  l,
		Links:   links,
		Scene:   s,
	}
	res.Stats.BoxCount = len(s.Boxes)
	res.Stats.EdgeCount = len(s.Edges)
	res.Stats.PassTime = time.Since(start)

	hooks.OnPassComplete(ctx, res.Stats.BoxCount, res.Stats.EdgeCount, res.Stats.PassTime, nil)
	opts.Logger.Debug("drawing pass",
		"boxes", res.Stats.BoxCount,
		"edges", res.Stats.EdgeCount,
		"duration", res.Stats.PassTime)
	return res, nil
}
