// Package session holds the state of one interactive view.
//
// A [Session] owns the raw value, its canonical tree, the expansion set and
// the viewport. Every mutation runs a complete drawing pass before the next
// one is accepted, so the scene always reflects the latest input. Hosts
// (the HTTP server, the terminal explorer) drive a session through
// [Session.Handle] or the typed methods and relay the outbound [Message]s.
//
// # Lifecycle
//
// A new session starts with the placeholder tree. Replacing the value
// (set-json, set-text) resets expansion to the root and refits the view.
// Toggles and other expansion commands keep the viewport unless it has not
// been panned or zoomed yet, in which case the view is refitted.
//
// # Persistence
//
// [Session.Snapshot] captures the document, expansion set and viewport;
// [Restore] rebuilds a session from it. [Store] implementations keep
// snapshots in memory, in files or in MongoDB.
//
// # Usage
//
//	sess := session.New(session.Options{Logger: logger})
//	out, err := sess.Handle(ctx, session.Message{Type: session.TypeToggle, Path: "(root)/items"})
package session

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/expansion"
	"github.com/matzehuels/jsonviz/pkg/hierarchy"
	"github.com/matzehuels/jsonviz/pkg/observability"
	"github.com/matzehuels/jsonviz/pkg/pipeline"
	"github.com/matzehuels/jsonviz/pkg/scene"
	"github.com/matzehuels/jsonviz/pkg/scene/sink"
	"github.com/matzehuels/jsonviz/pkg/scene/styles"
	"github.com/matzehuels/jsonviz/pkg/value"
)

// Options configures a session.
type Options struct {
	// Pipeline holds layout, viewport and style settings for every pass.
	Pipeline pipeline.Options

	// Logger receives change summaries and pass statistics (nil discards).
	Logger *log.Logger
}

// Session is one interactive view. All methods are safe for concurrent use;
// mutations are serialized.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	opts    pipeline.Options
	logger  *log.Logger
	raw     any
	text    string
	tree    *hierarchy.Node
	store   *expansion.Store
	view    *scene.Viewport
	scene   *scene.Scene
	err     error
	updated time.Time
}

// New creates a session showing the placeholder tree.
func New(opts Options) *Session {
	return newSession(uuid.NewString(), opts)
}

func newSession(id string, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	p := opts.Pipeline
	p.Logger = logger
	p.SetDefaults()

	now := time.Now()
	s := &Session{
		ID:        id,
		CreatedAt: now,
		opts:      p,
		logger:    logger.With("session", shortID(id)),
		tree:      hierarchy.Placeholder(),
		store:     expansion.New(),
		view:      scene.NewViewport(p.Width, p.Height),
		updated:   now,
	}
	// The placeholder pass cannot fail with validated options.
	_ = s.pass(context.Background())
	return s
}

// Close reports the end of the session to the observability hooks.
func (s *Session) Close(ctx context.Context) {
	observability.Session().OnSessionClosed(ctx, s.ID, time.Since(s.CreatedAt))
}

// =============================================================================
// Accessors
// =============================================================================

// Scene returns the scene of the latest pass.
func (s *Session) Scene() *scene.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene
}

// Value returns the current raw value, or nil when none is loaded.
func (s *Session) Value() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raw
}

// Tree returns the canonical tree in use. It is the placeholder when no
// valid value is loaded.
func (s *Session) Tree() *hierarchy.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree
}

// Expanded returns the expanded paths, root included, in sorted order.
func (s *Session) Expanded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Paths()
}

// Viewport returns a copy of the viewport.
func (s *Session) Viewport() scene.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.view
}

// Err returns the parse or validation error of the current value, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// UpdatedAt returns the time of the last mutation.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updated
}

// Options returns the pipeline options of the session.
func (s *Session) Options() pipeline.Options {
	return s.opts
}

// =============================================================================
// Data Replacement
// =============================================================================

// SetValue replaces the raw value. The expansion set is reset to the root
// and the view is refitted. A value whose root is not a container is kept
// but drawn as the placeholder; the returned error has code
// errors.ErrCodeInvalidRoot and is also available from [Session.Err].
func (s *Session) SetValue(ctx context.Context, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setValue(ctx, v, "")
}

// SetText parses text (JSON or YAML) and replaces the raw value with it.
// Malformed text leaves the placeholder tree and returns a parse error.
func (s *Session) SetText(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := value.Decode([]byte(text), value.FormatAuto)
	if err != nil {
		s.summarize(text)
		s.raw, s.text = nil, text
		s.tree = hierarchy.Placeholder()
		s.store = expansion.New()
		s.err = err
		s.view.Manual = false
		if perr := s.pass(ctx); perr != nil {
			return perr
		}
		return err
	}
	return s.setValue(ctx, v, text)
}

// Patch applies an RFC 6902 JSON Patch to the current value. The expansion
// set and viewport are kept. On error nothing changes.
func (s *Session) Patch(ctx context.Context, patch []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.raw == nil {
		return errors.New(errors.ErrCodeInvalidPatch, "no document to patch")
	}
	next, err := value.ApplyPatch(s.raw, patch)
	if err != nil {
		return err
	}
	tree, err := pipeline.BuildTree(ctx, next)
	if err != nil {
		return err
	}
	s.summarize(documentText(next))
	s.raw, s.text, s.tree, s.err = next, "", tree, nil
	return s.pass(ctx)
}

func (s *Session) setValue(ctx context.Context, v any, text string) error {
	if text == "" {
		text = documentText(v)
	}
	s.summarize(text)

	tree, err := pipeline.TreeOrPlaceholder(ctx, v)
	s.raw, s.text, s.tree, s.err = v, text, tree, err
	s.store = expansion.New()
	s.view.Manual = false
	if perr := s.pass(ctx); perr != nil {
		return perr
	}
	return err
}

// summarize logs how many lines changed between the current document and
// next.
func (s *Session) summarize(next string) {
	c := Summarize(s.text, next)
	if c.Empty() {
		return
	}
	s.logger.Debug("document replaced", "added", c.Added, "removed", c.Removed)
}

// documentText returns the indented JSON text of v, or "" when v cannot be
// encoded.
func documentText(v any) string {
	if v == nil {
		return ""
	}
	data, err := value.MarshalIndent(v, "  ")
	if err != nil {
		return ""
	}
	return string(data)
}

// =============================================================================
// Expansion Commands
// =============================================================================

// Toggle flips the expansion of the node at path. Collapsing removes every
// expanded descendant too. Toggling the root is a no-op.
func (s *Session) Toggle(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !hasPath(s.tree, path) {
		return errors.New(errors.ErrCodeInvalidPath, "no node at %s", path)
	}
	s.store.Toggle(path)
	return s.pass(ctx)
}

// ExpandAll expands every container node.
func (s *Session) ExpandAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ExpandAll(s.tree)
	return s.pass(ctx)
}

// ExpandDepth expands every container node down to depth.
func (s *Session) ExpandDepth(ctx context.Context, depth int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ExpandDepth(s.tree, depth)
	return s.pass(ctx)
}

// CollapseAll resets expansion to the root.
func (s *Session) CollapseAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.CollapseAll()
	return s.pass(ctx)
}

// ExpandWhere expands every node matched by the expression (see
// expansion.Compile) and returns the number of matches.
func (s *Session) ExpandWhere(ctx context.Context, expression string) (int, error) {
	pred, err := expansion.Compile(expression)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.store.ExpandWhere(s.tree, pred)
	if err != nil {
		return 0, err
	}
	return n, s.pass(ctx)
}

// =============================================================================
// Viewport Commands
// =============================================================================

// SetViewport records a transform reported by the view. It does not run a
// pass.
func (s *Session) SetViewport(t scene.Transform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Set(t)
	sc := *s.scene
	sc.View = s.view.Transform
	s.scene = &sc
	s.updated = time.Now()
}

// Resize records the size of the view. An untouched view is refitted.
func (s *Session) Resize(ctx context.Context, width, height float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Resize(width, height)
	return s.pass(ctx)
}

// Fit refits the view to the drawing and clears any manual pan or zoom.
func (s *Session) Fit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Manual = false
	return s.pass(ctx)
}

// =============================================================================
// Drawing
// =============================================================================

// pass redraws the current tree. Callers hold s.mu.
func (s *Session) pass(ctx context.Context) error {
	opts := s.opts
	opts.Width, opts.Height = s.view.Width, s.view.Height
	opts.View = nil
	if s.view.Manual {
		t := s.view.Transform
		opts.View = &t
	}

	res, err := pipeline.Pass(ctx, s.tree, s.store, opts)
	if err != nil {
		return err
	}
	if !s.view.Manual {
		s.view.Transform = res.Scene.Fit
	}
	s.scene = res.Scene
	s.updated = time.Now()
	return nil
}

// SVG draws the current scene for insertion into a page that binds the
// interaction script itself. The view refits itself in the browser unless
// the user has panned or zoomed.
func (s *Session) SVG() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.svg()
}

func (s *Session) svg() ([]byte, error) {
	st, err := styles.Lookup(s.opts.Style)
	if err != nil {
		return nil, err
	}
	return sink.RenderSVG(s.scene,
		sink.WithStyle(st),
		sink.WithoutScript(),
		sink.WithAutoFit(!s.view.Manual))
}

// hasPath reports whether tree has a container node at path.
func hasPath(tree *hierarchy.Node, path string) bool {
	found := false
	hierarchy.Walk(tree, func(p string, _ int, _ *hierarchy.Node) bool {
		if p == path {
			found = true
		}
		return !found && strings.HasPrefix(path, p+hierarchy.Separator)
	})
	return found
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
