package cli

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/expansion"
	"github.com/matzehuels/jsonviz/pkg/hierarchy"
	"github.com/matzehuels/jsonviz/pkg/pipeline"
	"github.com/matzehuels/jsonviz/pkg/source"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string   // output file (single format) or base path; "-" writes to stdout
	formats     string   // comma-separated output formats
	inputFormat string   // json, yaml or auto
	expandAll   bool     // expand every container
	depth       int      // expand containers up to this depth (-1: unset)
	expand      []string // paths to expand, with their ancestors
	where       string   // expression selecting containers to expand
	style       string
	width       float64
	height      float64
	scale       float64
	title       string
	static      bool // omit the interaction script
	noCache     bool
}

// expansionModes counts the expansion modes requested.
func (o *renderOpts) expansionModes() int {
	n := 0
	if o.expandAll {
		n++
	}
	if o.depth >= 0 {
		n++
	}
	if len(o.expand) > 0 {
		n++
	}
	if o.where != "" {
		n++
	}
	return n
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{depth: -1}

	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Draw a JSON or YAML document as a node-link tree",
		Long: `Draw a JSON or YAML document as a node-link tree.

The input is a file path, an http(s) URL, or - for standard input. Only the
root is expanded unless one of --expand-all, --depth, --expand or --where
selects more containers.

Rendered outputs are cached by the content of the drawing, so repeated runs
with the same input and options are instant.`,
		Example: `  jsonviz render package.json
  jsonviz render data.yaml -f svg,png --depth 2
  curl -s https://api.example.com/items | jsonviz render - -o items.html -f html --where 'kind == "array"'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.expansionModes() > 1 {
				return errors.New(errors.ErrCodeInvalidInput,
					"--expand-all, --depth, --expand and --where are mutually exclusive")
			}
			popts, err := c.renderPipelineOptions(cmd, &opts)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], popts, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (multiple) or - for stdout")
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): "+strings.Join(pipeline.Formats, ", ")+" (comma-separated)")
	f.StringVar(&opts.inputFormat, "input-format", "", "input format: json, yaml or auto (default: by extension)")
	f.BoolVar(&opts.expandAll, "expand-all", false, "expand every container")
	f.IntVar(&opts.depth, "depth", -1, "expand containers up to this depth (root is 0)")
	f.StringArrayVar(&opts.expand, "expand", nil, "expand the container at `path` and its ancestors (repeatable)")
	f.StringVar(&opts.where, "where", "", "expand containers matching an `expression`, e.g. 'depth < 2 && kind == \"object\"'")
	f.StringVar(&opts.style, "style", "", "visual style: light, dark")
	f.Float64Var(&opts.width, "width", 0, "viewport width in pixels")
	f.Float64Var(&opts.height, "height", 0, "viewport height in pixels")
	f.Float64Var(&opts.scale, "scale", 0, "PNG scale factor")
	f.StringVar(&opts.title, "title", "", "HTML page title (default: input name)")
	f.BoolVar(&opts.static, "static", false, "omit the interaction script from SVG and HTML output")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// renderPipelineOptions merges configured defaults with the flags set on cmd.
func (c *CLI) renderPipelineOptions(cmd *cobra.Command, opts *renderOpts) (pipeline.Options, error) {
	p := c.Config.PipelineOptions()
	flags := cmd.Flags()
	if formats := parseFormats(opts.formats); len(formats) > 0 {
		p.Formats = formats
	}
	if flags.Changed("style") {
		p.Style = opts.style
	}
	if flags.Changed("width") {
		p.Width = opts.width
	}
	if flags.Changed("height") {
		p.Height = opts.height
	}
	if flags.Changed("scale") {
		p.Scale = opts.scale
	}
	p.Title = opts.title
	p.Static = opts.static
	p.Logger = c.Logger

	if err := p.Validate(); err != nil {
		return p, err
	}
	if opts.output == "-" && len(p.Formats) > 1 {
		return p, errors.New(errors.ErrCodeInvalidInput, "only one format can be written to stdout")
	}
	return p, nil
}

// runRender loads input, expands it as requested and writes every format.
func (c *CLI) runRender(ctx context.Context, input string, popts pipeline.Options, opts *renderOpts) error {
	runner := c.newRunner(ctx, opts.noCache)
	defer runner.Close()

	spinner := newSpinner(ctx, "Loading "+input+"...")
	spinner.Start()

	prog := newProgress(c.Logger)
	doc, err := c.newLoader(runner.Cache, opts.inputFormat).Load(ctx, input)
	if err != nil {
		spinner.StopWithError("Could not load " + input)
		return err
	}
	prog.done("loaded document", "ref", input, "format", doc.Format, "bytes", len(doc.Data), "cached", doc.Cached)

	if popts.Title == "" {
		popts.Title = displayName(input)
	}

	spinner.Update("Drawing...")
	tree, err := pipeline.BuildTree(ctx, doc.Value)
	if err != nil {
		spinner.StopWithError("Could not draw " + input)
		return err
	}
	store, err := expandTree(tree, opts)
	if err != nil {
		spinner.Stop()
		return err
	}

	result, err := runner.Pass(ctx, tree, store, popts)
	if err != nil {
		spinner.StopWithError("Drawing failed")
		return err
	}

	spinner.Update("Rendering " + strings.Join(popts.Formats, ", ") + "...")
	artifacts, cached, err := runner.RenderWithCacheInfo(ctx, result.Scene, popts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return err
	}
	spinner.Stop()

	if opts.output == "-" {
		_, err := os.Stdout.Write(artifacts[popts.Formats[0]])
		return err
	}

	base, exact := outputBase(opts.output, input, popts.Formats)
	rows, err := writeArtifacts(artifacts, popts.Formats, base, exact)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", input)
	printStats(result.Stats.NodeCount, result.Stats.BoxCount, result.Stats.EdgeCount, cached)
	if len(rows) == 1 {
		printFile(rows[0].path)
	} else {
		fmt.Println(artifactTable(rows))
	}
	if input != source.Stdin {
		printNextStep("Explore it interactively", "jsonviz serve "+input)
	}
	return nil
}

// expandTree builds the expansion set requested by the flags.
func expandTree(tree *hierarchy.Node, opts *renderOpts) (*expansion.Store, error) {
	store := expansion.New()
	switch {
	case opts.expandAll:
		store.ExpandAll(tree)
	case opts.depth >= 0:
		store.ExpandDepth(tree, opts.depth)
	case len(opts.expand) > 0:
		for _, p := range opts.expand {
			if err := errors.ValidatePath(p, hierarchy.RootName); err != nil {
				return nil, err
			}
			store.Expand(p)
		}
	case opts.where != "":
		pred, err := expansion.Compile(opts.where)
		if err != nil {
			return nil, err
		}
		if _, err := store.ExpandWhere(tree, pred); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// =============================================================================
// Output
// =============================================================================

// outputBase derives the output path. With one format and an explicit output
// that has an extension, the path is used as is (exact is true); otherwise
// the result is a base to which each format's extension is appended.
func outputBase(output, input string, formats []string) (base string, exact bool) {
	if output == "" {
		return baseName(input), false
	}
	if len(formats) == 1 && filepath.Ext(output) != "" {
		return output, true
	}
	for _, f := range pipeline.Formats {
		if ext := "." + pipeline.Extension(f); strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext), false
		}
	}
	return output, false
}

// baseName strips directories and the extension from a file path or URL.
// Standard input is named after the application.
func baseName(input string) string {
	if input == source.Stdin {
		return appName
	}
	name := displayName(input)
	name = strings.TrimSuffix(name, path.Ext(name))
	if name == "" {
		return appName
	}
	return name
}

// displayName is the last path element of a file path or URL.
func displayName(input string) string {
	if input == source.Stdin {
		return "stdin"
	}
	if i := strings.IndexAny(input, "?#"); i >= 0 {
		input = input[:i]
	}
	return path.Base(filepath.ToSlash(strings.TrimRight(input, "/")))
}

// writeArtifacts writes each format concurrently to base plus the format's
// extension, or to base itself when exact is set.
func writeArtifacts(artifacts map[string][]byte, formats []string, base string, exact bool) ([]artifactRow, error) {
	rows := make([]artifactRow, len(formats))

	var g errgroup.Group
	for i, format := range formats {
		target := base + "." + pipeline.Extension(format)
		if exact {
			target = base
		}
		data := artifacts[format]
		g.Go(func() error {
			if err := writeFile(target, data); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}
			rows[i] = artifactRow{format: format, path: target, size: len(data)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
