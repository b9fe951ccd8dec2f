// Package pipeline provides the drawing pipeline for jsonviz.
//
// This package implements the complete build → pass → render pipeline used
// by the CLI, the HTTP host and interactive sessions. By centralizing this
// logic, every entry point draws the same value the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Convert a raw value into the canonical tree ([BuildTree])
//  2. Pass: Materialize the visible tree, lay it out, route its links and
//     describe it as a scene ([Pass])
//  3. Render: Generate output in various formats (SVG, HTML, JSON, DOT,
//     PNG, PDF)
//
// Build runs once per value; a pass runs on every expansion change.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Formats: []string{"svg"}}
//	result, err := runner.Execute(ctx, v, expansion.New(), opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	tree, err := pipeline.BuildTree(ctx, v)
//	pass, err := runner.Pass(ctx, tree, store, opts)
//	artifacts, err := runner.Render(ctx, pass.Scene, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsonviz/pkg/cache"
	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/hierarchy"
	"github.com/matzehuels/jsonviz/pkg/layout"
	"github.com/matzehuels/jsonviz/pkg/materialize"
	"github.com/matzehuels/jsonviz/pkg/route"
	"github.com/matzehuels/jsonviz/pkg/scene"
	"github.com/matzehuels/jsonviz/pkg/scene/styles"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, Server, and Sessions
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = scene.DefaultWidth

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = scene.DefaultHeight

	// DefaultStyle is the default visual style.
	DefaultStyle = styles.StyleLight

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatHTML     = "html"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatGraphviz = "graphviz"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
)

// Formats lists the supported output formats in documentation order.
var Formats = []string{FormatSVG, FormatHTML, FormatJSON, FormatDOT, FormatGraphviz, FormatPNG, FormatPDF}

// Extension returns the file extension used when writing format.
func Extension(format string) string {
	if format == FormatGraphviz {
		return "gv.svg"
	}
	return format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a drawing pass and its rendering.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Layout layout.Options `json:"layout,omitempty"`

	// Viewport options
	Width  float64          `json:"width,omitempty"`
	Height float64          `json:"height,omitempty"`
	View   *scene.Transform `json:"view,omitempty"` // Replaces the fitted transform

	// Render options
	Formats []string `json:"formats,omitempty"`
	Style   string   `json:"style,omitempty"`
	Title   string   `json:"title,omitempty"`
	Scale   float64  `json:"scale,omitempty"`  // PNG scale factor
	Static  bool     `json:"static,omitempty"` // Omit interaction script and auto-fit

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the canonical tree of the value.
	Tree *hierarchy.Node

	// Visible is the tree materialized for this pass.
	Visible *materialize.Node

	// Layout holds box positions.
	Layout *layout.Layout

	// Links holds the routed edges.
	Links []route.Link

	// Scene is the render-ready description of the pass.
	Scene *scene.Scene

	// SceneHash is the content hash of the scene JSON.
	SceneHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int // Nodes in the canonical tree
	BoxCount   int // Boxes drawn
	EdgeCount  int // Edges drawn
	BuildTime  time.Duration
	PassTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return errors.ValidateOneOf(errors.ErrCodeInvalidFormat, "format", format, Formats...)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	return errors.ValidateOneOf(errors.ErrCodeInvalidStyle, "style", style, styles.Names...)
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills zero fields with default values.
func (o *Options) SetDefaults() {
	o.Layout.SetDefaults()
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks formats and style.
func (o *Options) Validate() error {
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

// SceneOptions returns the scene options for a pass.
func (o *Options) SceneOptions() scene.Options {
	return scene.Options{Width: o.Width, Height: o.Height, Style: o.Style, View: o.View}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Style: o.Style, AutoFit: !o.Static}
	switch format {
	case FormatPNG:
		k.Scale = o.Scale
	case FormatHTML:
		k.Title = o.Title
	}
	return k
}
