// Package pkg holds the libraries behind jsonviz, which draws nested JSON and
// YAML documents as collapsible node-link trees.
//
// # Overview
//
// Every object or array in a document becomes a box listing its primitive
// fields. Container children hang off dots on their parent's rows and are
// drawn only while the parent is expanded. The packages are organized by the
// stage they implement:
//
//  1. [value] - Order-preserving JSON and YAML decoding, JSON patches
//  2. [hierarchy] - The canonical tree built from a decoded value
//  3. [expansion] - The set of expanded paths, plus expression selection
//  4. [materialize] - The visible tree for the current expansion set
//  5. [layout] - Box sizes and positions
//  6. [route] - Curves from parent dots to child boxes
//  7. [scene] - The drawable scene and its SVG, HTML, JSON and DOT sinks
//  8. [pipeline] - Orchestration of a full pass, with caching
//  9. [session] - Interactive state shared with a browser over a socket
//
// # Architecture
//
// A render pass flows through the stages in order:
//
//	JSON / YAML text
//	       ↓
//	  [value] package (decode, keep key order)
//	       ↓
//	  [hierarchy] package (containers, fields, cycle sentinels)
//	       ↓
//	  [materialize] package (apply the [expansion] set)
//	       ↓
//	  [layout] + [route] packages (geometry)
//	       ↓
//	  [scene] package → SVG/HTML/PNG/JSON/DOT
//
// # Quick Start
//
//	v, _ := value.DecodeJSON(data)
//	tree, _ := hierarchy.Build(v)
//
//	store := expansion.New()
//	store.ExpandDepth(tree, 2)
//
//	result, _ := (&pipeline.Runner{}).Pass(ctx, tree, store, pipeline.Options{})
//	svg, _ := sink.RenderSVG(result.Scene)
//
// # Supporting Packages
//
// [cache] stores downloaded documents and rendered artifacts on disk or in
// Redis. [source] loads documents from files, URLs and standard input.
// [render] rasterizes SVG to PNG. [errors] defines the error codes shared by
// the CLI and the HTTP host. [observability] carries optional hooks for
// logging and metrics. [httputil] is the HTTP client used for downloads.
package pkg
