// Package pipeline runs the complete spec → graph → layout → artifact flow.
//
// The CLI, the HTTP API and the watch loop all drive the same code path
// through this package, so behavior and cache keys stay consistent across
// entry points.
//
// # Architecture
//
// A run has four stages:
//
//  1. Load: decode the spec, build the compound graph and compose the
//     per-node block trees
//  2. Measure: size every block tree and write the results onto the graph
//  3. Layout: rank, order and position the graph, route the edges
//  4. Render: assemble the scene and encode the requested formats
//
// Results are cached by content hash at three points: the built graph under
// the spec hash, the computed layout under the graph hash plus layout
// settings, and each rendered artifact under the layout hash plus render
// settings. A rerun with identical inputs goes straight to the cached bytes.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    SpecPath: "system.json",
//	    Formats:  []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.SVG()
//
// Run individual stages:
//
//	// Build and measure only
//	ld, err := runner.Load(ctx, opts)
//
//	// Layout an already loaded graph
//	res, err := runner.ComputeLayout(ctx, ld, opts)
//
//	// Render an already computed layout
//	artifacts, err := runner.Render(ctx, ld, res, opts)
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/antopio26/graph-js/pkg/builder"
	"github.com/antopio26/graph-js/pkg/cache"
	"github.com/antopio26/graph-js/pkg/compose"
	"github.com/antopio26/graph-js/pkg/errors"
	"github.com/antopio26/graph-js/pkg/graph"
	"github.com/antopio26/graph-js/pkg/layout"
	"github.com/antopio26/graph-js/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Format constants for output artifacts.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json" // the layout document
	FormatDOT  = "dot"  // Graphviz source
)

// Style constants for the built-in visual styles.
const (
	StyleSimple    = "simple"
	StyleBlueprint = "blueprint"
)

const (
	// DefaultStyle is the visual style used when none is requested.
	DefaultStyle = StyleSimple

	// DefaultScale is the raster scale for PNG output.
	DefaultScale = 2.0
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	StyleSimple:    true,
	StyleBlueprint: true,
}

// ValidDirections is the set of supported flow directions.
var ValidDirections = map[string]bool{
	string(layout.TopBottom): true,
	string(layout.BottomTop): true,
	string(layout.LeftRight): true,
	string(layout.RightLeft): true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input. Exactly one source is required; a decoded Spec wins over the
	// inline document, which wins over the file path.
	Spec     *builder.Spec   `json:"-"`
	SpecJSON json.RawMessage `json:"spec,omitempty"`
	SpecPath string          `json:"spec_path,omitempty"`

	// Layout options. Zero values defer to the spec's own layout section,
	// which in turn defers to the engine defaults.
	Direction     string  `json:"direction,omitempty"`
	NodeSep       float64 `json:"node_sep,omitempty"`
	RankSep       float64 `json:"rank_sep,omitempty"`
	EdgeSep       float64 `json:"edge_sep,omitempty"`
	Margin        float64 `json:"margin,omitempty"`
	ClusterMargin float64 `json:"cluster_margin,omitempty"`
	Sweeps        int     `json:"sweeps,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Style       string   `json:"style,omitempty"`
	Padding     float64  `json:"padding,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	Scale       float64  `json:"scale,omitempty"` // raster scale for png

	// Refresh skips cache reads but still populates entries.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger          `json:"-"`
	Measurer compose.TextMeasurer `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the built compound graph.
	Graph *graph.Graph

	// GraphHash is the content hash of the canonical graph document.
	GraphHash string

	// Layout contains the computed placements and routed edges.
	Layout *layout.Result

	// Scene is the assembled drawing. It is nil when every requested
	// artifact came from the cache and nothing had to be drawn.
	Scene *scene.Scene

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// SVG returns the rendered SVG artifact, or nil when svg was not requested.
func (r *Result) SVG() []byte {
	return r.Artifacts[FormatSVG]
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GraphHit  bool // whether the built graph came from cache
	LayoutHit bool // whether the layout result came from cache
	RenderHit bool // whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
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
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidStyle,
			"invalid style: %q (must be one of: simple, blueprint)", style)
	}
	return nil
}

// ValidateDirection checks that a direction is valid. Empty is allowed: the
// spec's layout section or the engine default applies.
func ValidateDirection(dir string) error {
	if dir != "" && !ValidDirections[dir] {
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid direction: %q (must be one of: TB, BT, LR, RL)", dir)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for the load stage.
func (o *Options) ValidateForLoad() error {
	if o.Spec == nil && len(o.SpecJSON) == 0 && o.SpecPath == "" {
		return errors.New(errors.ErrCodeInvalidInput,
			"a spec is required: set Spec, SpecJSON or SpecPath")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForLayout checks the layout overrides.
func (o *Options) ValidateForLayout() error {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return ValidateDirection(o.Direction)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

// LayoutConfig resolves the effective engine configuration: the spec's own
// layout section provides the base, fields set on Options override it.
func (o *Options) LayoutConfig(spec *builder.Spec) layout.Config {
	var cfg layout.Config
	if spec != nil {
		cfg = spec.Layout.Config()
	}
	if o.Direction != "" {
		cfg.Direction = layout.Direction(o.Direction)
	}
	if o.NodeSep > 0 {
		cfg.NodeSep = o.NodeSep
	}
	if o.RankSep > 0 {
		cfg.RankSep = o.RankSep
	}
	if o.EdgeSep > 0 {
		cfg.EdgeSep = o.EdgeSep
	}
	if o.Margin > 0 {
		cfg.Margin = o.Margin
	}
	if o.ClusterMargin > 0 {
		cfg.ClusterMargin = o.ClusterMargin
	}
	if o.Sweeps > 0 {
		cfg.Sweeps = o.Sweeps
	}
	return cfg
}

// ArtifactKeyOpts returns cache key options for one rendered format. Scale
// only participates for raster output, so vector artifacts are shared across
// scale settings.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	ko := cache.ArtifactKeyOpts{
		Format:      format,
		Style:       o.Style,
		Padding:     o.Padding,
		Interactive: o.Interactive,
	}
	if format == FormatPNG {
		ko.Scale = o.Scale
	}
	return ko
}

// layoutKeyOpts translates a normalized engine configuration into cache key
// options. The config must be normalized first so filled-in defaults
// participate in the key.
func layoutKeyOpts(cfg layout.Config) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Direction:     string(cfg.Direction),
		NodeSep:       cfg.NodeSep,
		RankSep:       cfg.RankSep,
		EdgeSep:       cfg.EdgeSep,
		Margin:        cfg.Margin,
		ClusterMargin: cfg.ClusterMargin,
		Sweeps:        cfg.Sweeps,
	}
}
