package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/antopio26/graph-js/pkg/compose"
	"github.com/antopio26/graph-js/pkg/errors"
	"github.com/antopio26/graph-js/pkg/graph"
	"github.com/antopio26/graph-js/pkg/layout"
	"github.com/antopio26/graph-js/pkg/observability"
	"github.com/antopio26/graph-js/pkg/scene"
	"github.com/antopio26/graph-js/pkg/scene/styles"
)

// assemble places the measured block trees into their layout boxes and
// builds the drawable scene. Placements address node centers; block boxes
// are anchored at the top-left corner.
func assemble(ld *Loaded, res *layout.Result) (*scene.Scene, error) {
	boxes := make(map[string]compose.Rect, len(res.Nodes))
	for id, p := range res.Nodes {
		boxes[id] = compose.Rect{X: p.X - p.W/2, Y: p.Y - p.H/2, W: p.W, H: p.H}
	}
	if err := compose.LayoutAll(ld.Blocks, boxes); err != nil {
		return nil, err
	}
	fragments, err := compose.UpdateAll(ld.Blocks)
	if err != nil {
		return nil, err
	}
	return scene.Assemble(ld.Graph, res, fragments)
}

// renderArtifacts draws every requested format. The SVG is rendered once and
// reused for the raster and PDF conversions.
func renderArtifacts(ctx context.Context, g *graph.Graph, s *scene.Scene, layoutData []byte, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()

	var svg []byte
	for _, format := range opts.Formats {
		if format == FormatSVG || format == FormatPNG || format == FormatPDF {
			svg = scene.RenderSVG(s, buildSVGOptions(opts)...)
			break
		}
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		start := time.Now()
		hooks.OnRenderStart(ctx, format)

		var data []byte
		var err error
		switch format {
		case FormatSVG:
			data = svg
		case FormatPNG:
			data, err = scene.ToPNG(svg, opts.Scale)
		case FormatPDF:
			data, err = scene.ToPDF(svg)
		case FormatJSON:
			data = layoutData
		case FormatDOT:
			data = scene.ToDOT(g)
		default:
			err = errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions maps render options onto the scene renderer's options.
func buildSVGOptions(opts Options) []scene.Option {
	var svgOpts []scene.Option

	switch opts.Style {
	case StyleBlueprint:
		svgOpts = append(svgOpts, scene.WithStyle(styles.Blueprint{}))
	case StyleSimple:
		svgOpts = append(svgOpts, scene.WithStyle(styles.Simple{}))
	}

	if opts.Padding > 0 {
		svgOpts = append(svgOpts, scene.WithPadding(opts.Padding))
	}
	if opts.Interactive {
		svgOpts = append(svgOpts, scene.WithInteraction())
	}

	return svgOpts
}
