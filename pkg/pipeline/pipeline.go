// Package pipeline runs model → Build → Layout → render for the CLI and
// the HTTP server.
//
// Both components underneath are pure functions that recompute everything
// from the model on every call. The [Runner] adds the one optimisation the
// design allows: explicit memoization keyed on a hash of the model and the
// options, through a [cache.Cache]. Nothing else is retained between calls.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	d, err := runner.Diagram(ctx, m, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	svg, err := runner.Render(ctx, m, pipeline.FormatSVG, opts)
package pipeline

import (
	"fmt"
	"time"

	sgerrors "github.com/airvair/stampgraph/pkg/errors"
	"github.com/airvair/stampgraph/pkg/graph"
	"github.com/airvair/stampgraph/pkg/layout"
)

// Output formats.
const (
	// FormatJSON is the positioned diagram as JSON.
	FormatJSON = "json"
	// FormatDOT is a Graphviz preview of the unpositioned diagram.
	FormatDOT = "dot"
	// FormatSVG is the DOT preview rendered by Graphviz.
	FormatSVG = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// Cache TTLs.
const (
	TTLDiagram = 7 * 24 * time.Hour
	TTLDOT     = 7 * 24 * time.Hour
)

// Options configures one pipeline run.
type Options struct {
	Build  graph.BuildOptions
	Layout layout.Options

	// Detailed adds roles and path text to DOT and SVG previews.
	Detailed bool

	// Refresh bypasses cache reads; results are still written back.
	Refresh bool
}

// RankerName is the Phase A ranker the options select.
func (o Options) RankerName() string {
	if o.Layout.Ranker == nil {
		return "graphviz"
	}
	return o.Layout.Ranker.Name()
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return sgerrors.New(sgerrors.ErrCodeInvalidFormat, "invalid format: %s (must be json, dot or svg)", format)
	}
	return nil
}

func formatErr(format string, err error) error {
	return fmt.Errorf("render %s: %w", format, err)
}
