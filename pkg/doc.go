// Package pkg provides the libraries behind stampgraph, a layout engine for
// STAMP control-structure diagrams.
//
// # Overview
//
// A safety model lists controllers, controlled components and the control,
// feedback, communication and failure paths between them. Stampgraph turns
// it into a diagram a renderer can paint: controllers sit above what they
// control, shared subordinates are centred under their co-controllers and
// teams are expanded into their members.
//
// # Architecture
//
//	[model] safety model (JSON / YAML / TOML)
//	    ↓
//	[graph] Build: nodes, sizes, edges and handle slots
//	    ↓
//	[layout] Layout: phase A ranking, phase B alignment, phase C convergence
//	    ↓
//	positioned diagram JSON, or a DOT/SVG preview from [render/nodelink]
//
// Both Build and Layout are pure and never fail. [pipeline] wraps them with
// memoization through [cache], hooks from [observability] and logging.
//
// # Quick Start
//
//	m, err := model.Load("plant.yaml")
//	if err != nil {
//	    return err
//	}
//	d := layout.Layout(graph.Build(m, graph.BuildOptions{}), layout.Options{})
//	return graph.WriteDiagramFile(d, "plant.diagram.json")
//
// # Supporting Packages
//
//   - [dag]: ordered directed graph with layering and crossing reduction
//   - [config]: TOML configuration
//   - [errors]: coded errors shared by the CLI and HTTP server
//   - [buildinfo]: version information set at link time
//
// [model]: github.com/airvair/stampgraph/pkg/model
// [graph]: github.com/airvair/stampgraph/pkg/graph
// [layout]: github.com/airvair/stampgraph/pkg/layout
// [render/nodelink]: github.com/airvair/stampgraph/pkg/render/nodelink
// [pipeline]: github.com/airvair/stampgraph/pkg/pipeline
// [cache]: github.com/airvair/stampgraph/pkg/cache
// [observability]: github.com/airvair/stampgraph/pkg/observability
// [dag]: github.com/airvair/stampgraph/pkg/dag
// [config]: github.com/airvair/stampgraph/pkg/config
// [errors]: github.com/airvair/stampgraph/pkg/errors
// [buildinfo]: github.com/airvair/stampgraph/pkg/buildinfo
package pkg
