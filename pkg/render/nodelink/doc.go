// Package nodelink renders control-structure diagrams as Graphviz node-link
// previews.
//
// # Usage
//
// Convert a diagram to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(d, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// # DOT Format
//
// The generated DOT uses top-to-bottom layout (rankdir=TB). Expanded teams
// become cluster_ subgraphs holding the team node and its members. Only
// control edges constrain ranking; feedback, communication and failure
// edges are drawn with constraint=false so the preview keeps the same
// command hierarchy as the layout engine.
//
// Styles are chosen per node and edge kind: components are grey, software
// controllers blue, communication dashed, missing feedback dotted red,
// failure paths bold red.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
