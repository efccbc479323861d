package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/airvair/stampgraph/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds member roles to node labels and action/feedback text to
	// edge labels. When false, only names are shown.
	Detailed bool
}

// ToDOT converts a diagram to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(d graph.Diagram, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.5;\n")
	buf.WriteString("\n")

	members := map[string][]graph.Node{}
	for _, n := range d.Nodes {
		if n.IsMember() {
			members[n.ParentID] = append(members[n.ParentID], n)
		}
	}

	for _, n := range d.Nodes {
		switch {
		case n.IsMember():
			if _, ok := d.Node(n.ParentID); !ok {
				writeNode(&buf, "  ", n, opts)
			}
		case n.Kind == graph.NodeTeamContainer:
			fmt.Fprintf(&buf, "  subgraph %q {\n", "cluster_"+n.ID)
			fmt.Fprintf(&buf, "    label=%q;\n", n.Label)
			buf.WriteString("    style=\"rounded,dashed\";\n")
			writeNode(&buf, "    ", n, opts)
			for _, m := range members[n.ID] {
				writeNode(&buf, "    ", m, opts)
			}
			buf.WriteString("  }\n")
		default:
			writeNode(&buf, "  ", n, opts)
		}
	}

	buf.WriteString("\n")
	for _, e := range d.Edges {
		if !hasNode(d, e.Source) || !hasNode(d, e.Target) {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(edgeAttrs(e, opts), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, indent string, n graph.Node, opts Options) {
	label := n.Label
	if opts.Detailed && n.Role != "" {
		label += "\n" + n.Role
	}
	attrs := append([]string{fmt.Sprintf("label=%q", label)}, nodeStyle(n.Kind)...)
	fmt.Fprintf(buf, "%s%q [%s];\n", indent, n.ID, strings.Join(attrs, ", "))
}

func nodeStyle(k graph.NodeKind) []string {
	switch k {
	case graph.NodeIndividual:
		return nil
	case graph.NodeSoftware:
		return []string{"fillcolor=\"#dbeafe\""}
	case graph.NodeOrganisation:
		return []string{"shape=box3d", "style=filled", "fillcolor=\"#fef3c7\""}
	case graph.NodeTeam:
		return []string{"peripheries=2"}
	case graph.NodeTeamContainer:
		return []string{"style=\"rounded,filled,bold\"", "fillcolor=\"#ede9fe\""}
	case graph.NodeMember:
		return []string{"fontsize=12", "fillcolor=\"#f5f3ff\""}
	case graph.NodeComponent:
		return []string{"style=filled", "fillcolor=lightgrey"}
	}
	return nil
}

func edgeAttrs(e graph.Edge, opts Options) []string {
	var attrs []string
	if opts.Detailed && e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	switch e.Kind {
	case graph.EdgeControl:
		attrs = append(attrs, "color=black")
	case graph.EdgeFeedback:
		attrs = append(attrs, "constraint=false")
		if e.Missing {
			attrs = append(attrs, "style=dotted", "color=red")
		} else {
			attrs = append(attrs, "color=\"#2563eb\"")
		}
	case graph.EdgeCommunication:
		attrs = append(attrs, "constraint=false", "style=dashed", "dir=both", "color=\"#6b7280\"")
	case graph.EdgeFailure:
		attrs = append(attrs, "constraint=false", "style=bold", "color=\"#dc2626\"")
	}
	return attrs
}

func hasNode(d graph.Diagram, id string) bool {
	_, ok := d.Node(id)
	return ok
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
