package layout

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/airvair/stampgraph/pkg/graph"
)

// pointsPerInch converts between diagram units and Graphviz inches.
const pointsPerInch = 72

// plainFormat is Graphviz's line-oriented text output: node centers and the
// graph size in inches, y pointing up.
const plainFormat graphviz.Format = "plain"

// GraphvizRanker runs Graphviz dot over the problem and reads node positions
// back from its plain output. Boxes are emitted with fixed sizes and child
// order follows edge order.
type GraphvizRanker struct{}

func (GraphvizRanker) Name() string { return "graphviz" }

func (GraphvizRanker) Rank(p Problem) (map[string]graph.Position, error) {
	if len(p.Boxes) == 0 {
		return map[string]graph.Position{}, nil
	}

	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(ProblemDOT(p)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, plainFormat, &buf); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return parsePlain(buf.Bytes(), p)
}

// ProblemDOT renders a Phase A problem as DOT. Boxes are named n<index> so
// the plain output can be mapped back without quoting concerns.
func ProblemDOT(p Problem) string {
	index := make(map[string]int, len(p.Boxes))
	for i, b := range p.Boxes {
		index[b.ID] = i
	}

	var buf bytes.Buffer
	buf.WriteString("digraph control {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  ordering=out;\n")
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(p.RankSeparation))
	fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(p.NodeSeparation))
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")
	buf.WriteString("\n")

	for i, b := range p.Boxes {
		fmt.Fprintf(&buf, "  n%d [width=%s, height=%s];\n", i, inches(b.Width), inches(b.Height))
	}
	buf.WriteString("\n")
	for _, e := range p.Edges {
		from, ok1 := index[e.From]
		to, ok2 := index[e.To]
		if !ok1 || !ok2 || from == to {
			continue
		}
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", from, to)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func inches(units float64) string {
	return strconv.FormatFloat(units/pointsPerInch, 'f', 4, 64)
}

// parsePlain converts dot's plain output into top-left positions in diagram
// units with y pointing down.
func parsePlain(out []byte, p Problem) (map[string]graph.Position, error) {
	var (
		height  float64
		sawSize bool
		centers = make(map[int][2]float64, len(p.Boxes))
	)

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		f := strings.Fields(sc.Text())
		if len(f) == 0 {
			continue
		}
		switch f[0] {
		case "graph":
			if len(f) < 4 {
				return nil, fmt.Errorf("plain: malformed graph line %q", sc.Text())
			}
			h, err := strconv.ParseFloat(f[3], 64)
			if err != nil {
				return nil, fmt.Errorf("plain: graph height: %w", err)
			}
			height, sawSize = h, true
		case "node":
			if len(f) < 4 {
				return nil, fmt.Errorf("plain: malformed node line %q", sc.Text())
			}
			i, err := strconv.Atoi(strings.TrimPrefix(strings.Trim(f[1], `"`), "n"))
			if err != nil || i < 0 || i >= len(p.Boxes) {
				return nil, fmt.Errorf("plain: unexpected node %q", f[1])
			}
			x, errX := strconv.ParseFloat(f[2], 64)
			y, errY := strconv.ParseFloat(f[3], 64)
			if errX != nil || errY != nil {
				return nil, fmt.Errorf("plain: bad coordinates in %q", sc.Text())
			}
			centers[i] = [2]float64{x, y}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("plain: %w", err)
	}
	if !sawSize {
		return nil, fmt.Errorf("plain: missing graph line")
	}

	pos := make(map[string]graph.Position, len(p.Boxes))
	for i, b := range p.Boxes {
		c, ok := centers[i]
		if !ok {
			return nil, fmt.Errorf("plain: node %q not placed", b.ID)
		}
		pos[b.ID] = graph.Position{
			X: c[0]*pointsPerInch - b.Width/2,
			Y: (height-c[1])*pointsPerInch - b.Height/2,
		}
	}
	return pos, nil
}
