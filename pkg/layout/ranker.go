package layout

import (
	"fmt"

	"github.com/airvair/stampgraph/pkg/dag"
	"github.com/airvair/stampgraph/pkg/graph"
)

// Box is a node to be ranked.
type Box struct {
	ID     string
	Width  float64
	Height float64
}

// Problem is the Phase A input: the top-level nodes in diagram order and the
// control edges between them.
type Problem struct {
	Boxes          []Box
	Edges          []dag.Edge
	RankSeparation float64
	NodeSeparation float64
}

// Ranker computes an initial top-left position for every box of a problem.
// Implementations must be deterministic and must place every box.
type Ranker interface {
	Name() string
	Rank(p Problem) (map[string]graph.Position, error)
}

// RankerByName returns the ranker configured by name: "graphviz" (dot with
// native fallback) or "layered" (native only).
func RankerByName(name string) (Ranker, error) {
	switch name {
	case "", "graphviz":
		return Fallback{Primary: GraphvizRanker{}, Secondary: LayeredRanker{}}, nil
	case "layered":
		return LayeredRanker{}, nil
	}
	return nil, fmt.Errorf("unknown ranker %q", name)
}

// Fallback tries Primary and switches to Secondary when it fails.
type Fallback struct {
	Primary   Ranker
	Secondary Ranker
}

func (f Fallback) Name() string { return f.Primary.Name() }

func (f Fallback) Rank(p Problem) (map[string]graph.Position, error) {
	pos, err := f.Primary.Rank(p)
	if err == nil {
		return pos, nil
	}
	pos, err2 := f.Secondary.Rank(p)
	if err2 != nil {
		return nil, fmt.Errorf("%s: %w; %s: %v", f.Primary.Name(), err, f.Secondary.Name(), err2)
	}
	return pos, &FallbackError{Ranker: f.Primary.Name(), Err: err}
}

// FallbackError reports that the primary ranker failed and the positions
// came from the secondary ranker. Layout logs it and carries on.
type FallbackError struct {
	Ranker string
	Err    error
}

func (e *FallbackError) Error() string { return e.Ranker + " ranker failed: " + e.Err.Error() }
func (e *FallbackError) Unwrap() error { return e.Err }

// LayeredRanker is a native layered ranker. Back edges are dropped, rows are
// assigned by longest path and ordered by barycenter sweeps, and each row is
// packed centered on x = 0.
type LayeredRanker struct {
	// Sweeps is the number of ordering sweeps; 0 selects dag.DefaultSweeps.
	Sweeps int
}

func (LayeredRanker) Name() string { return "layered" }

func (r LayeredRanker) Rank(p Problem) (map[string]graph.Position, error) {
	g := dag.New()
	for _, b := range p.Boxes {
		if err := g.AddNode(dag.Node{ID: b.ID, Width: b.Width, Height: b.Height}); err != nil {
			return nil, fmt.Errorf("add %q: %w", b.ID, err)
		}
	}
	for _, e := range p.Edges {
		if e.From == e.To {
			continue
		}
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", e.From, e.To, err)
		}
	}

	dag.BreakCycles(g)
	dag.AssignLayers(g)
	orders := dag.OrderRows(g, r.Sweeps)

	pos := make(map[string]graph.Position, len(p.Boxes))
	y := 0.0
	for _, row := range g.RowIDs() {
		ids := orders[row]
		rowHeight, rowWidth := 0.0, float64(len(ids)-1)*p.NodeSeparation
		for _, id := range ids {
			n, _ := g.Node(id)
			rowHeight = max(rowHeight, n.Height)
			rowWidth += n.Width
		}

		x := -rowWidth / 2
		for _, id := range ids {
			n, _ := g.Node(id)
			pos[id] = graph.Position{X: x, Y: y + (rowHeight-n.Height)/2}
			x += n.Width + p.NodeSeparation
		}
		y += rowHeight + p.RankSeparation
	}
	return pos, nil
}
