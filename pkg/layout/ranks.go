package layout

import (
	"slices"

	"github.com/airvair/stampgraph/pkg/graph"
)

// Ranks groups the top-level nodes of a positioned diagram into ranks by
// vertical center, top to bottom, each rank left to right. Nodes whose
// centers lie within tolerance of the first node of a rank join that rank.
func Ranks(d graph.Diagram, tolerance float64) [][]string {
	index := make(map[string]int, len(d.Nodes))
	var ids []string
	for i, n := range d.Nodes {
		if _, dup := index[n.ID]; dup {
			continue
		}
		index[n.ID] = i
	}
	for i, n := range d.Nodes {
		if index[n.ID] != i {
			continue
		}
		if _, inContainer := index[n.ParentID]; n.ParentID != "" && inContainer {
			continue
		}
		ids = append(ids, n.ID)
	}
	return clusterRanks(ids, func(id string) *graph.Node { return &d.Nodes[index[id]] }, tolerance)
}

func clusterRanks(ids []string, node func(string) *graph.Node, tolerance float64) [][]string {
	centerY := func(id string) float64 {
		n := node(id)
		return n.Position.Y + n.Height/2
	}

	sorted := slices.Clone(ids)
	slices.SortStableFunc(sorted, func(a, b string) int {
		return compareFloat(centerY(a), centerY(b))
	})

	var (
		ranks  [][]string
		anchor float64
	)
	for _, id := range sorted {
		cy := centerY(id)
		if len(ranks) == 0 || cy-anchor > tolerance {
			ranks = append(ranks, nil)
			anchor = cy
		}
		ranks[len(ranks)-1] = append(ranks[len(ranks)-1], id)
	}
	for _, r := range ranks {
		slices.SortStableFunc(r, func(a, b string) int {
			return compareFloat(node(a).Position.X, node(b).Position.X)
		})
	}
	return ranks
}
