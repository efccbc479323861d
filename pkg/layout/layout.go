package layout

import (
	"errors"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/airvair/stampgraph/pkg/dag"
	"github.com/airvair/stampgraph/pkg/graph"
)

// Layout returns a copy of d with every node positioned. Edges are passed
// through unchanged. Layout never fails: a ranker error falls back to the
// native ranker, and control cycles degrade to a best-effort placement.
func Layout(d graph.Diagram, opts Options) graph.Diagram {
	opts = opts.withDefaults()
	e := newEngine(d, opts)

	e.rank()
	e.align()
	e.converge()
	e.placeMembers()
	e.normalize()

	out := graph.Diagram{Nodes: e.nodes, Edges: slices.Clone(d.Edges)}
	out.Width, out.Height = out.Bounds()
	return out
}

// engine holds the working state of one Layout call.
type engine struct {
	opts  Options
	log   *log.Logger
	nodes []graph.Node
	index map[string]int
	top   []string // ranked nodes, diagram order

	// Control adjacency between ranked nodes, distinct ids in edge order.
	children map[string][]string
	parents  map[string][]string

	ranks  [][]string // top to bottom, each left to right
	rankOf map[string]int
}

func newEngine(d graph.Diagram, opts Options) *engine {
	e := &engine{
		opts:     opts,
		log:      opts.Logger,
		nodes:    slices.Clone(d.Nodes),
		index:    make(map[string]int, len(d.Nodes)),
		children: map[string][]string{},
		parents:  map[string][]string{},
	}
	for i, n := range e.nodes {
		if _, dup := e.index[n.ID]; !dup {
			e.index[n.ID] = i
		}
	}
	for i, n := range e.nodes {
		if e.index[n.ID] == i && !e.contained(n) {
			e.top = append(e.top, n.ID)
		}
	}

	for _, ed := range d.Edges {
		if ed.Kind != graph.EdgeControl || ed.Source == ed.Target {
			continue
		}
		if !e.ranked(ed.Source) || !e.ranked(ed.Target) {
			continue
		}
		if !slices.Contains(e.children[ed.Source], ed.Target) {
			e.children[ed.Source] = append(e.children[ed.Source], ed.Target)
			e.parents[ed.Target] = append(e.parents[ed.Target], ed.Source)
		}
	}
	return e
}

// contained reports whether n is a member of a container present in the
// diagram. Orphaned members are ranked like top-level nodes.
func (e *engine) contained(n graph.Node) bool {
	if n.ParentID == "" {
		return false
	}
	_, ok := e.index[n.ParentID]
	return ok
}

func (e *engine) ranked(id string) bool {
	i, ok := e.index[id]
	return ok && !e.contained(e.nodes[i])
}

func (e *engine) node(id string) *graph.Node { return &e.nodes[e.index[id]] }

func (e *engine) left(id string) float64    { return e.node(id).Position.X }
func (e *engine) right(id string) float64   { return e.node(id).Right() }
func (e *engine) centerX(id string) float64 { return e.node(id).CenterX() }
func (e *engine) setX(id string, x float64) { e.node(id).Position.X = x }

// =============================================================================
// Phase A
// =============================================================================

func (e *engine) problem() Problem {
	p := Problem{
		Boxes:          make([]Box, 0, len(e.top)),
		RankSeparation: e.opts.RankSeparation,
		NodeSeparation: e.opts.NodeSeparation,
	}
	for _, id := range e.top {
		n := e.node(id)
		p.Boxes = append(p.Boxes, Box{ID: id, Width: n.Width, Height: n.Height})
	}
	for _, id := range e.top {
		for _, c := range e.children[id] {
			p.Edges = append(p.Edges, dag.Edge{From: id, To: c})
		}
	}
	return p
}

func (e *engine) rank() {
	p := e.problem()
	ranker := e.opts.Ranker

	pos, err := ranker.Rank(p)
	var fb *FallbackError
	switch {
	case errors.As(err, &fb):
		e.log.Warn("ranker failed, used native fallback", "ranker", fb.Ranker, "err", fb.Err)
	case err != nil:
		e.log.Warn("ranker failed, using native fallback", "ranker", ranker.Name(), "err", err)
		native := LayeredRanker{}
		if pos, err = native.Rank(p); err != nil {
			e.log.Error("native ranker failed", "err", err)
		}
	}

	for id, at := range pos {
		if e.ranked(id) {
			e.node(id).Position = at
		}
	}
	e.log.Debug("phase A", "ranker", ranker.Name(), "nodes", len(p.Boxes), "edges", len(p.Edges))
}

// =============================================================================
// Phase B
// =============================================================================

// align clusters ranks and re-aligns every rank below the first under its
// controllers, repairing overlaps rank by rank so each rank sees its
// parents' final positions.
func (e *engine) align() {
	e.ranks = clusterRanks(e.top, e.node, e.opts.RankTolerance)
	e.rankOf = make(map[string]int, len(e.top))
	for r, ids := range e.ranks {
		for _, id := range ids {
			e.rankOf[id] = r
		}
	}
	if len(e.ranks) == 0 {
		return
	}

	e.repair(0)
	for r := 1; r < len(e.ranks); r++ {
		distributed := map[string]bool{}
		for _, id := range slices.Clone(e.ranks[r]) {
			parents := e.resolvedParents(id)
			switch len(parents) {
			case 0:
			case 1:
				p := parents[0]
				if !distributed[p] {
					distributed[p] = true
					e.distribute(p, e.soleChildrenInRank(p, r))
				}
			default:
				left, right := e.span(parents)
				e.setX(id, (left+right)/2-e.node(id).Width/2)
			}
		}
		e.repair(r)
	}
	e.log.Debug("phase B", "ranks", len(e.ranks))
}

// resolvedParents returns the parents of id ranked strictly above it. Under
// a control cycle a node may have none and keeps its Phase A position.
func (e *engine) resolvedParents(id string) []string {
	var out []string
	for _, p := range e.parents[id] {
		if e.rankOf[p] < e.rankOf[id] {
			out = append(out, p)
		}
	}
	return out
}

// soleChildrenInRank returns the children of p in rank r whose only resolved
// parent is p, in p's child order.
func (e *engine) soleChildrenInRank(p string, r int) []string {
	var out []string
	for _, c := range e.children[p] {
		if e.rankOf[c] == r && len(e.resolvedParents(c)) == 1 {
			out = append(out, c)
		}
	}
	return out
}

// distribute lays kids out left to right at child spacing, centered under p.
func (e *engine) distribute(p string, kids []string) {
	if len(kids) == 0 {
		return
	}
	total := float64(len(kids)-1) * e.opts.ChildSpacing
	for _, k := range kids {
		total += e.node(k).Width
	}
	x := e.centerX(p) - total/2
	for _, k := range kids {
		e.setX(k, x)
		x += e.node(k).Width + e.opts.ChildSpacing
	}
}

// span returns the horizontal extent covered by ids.
func (e *engine) span(ids []string) (left, right float64) {
	left, right = e.left(ids[0]), e.right(ids[0])
	for _, id := range ids[1:] {
		left = min(left, e.left(id))
		right = max(right, e.right(id))
	}
	return left, right
}

// repair sorts rank r left to right and pushes each node right until it
// clears its left neighbour by the minimum spacing.
func (e *engine) repair(r int) {
	ids := e.ranks[r]
	slices.SortStableFunc(ids, func(a, b string) int {
		return compareFloat(e.left(a), e.left(b))
	})
	for i := 1; i < len(ids); i++ {
		if need := e.right(ids[i-1]) + e.opts.MinSpacing; e.left(ids[i]) < need {
			e.setX(ids[i], need)
		}
	}
}

// =============================================================================
// Phase C
// =============================================================================

// converge pulls every child shared by two parents of one rank toward the
// middle of the parents' combined span. Pairs are visited widest first and
// each child moves at most once per rank pair; moves not exceeding the
// minimum delta are skipped.
func (e *engine) converge() {
	moved := 0
	for r := 0; r+1 < len(e.ranks); r++ {
		row := e.ranks[r]
		done := map[string]bool{}
		for i := 0; i < len(row); i++ {
			for j := len(row) - 1; j > i; j-- {
				a, b := row[i], row[j]
				if e.left(a) >= e.left(b) {
					continue
				}
				for _, c := range e.children[a] {
					if done[c] || e.rankOf[c] != r+1 || !slices.Contains(e.children[b], c) {
						continue
					}
					done[c] = true
					x := (e.left(a)+e.right(b))/2 - e.node(c).Width/2
					if abs(x-e.left(c)) > e.opts.ConvergenceMinDelta {
						e.setX(c, x)
						moved++
					}
				}
			}
		}
		e.repair(r + 1)
	}
	e.log.Debug("phase C", "moved", moved)
}

// =============================================================================
// Members and normalization
// =============================================================================

// placeMembers clamps every member's relative offset into its container.
func (e *engine) placeMembers() {
	for i := range e.nodes {
		n := &e.nodes[i]
		if !e.contained(*n) {
			continue
		}
		c := e.node(n.ParentID)
		n.Position.X = clamp(n.Position.X, 0, max(0, c.Width-n.Width))
		n.Position.Y = clamp(n.Position.Y, 0, max(0, c.Height-n.Height))
	}
}

// normalize translates ranked nodes so the top-left corner of the diagram
// sits at the origin.
func (e *engine) normalize() {
	if len(e.top) == 0 {
		return
	}
	minX, minY := e.node(e.top[0]).Position.X, e.node(e.top[0]).Position.Y
	for _, id := range e.top[1:] {
		minX = min(minX, e.node(id).Position.X)
		minY = min(minY, e.node(id).Position.Y)
	}
	for _, id := range e.top {
		e.node(id).Position.X -= minX
		e.node(id).Position.Y -= minY
	}
}

func clamp(v, lo, hi float64) float64 { return max(lo, min(v, hi)) }

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
