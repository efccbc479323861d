package dag

import (
	"errors"
	"slices"
	"testing"
)

func chain(ids ...string) *DAG {
	g := New()
	for _, id := range ids {
		g.AddNode(Node{ID: id})
	}
	for i := 0; i < len(ids)-1; i++ {
		g.AddEdge(Edge{From: ids[i], To: ids[i+1]})
	}
	return g
}

func TestAddNode(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{ID: ""}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v, want ErrInvalidNodeID", err)
	}
	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode(a) = %v", err)
	}
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(a) twice = %v, want ErrDuplicateNodeID", err)
	}
}

func TestAddEdgeUnknownNodes(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a"})
	if err := g.AddEdge(Edge{From: "x", To: "a"}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("AddEdge(x→a) = %v, want ErrUnknownSourceNode", err)
	}
	if err := g.AddEdge(Edge{From: "a", To: "x"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("AddEdge(a→x) = %v, want ErrUnknownTargetNode", err)
	}
}

func TestNodesInsertionOrder(t *testing.T) {
	ids := []string{"zeta", "alpha", "mu", "beta", "omega"}
	g := New()
	for _, id := range ids {
		g.AddNode(Node{ID: id})
	}
	var got []string
	for _, n := range g.Nodes() {
		got = append(got, n.ID)
	}
	if !slices.Equal(got, ids) {
		t.Errorf("Nodes() = %v, want %v", got, ids)
	}
}

func TestRemoveEdge(t *testing.T) {
	g := chain("a", "b", "c")
	g.RemoveEdge("a", "b")
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if len(g.Children("a")) != 0 || len(g.Parents("b")) != 0 {
		t.Error("adjacency not updated after RemoveEdge")
	}
}

func TestClone(t *testing.T) {
	g := chain("a", "b")
	c := g.Clone()
	c.AddNode(Node{ID: "x"})
	c.AddEdge(Edge{From: "b", To: "x"})
	n, _ := c.Node("a")
	n.Width = 99

	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("original mutated: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}
	if orig, _ := g.Node("a"); orig.Width != 0 {
		t.Error("node struct shared between clone and original")
	}
}

func TestValidate(t *testing.T) {
	if err := chain("a", "b", "c").Validate(); err != nil {
		t.Errorf("Validate(chain) = %v", err)
	}
	g := chain("a", "b", "c")
	g.AddEdge(Edge{From: "c", To: "a"})
	if err := g.Validate(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("Validate(cycle) = %v, want ErrGraphHasCycle", err)
	}
}

func TestCountLayerCrossings(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "x", "y"} {
		g.AddNode(Node{ID: id})
	}
	g.AddEdge(Edge{From: "a", To: "y"})
	g.AddEdge(Edge{From: "b", To: "x"})

	if got := CountLayerCrossings(g, []string{"a", "b"}, []string{"x", "y"}); got != 1 {
		t.Errorf("crossed = %d, want 1", got)
	}
	if got := CountLayerCrossings(g, []string{"a", "b"}, []string{"y", "x"}); got != 0 {
		t.Errorf("uncrossed = %d, want 0", got)
	}
	if got := CountLayerCrossings(g, nil, []string{"x"}); got != 0 {
		t.Errorf("empty upper = %d, want 0", got)
	}
}
