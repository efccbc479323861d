package dag_test

import (
	"fmt"

	"github.com/airvair/stampgraph/pkg/dag"
)

func ExampleAssignLayers() {
	// An operations centre commands a crew, which commands a pump.
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "ops"})
	_ = g.AddNode(dag.Node{ID: "crew"})
	_ = g.AddNode(dag.Node{ID: "pump"})
	_ = g.AddEdge(dag.Edge{From: "ops", To: "crew"})
	_ = g.AddEdge(dag.Edge{From: "crew", To: "pump"})

	dag.AssignLayers(g)

	for _, n := range g.Nodes() {
		fmt.Println(n.ID, n.Row)
	}
	// Output:
	// ops 0
	// crew 1
	// pump 2
}

func ExampleBreakCycles() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "a"})
	_ = g.AddNode(dag.Node{ID: "b"})
	_ = g.AddEdge(dag.Edge{From: "a", To: "b"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "a"})

	fmt.Println("removed:", dag.BreakCycles(g))
	fmt.Println("edges:", g.EdgeCount())
	// Output:
	// removed: 1
	// edges: 1
}
