// Package dag provides the directed graph the layout engine ranks and orders.
//
// # Overview
//
// The control structure of a safety model is a hierarchy: controllers issue
// commands to the entities below them. This package holds that hierarchy as
// plain nodes (with box sizes) and edges, and implements the classic layered
// drawing steps on top of it:
//
//   - [BreakCycles] removes back edges so malformed input cannot stall ranking
//   - [AssignLayers] puts every node one row below its deepest parent
//   - [OrderRows] sweeps barycenters up and down to reduce crossings,
//     keeping the best ordering according to [CountCrossings]
//
// # Determinism
//
// Every accessor returning several nodes returns them in insertion order.
// No result depends on Go map iteration order, so a fixed input always yields
// the same rows and orderings.
//
// # Basic Usage
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "ops", Width: 180, Height: 60})
//	g.AddNode(dag.Node{ID: "pump", Width: 180, Height: 60})
//	g.AddEdge(dag.Edge{From: "ops", To: "pump"})
//
//	dag.BreakCycles(g)
//	dag.AssignLayers(g)
//	orders := dag.OrderRows(g, 4)
//
// # Concurrency
//
// DAG is not safe for concurrent use. Callers building one graph per layout
// pass need no synchronization.
package dag
