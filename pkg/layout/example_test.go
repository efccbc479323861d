package layout_test

import (
	"fmt"

	"github.com/airvair/stampgraph/pkg/graph"
	"github.com/airvair/stampgraph/pkg/layout"
	"github.com/airvair/stampgraph/pkg/model"
)

func ExampleLayout() {
	m := model.Model{
		Controllers: []model.Controller{{ID: "ops", Name: "Operations"}},
		Components:  []model.Component{{ID: "pump", Name: "Pump"}, {ID: "valve", Name: "Valve"}},
		ControlPaths: []model.ControlPath{
			{ID: "cp1", SourceID: "ops", TargetID: "pump"},
			{ID: "cp2", SourceID: "ops", TargetID: "valve"},
		},
	}

	opts := layout.DefaultOptions()
	opts.Ranker = layout.LayeredRanker{}
	d := layout.Layout(graph.Build(m, graph.BuildOptions{}), opts)
	for _, n := range d.Nodes {
		fmt.Printf("%s (%v, %v)\n", n.ID, n.Position.X, n.Position.Y)
	}
	fmt.Println(d.Width, d.Height)
	// Output:
	// ops (0, 0)
	// pump (0, 160)
	// valve (240, 160)
	// 420 220
}
