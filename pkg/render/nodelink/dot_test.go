package nodelink

import (
	"strings"
	"testing"

	"github.com/airvair/stampgraph/pkg/graph"
	"github.com/airvair/stampgraph/pkg/model"
	"github.com/airvair/stampgraph/pkg/model/modeltest"
)

func TestToDOT(t *testing.T) {
	m := modeltest.Team(2)
	m.ActiveContexts = map[string]string{"t": "ctx"}
	m.Components = []model.Component{{ID: "x", Name: "Valve"}}
	m.ControlPaths = []model.ControlPath{{ID: "cp", SourceID: "t", TargetID: "x", Actions: []string{"Open"}}}
	m.FeedbackPaths = []model.FeedbackPath{{ID: "fb", SourceID: "x", TargetID: "t", Missing: true}}
	m.CommunicationPaths = []model.CommunicationPath{{ID: "c", SourceID: "t", TargetID: "t", SourceMemberID: "m0", TargetMemberID: "m1"}}
	d := graph.Build(m, graph.BuildOptions{})

	tests := []struct {
		name     string
		opts     Options
		contains []string
		excludes []string
	}{
		{
			name: "Simple",
			opts: Options{},
			contains: []string{
				`subgraph "cluster_t" {`,
				`"t/m0" [label="Member 0"`,
				`"x" [label="Valve", style=filled, fillcolor=lightgrey]`,
				`"t" -> "x" [color=black];`,
				`"x" -> "t" [constraint=false, style=dotted, color=red];`,
				`"t/m0" -> "t/m1" [constraint=false, style=dashed`,
			},
			excludes: []string{"Role 0", `label="Open"`},
		},
		{
			name:     "Detailed",
			opts:     Options{Detailed: true},
			contains: []string{`label="Member 0\nRole 0"`, `label="Open"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dot := ToDOT(d, tt.opts)
			for _, s := range tt.contains {
				if !strings.Contains(dot, s) {
					t.Errorf("DOT missing %q:\n%s", s, dot)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(dot, s) {
					t.Errorf("DOT unexpectedly contains %q", s)
				}
			}
		})
	}
}

func TestToDOTSkipsDanglingEdges(t *testing.T) {
	m := model.Model{
		Controllers:  []model.Controller{{ID: "a"}},
		ControlPaths: []model.ControlPath{{ID: "cp", SourceID: "a", TargetID: "ghost"}},
	}
	if dot := ToDOT(graph.Build(m, graph.BuildOptions{}), Options{}); strings.Contains(dot, "ghost") {
		t.Errorf("DOT references missing node:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.25" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.50 200.25" width="100" height="200">`
	if !strings.HasPrefix(out, want) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("without viewBox = %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(graph.Build(modeltest.FanOut(2), graph.BuildOptions{}), Options{}))
	if err != nil {
		t.Skipf("graphviz unavailable: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("output is not SVG: %.80s", svg)
	}
}
