package graph

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/airvair/stampgraph/pkg/model"
	"github.com/airvair/stampgraph/pkg/model/modeltest"
)

func TestBuildProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("build is deterministic", prop.ForAll(
		func(seed uint64, size int) bool {
			m := modeltest.Random(seed, size)
			return reflect.DeepEqual(Build(m, BuildOptions{}), Build(m, BuildOptions{}))
		},
		gen.UInt64(),
		gen.IntRange(1, 12),
	))

	for _, tc := range []struct {
		name  string
		model func(uint64, int) model.Model
	}{
		{"well-formed", modeltest.Random},
		{"degraded", modeltest.Degraded},
	} {
		properties.Property(tc.name+": handles are distinct per node and direction", prop.ForAll(
			func(seed uint64, size int) bool {
				d := Build(tc.model(seed, size), BuildOptions{})
				return distinctHandles(d, EdgeControl) && distinctHandles(d, EdgeFeedback)
			},
			gen.UInt64(),
			gen.IntRange(1, 12),
		))
	}

	properties.Property("degraded: every path is emitted with resolvable labels", prop.ForAll(
		func(seed uint64, size int) bool {
			m := modeltest.Degraded(seed, size)
			d := Build(m, BuildOptions{})
			if len(d.Edges) != len(m.ControlPaths)+len(m.FeedbackPaths)+len(m.CommunicationPaths) {
				return false
			}
			for _, e := range d.Edges {
				if _, ok := d.Node(e.Source); !ok && e.SourceLabel != Unknown {
					return false
				}
				if _, ok := d.Node(e.Target); !ok && e.TargetLabel != Unknown {
					return false
				}
			}
			return reflect.DeepEqual(d, Build(m, BuildOptions{}))
		},
		gen.UInt64(),
		gen.IntRange(1, 12),
	))

	properties.Property("parents cover their children", prop.ForAll(
		func(seed uint64, size int) bool {
			m := modeltest.Random(seed, size)
			d := Build(m, BuildOptions{})
			b := newBuilder(m, DefaultSizes())
			for _, n := range d.Nodes {
				kids := b.s.direct[n.ID]
				if len(kids) == 0 {
					continue
				}
				need := float64(len(kids)-1) * DefaultSpacing
				for _, k := range kids {
					need += b.w.subtree(k)
				}
				if n.Width < need {
					return false
				}
			}
			return true
		},
		gen.UInt64(),
		gen.IntRange(1, 12),
	))

	properties.Property("converging nodes leave room for every parent", prop.ForAll(
		func(seed uint64, size int) bool {
			m := modeltest.Random(seed, size)
			d := Build(m, BuildOptions{})
			b := newBuilder(m, DefaultSizes())
			for _, n := range d.Nodes {
				parents := b.s.sources[n.ID]
				if len(parents) < 2 {
					continue
				}
				need := float64(len(parents)-1) * DefaultSpacing
				for _, p := range parents {
					need += b.w.base[p]
				}
				if n.Width < need {
					return false
				}
			}
			return true
		},
		gen.UInt64(),
		gen.IntRange(1, 12),
	))

	properties.Property("members stay inside their container", prop.ForAll(
		func(n int) bool {
			d := Build(modeltest.Team(n), BuildOptions{})
			team, _ := d.Node("t")
			for _, mem := range d.Members("t") {
				p := mem.Position
				if p.X < 0 || p.Y < 0 || p.X+mem.Width > team.Width || p.Y+mem.Height > team.Height {
					return false
				}
			}
			return team.Height == DefaultSizes().TeamHeight(len(d.Members("t"))) || n == 0
		},
		gen.IntRange(0, 30),
	))

	properties.Property("fan-out width is monotone", prop.ForAll(
		func(k int) bool {
			a, _ := Build(modeltest.FanOut(k), BuildOptions{}).Node("a")
			if k < 2 {
				return a.Width >= DefaultNodeWidth
			}
			return a.Width >= float64(k)*DefaultNodeWidth+float64(k-1)*DefaultSpacing
		},
		gen.IntRange(0, 25),
	))

	properties.TestingRun(t)
}

// distinctHandles reports whether no node of d has two edges of kind sharing
// a source handle, or two sharing a target handle. Endpoints that name no
// node have nothing to anchor to and are ignored.
func distinctHandles(d Diagram, kind EdgeKind) bool {
	out := map[string]map[Handle]bool{}
	in := map[string]map[Handle]bool{}
	claim := func(seen map[string]map[Handle]bool, id string, h Handle) bool {
		if _, ok := d.Node(id); !ok {
			return true
		}
		if seen[id] == nil {
			seen[id] = map[Handle]bool{}
		}
		if seen[id][h] {
			return false
		}
		seen[id][h] = true
		return true
	}
	for _, e := range d.EdgesOfKind(kind) {
		if !claim(out, e.Source, e.SourceHandle) || !claim(in, e.Target, e.TargetHandle) {
			return false
		}
	}
	return true
}
