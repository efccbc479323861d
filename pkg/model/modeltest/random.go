// Package modeltest generates models for tests.
package modeltest

import (
	"fmt"
	"math/rand/v2"

	"github.com/airvair/stampgraph/pkg/model"
)

// Random returns a pseudo-random model with up to size controllers and size
// components. Control paths only run from earlier to later entities, so the
// control structure is acyclic; fan-out, convergence and bypass paths all
// occur. The same seed always yields the same model.
func Random(seed uint64, size int) model.Model {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	size = max(size, 1)

	var m model.Model
	nCtrl := 1 + r.IntN(size)
	nComp := r.IntN(size + 1)

	kinds := []model.ControllerKind{model.KindIndividual, model.KindSoftware, model.KindOrganisation, model.KindTeam}
	for i := range nCtrl {
		c := model.Controller{
			ID:   fmt.Sprintf("c%d", i),
			Name: fmt.Sprintf("Controller %d", i),
			Kind: kinds[r.IntN(len(kinds))],
		}
		if c.Kind == model.KindTeam {
			for j := range r.IntN(5) {
				c.Members = append(c.Members, model.Member{
					ID:   fmt.Sprintf("m%d", j),
					Name: fmt.Sprintf("Member %d", j),
					Rank: fmt.Sprintf("Rank %d", j),
				})
			}
			c.SingleUnit = r.IntN(4) == 0
		}
		m.Controllers = append(m.Controllers, c)
	}
	for i := range nComp {
		m.Components = append(m.Components, model.Component{ID: fmt.Sprintf("x%d", i), Name: fmt.Sprintf("Component %d", i)})
	}

	ids := make([]string, 0, nCtrl+nComp)
	for _, c := range m.Controllers {
		ids = append(ids, c.ID)
	}
	for _, c := range m.Components {
		ids = append(ids, c.ID)
	}

	for t := 1; t < len(ids); t++ {
		sources := min(t, nCtrl)
		for range r.IntN(3) {
			s := r.IntN(sources)
			m.ControlPaths = append(m.ControlPaths, model.ControlPath{
				ID:       fmt.Sprintf("cp%d", len(m.ControlPaths)),
				SourceID: ids[s],
				TargetID: ids[t],
				Actions:  []string{"act"},
			})
		}
	}
	for _, p := range m.ControlPaths {
		if r.IntN(2) == 0 {
			m.FeedbackPaths = append(m.FeedbackPaths, model.FeedbackPath{
				ID:       fmt.Sprintf("fb%d", len(m.FeedbackPaths)),
				SourceID: p.TargetID,
				TargetID: p.SourceID,
				Feedback: []string{"status"},
				Missing:  r.IntN(5) == 0,
			})
		}
	}
	if nCtrl > 1 {
		for range r.IntN(3) {
			a, b := r.IntN(nCtrl), r.IntN(nCtrl)
			m.CommunicationPaths = append(m.CommunicationPaths, model.CommunicationPath{
				ID:       fmt.Sprintf("com%d", len(m.CommunicationPaths)),
				SourceID: ids[a],
				TargetID: ids[b],
			})
		}
	}
	return m
}

// Degraded returns Random(seed, size) with malformed paths mixed in: control
// and feedback paths naming unknown ids on either end, self-loops, and
// control paths pointing back up the hierarchy.
func Degraded(seed uint64, size int) model.Model {
	m := Random(seed, size)
	r := rand.New(rand.NewPCG(seed^0x5bd1e995, seed))

	ids := make([]string, 0, len(m.Controllers)+len(m.Components))
	for _, c := range m.Controllers {
		ids = append(ids, c.ID)
	}
	for _, c := range m.Components {
		ids = append(ids, c.ID)
	}
	pick := func() string { return ids[r.IntN(len(ids))] }
	ghost := func() string { return fmt.Sprintf("ghost%d", r.IntN(3)) }

	for range 1 + r.IntN(4) {
		var src, dst string
		switch r.IntN(4) {
		case 0:
			src, dst = ghost(), pick()
		case 1:
			src, dst = pick(), ghost()
		case 2:
			src = pick()
			dst = src
		default:
			// Back edge: a later entity controls an earlier one.
			a, b := r.IntN(len(ids)), r.IntN(len(ids))
			src, dst = ids[max(a, b)], ids[min(a, b)]
		}
		m.ControlPaths = append(m.ControlPaths, model.ControlPath{
			ID:       fmt.Sprintf("cp%d", len(m.ControlPaths)),
			SourceID: src,
			TargetID: dst,
		})
	}
	for range r.IntN(3) {
		src, dst := pick(), ghost()
		if r.IntN(2) == 0 {
			src, dst = dst, src
		}
		m.FeedbackPaths = append(m.FeedbackPaths, model.FeedbackPath{
			ID:       fmt.Sprintf("fb%d", len(m.FeedbackPaths)),
			SourceID: src,
			TargetID: dst,
		})
	}
	if r.IntN(2) == 0 {
		id := pick()
		m.FeedbackPaths = append(m.FeedbackPaths, model.FeedbackPath{
			ID:       fmt.Sprintf("fb%d", len(m.FeedbackPaths)),
			SourceID: id,
			TargetID: id,
		})
	}
	return m
}

// FanOut returns a controller "a" with k component children "x0".."x<k-1>".
func FanOut(k int) model.Model {
	m := model.Model{Controllers: []model.Controller{{ID: "a", Name: "A", Kind: model.KindIndividual}}}
	for i := range k {
		id := fmt.Sprintf("x%d", i)
		m.Components = append(m.Components, model.Component{ID: id, Name: id})
		m.ControlPaths = append(m.ControlPaths, model.ControlPath{ID: "cp-" + id, SourceID: "a", TargetID: id})
	}
	return m
}

// Team returns a single expandable team "t" with n members and one context
// "ctx" assigning a role to each member. The context is not activated.
func Team(n int) model.Model {
	team := model.Controller{ID: "t", Name: "Team", Kind: model.KindTeam}
	roles := map[string]string{}
	for i := range n {
		id := fmt.Sprintf("m%d", i)
		team.Members = append(team.Members, model.Member{ID: id, Name: fmt.Sprintf("Member %d", i), Rank: fmt.Sprintf("Rank %d", i)})
		roles[id] = fmt.Sprintf("Role %d", i)
	}
	team.Contexts = []model.Context{{ID: "ctx", Name: "Context", Roles: roles}}
	return model.Model{Controllers: []model.Controller{team}}
}
