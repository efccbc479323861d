package graph

import (
	"slices"
	"strings"

	"github.com/airvair/stampgraph/pkg/model"
)

// MemberID returns the node id of a team member. Entity ids never contain
// '/', so member ids cannot collide with controller or component ids.
func MemberID(teamID, memberID string) string {
	return teamID + "/" + memberID
}

// Build derives the diagram for a model. It never fails: paths naming
// unknown entities are emitted with [Unknown] labels, still taking their own
// handle slot on the endpoint that exists, and duplicate entity ids keep
// their first declaration.
//
// Nodes are emitted controllers first (each expanded team followed by its
// members), then components. Edges are emitted control, feedback,
// communication, then failure paths, each in declaration order.
func Build(m model.Model, opts BuildOptions) Diagram {
	b := newBuilder(m, opts.sizes())

	d := Diagram{
		Nodes: b.nodes(),
		Edges: make([]Edge, 0, len(m.ControlPaths)+len(m.FeedbackPaths)+len(m.CommunicationPaths)),
	}
	for i, p := range m.ControlPaths {
		d.Edges = append(d.Edges, b.controlEdge(i, p))
	}
	for i, p := range m.FeedbackPaths {
		d.Edges = append(d.Edges, b.feedbackEdge(i, p))
	}
	for _, p := range m.CommunicationPaths {
		d.Edges = append(d.Edges, b.communicationEdge(p))
	}
	if opts.ShowFailurePaths {
		for _, p := range m.FailurePaths {
			d.Edges = append(d.Edges, b.failureEdge(p))
		}
	}
	return d
}

type builder struct {
	m           model.Model
	sizes       Sizes
	controllers map[string]model.Controller
	components  map[string]model.Component
	s           *structure
	w           *widths
	fb          *feedbackStructure
}

func newBuilder(m model.Model, sizes Sizes) *builder {
	b := &builder{
		m:           m,
		sizes:       sizes,
		controllers: make(map[string]model.Controller, len(m.Controllers)),
		components:  make(map[string]model.Component, len(m.Components)),
	}
	base := make(map[string]float64, len(m.Controllers)+len(m.Components))
	for _, c := range m.Controllers {
		if _, dup := b.controllers[c.ID]; dup {
			continue
		}
		b.controllers[c.ID] = c
		base[c.ID] = sizes.NodeWidth
		if c.IsComplexTeam() {
			base[c.ID] = sizes.TeamBaseWidth()
		}
	}
	for _, c := range m.Components {
		if b.known(c.ID) {
			continue
		}
		b.components[c.ID] = c
		base[c.ID] = sizes.NodeWidth
	}

	b.s = newStructure(m.ControlPaths, b.known)
	b.w = newWidths(b.s, sizes, base)
	b.fb = newFeedbackStructure(m.FeedbackPaths, b.s, b.known)
	return b
}

func (b *builder) known(id string) bool {
	if _, ok := b.controllers[id]; ok {
		return true
	}
	_, ok := b.components[id]
	return ok
}

func (b *builder) label(id string) string {
	if c, ok := b.controllers[id]; ok {
		return nonEmpty(c.Name, c.ID)
	}
	if c, ok := b.components[id]; ok {
		return nonEmpty(c.Name, c.ID)
	}
	return Unknown
}

// =============================================================================
// Nodes
// =============================================================================

func (b *builder) nodes() []Node {
	var out []Node
	emitted := map[string]bool{}
	for _, c := range b.m.Controllers {
		if emitted[c.ID] {
			continue
		}
		emitted[c.ID] = true

		container := Node{
			ID:     c.ID,
			Kind:   controllerNodeKind(c),
			Label:  nonEmpty(c.Name, c.ID),
			Width:  b.w.final(c.ID),
			Height: b.sizes.NodeHeight,
		}
		if !c.IsComplexTeam() {
			out = append(out, container)
			continue
		}

		members := uniqueMembers(c.Members)
		container.Height = b.sizes.TeamHeight(len(members))
		out = append(out, container)
		for i, mem := range members {
			out = append(out, Node{
				ID:       MemberID(c.ID, mem.ID),
				ParentID: c.ID,
				Kind:     NodeMember,
				Label:    nonEmpty(mem.Name, mem.ID),
				Role:     memberRole(c, mem, b.m.ActiveContexts),
				Position: b.sizes.MemberOffset(i, container.Width),
				Width:    b.sizes.MemberWidth,
				Height:   b.sizes.MemberHeight,
			})
		}
	}
	for _, c := range b.m.Components {
		if emitted[c.ID] {
			continue
		}
		emitted[c.ID] = true
		out = append(out, Node{
			ID:     c.ID,
			Kind:   NodeComponent,
			Label:  nonEmpty(c.Name, c.ID),
			Width:  b.w.final(c.ID),
			Height: b.sizes.NodeHeight,
		})
	}
	return out
}

func controllerNodeKind(c model.Controller) NodeKind {
	switch c.Kind {
	case model.KindIndividual:
		return NodeIndividual
	case model.KindSoftware:
		return NodeSoftware
	case model.KindOrganisation:
		return NodeOrganisation
	case model.KindTeam:
		if c.IsComplexTeam() {
			return NodeTeamContainer
		}
		return NodeTeam
	}
	return NodeIndividual
}

// memberRole resolves the role shown for a member: the assignment in the
// team's active context when there is one, otherwise the member's rank.
func memberRole(team model.Controller, mem model.Member, active map[string]string) string {
	if ctxID, ok := active[team.ID]; ok {
		if ctx, ok := team.Context(ctxID); ok {
			if role := ctx.Roles[mem.ID]; role != "" {
				return role
			}
		}
	}
	return mem.Rank
}

func uniqueMembers(members []model.Member) []model.Member {
	seen := make(map[string]bool, len(members))
	out := make([]model.Member, 0, len(members))
	for _, m := range members {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, m)
	}
	return out
}

// =============================================================================
// Edges
// =============================================================================

func (b *builder) controlEdge(i int, p model.ControlPath) Edge {
	src, dst := b.controlHandles(i, p)
	return Edge{
		ID:           p.ID,
		Source:       p.SourceID,
		Target:       p.TargetID,
		SourceHandle: src,
		TargetHandle: dst,
		Kind:         EdgeControl,
		Label:        joinLabel(p.Actions),
		SourceLabel:  b.label(p.SourceID),
		TargetLabel:  b.label(p.TargetID),
	}
}

// controlHandles assigns the slots of the i-th control path. Outgoing slots
// sit on the source's bottom side: bypass edges get their own family, and
// fan-out edges are indexed per path. Incoming slots sit on the target's top
// side: converging edges are indexed per path, and an edge into a node that
// fans out lands on that node's first fan-out slot.
func (b *builder) controlHandles(i int, p model.ControlPath) (src, dst Handle) {
	src = DefaultHandle(SideBottom, FamilyControl)
	dst = DefaultHandle(SideTop, FamilyControl)

	if slot := slices.Index(b.s.outBypass[p.SourceID], i); slot >= 0 {
		src = SlotHandle(SideBottom, FamilyBypass, slot)
	} else if out := b.s.outDirect[p.SourceID]; len(out) > 1 {
		src = SlotHandle(SideBottom, FamilyControl, slices.Index(out, i))
	}

	if in := b.s.in[p.TargetID]; len(in) > 1 {
		dst = SlotHandle(SideTop, FamilyParent, slices.Index(in, i))
	} else if len(b.s.outDirect[p.TargetID]) > 1 {
		dst = SlotHandle(SideTop, FamilyControl, 0)
	}
	return src, dst
}

func (b *builder) feedbackEdge(i int, p model.FeedbackPath) Edge {
	src, dst := b.feedbackHandles(i, p)
	return Edge{
		ID:           p.ID,
		Source:       p.SourceID,
		Target:       p.TargetID,
		SourceHandle: src,
		TargetHandle: dst,
		Kind:         EdgeFeedback,
		Label:        joinLabel(p.Feedback),
		SourceLabel:  b.label(p.SourceID),
		TargetLabel:  b.label(p.TargetID),
		Missing:      p.Missing,
	}
}

// feedbackHandles mirrors controlHandles: feedback leaves the reporting node
// from its top side and arrives at the controller's bottom side, using the
// feedback families.
func (b *builder) feedbackHandles(i int, p model.FeedbackPath) (src, dst Handle) {
	src = DefaultHandle(SideTop, FamilyFeedback)
	dst = DefaultHandle(SideBottom, FamilyFeedback)

	if slot := slices.Index(b.fb.outBypass[p.SourceID], i); slot >= 0 {
		src = SlotHandle(SideTop, FamilyFeedbackBypass, slot)
	} else if out := b.fb.outDirect[p.SourceID]; len(out) > 1 {
		src = SlotHandle(SideTop, FamilyFeedback, slices.Index(out, i))
	}

	if in := b.fb.in[p.TargetID]; len(in) > 1 {
		dst = SlotHandle(SideBottom, FamilyFeedbackParent, slices.Index(in, i))
	} else if len(b.fb.outDirect[p.TargetID]) > 1 {
		dst = SlotHandle(SideBottom, FamilyFeedback, 0)
	}
	return src, dst
}

// communicationEdge attaches at the right and left midpoints. Intra-team
// communication is drawn between the member nodes when both resolve.
func (b *builder) communicationEdge(p model.CommunicationPath) Edge {
	e := Edge{
		ID:           p.ID,
		Source:       p.SourceID,
		Target:       p.TargetID,
		SourceHandle: DefaultHandle(SideRight, FamilyCommunication),
		TargetHandle: DefaultHandle(SideLeft, FamilyCommunication),
		Kind:         EdgeCommunication,
		Label:        p.Description,
		SourceLabel:  b.label(p.SourceID),
		TargetLabel:  b.label(p.TargetID),
	}
	if p.SourceID != p.TargetID {
		return e
	}
	team, ok := b.controllers[p.SourceID]
	if !ok || !team.IsComplexTeam() {
		return e
	}
	if mem, ok := findMember(team, p.SourceMemberID); ok {
		e.Source = MemberID(team.ID, mem.ID)
		e.SourceLabel = nonEmpty(mem.Name, mem.ID)
	}
	if mem, ok := findMember(team, p.TargetMemberID); ok {
		e.Target = MemberID(team.ID, mem.ID)
		e.TargetLabel = nonEmpty(mem.Name, mem.ID)
	}
	return e
}

func (b *builder) failureEdge(p model.FailurePath) Edge {
	return Edge{
		ID:           p.ID,
		Source:       p.SourceID,
		Target:       p.TargetID,
		SourceHandle: DefaultHandle(SideBottom, FamilyFailure),
		TargetHandle: DefaultHandle(SideTop, FamilyFailure),
		Kind:         EdgeFailure,
		Label:        joinLabel(p.Descriptions),
		SourceLabel:  b.label(p.SourceID),
		TargetLabel:  b.label(p.TargetID),
	}
}

func findMember(team model.Controller, id string) (model.Member, bool) {
	if id == "" {
		return model.Member{}, false
	}
	for _, m := range team.Members {
		if m.ID == id {
			return m, true
		}
	}
	return model.Member{}, false
}

func joinLabel(parts []string) string {
	return strings.Join(parts, ", ")
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
