package graph

import "fmt"

// =============================================================================
// Node kinds
// =============================================================================

// NodeKind is the closed set of visual node categories. The renderer picks a
// style per kind; the builder and the layout engine use it to tell team
// containers and members apart from ordinary boxes.
type NodeKind int

const (
	NodeIndividual NodeKind = iota
	NodeSoftware
	NodeOrganisation
	NodeTeam          // team drawn as a single box (single unit, or no members)
	NodeTeamContainer // expanded team owning member nodes
	NodeMember
	NodeComponent
)

var nodeKindNames = [...]string{
	NodeIndividual:    "individual",
	NodeSoftware:      "software",
	NodeOrganisation:  "organisation",
	NodeTeam:          "team",
	NodeTeamContainer: "team-container",
	NodeMember:        "member",
	NodeComponent:     "component",
}

func (k NodeKind) String() string {
	if k < 0 || int(k) >= len(nodeKindNames) {
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
	return nodeKindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k NodeKind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(nodeKindNames) {
		return nil, fmt.Errorf("invalid node kind %d", int(k))
	}
	return []byte(nodeKindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *NodeKind) UnmarshalText(text []byte) error {
	for i, name := range nodeKindNames {
		if name == string(text) {
			*k = NodeKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown node kind %q", text)
}

// =============================================================================
// Edge kinds
// =============================================================================

// EdgeKind is the closed set of relationship categories.
type EdgeKind int

const (
	EdgeControl EdgeKind = iota
	EdgeFeedback
	EdgeCommunication
	EdgeFailure
)

var edgeKindNames = [...]string{
	EdgeControl:       "control",
	EdgeFeedback:      "feedback",
	EdgeCommunication: "communication",
	EdgeFailure:       "failure",
}

func (k EdgeKind) String() string {
	if k < 0 || int(k) >= len(edgeKindNames) {
		return fmt.Sprintf("EdgeKind(%d)", int(k))
	}
	return edgeKindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k EdgeKind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(edgeKindNames) {
		return nil, fmt.Errorf("invalid edge kind %d", int(k))
	}
	return []byte(edgeKindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EdgeKind) UnmarshalText(text []byte) error {
	for i, name := range edgeKindNames {
		if name == string(text) {
			*k = EdgeKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown edge kind %q", text)
}

// =============================================================================
// Node, Edge, Diagram
// =============================================================================

// Position is a top-left corner. Member positions are relative to their
// container; every other position is relative to the diagram origin.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one drawable box.
type Node struct {
	ID       string   `json:"id"`
	ParentID string   `json:"parentId,omitempty"` // container id, members only
	Kind     NodeKind `json:"kind"`
	Label    string   `json:"label"`
	Role     string   `json:"role,omitempty"` // displayed role, members only
	Position Position `json:"position"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
}

// IsMember reports whether the node lives inside a team container.
func (n Node) IsMember() bool { return n.ParentID != "" }

// Right returns the x coordinate of the node's right edge.
func (n Node) Right() float64 { return n.Position.X + n.Width }

// CenterX returns the horizontal center of the node.
func (n Node) CenterX() float64 { return n.Position.X + n.Width/2 }

// Edge is one drawable connection. Source and Target are node ids; for a
// dangling path they name an entity that has no node, and SourceLabel or
// TargetLabel carry the placeholder label.
type Edge struct {
	ID           string   `json:"id"`
	Source       string   `json:"source"`
	Target       string   `json:"target"`
	SourceHandle Handle   `json:"sourceHandle"`
	TargetHandle Handle   `json:"targetHandle"`
	Kind         EdgeKind `json:"kind"`
	Label        string   `json:"label,omitempty"`
	SourceLabel  string   `json:"sourceLabel"`
	TargetLabel  string   `json:"targetLabel"`
	Missing      bool     `json:"missing,omitempty"` // feedback that is absent in the real system
}

// Diagram is the complete drawable graph: the builder's output and the
// layout engine's input and output.
type Diagram struct {
	Nodes  []Node  `json:"nodes"`
	Edges  []Edge  `json:"edges"`
	Width  float64 `json:"width,omitempty"`  // set by the layout engine
	Height float64 `json:"height,omitempty"` // set by the layout engine
}

// Node returns the node with the given id.
func (d Diagram) Node(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Members returns the member nodes of a container, in ordinal order.
func (d Diagram) Members(containerID string) []Node {
	var out []Node
	for _, n := range d.Nodes {
		if n.ParentID == containerID {
			out = append(out, n)
		}
	}
	return out
}

// EdgesOfKind returns the edges of one kind, in diagram order.
func (d Diagram) EdgesOfKind(kind EdgeKind) []Edge {
	var out []Edge
	for _, e := range d.Edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Bounds returns the width and height of the box enclosing all top-level
// nodes, measured from the origin.
func (d Diagram) Bounds() (width, height float64) {
	for _, n := range d.Nodes {
		if n.IsMember() {
			continue
		}
		width = max(width, n.Right())
		height = max(height, n.Position.Y+n.Height)
	}
	return width, height
}

// HandlesFor lists the distinct handles edges attach to on a node, source
// handles first, each group in edge order. A renderer mounts exactly these.
func (d Diagram) HandlesFor(nodeID string) (sources, targets []Handle) {
	seenS := map[Handle]bool{}
	seenT := map[Handle]bool{}
	for _, e := range d.Edges {
		if e.Source == nodeID && !seenS[e.SourceHandle] {
			seenS[e.SourceHandle] = true
			sources = append(sources, e.SourceHandle)
		}
		if e.Target == nodeID && !seenT[e.TargetHandle] {
			seenT[e.TargetHandle] = true
			targets = append(targets, e.TargetHandle)
		}
	}
	return sources, targets
}
