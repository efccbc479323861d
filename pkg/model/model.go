package model

import (
	"fmt"
	"strings"
)

// ControllerKind is the closed set of controller categories. The kind drives
// node styling and decides whether team expansion applies.
type ControllerKind int

const (
	KindIndividual ControllerKind = iota
	KindSoftware
	KindOrganisation
	KindTeam
)

var controllerKindNames = [...]string{
	KindIndividual:   "individual",
	KindSoftware:     "software",
	KindOrganisation: "organisation",
	KindTeam:         "team",
}

// String returns the lowercase name used in model files.
func (k ControllerKind) String() string {
	if k < 0 || int(k) >= len(controllerKindNames) {
		return fmt.Sprintf("ControllerKind(%d)", int(k))
	}
	return controllerKindNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k ControllerKind) Valid() bool {
	return k >= 0 && int(k) < len(controllerKindNames)
}

// MarshalText implements encoding.TextMarshaler.
func (k ControllerKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid controller kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Matching is
// case-insensitive and accepts the American spelling of organisation.
func (k *ControllerKind) UnmarshalText(text []byte) error {
	kind, err := ParseControllerKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseControllerKind converts a kind name to a ControllerKind. An empty name
// maps to KindIndividual.
func ParseControllerKind(s string) (ControllerKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "individual", "human":
		return KindIndividual, nil
	case "software", "automated":
		return KindSoftware, nil
	case "organisation", "organization":
		return KindOrganisation, nil
	case "team":
		return KindTeam, nil
	}
	return 0, fmt.Errorf("unknown controller kind %q", s)
}

// Member is one person inside a team controller.
type Member struct {
	ID   string `json:"id" yaml:"id" toml:"id" validate:"required"`
	Name string `json:"name" yaml:"name" toml:"name"`
	Rank string `json:"rank,omitempty" yaml:"rank,omitempty" toml:"rank,omitempty"`
}

// Context is a named operating situation of a team, assigning a role to each
// member (member id → role).
type Context struct {
	ID    string            `json:"id" yaml:"id" toml:"id" validate:"required"`
	Name  string            `json:"name" yaml:"name" toml:"name"`
	Roles map[string]string `json:"roles,omitempty" yaml:"roles,omitempty" toml:"roles,omitempty"`
}

// Controller is an entity with control authority.
type Controller struct {
	ID         string         `json:"id" yaml:"id" toml:"id" validate:"required"`
	Name       string         `json:"name" yaml:"name" toml:"name"`
	Kind       ControllerKind `json:"kind" yaml:"kind" toml:"kind"`
	Members    []Member       `json:"members,omitempty" yaml:"members,omitempty" toml:"members,omitempty" validate:"dive"`
	Contexts   []Context      `json:"contexts,omitempty" yaml:"contexts,omitempty" toml:"contexts,omitempty" validate:"dive"`
	SingleUnit bool           `json:"singleUnit,omitempty" yaml:"singleUnit,omitempty" toml:"singleUnit,omitempty"`
}

// IsComplexTeam reports whether the controller expands into a container with
// one node per member: it must be a team, not flagged as a single unit, and
// have at least one member.
func (c Controller) IsComplexTeam() bool {
	return c.Kind == KindTeam && !c.SingleUnit && len(c.Members) > 0
}

// Context returns the context with the given id.
func (c Controller) Context(id string) (Context, bool) {
	for _, ctx := range c.Contexts {
		if ctx.ID == id {
			return ctx, true
		}
	}
	return Context{}, false
}

// Component is a controlled entity without control authority.
type Component struct {
	ID   string `json:"id" yaml:"id" toml:"id" validate:"required"`
	Name string `json:"name" yaml:"name" toml:"name"`
}

// ControlPath carries control actions from a controller to a controller or
// component.
type ControlPath struct {
	ID       string   `json:"id" yaml:"id" toml:"id" validate:"required"`
	SourceID string   `json:"sourceId" yaml:"sourceId" toml:"sourceId" validate:"required"`
	TargetID string   `json:"targetId" yaml:"targetId" toml:"targetId" validate:"required"`
	Actions  []string `json:"actions,omitempty" yaml:"actions,omitempty" toml:"actions,omitempty"`
}

// FeedbackPath carries feedback from a controlled entity back to a controller.
// Missing marks feedback that should exist but is absent in the real system.
type FeedbackPath struct {
	ID       string   `json:"id" yaml:"id" toml:"id" validate:"required"`
	SourceID string   `json:"sourceId" yaml:"sourceId" toml:"sourceId" validate:"required"`
	TargetID string   `json:"targetId" yaml:"targetId" toml:"targetId" validate:"required"`
	Feedback []string `json:"feedback,omitempty" yaml:"feedback,omitempty" toml:"feedback,omitempty"`
	Missing  bool     `json:"missing,omitempty" yaml:"missing,omitempty" toml:"missing,omitempty"`
}

// CommunicationPath is peer coordination between two controllers. When both
// ends are the same team the member ids scope it to two members.
type CommunicationPath struct {
	ID             string `json:"id" yaml:"id" toml:"id" validate:"required"`
	SourceID       string `json:"sourceId" yaml:"sourceId" toml:"sourceId" validate:"required"`
	TargetID       string `json:"targetId" yaml:"targetId" toml:"targetId" validate:"required"`
	SourceMemberID string `json:"sourceMemberId,omitempty" yaml:"sourceMemberId,omitempty" toml:"sourceMemberId,omitempty"`
	TargetMemberID string `json:"targetMemberId,omitempty" yaml:"targetMemberId,omitempty" toml:"targetMemberId,omitempty"`
	Description    string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
}

// FailurePath links a controller to the entity an unsafe control action
// affects. Failure paths are only drawn on request.
type FailurePath struct {
	ID           string   `json:"id" yaml:"id" toml:"id" validate:"required"`
	SourceID     string   `json:"sourceId" yaml:"sourceId" toml:"sourceId" validate:"required"`
	TargetID     string   `json:"targetId" yaml:"targetId" toml:"targetId" validate:"required"`
	Descriptions []string `json:"descriptions,omitempty" yaml:"descriptions,omitempty" toml:"descriptions,omitempty"`
}

// Model is the complete input of one diagram computation. ActiveContexts maps
// a team controller id to the id of its selected context.
type Model struct {
	Controllers        []Controller        `json:"controllers" yaml:"controllers" toml:"controllers" validate:"dive"`
	Components         []Component         `json:"components" yaml:"components" toml:"components" validate:"dive"`
	ControlPaths       []ControlPath       `json:"controlPaths" yaml:"controlPaths" toml:"controlPaths" validate:"dive"`
	FeedbackPaths      []FeedbackPath      `json:"feedbackPaths" yaml:"feedbackPaths" toml:"feedbackPaths" validate:"dive"`
	CommunicationPaths []CommunicationPath `json:"communicationPaths" yaml:"communicationPaths" toml:"communicationPaths" validate:"dive"`
	FailurePaths       []FailurePath       `json:"failurePaths,omitempty" yaml:"failurePaths,omitempty" toml:"failurePaths,omitempty" validate:"dive"`
	ActiveContexts     map[string]string   `json:"activeContexts,omitempty" yaml:"activeContexts,omitempty" toml:"activeContexts,omitempty"`
}

// IsEmpty reports whether the model has no controllers and no components.
func (m Model) IsEmpty() bool {
	return len(m.Controllers) == 0 && len(m.Components) == 0
}

// DanglingReferences lists every path endpoint that names neither a
// controller nor a component, formatted as "<path id>: <missing id>".
func (m Model) DanglingReferences() []string {
	known := make(map[string]bool, len(m.Controllers)+len(m.Components))
	for _, c := range m.Controllers {
		known[c.ID] = true
	}
	for _, c := range m.Components {
		known[c.ID] = true
	}

	var out []string
	check := func(pathID string, ids ...string) {
		for _, id := range ids {
			if !known[id] {
				out = append(out, pathID+": "+id)
			}
		}
	}
	for _, p := range m.ControlPaths {
		check(p.ID, p.SourceID, p.TargetID)
	}
	for _, p := range m.FeedbackPaths {
		check(p.ID, p.SourceID, p.TargetID)
	}
	for _, p := range m.CommunicationPaths {
		check(p.ID, p.SourceID, p.TargetID)
	}
	for _, p := range m.FailurePaths {
		check(p.ID, p.SourceID, p.TargetID)
	}
	return out
}
