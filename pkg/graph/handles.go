package graph

import (
	"fmt"
	"strconv"
	"strings"
)

// Side is the boundary of a node a handle sits on.
type Side int

const (
	SideTop Side = iota
	SideBottom
	SideLeft
	SideRight
)

var sideNames = [...]string{SideTop: "top", SideBottom: "bottom", SideLeft: "left", SideRight: "right"}

func (s Side) String() string {
	if s < 0 || int(s) >= len(sideNames) {
		return fmt.Sprintf("Side(%d)", int(s))
	}
	return sideNames[s]
}

// Family groups handle slots by purpose. Control and feedback edges use
// disjoint families so they never share an anchor point.
type Family int

const (
	FamilyControl        Family = iota // control edge to a direct child, or landing on a node that fans out
	FamilyBypass                       // control edge skipping past a direct child to a deeper descendant
	FamilyParent                       // control edge landing on a node with several controllers
	FamilyFeedback                     // feedback edge to/from a direct relative
	FamilyFeedbackBypass               // feedback edge to a controller further up than the direct parent
	FamilyFeedbackParent               // feedback edge landing on a controller with several feedback sources
	FamilyCommunication
	FamilyFailure
)

var familyNames = [...]string{
	FamilyControl:        "control",
	FamilyBypass:         "bypass",
	FamilyParent:         "parent",
	FamilyFeedback:       "feedback",
	FamilyFeedbackBypass: "feedback-bypass",
	FamilyFeedbackParent: "feedback-parent",
	FamilyCommunication:  "communication",
	FamilyFailure:        "failure",
}

func (f Family) String() string {
	if f < 0 || int(f) >= len(familyNames) {
		return fmt.Sprintf("Family(%d)", int(f))
	}
	return familyNames[f]
}

// NoSlot marks the single default slot of a family on a side.
const NoSlot = -1

// Handle is a discrete attachment point on a node boundary. The renderer and
// the builder agree on the textual form produced by String:
//
//	<side>-<family>          default slot, e.g. "bottom-control"
//	<side>-<family>-<slot>   indexed slot, e.g. "top-parent-1"
//
// Slots are numbered from 0, left to right along the side.
type Handle struct {
	Side   Side
	Family Family
	Slot   int
}

// DefaultHandle returns the default slot of a family on a side.
func DefaultHandle(side Side, family Family) Handle {
	return Handle{Side: side, Family: family, Slot: NoSlot}
}

// SlotHandle returns an indexed slot.
func SlotHandle(side Side, family Family, slot int) Handle {
	return Handle{Side: side, Family: family, Slot: slot}
}

func (h Handle) String() string {
	if h.Slot == NoSlot {
		return h.Side.String() + "-" + h.Family.String()
	}
	return h.Side.String() + "-" + h.Family.String() + "-" + strconv.Itoa(h.Slot)
}

// MarshalText implements encoding.TextMarshaler.
func (h Handle) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Handle) UnmarshalText(text []byte) error {
	parsed, err := ParseHandle(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ParseHandle is the inverse of Handle.String.
func ParseHandle(s string) (Handle, error) {
	sideName, rest, ok := strings.Cut(s, "-")
	if !ok {
		return Handle{}, fmt.Errorf("malformed handle %q", s)
	}
	side := -1
	for i, name := range sideNames {
		if name == sideName {
			side = i
		}
	}
	if side < 0 {
		return Handle{}, fmt.Errorf("handle %q: unknown side %q", s, sideName)
	}

	slot := NoSlot
	if i := strings.LastIndex(rest, "-"); i >= 0 {
		if n, err := strconv.Atoi(rest[i+1:]); err == nil {
			slot, rest = n, rest[:i]
		}
	}
	for i, name := range familyNames {
		if name == rest {
			return Handle{Side: Side(side), Family: Family(i), Slot: slot}, nil
		}
	}
	return Handle{}, fmt.Errorf("handle %q: unknown family %q", s, rest)
}
