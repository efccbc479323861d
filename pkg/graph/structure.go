package graph

import (
	"slices"

	"github.com/airvair/stampgraph/pkg/model"
)

// structure is the control hierarchy seen by the builder. It only holds
// control paths joining two distinct known nodes; every list preserves path
// declaration order.
type structure struct {
	targets map[string][]string // distinct control targets per source
	sources map[string][]string // distinct control sources per target
	direct  map[string][]string // targets that are not reachable through a sibling
	bypass  map[string][]string // targets that are

	// Per-path views used for handle slots, keyed by known endpoint. Values
	// index into the control path slice.
	outDirect map[string][]int
	outBypass map[string][]int
	in        map[string][]int
}

func newStructure(paths []model.ControlPath, known func(string) bool) *structure {
	s := &structure{
		targets:   map[string][]string{},
		sources:   map[string][]string{},
		direct:    map[string][]string{},
		bypass:    map[string][]string{},
		outDirect: map[string][]int{},
		outBypass: map[string][]int{},
		in:        map[string][]int{},
	}
	for _, p := range paths {
		if !s.usable(p.SourceID, p.TargetID, known) {
			continue
		}
		if !slices.Contains(s.targets[p.SourceID], p.TargetID) {
			s.targets[p.SourceID] = append(s.targets[p.SourceID], p.TargetID)
		}
		if !slices.Contains(s.sources[p.TargetID], p.SourceID) {
			s.sources[p.TargetID] = append(s.sources[p.TargetID], p.SourceID)
		}
	}

	for src, targets := range s.targets {
		for _, t := range targets {
			if s.reachableViaSibling(targets, t) {
				s.bypass[src] = append(s.bypass[src], t)
			} else {
				s.direct[src] = append(s.direct[src], t)
			}
		}
	}

	// Slots are taken on every known endpoint, including those of dangling
	// paths and self-loops, so no two edges share an anchor.
	for i, p := range paths {
		if known(p.SourceID) {
			if s.usable(p.SourceID, p.TargetID, known) && slices.Contains(s.bypass[p.SourceID], p.TargetID) {
				s.outBypass[p.SourceID] = append(s.outBypass[p.SourceID], i)
			} else {
				s.outDirect[p.SourceID] = append(s.outDirect[p.SourceID], i)
			}
		}
		if known(p.TargetID) {
			s.in[p.TargetID] = append(s.in[p.TargetID], i)
		}
	}
	return s
}

func (s *structure) usable(src, dst string, known func(string) bool) bool {
	return src != dst && known(src) && known(dst)
}

// reachableViaSibling reports whether target can be reached from any other
// entry of siblings.
func (s *structure) reachableViaSibling(siblings []string, target string) bool {
	for _, c := range siblings {
		if c != target && s.reaches(c, target) {
			return true
		}
	}
	return false
}

// reaches reports whether a control path chain leads from "from" to "to".
func (s *structure) reaches(from, to string) bool {
	seen := map[string]bool{from: true}
	stack := []string{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, t := range s.targets[n] {
			if t == to {
				return true
			}
			if !seen[t] {
				seen[t] = true
				stack = append(stack, t)
			}
		}
	}
	return false
}

// isDirectChild reports whether child is a direct (non-bypass) control
// target of parent.
func (s *structure) isDirectChild(parent, child string) bool {
	return slices.Contains(s.direct[parent], child)
}
