// Package graph turns a safety model into a drawable control-structure
// diagram.
//
// [Build] is a pure function from [model.Model] to [Diagram]: one node per
// controller and component, a container plus one node per member for every
// expandable team, and one edge per path. Node widths are derived from the
// control structure so that fan-out, convergence and bypass edges have room
// to attach, and every edge endpoint is assigned a discrete [Handle] so that
// edges sharing a node side never share an anchor.
//
// Positions are left at the origin except for member nodes, whose offsets
// inside their container are fixed by ordinal. The layout package assigns
// the rest.
//
// Malformed input never fails the build: paths naming unknown entities are
// still emitted with the placeholder label [Unknown], and control cycles are
// tolerated by the width recursion.
package graph
