// Package layout positions a control-structure diagram.
//
// [Layout] is a pure function from an unpositioned [graph.Diagram] to a
// positioned one. It runs in three phases:
//
//   - Phase A ranks the top-level nodes with a layered graph layout over
//     control edges only. Feedback, communication and failure edges never
//     influence the command hierarchy. The default [GraphvizRanker] runs
//     Graphviz dot; [LayeredRanker] is a native fallback used when dot is
//     unavailable or fails.
//   - Phase B clusters nodes into ranks by vertical position and re-aligns
//     each rank under its controllers: lone children are centered, siblings
//     are spread evenly under their parent, and shared children are centered
//     under the span of all their parents. Horizontal overlaps within a rank
//     are then repaired.
//   - Phase C nudges children shared by two parents of one rank toward the
//     midpoint of the parents' span, when the move exceeds a minimum delta.
//
// Member nodes keep their builder-assigned offsets inside their container,
// clamped so they never escape it. Finally the diagram is translated so its
// top-left corner sits at the origin.
package layout
