package graph

// widths computes node widths from the control structure. Subtree widths are
// memoized for the lifetime of one Build call; the visiting set stops the
// recursion on control cycles, where the node falls back to its base width.
type widths struct {
	s        *structure
	sizes    Sizes
	base     map[string]float64
	memo     map[string]float64
	visiting map[string]bool
}

func newWidths(s *structure, sizes Sizes, base map[string]float64) *widths {
	return &widths{
		s:        s,
		sizes:    sizes,
		base:     base,
		memo:     map[string]float64{},
		visiting: map[string]bool{},
	}
}

// subtree returns the footprint of a node's direct children laid side by
// side, plus one extra slot when the node also has bypass targets. A node
// without direct children occupies its base width.
func (w *widths) subtree(id string) float64 {
	if v, ok := w.memo[id]; ok {
		return v
	}
	kids := w.s.direct[id]
	if len(kids) == 0 || w.visiting[id] {
		return w.base[id]
	}

	w.visiting[id] = true
	total := float64(len(kids)-1) * w.sizes.Spacing
	for _, k := range kids {
		total += w.subtree(k)
	}
	if len(w.s.bypass[id]) > 0 {
		total += w.sizes.GrandchildExtraWidth
	}
	delete(w.visiting, id)

	w.memo[id] = total
	return total
}

// converging returns the room needed for arrows from several distinct
// controllers to fan in, or 0 for a node with at most one controller.
func (w *widths) converging(id string) float64 {
	parents := w.s.sources[id]
	if len(parents) < 2 {
		return 0
	}
	total := float64(len(parents)-1) * w.sizes.Spacing
	for _, p := range parents {
		total += w.base[p]
	}
	return total
}

// final returns the width a node is drawn with.
func (w *widths) final(id string) float64 {
	return max(w.base[id], w.subtree(id), w.converging(id))
}
