package dag

import (
	"maps"
	"slices"
)

// DefaultSweeps is the number of down+up barycenter passes [OrderRows] runs
// when given a non-positive count.
const DefaultSweeps = 4

// OrderRows computes a left-to-right ordering for every row using the
// barycenter heuristic. Rows must already be assigned (see [AssignLayers]).
//
// The initial ordering is insertion order. Each sweep reorders rows top-down
// by the mean position of their parents, then bottom-up by the mean position
// of their children; nodes without neighbors in the reference direction keep
// their current position as barycenter. Sorting is stable, so ties keep the
// previous order. The ordering with the fewest crossings seen is returned.
func OrderRows(g *DAG, sweeps int) map[int][]string {
	if sweeps <= 0 {
		sweeps = DefaultSweeps
	}

	orders := g.Rows()
	rows := slices.Sorted(maps.Keys(orders))
	if len(rows) < 2 {
		return orders
	}

	best := cloneOrders(orders)
	bestCrossings := CountCrossings(g, best)

	for s := 0; s < sweeps && bestCrossings > 0; s++ {
		for _, r := range rows[1:] {
			orders[r] = sortByBarycenter(orders[r], positions(orders), g.Parents)
		}
		for i := len(rows) - 2; i >= 0; i-- {
			r := rows[i]
			orders[r] = sortByBarycenter(orders[r], positions(orders), g.Children)
		}

		if c := CountCrossings(g, orders); c < bestCrossings {
			best = cloneOrders(orders)
			bestCrossings = c
		}
	}
	return best
}

func sortByBarycenter(row []string, pos map[string]int, neighbors func(string) []string) []string {
	type entry struct {
		id string
		bc float64
	}
	entries := make([]entry, len(row))
	for i, id := range row {
		sum, n := 0, 0
		for _, nb := range neighbors(id) {
			if p, ok := pos[nb]; ok {
				sum += p
				n++
			}
		}
		bc := float64(i)
		if n > 0 {
			bc = float64(sum) / float64(n)
		}
		entries[i] = entry{id, bc}
	}

	slices.SortStableFunc(entries, func(a, b entry) int {
		switch {
		case a.bc < b.bc:
			return -1
		case a.bc > b.bc:
			return 1
		}
		return 0
	})

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.id
	}
	return out
}

// positions maps every node to its index within its own row.
func positions(orders map[int][]string) map[string]int {
	pos := make(map[string]int)
	for _, row := range orders {
		for i, id := range row {
			pos[id] = i
		}
	}
	return pos
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := make(map[int][]string, len(orders))
	for r, row := range orders {
		out[r] = slices.Clone(row)
	}
	return out
}
