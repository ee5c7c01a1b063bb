package pheromone

import "sort"

// rankTrails returns up to limit trails ordered by Rank() descending. Ties
// are broken by most-recent LastUsed, then by ID, so that ranking is
// deterministic regardless of map iteration order.
func rankTrails(trails map[string]*Trail, limit int) []*Trail {
	ordered := make([]*Trail, 0, len(trails))
	for _, t := range trails {
		ordered = append(ordered, t)
	}

	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Rank() != b.Rank() {
			return a.Rank() > b.Rank()
		}
		if !a.LastUsed.Equal(b.LastUsed) {
			return a.LastUsed.After(b.LastUsed)
		}
		return a.ID < b.ID
	})

	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}
	return ordered
}
