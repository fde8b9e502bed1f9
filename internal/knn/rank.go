package knn

import (
	"math"
	"sort"
)

type neighbor struct {
	index int
	dist  float64
}

// nearestK returns the k smallest distances among indices [0, n) other than
// exclude, ordered by distance then index. It keeps a sorted window of at
// most k entries; a candidate equal to the current worst is not admitted, so
// earlier indices win ties.
func nearestK(n, k, exclude int, dist func(int) float64) []neighbor {
	if k <= 0 {
		return nil
	}
	best := make([]neighbor, 0, k)
	for i := 0; i < n; i++ {
		if i == exclude {
			continue
		}
		d := dist(i)
		if math.IsNaN(d) {
			d = math.Inf(1)
		}
		if len(best) == k {
			if !(d < best[k-1].dist) {
				continue
			}
			best = best[:k-1]
		}
		pos := sort.Search(len(best), func(j int) bool { return best[j].dist > d })
		best = append(best, neighbor{})
		copy(best[pos+1:], best[pos:])
		best[pos] = neighbor{index: i, dist: d}
	}
	return best
}

// vote returns the most frequent label among nbrs, preferring the smallest
// label on a tie.
func vote(labels []int, nbrs []neighbor) int {
	counts := make(map[int]int, len(nbrs))
	for _, n := range nbrs {
		counts[labels[n.index]]++
	}

	winner, best := 0, 0
	for label, c := range counts {
		if c > best || (c == best && label < winner) {
			winner, best = label, c
		}
	}
	return winner
}
