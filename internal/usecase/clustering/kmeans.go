package clustering

import (
	"math/rand"

	"github.com/kailas-cloud/marketlens/internal/domain"
)

// lloyd runs spherical k-means over unit vectors. Centroids start as k
// distinct random points, each update step re-normalizes the cluster mean,
// and an emptied cluster is reseeded with the point worst served by the
// current model so the final partition always has k non-empty clusters.
func lloyd(unit [][]float32, k, maxIter int, rng *rand.Rand) ([]int, [][]float32) {
	n := len(unit)

	centroids := make([][]float32, k)
	perm := rng.Perm(n)
	for i := 0; i < k; i++ {
		centroids[i] = append([]float32(nil), unit[perm[i]]...)
	}

	labels := make([]int, n)
	for iter := 0; iter < maxIter; iter++ {
		changed := false

		for i, v := range unit {
			best := nearestCentroid(v, centroids)
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}

		repairEmptyClusters(unit, labels, centroids)

		if !changed && iter > 0 {
			break
		}

		for j := 0; j < k; j++ {
			m := meanDirection(unit, labels, j)
			if m != nil {
				centroids[j] = m
			}
		}
	}

	return labels, centroids
}

func nearestCentroid(v []float32, centroids [][]float32) int {
	best := 0
	bestDist := cosDist(v, centroids[0])
	for j := 1; j < len(centroids); j++ {
		if d := cosDist(v, centroids[j]); d < bestDist {
			bestDist = d
			best = j
		}
	}
	return best
}

// meanDirection returns the normalized mean of cluster j's members, or nil
// when the cluster is empty or the mean has zero norm.
func meanDirection(unit [][]float32, labels []int, j int) []float32 {
	var count int
	var sum []float32
	for i, v := range unit {
		if labels[i] != j {
			continue
		}
		if sum == nil {
			sum = make([]float32, len(v))
		}
		for d := range v {
			sum[d] += v[d]
		}
		count++
	}
	if count == 0 {
		return nil
	}
	m, ok := domain.NormalizeL2(sum)
	if !ok {
		return nil
	}
	return m
}

// repairEmptyClusters reseeds each empty cluster with the point farthest from
// its own centroid. Scanning in index order keeps the repair deterministic.
func repairEmptyClusters(unit [][]float32, labels []int, centroids [][]float32) {
	counts := make([]int, len(centroids))
	for _, c := range labels {
		counts[c]++
	}

	for j, cnt := range counts {
		if cnt > 0 {
			continue
		}
		worst := -1
		worstDist := -1.0
		for i, v := range unit {
			if counts[labels[i]] <= 1 {
				continue
			}
			if d := cosDist(v, centroids[labels[i]]); d > worstDist {
				worstDist = d
				worst = i
			}
		}
		if worst < 0 {
			continue
		}
		counts[labels[worst]]--
		labels[worst] = j
		counts[j]++
		centroids[j] = append([]float32(nil), unit[worst]...)
	}
}
