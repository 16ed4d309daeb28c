package clustering

// silhouette scores a partition with the centroid-based simplification: for
// each point, a is the distance to its own centroid and b the distance to the
// nearest other centroid, contributing (b-a)/max(a,b). Higher means tighter,
// better separated clusters. Exact pairwise silhouette is O(n^2) and adds
// nothing at this scale of k.
func silhouette(unit [][]float32, labels []int, centroids [][]float32) float64 {
	if len(centroids) < 2 || len(unit) == 0 {
		return 0
	}

	var total float64
	for i, v := range unit {
		own := labels[i]
		a := cosDist(v, centroids[own])

		b := -1.0
		for j := range centroids {
			if j == own {
				continue
			}
			if d := cosDist(v, centroids[j]); b < 0 || d < b {
				b = d
			}
		}

		max := a
		if b > max {
			max = b
		}
		if max > 0 {
			total += (b - a) / max
		}
	}
	return total / float64(len(unit))
}
