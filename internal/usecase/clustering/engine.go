package clustering

import (
	"math/rand"

	"github.com/kailas-cloud/marketlens/internal/domain"
)

// Config bounds the model search. K is chosen automatically inside
// [MinClusters, MaxClusters] by silhouette score; Seed fixes the centroid
// initialization so the same input always yields the same partition.
type Config struct {
	MinClusters   int
	MaxClusters   int
	Seed          int64
	MaxIterations int
}

// Assignment is one complete partition of the input. Every input index
// appears in exactly one cluster.
type Assignment struct {
	K         int
	Labels    []int
	Centroids [][]float32
	Members   [][]int
}

// Engine partitions lead vectors with spherical k-means.
type Engine struct {
	cfg Config
}

// New creates a clustering engine.
func New(cfg Config) *Engine {
	if cfg.MinClusters < 2 {
		cfg.MinClusters = 2
	}
	if cfg.MaxClusters < cfg.MinClusters {
		cfg.MaxClusters = cfg.MinClusters
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 100
	}
	return &Engine{cfg: cfg}
}

// Cluster partitions vectors into the k in [MinClusters, MaxClusters] with
// the best silhouette score, ties going to the smallest k. Inputs too small
// or too uniform to split collapse into a single cluster.
func (e *Engine) Cluster(vectors [][]float32) Assignment {
	n := len(vectors)
	if n == 0 {
		return Assignment{}
	}

	unit := normalizeAll(vectors)

	kMax := e.cfg.MaxClusters
	if kMax > n {
		kMax = n
	}
	if n < e.cfg.MinClusters || allIdentical(unit) {
		return singleCluster(unit)
	}

	best := Assignment{}
	bestScore := -2.0
	for k := e.cfg.MinClusters; k <= kMax; k++ {
		rng := rand.New(rand.NewSource(e.cfg.Seed))
		labels, centroids := lloyd(unit, k, e.cfg.MaxIterations, rng)
		score := silhouette(unit, labels, centroids)
		if score > bestScore {
			bestScore = score
			best = buildAssignment(labels, centroids, k)
		}
	}
	return best
}

func buildAssignment(labels []int, centroids [][]float32, k int) Assignment {
	members := make([][]int, k)
	for i, c := range labels {
		members[c] = append(members[c], i)
	}
	return Assignment{K: k, Labels: labels, Centroids: centroids, Members: members}
}

func singleCluster(unit [][]float32) Assignment {
	n := len(unit)
	labels := make([]int, n)
	centroid := meanDirection(unit, labels, 0)
	members := make([]int, n)
	for i := range members {
		members[i] = i
	}
	return Assignment{
		K:         1,
		Labels:    labels,
		Centroids: [][]float32{centroid},
		Members:   [][]int{members},
	}
}

func normalizeAll(vectors [][]float32) [][]float32 {
	unit := make([][]float32, len(vectors))
	for i, v := range vectors {
		if nv, ok := domain.NormalizeL2(v); ok {
			unit[i] = nv
		} else {
			unit[i] = make([]float32, len(v))
		}
	}
	return unit
}

func allIdentical(unit [][]float32) bool {
	const eps = 1e-6
	first := unit[0]
	for _, v := range unit[1:] {
		if cosDist(first, v) > eps {
			return false
		}
	}
	return true
}

// cosDist is 1 - cos(a, b); both inputs are unit length so the dot product
// is the cosine.
func cosDist(a, b []float32) float64 {
	return 1 - domain.Dot(a, b)
}
