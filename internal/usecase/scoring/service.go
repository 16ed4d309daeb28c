package scoring

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/marketlens/internal/domain"
	"github.com/kailas-cloud/marketlens/internal/usecase/clustering"
)

// Weights of the priority blend. Cohesion dominates because a tight cluster
// is actionable even when small.
const (
	weightCohesion = 0.4
	weightSize     = 0.3
	weightQuerySim = 0.3
)

const labelKeywords = 3

// Member is one matched lead with everything scoring needs about it.
type Member struct {
	LeadID   string
	Bio      string
	Hashtags []string
	Vector   []float32
	QuerySim float64
}

// Build turns a raw partition into scored, labeled, priority-ranked clusters.
// members must align index-for-index with the vectors the assignment was
// computed from. The returned slice is ordered by priority descending and
// cluster ids are reassigned to match that order.
func Build(assignment clustering.Assignment, members []Member) []domain.Cluster {
	if assignment.K == 0 || len(members) == 0 {
		return nil
	}

	clusters := make([]domain.Cluster, 0, assignment.K)
	for c := 0; c < assignment.K; c++ {
		idx := assignment.Members[c]
		if len(idx) == 0 {
			continue
		}

		var cohesion, querySim float64
		texts := make([]string, 0, len(idx)*2)
		ids := make([]string, 0, len(idx))
		for _, i := range idx {
			m := members[i]
			cohesion += domain.ClampUnit(domain.CosineSimilarity(m.Vector, assignment.Centroids[c]))
			querySim += m.QuerySim
			ids = append(ids, m.LeadID)
			texts = append(texts, m.Bio)
			texts = append(texts, m.Hashtags...)
		}
		cohesion /= float64(len(idx))
		querySim /= float64(len(idx))
		sort.Strings(ids)

		keywords := extractKeywords(texts, labelKeywords)

		clusters = append(clusters, domain.Cluster{
			ClusterID:           c,
			Label:               label(keywords, c),
			Keywords:            keywords,
			Size:                len(idx),
			CohesionScore:       cohesion,
			MeanQuerySimilarity: querySim,
			MemberLeadIDs:       ids,
		})
	}

	assignPriorities(clusters)

	sort.SliceStable(clusters, func(i, j int) bool {
		if clusters[i].PriorityScore != clusters[j].PriorityScore {
			return clusters[i].PriorityScore > clusters[j].PriorityScore
		}
		return clusters[i].Size > clusters[j].Size
	})
	for i := range clusters {
		clusters[i].ClusterID = i
	}
	return clusters
}

func label(keywords []string, clusterID int) string {
	if len(keywords) == 0 {
		return fmt.Sprintf("Cluster %d", clusterID)
	}
	out := keywords[0]
	for _, k := range keywords[1:] {
		out += " / " + k
	}
	return out
}

// assignPriorities blends min-max normalized cohesion, size, and query
// similarity. A metric with no spread across clusters normalizes to 1 so it
// stops discriminating instead of zeroing everyone out.
func assignPriorities(clusters []domain.Cluster) {
	cohesion := normalized(clusters, func(c domain.Cluster) float64 { return c.CohesionScore })
	size := normalized(clusters, func(c domain.Cluster) float64 { return float64(c.Size) })
	querySim := normalized(clusters, func(c domain.Cluster) float64 { return c.MeanQuerySimilarity })

	for i := range clusters {
		clusters[i].PriorityScore = weightCohesion*cohesion[i] +
			weightSize*size[i] +
			weightQuerySim*querySim[i]
	}
}

func normalized(clusters []domain.Cluster, metric func(domain.Cluster) float64) []float64 {
	lo, hi := metric(clusters[0]), metric(clusters[0])
	for _, c := range clusters[1:] {
		v := metric(c)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	out := make([]float64, len(clusters))
	for i, c := range clusters {
		if hi == lo {
			out[i] = 1
			continue
		}
		out[i] = (metric(c) - lo) / (hi - lo)
	}
	return out
}
