package compare

import (
	"context"
	"fmt"
	"sort"

	"github.com/kailas-cloud/marketlens/internal/domain"
)

// Service diffs two committed analysis versions. Cluster ids are not stable
// across runs, so clusters are paired by keyword overlap instead: the greedy
// matcher takes the highest Jaccard pair first, each cluster pairing at most
// once.
type Service struct {
	versions VersionReader
}

// New creates a compare service.
func New(versions VersionReader) *Service {
	return &Service{versions: versions}
}

// Compare diffs v2 against v1. Both versions must exist; they may belong to
// different markets, which makes cross-market structure comparisons possible.
func (s *Service) Compare(ctx context.Context, v1ID, v2ID string) (domain.VersionDiff, error) {
	if v1ID == "" || v2ID == "" {
		return domain.VersionDiff{}, fmt.Errorf("%w: both version ids are required", domain.ErrInvalidInput)
	}

	v1, err := s.versions.GetByVersionID(ctx, v1ID)
	if err != nil {
		return domain.VersionDiff{}, fmt.Errorf("load v1: %w", err)
	}
	v2, err := s.versions.GetByVersionID(ctx, v2ID)
	if err != nil {
		return domain.VersionDiff{}, fmt.Errorf("load v2: %w", err)
	}

	diff := domain.VersionDiff{
		V1VersionID:       v1.VersionID,
		V2VersionID:       v2.VersionID,
		MatchedLeadsDelta: v2.MatchedLeads - v1.MatchedLeads,
	}
	if v1.CoveragePercent != nil && v2.CoveragePercent != nil {
		d := *v2.CoveragePercent - *v1.CoveragePercent
		diff.CoverageDelta = &d
	}

	matched1, matched2 := matchClusters(v1.Clusters, v2.Clusters, &diff)

	for _, c := range v1.Clusters {
		if !matched1[c.ClusterID] {
			diff.Disappeared = append(diff.Disappeared, clusterRef(c))
		}
	}
	for _, c := range v2.Clusters {
		if !matched2[c.ClusterID] {
			diff.Emerged = append(diff.Emerged, clusterRef(c))
		}
	}

	return diff, nil
}

type candidate struct {
	i, j    int
	overlap float64
}

func matchClusters(c1, c2 []domain.Cluster, diff *domain.VersionDiff) (map[int]bool, map[int]bool) {
	var pairs []candidate
	for i, a := range c1 {
		for j, b := range c2 {
			if o := jaccard(a.Keywords, b.Keywords); o > 0 {
				pairs = append(pairs, candidate{i: i, j: j, overlap: o})
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].overlap != pairs[j].overlap {
			return pairs[i].overlap > pairs[j].overlap
		}
		if pairs[i].i != pairs[j].i {
			return pairs[i].i < pairs[j].i
		}
		return pairs[i].j < pairs[j].j
	})

	matched1 := make(map[int]bool)
	matched2 := make(map[int]bool)
	emit := func(a, b domain.Cluster, overlap float64) {
		matched1[a.ClusterID] = true
		matched2[b.ClusterID] = true
		diff.Matched = append(diff.Matched, domain.ClusterMatch{
			V1ClusterID:    a.ClusterID,
			V2ClusterID:    b.ClusterID,
			V1Label:        a.Label,
			V2Label:        b.Label,
			KeywordOverlap: overlap,
			SizeDelta:      b.Size - a.Size,
			PriorityDelta:  b.PriorityScore - a.PriorityScore,
			CohesionDelta:  b.CohesionScore - a.CohesionScore,
		})
	}
	for _, p := range pairs {
		a, b := c1[p.i], c2[p.j]
		if matched1[a.ClusterID] || matched2[b.ClusterID] {
			continue
		}
		emit(a, b, p.overlap)
	}

	// Keyword-less clusters carry the fallback label and score zero Jaccard
	// against everything, including themselves. Pair leftovers by exact label
	// so comparing a version with itself still matches every cluster.
	for _, a := range c1 {
		if matched1[a.ClusterID] || a.Label == "" {
			continue
		}
		for _, b := range c2 {
			if matched2[b.ClusterID] || b.Label != a.Label {
				continue
			}
			emit(a, b, 0)
			break
		}
	}
	return matched1, matched2
}

func clusterRef(c domain.Cluster) domain.ClusterRef {
	return domain.ClusterRef{ClusterID: c.ClusterID, Label: c.Label, Size: c.Size}
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, w := range a {
		set[w] = struct{}{}
	}
	var inter int
	union := len(set)
	seen := make(map[string]struct{}, len(b))
	for _, w := range b {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		if _, ok := set[w]; ok {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}
