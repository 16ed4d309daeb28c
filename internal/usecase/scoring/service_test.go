package scoring

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/kailas-cloud/marketlens/internal/usecase/clustering"
)

func makeAssignment(members [][]int, centroids [][]float32, n int) clustering.Assignment {
	labels := make([]int, n)
	for c, idx := range members {
		for _, i := range idx {
			labels[i] = c
		}
	}
	return clustering.Assignment{
		K:         len(members),
		Labels:    labels,
		Centroids: centroids,
		Members:   members,
	}
}

func TestBuildScoresAndRanks(t *testing.T) {
	// Cluster 0: tight around x-axis, high query sim.
	// Cluster 1: spread, low query sim.
	members := []Member{
		{LeadID: "a1", Bio: "estudio de pilates clinico", Vector: []float32{1, 0}, QuerySim: 0.9},
		{LeadID: "a2", Bio: "pilates e fisioterapia", Vector: []float32{1, 0}, QuerySim: 0.88},
		{LeadID: "a3", Bio: "aulas de pilates", Vector: []float32{1, 0}, QuerySim: 0.92},
		{LeadID: "b1", Bio: "academia fitness", Vector: []float32{0, 1}, QuerySim: 0.4},
		{LeadID: "b2", Bio: "crossfit box", Vector: []float32{0.7, 0.7}, QuerySim: 0.42},
	}
	a := makeAssignment(
		[][]int{{0, 1, 2}, {3, 4}},
		[][]float32{{1, 0}, {0.6, 0.8}},
		len(members),
	)

	clusters := Build(a, members)
	if len(clusters) != 2 {
		t.Fatalf("clusters = %d, want 2", len(clusters))
	}

	top := clusters[0]
	if !reflect.DeepEqual(top.MemberLeadIDs, []string{"a1", "a2", "a3"}) {
		t.Fatalf("top cluster = %+v, want the tight pilates cluster first", top)
	}
	if top.ClusterID != 0 || clusters[1].ClusterID != 1 {
		t.Errorf("cluster ids not reassigned by rank: %d, %d", top.ClusterID, clusters[1].ClusterID)
	}
	if top.PriorityScore <= clusters[1].PriorityScore {
		t.Errorf("priority order broken: %f <= %f", top.PriorityScore, clusters[1].PriorityScore)
	}
	if top.CohesionScore < 0.99 {
		t.Errorf("identical members should have cohesion ~1, got %f", top.CohesionScore)
	}
	if top.Size != 3 || clusters[1].Size != 2 {
		t.Errorf("sizes = %d/%d", top.Size, clusters[1].Size)
	}
	if got := top.MeanQuerySimilarity; got < 0.89 || got > 0.91 {
		t.Errorf("mean query sim = %f, want 0.9", got)
	}
}

func TestBuildLabelFromKeywords(t *testing.T) {
	members := []Member{
		{LeadID: "a", Bio: "pilates pilates studio", Hashtags: []string{"pilates", "wellness"}, Vector: []float32{1, 0}, QuerySim: 0.8},
		{LeadID: "b", Bio: "studio de pilates", Hashtags: []string{"wellness"}, Vector: []float32{1, 0}, QuerySim: 0.8},
	}
	a := makeAssignment([][]int{{0, 1}}, [][]float32{{1, 0}}, 2)

	clusters := Build(a, members)
	if len(clusters) != 1 {
		t.Fatal("want one cluster")
	}
	if clusters[0].Label != "pilates / studio / wellness" {
		t.Errorf("label = %q", clusters[0].Label)
	}
	if !reflect.DeepEqual(clusters[0].Keywords, []string{"pilates", "studio", "wellness"}) {
		t.Errorf("keywords = %v", clusters[0].Keywords)
	}
}

func TestBuildLabelFallback(t *testing.T) {
	// Bios of nothing but stopwords and short tokens leave no keywords.
	members := []Member{
		{LeadID: "a", Bio: "de da do", Vector: []float32{1, 0}, QuerySim: 0.7},
	}
	a := makeAssignment([][]int{{0}}, [][]float32{{1, 0}}, 1)

	clusters := Build(a, members)
	if clusters[0].Label != "Cluster 0" {
		t.Errorf("label = %q, want fallback", clusters[0].Label)
	}
	if len(clusters[0].Keywords) != 0 {
		t.Errorf("keywords = %v, want none", clusters[0].Keywords)
	}
}

func TestBuildSingleClusterDegenerateSpread(t *testing.T) {
	members := []Member{
		{LeadID: "a", Bio: "pilates", Vector: []float32{1, 0}, QuerySim: 0.8},
		{LeadID: "b", Bio: "pilates", Vector: []float32{1, 0}, QuerySim: 0.8},
	}
	a := makeAssignment([][]int{{0, 1}}, [][]float32{{1, 0}}, 2)

	clusters := Build(a, members)
	// One cluster means zero spread on every metric; priority must be the
	// full weight sum, not zero.
	if got := clusters[0].PriorityScore; got != 1 {
		t.Errorf("priority = %f, want 1", got)
	}
}

func TestBuildPriorityMonotonicInSize(t *testing.T) {
	var members []Member
	var groupA, groupB []int
	for i := 0; i < 6; i++ {
		members = append(members, Member{
			LeadID: fmt.Sprintf("a%d", i), Bio: "pilates", Vector: []float32{1, 0}, QuerySim: 0.8,
		})
		groupA = append(groupA, i)
	}
	for i := 6; i < 8; i++ {
		members = append(members, Member{
			LeadID: fmt.Sprintf("b%d", i), Bio: "pilates", Vector: []float32{1, 0}, QuerySim: 0.8,
		})
		groupB = append(groupB, i)
	}
	a := makeAssignment([][]int{groupA, groupB}, [][]float32{{1, 0}, {1, 0}}, len(members))

	clusters := Build(a, members)
	// Equal cohesion and query sim: the larger cluster must rank first.
	if clusters[0].Size != 6 {
		t.Errorf("larger cluster should rank first, got sizes %d, %d", clusters[0].Size, clusters[1].Size)
	}
	if clusters[0].PriorityScore <= clusters[1].PriorityScore {
		t.Errorf("priority not monotonic in size: %f <= %f", clusters[0].PriorityScore, clusters[1].PriorityScore)
	}
}

func TestExtractKeywordsFiltersStopwordsBothLanguages(t *testing.T) {
	got := extractKeywords([]string{"the pilates studio para wellness and saude"}, 5)
	for _, w := range got {
		if _, bad := stopwords[w]; bad {
			t.Errorf("stopword %q leaked into keywords", w)
		}
	}
	if !reflect.DeepEqual(got, []string{"pilates", "saude", "studio", "wellness"}) {
		t.Errorf("keywords = %v", got)
	}
}

func TestExtractKeywordsTieBreakAlphabetical(t *testing.T) {
	got := extractKeywords([]string{"zebra alpha zebra alpha beta"}, 2)
	if !reflect.DeepEqual(got, []string{"alpha", "zebra"}) {
		t.Errorf("keywords = %v, want alphabetical on tied counts", got)
	}
}
