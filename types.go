package marketlens

import (
	"time"

	"github.com/kailas-cloud/marketlens/internal/domain"
)

// AnalysisParams tune one analysis run. Zero fields fall back to the
// client-level defaults.
type AnalysisParams struct {
	MinSimilarity float64
	MinLeads      int
	MaxResults    int // 0 = uncapped
}

// Cluster is one scored segment of a market.
type Cluster struct {
	ClusterID           int
	Label               string
	Keywords            []string
	Size                int
	CohesionScore       float64
	MeanQuerySimilarity float64
	PriorityScore       float64
	MemberLeadIDs       []string
}

// MarketVersion is one immutable snapshot of analyzing a market.
type MarketVersion struct {
	VersionID       string
	MarketSlug      string
	MarketName      string
	CreatedAt       time.Time
	Parameters      AnalysisParams
	MatchedLeads    int
	CoveragePercent *float64 // nil when the coverage probe was unavailable
	Clusters        []Cluster
}

// MarketHistory is a page of a market's version history plus the full
// history length.
type MarketHistory struct {
	MarketSlug    string
	TotalVersions int
	Versions      []MarketVersion
}

// MarketInfo summarizes one analyzed market in the registry.
type MarketInfo struct {
	MarketSlug      string
	MarketName      string
	TotalVersions   int
	FirstAnalyzedAt time.Time
	LastAnalyzedAt  time.Time
	LatestVersionID string
}

// ClusterMatch pairs a cluster from each compared version with its metric
// deltas (v2 - v1).
type ClusterMatch struct {
	V1ClusterID    int
	V2ClusterID    int
	V1Label        string
	V2Label        string
	KeywordOverlap float64
	SizeDelta      int
	PriorityDelta  float64
	CohesionDelta  float64
}

// ClusterRef identifies an unmatched cluster in a diff.
type ClusterRef struct {
	ClusterID int
	Label     string
	Size      int
}

// VersionDiff is the structural comparison between two analysis versions.
type VersionDiff struct {
	V1VersionID       string
	V2VersionID       string
	MatchedLeadsDelta int
	CoverageDelta     *float64 // nil when either side lacks a coverage reading
	Matched           []ClusterMatch
	Emerged           []ClusterRef
	Disappeared       []ClusterRef
}

// EmbeddingStatus reports embedding coverage of the lead corpus.
type EmbeddingStatus struct {
	TotalCandidates int
	ReadyCount      int
	PendingCount    int
	ErrorCount      int
	CoveragePercent float64
}

func fromDomainVersion(v domain.AnalysisVersion) MarketVersion {
	clusters := make([]Cluster, len(v.Clusters))
	for i, c := range v.Clusters {
		clusters[i] = Cluster(c)
	}
	return MarketVersion{
		VersionID:  v.VersionID,
		MarketSlug: v.MarketSlug,
		MarketName: v.MarketName,
		CreatedAt:  v.CreatedAt,
		Parameters: AnalysisParams{
			MinSimilarity: v.Parameters.MinSimilarity,
			MinLeads:      v.Parameters.MinLeads,
			MaxResults:    v.Parameters.MaxResults,
		},
		MatchedLeads:    v.MatchedLeads,
		CoveragePercent: v.CoveragePercent,
		Clusters:        clusters,
	}
}

func fromDomainDiff(d domain.VersionDiff) VersionDiff {
	matched := make([]ClusterMatch, len(d.Matched))
	for i, m := range d.Matched {
		matched[i] = ClusterMatch(m)
	}
	emerged := make([]ClusterRef, len(d.Emerged))
	for i, r := range d.Emerged {
		emerged[i] = ClusterRef(r)
	}
	disappeared := make([]ClusterRef, len(d.Disappeared))
	for i, r := range d.Disappeared {
		disappeared[i] = ClusterRef(r)
	}
	return VersionDiff{
		V1VersionID:       d.V1VersionID,
		V2VersionID:       d.V2VersionID,
		MatchedLeadsDelta: d.MatchedLeadsDelta,
		CoverageDelta:     d.CoverageDelta,
		Matched:           matched,
		Emerged:           emerged,
		Disappeared:       disappeared,
	}
}
