package domain

import "time"

// AnalysisParams are the tunables recorded on every version.
type AnalysisParams struct {
	MinSimilarity float64 `json:"min_similarity"`
	MinLeads      int     `json:"min_leads"`
	MaxResults    int     `json:"max_results"` // 0 = uncapped
}

// DefaultAnalysisParams returns the stock parameters for an analysis run.
func DefaultAnalysisParams() AnalysisParams {
	return AnalysisParams{
		MinSimilarity: 0.65,
		MinLeads:      100,
		MaxResults:    0,
	}
}

// Validate checks parameter ranges.
func (p AnalysisParams) Validate() error {
	if p.MinSimilarity <= 0 || p.MinSimilarity > 1 {
		return ErrInvalidInput
	}
	if p.MinLeads < 1 {
		return ErrInvalidInput
	}
	if p.MaxResults < 0 {
		return ErrInvalidInput
	}
	return nil
}

// Cluster is one topic cluster embedded in an analysis version.
// Clusters partition the matched lead set: every matched lead belongs to
// exactly one cluster.
type Cluster struct {
	ClusterID           int      `json:"cluster_id"`
	Label               string   `json:"label"`
	Keywords            []string `json:"keywords"`
	Size                int      `json:"size"`
	CohesionScore       float64  `json:"cohesion_score"`
	MeanQuerySimilarity float64  `json:"mean_query_similarity"`
	PriorityScore       float64  `json:"priority_score"`
	MemberLeadIDs       []string `json:"member_lead_ids"`
}

// AnalysisVersion is one immutable snapshot of running the pipeline for a market.
// Created only by a successful analyze/reanalyze; never mutated; deleted only
// as part of whole-market deletion.
type AnalysisVersion struct {
	VersionID       string         `json:"version_id"`
	MarketSlug      string         `json:"market_slug"`
	MarketName      string         `json:"market_name"`
	CreatedAt       time.Time      `json:"created_at"`
	Parameters      AnalysisParams `json:"parameters"`
	MatchedLeads    int            `json:"matched_lead_count"`
	CoveragePercent *float64       `json:"embedding_coverage_percent"` // nil when the probe was unavailable
	Clusters        []Cluster      `json:"clusters"`
}

// MarketHistory is a page of a market's version history together with the
// full history length.
type MarketHistory struct {
	MarketSlug    string            `json:"market_slug"`
	TotalVersions int               `json:"total_versions"`
	Versions      []AnalysisVersion `json:"versions"`
}

// RegistryEntry is the derived per-market summary view. The version history is
// authoritative; entries are rebuilt on every commit and market deletion.
type RegistryEntry struct {
	MarketSlug      string    `json:"market_slug"`
	MarketName      string    `json:"market_name"`
	TotalVersions   int       `json:"total_versions"`
	FirstAnalyzedAt time.Time `json:"first_analyzed_at"`
	LastAnalyzedAt  time.Time `json:"last_analyzed_at"`
	LatestVersionID string    `json:"latest_version_id"`
}
