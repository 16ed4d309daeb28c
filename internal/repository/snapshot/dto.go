package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/marketlens/internal/domain"
)

// versionDTO is the stored JSON shape of an analysis version. Kept separate
// from the domain type so the storage schema can evolve without touching the
// API surface.
type versionDTO struct {
	VersionID       string       `json:"version_id"`
	MarketSlug      string       `json:"market_slug"`
	MarketName      string       `json:"market_name"`
	CreatedAt       time.Time    `json:"created_at"`
	Parameters      paramsDTO    `json:"parameters"`
	MatchedLeads    int          `json:"matched_lead_count"`
	CoveragePercent *float64     `json:"embedding_coverage_percent"`
	Clusters        []clusterDTO `json:"clusters"`
}

type paramsDTO struct {
	MinSimilarity float64 `json:"min_similarity"`
	MinLeads      int     `json:"min_leads"`
	MaxResults    int     `json:"max_results"`
}

type clusterDTO struct {
	ClusterID           int      `json:"cluster_id"`
	Label               string   `json:"label"`
	Keywords            []string `json:"keywords"`
	Size                int      `json:"size"`
	CohesionScore       float64  `json:"cohesion_score"`
	MeanQuerySimilarity float64  `json:"mean_query_similarity"`
	PriorityScore       float64  `json:"priority_score"`
	MemberLeadIDs       []string `json:"member_lead_ids"`
}

func encodeVersion(v domain.AnalysisVersion) ([]byte, error) {
	dto := versionDTO{
		VersionID:  v.VersionID,
		MarketSlug: v.MarketSlug,
		MarketName: v.MarketName,
		CreatedAt:  v.CreatedAt.UTC(),
		Parameters: paramsDTO{
			MinSimilarity: v.Parameters.MinSimilarity,
			MinLeads:      v.Parameters.MinLeads,
			MaxResults:    v.Parameters.MaxResults,
		},
		MatchedLeads:    v.MatchedLeads,
		CoveragePercent: v.CoveragePercent,
		Clusters:        make([]clusterDTO, len(v.Clusters)),
	}
	for i, c := range v.Clusters {
		dto.Clusters[i] = clusterDTO(c)
	}

	data, err := json.Marshal(dto)
	if err != nil {
		return nil, fmt.Errorf("marshal version %s: %w", v.VersionID, err)
	}
	return data, nil
}

func decodeVersion(data []byte) (domain.AnalysisVersion, error) {
	var dto versionDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return domain.AnalysisVersion{}, fmt.Errorf("unmarshal version: %w", err)
	}

	v := domain.AnalysisVersion{
		VersionID:  dto.VersionID,
		MarketSlug: dto.MarketSlug,
		MarketName: dto.MarketName,
		CreatedAt:  dto.CreatedAt,
		Parameters: domain.AnalysisParams{
			MinSimilarity: dto.Parameters.MinSimilarity,
			MinLeads:      dto.Parameters.MinLeads,
			MaxResults:    dto.Parameters.MaxResults,
		},
		MatchedLeads:    dto.MatchedLeads,
		CoveragePercent: dto.CoveragePercent,
		Clusters:        make([]domain.Cluster, len(dto.Clusters)),
	}
	for i, c := range dto.Clusters {
		v.Clusters[i] = domain.Cluster(c)
	}
	return v, nil
}
