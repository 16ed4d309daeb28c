package domain

// ClusterMatch pairs a cluster from each version with its metric deltas (v2 - v1).
type ClusterMatch struct {
	V1ClusterID    int     `json:"v1_cluster_id"`
	V2ClusterID    int     `json:"v2_cluster_id"`
	V1Label        string  `json:"v1_label"`
	V2Label        string  `json:"v2_label"`
	KeywordOverlap float64 `json:"keyword_overlap"`
	SizeDelta      int     `json:"size_delta"`
	PriorityDelta  float64 `json:"priority_delta"`
	CohesionDelta  float64 `json:"cohesion_delta"`
}

// ClusterRef identifies an unmatched cluster in a diff.
type ClusterRef struct {
	ClusterID int    `json:"cluster_id"`
	Label     string `json:"label"`
	Size      int    `json:"size"`
}

// VersionDiff is the structural comparison between two analysis versions.
// Clusters present only in v1 are "disappeared", only in v2 "emerged".
type VersionDiff struct {
	V1VersionID       string         `json:"v1_version_id"`
	V2VersionID       string         `json:"v2_version_id"`
	MatchedLeadsDelta int            `json:"matched_lead_count_delta"`
	CoverageDelta     *float64       `json:"embedding_coverage_delta"` // nil when either side lacks a coverage reading
	Matched           []ClusterMatch `json:"matched_clusters"`
	Emerged           []ClusterRef   `json:"emerged_clusters"`
	Disappeared       []ClusterRef   `json:"disappeared_clusters"`
}
