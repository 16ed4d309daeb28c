package domain

// EmbeddingStatus is the lifecycle state of a lead's embedding vector.
type EmbeddingStatus string

const (
	// EmbeddingPending means the batch job has not embedded the lead yet.
	EmbeddingPending EmbeddingStatus = "pending"
	// EmbeddingReady means the lead has a usable vector.
	EmbeddingReady EmbeddingStatus = "ready"
	// EmbeddingError means the batch job failed for the lead.
	EmbeddingError EmbeddingStatus = "error"
)

// LeadEmbedding is a lead row owned by the external embedding job.
// Only status=ready rows participate in similarity search.
type LeadEmbedding struct {
	ID       string
	Bio      string
	Hashtags []string
	Status   EmbeddingStatus
	Vector   []float32
}

// LeadVector is the id+vector projection used by the chunked similarity scan.
type LeadVector struct {
	ID     string
	Vector []float32
}

// Match is a single similarity search hit.
type Match struct {
	LeadID     string
	Similarity float64
}

// EmbeddingStatusReport summarizes embedding coverage over all candidate leads.
type EmbeddingStatusReport struct {
	TotalCandidates int
	ReadyCount      int
	PendingCount    int
	ErrorCount      int
	CoveragePercent float64
}

// Coverage computes ready/total as a percentage, 0 for an empty corpus.
func (r EmbeddingStatusReport) Coverage() float64 {
	if r.TotalCandidates == 0 {
		return 0
	}
	return float64(r.ReadyCount) / float64(r.TotalCandidates) * 100
}
