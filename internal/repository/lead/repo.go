package lead

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/kailas-cloud/marketlens/internal/domain"
)

var keyPrefix = domain.KeyPrefix + "lead:"

// Hash field names written by the external embedding job.
const (
	fieldID       = "id"
	fieldBio      = "bio"
	fieldHashtags = "hashtags"
	fieldStatus   = "status"
	fieldVector   = "vector"
)

// store is the consumer interface for lead rows (ISP).
type store interface {
	ScanPage(ctx context.Context, cursor uint64, pattern string, count int64) ([]string, uint64, error)
	HMGetMulti(ctx context.Context, keys []string, fields []string) ([][]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// Repo reads lead embedding rows. The rows are owned by the external embedding
// batch job; this repository never writes them.
type Repo struct {
	store store
}

// New creates a lead repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// VectorPage is one chunk of the ready-vector scan.
type VectorPage struct {
	Vectors []domain.LeadVector
	// Scanned counts every lead key seen in the page, eligible or not.
	Scanned int
	Cursor  uint64
}

// ScanVectorPage returns one chunk of search-eligible (status=ready) lead
// vectors plus the cursor for the next chunk. Cursor 0 on return means the
// scan is complete. Memory stays bounded by the page size regardless of
// corpus size.
func (r *Repo) ScanVectorPage(ctx context.Context, cursor uint64, count int64) (VectorPage, error) {
	keys, next, err := r.store.ScanPage(ctx, cursor, keyPrefix+"*", count)
	if err != nil {
		return VectorPage{}, fmt.Errorf("scan leads: %w", err)
	}

	page := VectorPage{Cursor: next, Scanned: len(keys)}
	if len(keys) == 0 {
		return page, nil
	}

	rows, err := r.store.HMGetMulti(ctx, keys, []string{fieldID, fieldStatus, fieldVector})
	if err != nil {
		return VectorPage{}, fmt.Errorf("fetch lead vectors: %w", err)
	}

	page.Vectors = make([]domain.LeadVector, 0, len(rows))
	for i, row := range rows {
		if domain.EmbeddingStatus(row[1]) != domain.EmbeddingReady || row[2] == "" {
			continue
		}
		vec, err := decodeVector([]byte(row[2]))
		if err != nil {
			// Corrupt row from the embedding job; skip rather than abort the scan.
			continue
		}
		id := row[0]
		if id == "" {
			id = idFromKey(keys[i])
		}
		page.Vectors = append(page.Vectors, domain.LeadVector{ID: id, Vector: vec})
	}
	return page, nil
}

// GetBatch returns full lead rows for the given ids in one pipelined round-trip.
// Unknown ids are silently omitted.
func (r *Repo) GetBatch(ctx context.Context, ids []string) ([]domain.LeadEmbedding, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyPrefix + id
	}

	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch leads: %w", err)
	}

	leads := make([]domain.LeadEmbedding, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		leads = append(leads, parseRow(ids[i], row))
	}
	return leads, nil
}

// CountByStatus walks the whole lead keyspace in pages and tallies embedding
// statuses. Pure read, no side effects.
func (r *Repo) CountByStatus(ctx context.Context) (domain.EmbeddingStatusReport, error) {
	var report domain.EmbeddingStatusReport
	var cursor uint64

	for {
		keys, next, err := r.store.ScanPage(ctx, cursor, keyPrefix+"*", 500)
		if err != nil {
			return domain.EmbeddingStatusReport{}, fmt.Errorf("scan leads: %w", err)
		}

		if len(keys) > 0 {
			rows, err := r.store.HMGetMulti(ctx, keys, []string{fieldStatus})
			if err != nil {
				return domain.EmbeddingStatusReport{}, fmt.Errorf("fetch lead statuses: %w", err)
			}
			for _, row := range rows {
				report.TotalCandidates++
				switch domain.EmbeddingStatus(row[0]) {
				case domain.EmbeddingReady:
					report.ReadyCount++
				case domain.EmbeddingError:
					report.ErrorCount++
				default:
					report.PendingCount++
				}
			}
		}

		if next == 0 {
			break
		}
		cursor = next
	}

	report.CoveragePercent = report.Coverage()
	return report, nil
}

func parseRow(id string, row map[string]string) domain.LeadEmbedding {
	lead := domain.LeadEmbedding{
		ID:     id,
		Bio:    row[fieldBio],
		Status: domain.EmbeddingStatus(row[fieldStatus]),
	}
	if raw := row[fieldHashtags]; raw != "" {
		// Hashtags arrive as a JSON string array; anything else is dropped at
		// this boundary instead of leaking loosely-typed data upward.
		var tags []string
		if err := json.Unmarshal([]byte(raw), &tags); err == nil {
			lead.Hashtags = tags
		}
	}
	if raw := row[fieldVector]; raw != "" {
		if vec, err := decodeVector([]byte(raw)); err == nil {
			lead.Vector = vec
		}
	}
	return lead
}

func idFromKey(key string) string {
	return strings.TrimPrefix(key, keyPrefix)
}

func decodeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("vector blob length %d not a multiple of 4", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
