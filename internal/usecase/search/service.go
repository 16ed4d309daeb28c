package search

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/marketlens/internal/domain"
	"github.com/kailas-cloud/marketlens/internal/repository/lead"
)

// Service runs a full similarity scan of the lead corpus against one query
// vector. A producer walks the keyspace in bounded pages while a fixed pool
// of workers scores them, each holding only its own top-k heap, so memory
// stays flat regardless of corpus size.
type Service struct {
	leads     VectorSource
	chunkSize int64
	workers   int
}

// Result is the ranked outcome of one scan.
type Result struct {
	Matches []domain.Match
	// Scanned counts every lead key visited, matching or not.
	Scanned int
}

// New creates a search service.
func New(leads VectorSource, chunkSize int64, workers int) *Service {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if workers <= 0 {
		workers = 1
	}
	return &Service{leads: leads, chunkSize: chunkSize, workers: workers}
}

// FindSimilar returns every ready lead whose cosine similarity to query meets
// params.MinSimilarity, ranked by similarity descending with lead id ascending
// breaking ties. params.MaxResults > 0 caps the ranking after the ordering is
// fixed, so the result set is deterministic for a given corpus and query.
func (s *Service) FindSimilar(ctx context.Context, query []float32, params domain.AnalysisParams) (Result, error) {
	if len(query) == 0 {
		return Result{}, fmt.Errorf("%w: empty query vector", domain.ErrInvalidInput)
	}

	g, ctx := errgroup.WithContext(ctx)
	pages := make(chan lead.VectorPage, s.workers)

	// SCAN cursors chain, so a single producer walks the keyspace.
	g.Go(func() error {
		defer close(pages)
		var cursor uint64
		for {
			page, err := s.leads.ScanVectorPage(ctx, cursor, s.chunkSize)
			if err != nil {
				return fmt.Errorf("scan lead vectors: %w", err)
			}
			select {
			case pages <- page:
			case <-ctx.Done():
				return ctx.Err()
			}
			if page.Cursor == 0 {
				return nil
			}
			cursor = page.Cursor
		}
	})

	heaps := make([]*topK, s.workers)
	scanned := make([]int, s.workers)
	for i := 0; i < s.workers; i++ {
		i := i
		heaps[i] = newTopK(params.MaxResults)
		g.Go(func() error {
			for page := range pages {
				scanned[i] += page.Scanned
				for _, lv := range page.Vectors {
					if len(lv.Vector) != len(query) {
						continue
					}
					sim := domain.CosineSimilarity(query, lv.Vector)
					if sim >= params.MinSimilarity {
						heaps[i].push(domain.Match{LeadID: lv.ID, Similarity: sim})
					}
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var matches []domain.Match
	for _, h := range heaps {
		matches = append(matches, h.drain()...)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].LeadID < matches[j].LeadID
	})
	if params.MaxResults > 0 && len(matches) > params.MaxResults {
		matches = matches[:params.MaxResults]
	}

	res := Result{Matches: matches}
	for _, n := range scanned {
		res.Scanned += n
	}
	return res, nil
}
