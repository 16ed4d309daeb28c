package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/kailas-cloud/marketlens/internal/domain"
	"github.com/kailas-cloud/marketlens/internal/repository/lead"
)

// mockSource pages over a fixed corpus, one slice per ScanVectorPage call.
type mockSource struct {
	vectors []domain.LeadVector
	err     error
}

func (m *mockSource) ScanVectorPage(_ context.Context, cursor uint64, count int64) (lead.VectorPage, error) {
	if m.err != nil {
		return lead.VectorPage{}, m.err
	}
	start := int(cursor)
	end := start + int(count)
	if end > len(m.vectors) {
		end = len(m.vectors)
	}
	page := lead.VectorPage{
		Vectors: m.vectors[start:end],
		Scanned: end - start,
	}
	if end < len(m.vectors) {
		page.Cursor = uint64(end)
	}
	return page, nil
}

func params(minSim float64, maxResults int) domain.AnalysisParams {
	p := domain.DefaultAnalysisParams()
	p.MinSimilarity = minSim
	p.MaxResults = maxResults
	return p
}

func TestFindSimilarThresholdAndOrder(t *testing.T) {
	src := &mockSource{vectors: []domain.LeadVector{
		{ID: "a", Vector: []float32{1, 0}},     // sim 1.0
		{ID: "b", Vector: []float32{0.9, 0.1}}, // high
		{ID: "c", Vector: []float32{0, 1}},     // sim 0.0, below threshold
		{ID: "d", Vector: []float32{-1, 0}},    // sim -1.0
	}}
	svc := New(src, 2, 2)

	res, err := svc.FindSimilar(context.Background(), []float32{1, 0}, params(0.5, 0))
	if err != nil {
		t.Fatalf("FindSimilar: %v", err)
	}
	if res.Scanned != 4 {
		t.Errorf("scanned = %d, want 4", res.Scanned)
	}
	if len(res.Matches) != 2 {
		t.Fatalf("matches = %+v, want 2", res.Matches)
	}
	if res.Matches[0].LeadID != "a" || res.Matches[1].LeadID != "b" {
		t.Errorf("order = [%s %s], want [a b]", res.Matches[0].LeadID, res.Matches[1].LeadID)
	}
	if res.Matches[0].Similarity < res.Matches[1].Similarity {
		t.Error("matches not sorted by similarity desc")
	}
}

func TestFindSimilarThresholdIsInclusive(t *testing.T) {
	src := &mockSource{vectors: []domain.LeadVector{
		{ID: "exact", Vector: []float32{1, 0}},
	}}
	svc := New(src, 10, 1)

	res, err := svc.FindSimilar(context.Background(), []float32{1, 0}, params(1.0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Matches) != 1 {
		t.Fatalf("similarity equal to threshold must match, got %+v", res.Matches)
	}
}

func TestFindSimilarTieBreaksByLeadID(t *testing.T) {
	src := &mockSource{vectors: []domain.LeadVector{
		{ID: "z", Vector: []float32{1, 0}},
		{ID: "a", Vector: []float32{1, 0}},
		{ID: "m", Vector: []float32{1, 0}},
	}}
	svc := New(src, 1, 3)

	res, err := svc.FindSimilar(context.Background(), []float32{1, 0}, params(0.5, 2))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Matches) != 2 {
		t.Fatalf("matches = %+v, want 2", res.Matches)
	}
	if res.Matches[0].LeadID != "a" || res.Matches[1].LeadID != "m" {
		t.Errorf("tie order = [%s %s], want [a m]", res.Matches[0].LeadID, res.Matches[1].LeadID)
	}
}

func TestFindSimilarDeterministicAcrossWorkerCounts(t *testing.T) {
	var corpus []domain.LeadVector
	for i := 0; i < 200; i++ {
		x := float32(i) / 200
		corpus = append(corpus, domain.LeadVector{
			ID:     fmt.Sprintf("lead-%03d", i),
			Vector: []float32{x, 1 - x},
		})
	}

	var baseline []domain.Match
	for _, workers := range []int{1, 2, 8} {
		svc := New(&mockSource{vectors: corpus}, 7, workers)
		res, err := svc.FindSimilar(context.Background(), []float32{1, 0}, params(0.3, 25))
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if baseline == nil {
			baseline = res.Matches
			if len(baseline) != 25 {
				t.Fatalf("cap not applied: %d matches", len(baseline))
			}
			if !sort.SliceIsSorted(baseline, func(i, j int) bool {
				return baseline[i].Similarity > baseline[j].Similarity
			}) {
				t.Fatal("baseline not sorted")
			}
			continue
		}
		if len(res.Matches) != len(baseline) {
			t.Fatalf("workers=%d: len %d != %d", workers, len(res.Matches), len(baseline))
		}
		for i := range baseline {
			if res.Matches[i] != baseline[i] {
				t.Fatalf("workers=%d: match %d = %+v, want %+v", workers, i, res.Matches[i], baseline[i])
			}
		}
	}
}

func TestFindSimilarUncapped(t *testing.T) {
	var corpus []domain.LeadVector
	for i := 0; i < 50; i++ {
		corpus = append(corpus, domain.LeadVector{
			ID:     fmt.Sprintf("lead-%02d", i),
			Vector: []float32{1, 0},
		})
	}
	svc := New(&mockSource{vectors: corpus}, 10, 4)

	res, err := svc.FindSimilar(context.Background(), []float32{1, 0}, params(0.5, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Matches) != 50 {
		t.Errorf("uncapped matches = %d, want 50", len(res.Matches))
	}
}

func TestFindSimilarSkipsDimensionMismatch(t *testing.T) {
	src := &mockSource{vectors: []domain.LeadVector{
		{ID: "ok", Vector: []float32{1, 0}},
		{ID: "short", Vector: []float32{1}},
	}}
	svc := New(src, 10, 1)

	res, err := svc.FindSimilar(context.Background(), []float32{1, 0}, params(0.5, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Matches) != 1 || res.Matches[0].LeadID != "ok" {
		t.Errorf("matches = %+v, want only ok", res.Matches)
	}
}

func TestFindSimilarEmptyQuery(t *testing.T) {
	svc := New(&mockSource{}, 10, 1)
	_, err := svc.FindSimilar(context.Background(), nil, params(0.5, 0))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestFindSimilarScanError(t *testing.T) {
	scanErr := errors.New("scan failed")
	svc := New(&mockSource{err: scanErr}, 10, 2)
	_, err := svc.FindSimilar(context.Background(), []float32{1, 0}, params(0.5, 0))
	if !errors.Is(err, scanErr) {
		t.Errorf("err = %v, want wrapped scan error", err)
	}
}
