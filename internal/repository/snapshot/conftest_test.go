package snapshot

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/kailas-cloud/marketlens/internal/db"
	"github.com/kailas-cloud/marketlens/internal/domain"
)

// mockStore is an in-memory fake of the consumer interface. Tx applies all ops
// or, with txErr set, none, mirroring MULTI/EXEC semantics.
type mockStore struct {
	kv     map[string][]byte
	hashes map[string]map[string]string
	zsets  map[string]map[string]float64
	txErr  error
	txLog  [][]db.TxOp
}

func newMockStore() *mockStore {
	return &mockStore{
		kv:     make(map[string][]byte),
		hashes: make(map[string]map[string]string),
		zsets:  make(map[string]map[string]float64),
	}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.kv[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	out := make(map[string]string, len(m.hashes[key]))
	for k, v := range m.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (m *mockStore) ZRevRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	set := m.zsets[key]
	type entry struct {
		member string
		score  float64
	}
	entries := make([]entry, 0, len(set))
	for member, score := range set {
		entries = append(entries, entry{member, score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].member > entries[j].member
	})

	if stop < 0 {
		stop = int64(len(entries)) + stop
	}
	var out []string
	for i, e := range entries {
		if int64(i) < start || int64(i) > stop {
			continue
		}
		out = append(out, e.member)
	}
	return out, nil
}

func (m *mockStore) ZCard(_ context.Context, key string) (int64, error) {
	return int64(len(m.zsets[key])), nil
}

func (m *mockStore) Tx(_ context.Context, ops []db.TxOp) error {
	m.txLog = append(m.txLog, ops)
	if m.txErr != nil {
		return m.txErr
	}
	for _, op := range ops {
		switch op.Kind {
		case db.TxSet:
			m.kv[op.Key] = op.Value
		case db.TxDel:
			delete(m.kv, op.Key)
			delete(m.hashes, op.Key)
			delete(m.zsets, op.Key)
		case db.TxHSet:
			if m.hashes[op.Key] == nil {
				m.hashes[op.Key] = make(map[string]string)
			}
			for k, v := range op.Fields {
				m.hashes[op.Key][k] = v
			}
		case db.TxZAdd:
			if m.zsets[op.Key] == nil {
				m.zsets[op.Key] = make(map[string]float64)
			}
			m.zsets[op.Key][op.Member] = op.Score
		case db.TxZRem:
			delete(m.zsets[op.Key], op.Member)
		}
	}
	return nil
}

func makeVersion(t *testing.T, id, slug, name string, createdAt time.Time) domain.AnalysisVersion {
	t.Helper()
	coverage := 80.0
	return domain.AnalysisVersion{
		VersionID:       id,
		MarketSlug:      slug,
		MarketName:      name,
		CreatedAt:       createdAt,
		Parameters:      domain.DefaultAnalysisParams(),
		MatchedLeads:    120,
		CoveragePercent: &coverage,
		Clusters: []domain.Cluster{
			{
				ClusterID:           0,
				Label:               "pilates / studio",
				Keywords:            []string{"pilates", "studio"},
				Size:                120,
				CohesionScore:       0.8,
				MeanQuerySimilarity: 0.75,
				PriorityScore:       1,
				MemberLeadIDs:       []string{"a", "b"},
			},
		},
	}
}
