package lead

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"math"
	"sort"
	"strings"
	"testing"
)

// mockStore implements the consumer interface for tests over an in-memory map.
type mockStore struct {
	hashes  map[string]map[string]string
	scanErr error
	getErr  error
}

func newMockStore() *mockStore {
	return &mockStore{hashes: make(map[string]map[string]string)}
}

func (m *mockStore) sortedKeys(pattern string) []string {
	prefix := strings.TrimSuffix(pattern, "*")
	keys := make([]string, 0, len(m.hashes))
	for k := range m.hashes {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func (m *mockStore) ScanPage(_ context.Context, cursor uint64, pattern string, count int64) ([]string, uint64, error) {
	if m.scanErr != nil {
		return nil, 0, m.scanErr
	}
	keys := m.sortedKeys(pattern)
	start := int(cursor)
	if start >= len(keys) {
		return nil, 0, nil
	}
	end := start + int(count)
	if end >= len(keys) {
		return keys[start:], 0, nil
	}
	return keys[start:end], uint64(end), nil
}

func (m *mockStore) HMGetMulti(_ context.Context, keys []string, fields []string) ([][]string, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make([][]string, len(keys))
	for i, key := range keys {
		row := make([]string, len(fields))
		for j, f := range fields {
			row[j] = m.hashes[key][f]
		}
		out[i] = row
	}
	return out, nil
}

func (m *mockStore) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make([]map[string]string, len(keys))
	for i, key := range keys {
		out[i] = m.hashes[key]
	}
	return out, nil
}

func encodeVector(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

func seedLead(t *testing.T, m *mockStore, id, status, bio string, hashtags []string, vec []float32) {
	t.Helper()
	row := map[string]string{
		fieldID:     id,
		fieldStatus: status,
		fieldBio:    bio,
	}
	if hashtags != nil {
		tags, err := json.Marshal(hashtags)
		if err != nil {
			t.Fatalf("marshal hashtags: %v", err)
		}
		row[fieldHashtags] = string(tags)
	}
	if vec != nil {
		row[fieldVector] = encodeVector(vec)
	}
	m.hashes[keyPrefix+id] = row
}
