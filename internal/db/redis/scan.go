package redis

import (
	"context"

	"github.com/kailas-cloud/marketlens/internal/db"
)

// ScanPage returns one SCAN page of keys matching pattern plus the next cursor.
// A returned cursor of 0 means the iteration is complete.
func (s *Store) ScanPage(ctx context.Context, cursor uint64, pattern string, count int64) ([]string, uint64, error) {
	cmd := s.b().Scan().Cursor(cursor).Match(pattern).Count(count).Build()
	entry, err := s.do(ctx, cmd).AsScanEntry()
	if err != nil {
		return nil, 0, &db.Error{Op: db.OpScan, Err: err}
	}
	return entry.Elements, entry.Cursor, nil
}
