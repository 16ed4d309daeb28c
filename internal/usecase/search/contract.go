package search

import (
	"context"

	"github.com/kailas-cloud/marketlens/internal/repository/lead"
)

// VectorSource streams search-eligible lead vectors in bounded pages.
type VectorSource interface {
	ScanVectorPage(ctx context.Context, cursor uint64, count int64) (lead.VectorPage, error)
}
