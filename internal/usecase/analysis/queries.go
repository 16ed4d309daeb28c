package analysis

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/marketlens/internal/domain"
)

// Latest returns the newest committed version for a slug.
func (s *Service) Latest(ctx context.Context, slug string) (domain.AnalysisVersion, error) {
	v, err := s.snapshots.GetLatest(ctx, slug)
	if err != nil {
		return domain.AnalysisVersion{}, fmt.Errorf("latest version: %w", err)
	}
	return v, nil
}

// History returns up to limit versions for a slug, newest first, plus the
// total history length.
func (s *Service) History(ctx context.Context, slug string, limit int) (domain.MarketHistory, error) {
	versions, err := s.snapshots.GetHistory(ctx, slug, limit)
	if err != nil {
		return domain.MarketHistory{}, fmt.Errorf("version history: %w", err)
	}
	total, err := s.snapshots.TotalVersions(ctx, slug)
	if err != nil {
		return domain.MarketHistory{}, fmt.Errorf("version history: %w", err)
	}
	return domain.MarketHistory{
		MarketSlug:    slug,
		TotalVersions: total,
		Versions:      versions,
	}, nil
}

// Version returns one committed version by id.
func (s *Service) Version(ctx context.Context, versionID string) (domain.AnalysisVersion, error) {
	if versionID == "" {
		return domain.AnalysisVersion{}, fmt.Errorf("%w: version id is required", domain.ErrInvalidInput)
	}
	v, err := s.snapshots.GetByVersionID(ctx, versionID)
	if err != nil {
		return domain.AnalysisVersion{}, fmt.Errorf("get version: %w", err)
	}
	return v, nil
}

// DeleteMarket removes a market and its whole history. The per-slug lock
// keeps the delete from racing an in-flight analysis commit.
func (s *Service) DeleteMarket(ctx context.Context, slug string) error {
	if slug == "" {
		return fmt.Errorf("%w: market slug is required", domain.ErrInvalidInput)
	}

	lk, err := s.locker.Acquire(ctx, slug)
	if err != nil {
		return err
	}
	defer s.locker.Release(ctx, lk)

	if err := s.snapshots.DeleteMarket(ctx, slug); err != nil {
		return fmt.Errorf("delete market: %w", err)
	}
	return nil
}

// ListMarkets returns the registry of every analyzed market, most recently
// analyzed first.
func (s *Service) ListMarkets(ctx context.Context) ([]domain.RegistryEntry, error) {
	entries, err := s.snapshots.ListMarkets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list markets: %w", err)
	}
	return entries, nil
}
