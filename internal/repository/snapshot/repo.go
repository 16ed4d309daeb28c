package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/marketlens/internal/db"
	"github.com/kailas-cloud/marketlens/internal/domain"
)

var (
	versionPrefix = domain.KeyPrefix + "version:"
	marketPrefix  = domain.KeyPrefix + "market:"
	marketsKey    = domain.KeyPrefix + "markets"
)

// Registry hash field names.
const (
	metaName   = "market_name"
	metaLatest = "latest_version_id"
	metaFirst  = "first_analyzed_at"
	metaLast   = "last_analyzed_at"
)

// store is the consumer interface for snapshots (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ZCard(ctx context.Context, key string) (int64, error)
	Tx(ctx context.Context, ops []db.TxOp) error
}

// Repo owns the immutable analysis versions and the derived market registry.
// Versions are append-only: Commit is the only writer, DeleteMarket the only
// remover, and both run as single atomic transactions.
type Repo struct {
	store store
}

// New creates a snapshot repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Commit persists a whole version plus the registry updates in one
// transaction: either everything lands or nothing does. The caller must hold
// the per-slug lock, which makes the registry read-modify-write safe.
func (r *Repo) Commit(ctx context.Context, v domain.AnalysisVersion) error {
	data, err := encodeVersion(v)
	if err != nil {
		return err
	}

	firstAnalyzed := v.CreatedAt.UTC()
	meta, err := r.store.HGetAll(ctx, marketKey(v.MarketSlug))
	if err != nil {
		return fmt.Errorf("read market meta %s: %w", v.MarketSlug, err)
	}
	if raw := meta[metaFirst]; raw != "" {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			firstAnalyzed = t
		}
	}

	score := float64(v.CreatedAt.UTC().UnixNano())
	ops := []db.TxOp{
		db.SetOp(versionKey(v.VersionID), data),
		db.ZAddOp(historyKey(v.MarketSlug), score, v.VersionID),
		db.HSetOp(marketKey(v.MarketSlug), map[string]string{
			metaName:   v.MarketName,
			metaLatest: v.VersionID,
			metaFirst:  firstAnalyzed.Format(time.RFC3339Nano),
			metaLast:   v.CreatedAt.UTC().Format(time.RFC3339Nano),
		}),
		db.ZAddOp(marketsKey, score, v.MarketSlug),
	}

	if err := r.store.Tx(ctx, ops); err != nil {
		return fmt.Errorf("commit version %s: %w", v.VersionID, err)
	}
	return nil
}

// GetByVersionID returns a version by its opaque id.
func (r *Repo) GetByVersionID(ctx context.Context, versionID string) (domain.AnalysisVersion, error) {
	data, err := r.store.Get(ctx, versionKey(versionID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.AnalysisVersion{}, domain.ErrVersionNotFound
		}
		return domain.AnalysisVersion{}, fmt.Errorf("get version %s: %w", versionID, err)
	}
	return decodeVersion(data)
}

// GetLatest returns the most recently committed version for a slug.
func (r *Repo) GetLatest(ctx context.Context, slug string) (domain.AnalysisVersion, error) {
	meta, err := r.store.HGetAll(ctx, marketKey(slug))
	if err != nil {
		return domain.AnalysisVersion{}, fmt.Errorf("read market meta %s: %w", slug, err)
	}
	latest := meta[metaLatest]
	if latest == "" {
		return domain.AnalysisVersion{}, domain.ErrMarketNotFound
	}
	return r.GetByVersionID(ctx, latest)
}

// MarketName returns the registered name for a slug, or ErrMarketNotFound.
func (r *Repo) MarketName(ctx context.Context, slug string) (string, error) {
	meta, err := r.store.HGetAll(ctx, marketKey(slug))
	if err != nil {
		return "", fmt.Errorf("read market meta %s: %w", slug, err)
	}
	if meta[metaName] == "" {
		return "", domain.ErrMarketNotFound
	}
	return meta[metaName], nil
}

// GetHistory returns up to limit versions for a slug, newest first.
// A slug with no versions yields ErrMarketNotFound.
func (r *Repo) GetHistory(ctx context.Context, slug string, limit int) ([]domain.AnalysisVersion, error) {
	if limit <= 0 {
		limit = 10
	}

	ids, err := r.store.ZRevRange(ctx, historyKey(slug), 0, int64(limit-1))
	if err != nil {
		return nil, fmt.Errorf("read history %s: %w", slug, err)
	}
	if len(ids) == 0 {
		return nil, domain.ErrMarketNotFound
	}

	versions := make([]domain.AnalysisVersion, 0, len(ids))
	for _, id := range ids {
		v, err := r.GetByVersionID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrVersionNotFound) {
				// Registry and versions are only written together; a gap here
				// means a concurrent whole-market delete. Skip the hole.
				continue
			}
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, nil
}

// TotalVersions returns the history length for a slug.
func (r *Repo) TotalVersions(ctx context.Context, slug string) (int, error) {
	n, err := r.store.ZCard(ctx, historyKey(slug))
	if err != nil {
		return 0, fmt.Errorf("count history %s: %w", slug, err)
	}
	return int(n), nil
}

// DeleteMarket removes every version of one slug plus its registry entries in
// a single transaction. Idempotent: deleting an unknown slug is a no-op.
// Other slugs are untouched.
func (r *Repo) DeleteMarket(ctx context.Context, slug string) error {
	ids, err := r.store.ZRevRange(ctx, historyKey(slug), 0, -1)
	if err != nil {
		return fmt.Errorf("read history %s: %w", slug, err)
	}

	ops := make([]db.TxOp, 0, len(ids)+3)
	for _, id := range ids {
		ops = append(ops, db.DelOp(versionKey(id)))
	}
	ops = append(ops,
		db.DelOp(historyKey(slug)),
		db.DelOp(marketKey(slug)),
		db.ZRemOp(marketsKey, slug),
	)

	if err := r.store.Tx(ctx, ops); err != nil {
		return fmt.Errorf("delete market %s: %w", slug, err)
	}
	return nil
}

// ListMarkets returns the derived registry view, most recently analyzed first.
func (r *Repo) ListMarkets(ctx context.Context) ([]domain.RegistryEntry, error) {
	slugs, err := r.store.ZRevRange(ctx, marketsKey, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("list markets: %w", err)
	}

	entries := make([]domain.RegistryEntry, 0, len(slugs))
	for _, slug := range slugs {
		meta, err := r.store.HGetAll(ctx, marketKey(slug))
		if err != nil {
			return nil, fmt.Errorf("read market meta %s: %w", slug, err)
		}
		if len(meta) == 0 {
			continue
		}
		total, err := r.TotalVersions(ctx, slug)
		if err != nil {
			return nil, err
		}
		entries = append(entries, domain.RegistryEntry{
			MarketSlug:      slug,
			MarketName:      meta[metaName],
			TotalVersions:   total,
			FirstAnalyzedAt: parseTime(meta[metaFirst]),
			LastAnalyzedAt:  parseTime(meta[metaLast]),
			LatestVersionID: meta[metaLatest],
		})
	}
	return entries, nil
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func versionKey(id string) string   { return versionPrefix + id }
func marketKey(slug string) string  { return marketPrefix + slug }
func historyKey(slug string) string { return marketPrefix + slug + ":history" }
