package marketlens

import (
	"context"
	"fmt"
	"time"
)

// Analyze runs the full pipeline for a market given by display name and
// returns the committed version. The market slug is derived from the name.
func (c *Client) Analyze(ctx context.Context, marketName string, params AnalysisParams) (_ MarketVersion, err error) {
	start := time.Now()
	defer func() { c.obs.observe("analyze", start, err) }()

	v, err := c.analysisSvc.Analyze(ctx, marketName, c.resolveParams(params))
	if err != nil {
		return MarketVersion{}, fmt.Errorf("analyze: %w", err)
	}
	return fromDomainVersion(v), nil
}

// Reanalyze reruns the pipeline for an already analyzed market slug,
// producing a fresh version with the stored display name as the query.
func (c *Client) Reanalyze(ctx context.Context, slug string, params AnalysisParams) (_ MarketVersion, err error) {
	start := time.Now()
	defer func() { c.obs.observe("reanalyze", start, err) }()

	v, err := c.analysisSvc.Reanalyze(ctx, slug, c.resolveParams(params))
	if err != nil {
		return MarketVersion{}, fmt.Errorf("reanalyze: %w", err)
	}
	return fromDomainVersion(v), nil
}

// Latest returns the most recent version for a market slug.
func (c *Client) Latest(ctx context.Context, slug string) (_ MarketVersion, err error) {
	start := time.Now()
	defer func() { c.obs.observe("latest", start, err) }()

	v, err := c.analysisSvc.Latest(ctx, slug)
	if err != nil {
		return MarketVersion{}, fmt.Errorf("latest: %w", err)
	}
	return fromDomainVersion(v), nil
}

// History returns a page of versions for a market slug, newest first, with
// the total history length. limit <= 0 uses the service default.
func (c *Client) History(ctx context.Context, slug string, limit int) (_ MarketHistory, err error) {
	start := time.Now()
	defer func() { c.obs.observe("history", start, err) }()

	h, err := c.analysisSvc.History(ctx, slug, limit)
	if err != nil {
		return MarketHistory{}, fmt.Errorf("history: %w", err)
	}
	out := MarketHistory{
		MarketSlug:    h.MarketSlug,
		TotalVersions: h.TotalVersions,
		Versions:      make([]MarketVersion, len(h.Versions)),
	}
	for i, v := range h.Versions {
		out.Versions[i] = fromDomainVersion(v)
	}
	return out, nil
}

// Version returns one version by its id, regardless of market.
func (c *Client) Version(ctx context.Context, versionID string) (_ MarketVersion, err error) {
	start := time.Now()
	defer func() { c.obs.observe("version", start, err) }()

	v, err := c.analysisSvc.Version(ctx, versionID)
	if err != nil {
		return MarketVersion{}, fmt.Errorf("version: %w", err)
	}
	return fromDomainVersion(v), nil
}

// Compare diffs two versions by id. The versions may belong to different
// markets; cluster matching is by keyword overlap, not cluster id.
func (c *Client) Compare(ctx context.Context, v1ID, v2ID string) (_ VersionDiff, err error) {
	start := time.Now()
	defer func() { c.obs.observe("compare", start, err) }()

	d, err := c.compareSvc.Compare(ctx, v1ID, v2ID)
	if err != nil {
		return VersionDiff{}, fmt.Errorf("compare: %w", err)
	}
	return fromDomainDiff(d), nil
}

// DeleteMarket removes a market's registry entry and its whole version
// history. Deleting an unknown slug is not an error.
func (c *Client) DeleteMarket(ctx context.Context, slug string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("delete_market", start, err) }()

	if err = c.analysisSvc.DeleteMarket(ctx, slug); err != nil {
		return fmt.Errorf("delete market: %w", err)
	}
	return nil
}

// ListMarkets returns all analyzed markets, most recently analyzed first.
func (c *Client) ListMarkets(ctx context.Context) (_ []MarketInfo, err error) {
	start := time.Now()
	defer func() { c.obs.observe("list_markets", start, err) }()

	entries, err := c.analysisSvc.ListMarkets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list markets: %w", err)
	}
	out := make([]MarketInfo, len(entries))
	for i, e := range entries {
		out[i] = MarketInfo(e)
	}
	return out, nil
}

// EmbeddingStatus reports embedding coverage of the lead corpus.
func (c *Client) EmbeddingStatus(ctx context.Context) (_ EmbeddingStatus, err error) {
	start := time.Now()
	defer func() { c.obs.observe("embedding_status", start, err) }()

	r, err := c.statusSvc.Report(ctx)
	if err != nil {
		return EmbeddingStatus{}, fmt.Errorf("embedding status: %w", err)
	}
	return EmbeddingStatus(r), nil
}
