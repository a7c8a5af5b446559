package service

import (
	"context"
	"sync"
	"time"

	"estate_addendum/internal/app/port"
	"estate_addendum/internal/domain/entity"
	"estate_addendum/internal/infrastructure/configloader"
	"estate_addendum/internal/pkg/metrics"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// sessionResult carries the outcome of one session's fetch so results can be
// folded deterministically after the fan-out completes.
type sessionResult struct {
	assets   []entity.Asset
	normErrs []entity.NormalizationError
	fetchErr *entity.ProviderError
}

// AggregatorImpl implements port.AssetAggregator. A refresh fans out one
// provider call per session; failures are collected per session and never
// abort siblings. Starting a new refresh cancels and supersedes any
// refresh still in flight.
type AggregatorImpl struct {
	registry   port.NetworkRegistry
	resolver   port.AssetProviderResolver
	normalizer *Normalizer
	priceSvc   port.PriceService
	logger     port.Logger

	maxConcurrent  int
	sessionTimeout time.Duration

	mu         sync.Mutex
	ledger     []entity.Asset
	generation uint64
	cancelPrev context.CancelFunc
}

// NewAggregator creates a new asset aggregator.
func NewAggregator(
	registry port.NetworkRegistry,
	resolver port.AssetProviderResolver,
	normalizer *Normalizer,
	priceSvc port.PriceService,
	cfg configloader.AggregatorConfig,
	l port.Logger,
) *AggregatorImpl {
	maxConcurrent := cfg.MaxConcurrentRequests
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &AggregatorImpl{
		registry:       registry,
		resolver:       resolver,
		normalizer:     normalizer,
		priceSvc:       priceSvc,
		logger:         l,
		maxConcurrent:  maxConcurrent,
		sessionTimeout: time.Duration(cfg.SessionFetchTimeoutMs) * time.Millisecond,
	}
}

// Refresh fetches, normalizes, dedups and prices assets for the given
// sessions. The internal ledger is replaced atomically on completion unless
// a newer refresh started in the meantime, in which case the result is
// returned to the caller but marked Superseded and the ledger is untouched.
func (a *AggregatorImpl) Refresh(ctx context.Context, sessions []entity.WalletSession) port.RefreshResult {
	start := time.Now()

	a.mu.Lock()
	a.generation++
	myGeneration := a.generation
	if a.cancelPrev != nil {
		a.cancelPrev() // supersede the in-flight refresh
	}
	refreshCtx, cancel := context.WithCancel(ctx)
	a.cancelPrev = cancel
	a.mu.Unlock()

	a.logger.Info("Portfolio refresh started", "sessionCount", len(sessions), "generation", myGeneration)

	results := make([]sessionResult, len(sessions))
	group, groupCtx := errgroup.WithContext(refreshCtx)
	group.SetLimit(a.maxConcurrent)

	for i, session := range sessions {
		group.Go(func() error {
			results[i] = a.fetchSession(groupCtx, session)
			return nil
		})
	}
	_ = group.Wait() // workers report through results, never through errors

	// Fold in session order so that for a duplicated Asset.ID the
	// later-arriving record wins deterministically.
	var (
		providerErrors []entity.ProviderError
		normErrors     []entity.NormalizationError
	)
	byID := make(map[string]int)
	merged := make([]entity.Asset, 0, len(sessions))
	for _, res := range results {
		if res.fetchErr != nil {
			providerErrors = append(providerErrors, *res.fetchErr)
		}
		normErrors = append(normErrors, res.normErrs...)
		for _, asset := range res.assets {
			if pos, ok := byID[asset.ID]; ok {
				merged[pos] = asset
				continue
			}
			byID[asset.ID] = len(merged)
			merged = append(merged, asset)
		}
	}

	a.priceAssets(refreshCtx, merged)
	totals := ComputeTotals(sessions, merged)

	result := port.RefreshResult{
		Assets:              merged,
		ProviderErrors:      providerErrors,
		NormalizationErrors: normErrors,
		Totals:              totals,
	}

	a.mu.Lock()
	if a.generation != myGeneration {
		result.Superseded = true
	} else {
		a.ledger = merged
	}
	a.mu.Unlock()

	outcome := "ok"
	switch {
	case result.Superseded:
		outcome = "superseded"
	case len(providerErrors) > 0:
		outcome = "partial"
	}
	metrics.RefreshTotal.WithLabelValues(outcome).Inc()
	metrics.RefreshDuration.Observe(time.Since(start).Seconds())

	a.logger.Info("Portfolio refresh finished",
		"generation", myGeneration,
		"assetCount", len(merged),
		"failedSessions", len(providerErrors),
		"normalizationErrors", len(normErrors),
		"superseded", result.Superseded,
		"durationMs", time.Since(start).Milliseconds())
	return result
}

// Snapshot returns a copy of the current asset ledger.
func (a *AggregatorImpl) Snapshot() []entity.Asset {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]entity.Asset, len(a.ledger))
	copy(out, a.ledger)
	return out
}

// fetchSession runs one session's provider call with its own timeout and
// normalizes the result. Every failure path produces a ProviderError; a
// panic is not possible because providers are plain RPC clients.
func (a *AggregatorImpl) fetchSession(ctx context.Context, session entity.WalletSession) sessionResult {
	var res sessionResult

	network, ok := a.registry.ByChainID(session.ChainID)
	if !ok {
		res.fetchErr = &entity.ProviderError{
			SessionKey: session.SessionKey,
			Address:    session.Address,
			Message:    "session chain is not a registered network",
		}
		metrics.ProviderFailures.WithLabelValues("unknown").Inc()
		return res
	}

	provider, err := a.resolver.ProviderFor(network)
	if err != nil {
		res.fetchErr = &entity.ProviderError{
			SessionKey: session.SessionKey,
			NetworkID:  network.ID,
			Address:    session.Address,
			Message:    "no provider available",
			Cause:      err,
		}
		metrics.ProviderFailures.WithLabelValues(network.ID).Inc()
		return res
	}

	fetchCtx, cancel := context.WithTimeout(ctx, a.sessionTimeout)
	defer cancel()

	raws, err := provider.FetchAssets(fetchCtx, session.Address, network)
	if err != nil {
		a.logger.Warn("Provider fetch failed for session",
			"sessionKey", session.SessionKey, "network", network.ID, "error", err)
		res.fetchErr = &entity.ProviderError{
			SessionKey: session.SessionKey,
			NetworkID:  network.ID,
			Address:    session.Address,
			Message:    err.Error(),
			Cause:      err,
		}
		metrics.ProviderFailures.WithLabelValues(network.ID).Inc()
		return res
	}

	res.assets, res.normErrs = a.normalizer.NormalizeBatch(raws, network.ID, session.SessionKey)
	return res
}

// priceAssets is the second pass: assets that arrived without a value get
// one from the price service by coin id. No price means Priced stays false
// and ValueUSD stays nil; a missing price is never zero.
func (a *AggregatorImpl) priceAssets(ctx context.Context, assets []entity.Asset) {
	var coinIDs []string
	for _, asset := range assets {
		if !asset.Priced && asset.CoinID != "" {
			coinIDs = append(coinIDs, asset.CoinID)
		}
	}
	if len(coinIDs) == 0 {
		return
	}

	prices := a.priceSvc.USDPrices(ctx, coinIDs)
	for i := range assets {
		if assets[i].Priced || assets[i].CoinID == "" {
			continue
		}
		price, ok := prices[assets[i].CoinID]
		if !ok {
			continue
		}
		value := price.Mul(assets[i].DisplayBalance)
		assets[i].UnitPriceUSD = &price
		assets[i].ValueUSD = &value
		assets[i].Priced = true
	}
}

// ComputeTotals folds the asset slice into portfolio totals. Pure function:
// empty input produces zero totals. Assets without a known USD value are
// excluded from the sum and counted separately.
func ComputeTotals(sessions []entity.WalletSession, assets []entity.Asset) entity.PortfolioTotals {
	totals := entity.PortfolioTotals{
		WalletCount:   len(sessions),
		AssetCount:    len(assets),
		TotalValueUSD: decimal.Zero,
	}
	for _, asset := range assets {
		if asset.ValueUSD == nil {
			totals.UnpricedAssets++
			continue
		}
		totals.TotalValueUSD = totals.TotalValueUSD.Add(*asset.ValueUSD)
	}
	return totals
}
