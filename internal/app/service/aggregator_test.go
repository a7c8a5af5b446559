package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"estate_addendum/internal/app/port"
	"estate_addendum/internal/domain/entity"
	"estate_addendum/internal/infrastructure/configloader"

	"github.com/shopspring/decimal"
)

// fakeRegistry implements port.NetworkRegistry over a fixed slice.
type fakeRegistry struct {
	networks []entity.NetworkDescriptor
}

func (f *fakeRegistry) All() []entity.NetworkDescriptor { return f.networks }

func (f *fakeRegistry) ByID(id string) (entity.NetworkDescriptor, bool) {
	for _, n := range f.networks {
		if n.ID == id {
			return n, true
		}
	}
	return entity.NetworkDescriptor{}, false
}

func (f *fakeRegistry) ByChainID(chainID uint64) (entity.NetworkDescriptor, bool) {
	for _, n := range f.networks {
		if n.ChainID == chainID {
			return n, true
		}
	}
	return entity.NetworkDescriptor{}, false
}

func (f *fakeRegistry) TokensFor(id string) []entity.TokenInfo { return nil }

// fakeProvider returns canned records or an error per address.
type fakeProvider struct {
	mu      sync.Mutex
	records map[string][]entity.ProviderAssetRecord
	fail    map[string]error
	block   chan struct{} // when set, FetchAssets waits for ctx or the channel
}

func (f *fakeProvider) FetchAssets(ctx context.Context, address string, network entity.NetworkDescriptor) ([]entity.ProviderAssetRecord, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.fail[address]; ok {
		return nil, err
	}
	return f.records[address], nil
}

type fakeResolver struct {
	provider port.AssetProvider
	err      error
}

func (f *fakeResolver) ProviderFor(network entity.NetworkDescriptor) (port.AssetProvider, error) {
	return f.provider, f.err
}

// fakePriceService serves a fixed price table.
type fakePriceService struct {
	prices map[string]decimal.Decimal
}

func (f *fakePriceService) USDPrices(ctx context.Context, coinIDs []string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, id := range coinIDs {
		if p, ok := f.prices[id]; ok {
			out[id] = p
		}
	}
	return out
}

func testAggregator(provider port.AssetProvider, prices map[string]decimal.Decimal) *AggregatorImpl {
	registry := &fakeRegistry{networks: testNetworks()}
	return NewAggregator(
		registry,
		&fakeResolver{provider: provider},
		NewNormalizer(registry.All()),
		&fakePriceService{prices: prices},
		configloader.AggregatorConfig{MaxConcurrentRequests: 4, SessionFetchTimeoutMs: 5000},
		nopLogger{},
	)
}

func session(connector, address string, chainID uint64) entity.WalletSession {
	return entity.WalletSession{
		SessionKey:    entity.SessionKeyFor(connector, address),
		Address:       address,
		ConnectorName: connector,
		ChainID:       chainID,
	}
}

// Wallet A succeeds, wallet B fails: the refresh must return A's assets
// plus one provider error for B, never abort the whole pass.
func TestRefresh_PartialFailure(t *testing.T) {
	provider := &fakeProvider{
		records: map[string][]entity.ProviderAssetRecord{
			"0xaaa0000000000000000000000000000000000001": {
				{Kind: entity.AssetKindNative, Symbol: "ETH", RawBalance: "1000000000000000000", CoinID: "ethereum"},
			},
		},
		fail: map[string]error{
			"0xbbb0000000000000000000000000000000000002": errors.New("rpc timeout"),
		},
	}
	agg := testAggregator(provider, map[string]decimal.Decimal{"ethereum": decimal.NewFromInt(3000)})

	result := agg.Refresh(context.Background(), []entity.WalletSession{
		session("metamask", "0xaaa0000000000000000000000000000000000001", 1),
		session("metamask", "0xbbb0000000000000000000000000000000000002", 1),
	})

	if len(result.Assets) != 1 {
		t.Fatalf("expected 1 asset, got %d", len(result.Assets))
	}
	if len(result.ProviderErrors) != 1 {
		t.Fatalf("expected 1 provider error, got %d", len(result.ProviderErrors))
	}
	if result.ProviderErrors[0].SessionKey != "metamask:0xbbb0000000000000000000000000000000000002" {
		t.Errorf("provider error for wrong session: %+v", result.ProviderErrors[0])
	}
	if result.Superseded {
		t.Error("a single refresh must not be superseded")
	}

	// Price pass picked up the native price from the price service.
	asset := result.Assets[0]
	if !asset.Priced || asset.ValueUSD == nil {
		t.Fatal("asset should have been priced in the second pass")
	}
	if !asset.ValueUSD.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("value: got %s, want 3000", asset.ValueUSD)
	}
	if !result.Totals.TotalValueUSD.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("totals: got %s, want 3000", result.Totals.TotalValueUSD)
	}
	if result.Totals.WalletCount != 2 || result.Totals.AssetCount != 1 {
		t.Errorf("unexpected totals %+v", result.Totals)
	}
}

// The same wallet connected through two connectors is one position, not
// two: the records share an Asset.ID and the later session's record wins.
func TestRefresh_SameAddressTwoConnectorsDedups(t *testing.T) {
	const addr = "0xaaa0000000000000000000000000000000000001"
	provider := &fakeProvider{
		records: map[string][]entity.ProviderAssetRecord{
			addr: {
				{Kind: entity.AssetKindNative, Symbol: "ETH", RawBalance: "1000000000000000000", CoinID: "ethereum"},
			},
		},
	}
	agg := testAggregator(provider, map[string]decimal.Decimal{"ethereum": decimal.NewFromInt(3000)})

	result := agg.Refresh(context.Background(), []entity.WalletSession{
		session("metamask", addr, 1),
		session("walletconnect", addr, 1),
	})

	if len(result.Assets) != 1 {
		t.Fatalf("expected 1 asset, got %d", len(result.Assets))
	}
	if got := result.Assets[0].WalletSessionKey; got != "walletconnect:"+addr {
		t.Errorf("later session must win the dedup, got %q", got)
	}
	if result.Totals.AssetCount != 1 {
		t.Errorf("asset count: got %d, want 1", result.Totals.AssetCount)
	}
	if !result.Totals.TotalValueUSD.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("total must not double-count the position: got %s", result.Totals.TotalValueUSD)
	}
}

func TestRefresh_UnknownChainCollected(t *testing.T) {
	agg := testAggregator(&fakeProvider{}, nil)

	result := agg.Refresh(context.Background(), []entity.WalletSession{
		session("metamask", "0xaaa0000000000000000000000000000000000001", 999999),
	})
	if len(result.ProviderErrors) != 1 {
		t.Fatalf("expected 1 provider error, got %d", len(result.ProviderErrors))
	}
	if len(result.Assets) != 0 {
		t.Error("no assets expected for unknown chain")
	}
}

func TestRefresh_ReplacesLedgerAtomically(t *testing.T) {
	provider := &fakeProvider{
		records: map[string][]entity.ProviderAssetRecord{
			"0xaaa0000000000000000000000000000000000001": {
				{Kind: entity.AssetKindNative, Symbol: "ETH", RawBalance: "1000000000000000000"},
			},
		},
	}
	agg := testAggregator(provider, nil)
	sessions := []entity.WalletSession{session("metamask", "0xaaa0000000000000000000000000000000000001", 1)}

	agg.Refresh(context.Background(), sessions)
	if len(agg.Snapshot()) != 1 {
		t.Fatalf("ledger not replaced: %d assets", len(agg.Snapshot()))
	}

	// An empty refresh replaces the ledger with an empty one, it does not
	// merge with the previous snapshot.
	agg.Refresh(context.Background(), nil)
	if len(agg.Snapshot()) != 0 {
		t.Error("empty refresh must clear the ledger")
	}
}

func waitForGeneration(t *testing.T, agg *AggregatorImpl, want uint64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		agg.mu.Lock()
		reached := agg.generation >= want
		agg.mu.Unlock()
		if reached {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("generation %d never reached", want)
}

// A refresh that is overtaken by a newer one returns its result marked
// Superseded and must not overwrite the newer ledger.
func TestRefresh_SupersededByNewerGeneration(t *testing.T) {
	block := make(chan struct{})
	provider := &fakeProvider{
		records: map[string][]entity.ProviderAssetRecord{
			"0xaaa0000000000000000000000000000000000001": {
				{Kind: entity.AssetKindNative, Symbol: "ETH", RawBalance: "1"},
			},
		},
		block: block,
	}
	agg := testAggregator(provider, nil)
	sessions := []entity.WalletSession{session("metamask", "0xaaa0000000000000000000000000000000000001", 1)}

	firstDone := make(chan port.RefreshResult, 1)
	go func() {
		firstDone <- agg.Refresh(context.Background(), sessions)
	}()
	waitForGeneration(t, agg, 1)

	// The second refresh bumps the generation, cancelling the first fetch.
	secondDone := make(chan port.RefreshResult, 1)
	go func() {
		secondDone <- agg.Refresh(context.Background(), sessions)
	}()
	waitForGeneration(t, agg, 2)

	close(block)
	first := <-firstDone
	second := <-secondDone

	if second.Superseded {
		t.Error("the newest refresh must not be superseded")
	}
	if !first.Superseded {
		t.Error("the older refresh must be marked superseded")
	}
}

func TestComputeTotals_EmptyAndUnpriced(t *testing.T) {
	totals := ComputeTotals(nil, nil)
	if totals.WalletCount != 0 || totals.AssetCount != 0 || totals.UnpricedAssets != 0 {
		t.Errorf("empty fold must be zero: %+v", totals)
	}
	if !totals.TotalValueUSD.Equal(decimal.Zero) {
		t.Errorf("empty total: got %s", totals.TotalValueUSD)
	}

	hundred := decimal.NewFromInt(100)
	assets := []entity.Asset{
		{ID: "a", ValueUSD: &hundred, Priced: true},
		{ID: "b"}, // unpriced, excluded from the sum
	}
	totals = ComputeTotals([]entity.WalletSession{{}}, assets)
	if !totals.TotalValueUSD.Equal(hundred) {
		t.Errorf("total: got %s, want 100", totals.TotalValueUSD)
	}
	if totals.UnpricedAssets != 1 {
		t.Errorf("unpriced count: got %d, want 1", totals.UnpricedAssets)
	}
	if totals.AssetCount != 2 {
		t.Errorf("asset count: got %d, want 2", totals.AssetCount)
	}
}

// Two records resolving to the same Asset.ID keep only the later one.
func TestRefresh_DedupsById(t *testing.T) {
	provider := &fakeProvider{
		records: map[string][]entity.ProviderAssetRecord{
			"0xaaa0000000000000000000000000000000000001": {
				{Kind: entity.AssetKindNative, Symbol: "ETH", RawBalance: "1000000000000000000"},
				{Kind: entity.AssetKindNative, Symbol: "ETH", RawBalance: "2000000000000000000"},
			},
		},
	}
	agg := testAggregator(provider, nil)

	result := agg.Refresh(context.Background(), []entity.WalletSession{
		session("metamask", "0xaaa0000000000000000000000000000000000001", 1),
	})
	if len(result.Assets) != 1 {
		t.Fatalf("expected 1 deduped asset, got %d", len(result.Assets))
	}
	if result.Assets[0].RawBalanceStr != "2000000000000000000" {
		t.Errorf("later record must win: got %s", result.Assets[0].RawBalanceStr)
	}
}
