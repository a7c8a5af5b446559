package service

import (
	"strings"
	"testing"

	"estate_addendum/internal/domain/entity"

	"github.com/shopspring/decimal"
)

func testNetworks() []entity.NetworkDescriptor {
	return []entity.NetworkDescriptor{
		{ID: "ethereum", ChainID: 1, Name: "Ethereum", NativeSymbol: "ETH", NativeDecimals: 18, NativeCoinID: "ethereum"},
		{ID: "polygon", ChainID: 137, Name: "Polygon", NativeSymbol: "MATIC", NativeDecimals: 18, NativeCoinID: "matic-network"},
	}
}

func uint8Ptr(v uint8) *uint8 { return &v }

func TestNormalize_NativeDefaultsDecimals(t *testing.T) {
	n := NewNormalizer(testNetworks())

	asset, err := n.Normalize(entity.ProviderAssetRecord{
		Kind:       entity.AssetKindNative,
		Symbol:     "ETH",
		RawBalance: "2500000000000000000",
		CoinID:     "ethereum",
	}, "ethereum", "metamask:0xabc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asset.Decimals != 18 {
		t.Errorf("native decimals should default to the network's 18, got %d", asset.Decimals)
	}
	if asset.DisplayBalance.String() != "2.5" {
		t.Errorf("display balance: got %s, want 2.5", asset.DisplayBalance)
	}
	if asset.ID != "ethereum/native/0xabc" {
		t.Errorf("unexpected asset ID %q", asset.ID)
	}
	if asset.Priced {
		t.Error("asset without price data must not be priced")
	}
	if asset.ValueUSD != nil {
		t.Error("unpriced asset must have nil ValueUSD, never zero")
	}
}

func TestNormalize_FungibleWithoutDecimalsFails(t *testing.T) {
	n := NewNormalizer(testNetworks())

	_, err := n.Normalize(entity.ProviderAssetRecord{
		Kind:            entity.AssetKindFungible,
		Symbol:          "USDC",
		RawBalance:      "1000000",
		ContractAddress: "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
	}, "ethereum", "metamask:0xabc")
	if err == nil {
		t.Fatal("fungible record without decimals must fail")
	}
}

func TestNormalize_BothPriceFormsAgree(t *testing.T) {
	n := NewNormalizer(testNetworks())

	direct, err := n.Normalize(entity.ProviderAssetRecord{
		Kind:       entity.AssetKindNative,
		Symbol:     "ETH",
		RawBalance: "2000000000000000000",
		ValueUSD:   "6000",
	}, "ethereum", "s")
	if err != nil {
		t.Fatalf("direct value form failed: %v", err)
	}

	derived, err := n.Normalize(entity.ProviderAssetRecord{
		Kind:         entity.AssetKindNative,
		Symbol:       "ETH",
		RawBalance:   "2000000000000000000",
		UnitPriceUSD: "3000",
	}, "ethereum", "s")
	if err != nil {
		t.Fatalf("unit price form failed: %v", err)
	}

	if !direct.Priced || !derived.Priced {
		t.Fatal("both forms must mark the asset priced")
	}
	if !direct.ValueUSD.Equal(*derived.ValueUSD) {
		t.Errorf("value mismatch: direct %s, derived %s", direct.ValueUSD, derived.ValueUSD)
	}
	if !derived.ValueUSD.Equal(decimal.NewFromInt(6000)) {
		t.Errorf("derived value: got %s, want 6000", derived.ValueUSD)
	}
}

func TestNormalize_MissingSymbolUsesTruncatedContract(t *testing.T) {
	n := NewNormalizer(testNetworks())

	asset, err := n.Normalize(entity.ProviderAssetRecord{
		Kind:            entity.AssetKindFungible,
		RawBalance:      "5",
		Decimals:        uint8Ptr(0),
		ContractAddress: "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
	}, "ethereum", "s")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(asset.Symbol, "0xa0b8") || !strings.HasSuffix(asset.Symbol, "eb48") {
		t.Errorf("expected truncated contract as symbol, got %q", asset.Symbol)
	}
	if asset.Name != asset.Symbol {
		t.Errorf("missing name should fall back to symbol, got %q", asset.Name)
	}
}

func TestNormalize_NFTCountsWholeUnits(t *testing.T) {
	n := NewNormalizer(testNetworks())

	asset, err := n.Normalize(entity.ProviderAssetRecord{
		Kind:            entity.AssetKindNFT,
		Symbol:          "PUNK",
		RawBalance:      "3",
		ContractAddress: "0xb47e3cd837ddf8e4c57f05d70ab865de6e193bbb",
		TokenID:         "1234",
	}, "ethereum", "s")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asset.Decimals != 0 {
		t.Errorf("NFT decimals: got %d, want 0", asset.Decimals)
	}
	if asset.DisplayBalance.String() != "3" {
		t.Errorf("NFT display balance: got %s, want 3", asset.DisplayBalance)
	}
}

func TestNormalize_UnknownNetworkAndKind(t *testing.T) {
	n := NewNormalizer(testNetworks())

	if _, err := n.Normalize(entity.ProviderAssetRecord{Kind: entity.AssetKindNative, RawBalance: "1"}, "solana", "s"); err == nil {
		t.Error("unknown network must fail")
	}
	if _, err := n.Normalize(entity.ProviderAssetRecord{Kind: "bond", RawBalance: "1"}, "ethereum", "s"); err == nil {
		t.Error("unknown kind must fail")
	}
}

// One malformed record must not hide its siblings: the batch keeps going
// and reports the failure alongside the successes.
func TestNormalizeBatch_CollectsAndContinues(t *testing.T) {
	n := NewNormalizer(testNetworks())

	raws := []entity.ProviderAssetRecord{
		{Kind: entity.AssetKindNative, Symbol: "ETH", RawBalance: "1000000000000000000"},
		{Kind: entity.AssetKindFungible, Symbol: "BROKEN", RawBalance: "not-a-number", Decimals: uint8Ptr(18)},
		{Kind: entity.AssetKindFungible, Symbol: "USDC", RawBalance: "1000000", Decimals: uint8Ptr(6),
			ContractAddress: "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"},
	}
	assets, errs := n.NormalizeBatch(raws, "ethereum", "metamask:0xabc")
	if len(assets) != 2 {
		t.Errorf("expected 2 normalized assets, got %d", len(assets))
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 normalization error, got %d", len(errs))
	}
	if errs[0].Symbol != "BROKEN" || errs[0].SessionKey != "metamask:0xabc" {
		t.Errorf("error context wrong: %+v", errs[0])
	}
}
