package entity

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// AssetKind tags the variant of an asset record.
type AssetKind string

const (
	AssetKindNative     AssetKind = "native"
	AssetKindFungible   AssetKind = "fungible"
	AssetKindNFT        AssetKind = "nft"
	AssetKindMultiToken AssetKind = "multiToken"
)

// KnownAssetKind reports whether k is one of the declared variants.
func KnownAssetKind(k AssetKind) bool {
	switch k {
	case AssetKindNative, AssetKindFungible, AssetKindNFT, AssetKindMultiToken:
		return true
	}
	return false
}

// ZeroAddress represents the EVM zero address.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// ProviderAssetRecord is the raw, provider-specific shape returned by the
// asset provider capability before normalization. Numeric fields arrive as
// strings because providers disagree on representation.
type ProviderAssetRecord struct {
	Kind            AssetKind `json:"kind"`
	Symbol          string    `json:"symbol"`
	Name            string    `json:"name"`
	RawBalance      string    `json:"rawBalance"` // integer string in minimal units
	Decimals        *uint8    `json:"decimals"`   // nil when the provider omitted it
	ContractAddress string    `json:"contractAddress"`
	TokenID         string    `json:"tokenId,omitempty"`
	CoinID          string    `json:"coinId"`                 // normalized price identifier; empty when unknown
	ValueUSD        string    `json:"valueUsd,omitempty"`     // direct USD value, when the provider computed it
	UnitPriceUSD    string    `json:"unitPriceUsd,omitempty"` // price per display unit, alternative to ValueUSD
}

// Asset is the canonical, normalized representation of one position held by
// one wallet session on one network.
type Asset struct {
	ID               string           `json:"id"`
	WalletSessionKey string           `json:"walletSessionKey"`
	Kind             AssetKind        `json:"kind"`
	Symbol           string           `json:"symbol"`
	Name             string           `json:"name"`
	RawBalance       *big.Int         `json:"-"`
	RawBalanceStr    string           `json:"rawBalance"`
	Decimals         uint8            `json:"decimals"`
	DisplayBalance   decimal.Decimal  `json:"displayBalance"` // RawBalance / 10^Decimals
	UnitPriceUSD     *decimal.Decimal `json:"unitPriceUsd,omitempty"`
	ValueUSD         *decimal.Decimal `json:"valueUsd,omitempty"` // nil when no price is known, never zero-filled
	Priced           bool             `json:"priced"`
	NetworkID        string           `json:"networkId"`
	ContractAddress  string           `json:"contractAddress,omitempty"` // empty for native assets
	TokenID          string           `json:"tokenId,omitempty"`
	CoinID           string           `json:"coinId,omitempty"`

	// Estate-plan annotations carried into the compiled document.
	AccessMethod        string `json:"accessMethod,omitempty"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
}

// AssetIDFor computes the uniqueness key for an asset: network, contract
// (or "native") and owning address. Keying on the address rather than the
// session collapses the same wallet connected through two connectors into
// one position. No two Asset records may share an ID.
func AssetIDFor(networkID, contractAddress, ownerAddress string) string {
	contract := contractAddress
	if contract == "" {
		contract = "native"
	}
	return networkID + "/" + contract + "/" + ownerAddress
}

// PortfolioTotals is derived by folding over the current asset ledger.
// TotalValueUSD sums only assets with a known ValueUSD; UnpricedAssets
// counts the ones excluded for missing price data.
type PortfolioTotals struct {
	WalletCount    int             `json:"walletCount"`
	AssetCount     int             `json:"assetCount"`
	TotalValueUSD  decimal.Decimal `json:"totalValueUsd"`
	UnpricedAssets int             `json:"unpricedAssets"`
}
