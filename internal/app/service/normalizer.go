package service

import (
	"fmt"

	"estate_addendum/internal/domain/entity"
	"estate_addendum/internal/pkg/utils"

	"github.com/shopspring/decimal"
)

// Normalizer converts raw provider asset records into canonical Asset
// values. Normalize is pure: same inputs, same output, no side effects.
type Normalizer struct {
	networks map[string]entity.NetworkDescriptor // keyed by network ID
}

// NewNormalizer creates a normalizer over the given network descriptors.
func NewNormalizer(networks []entity.NetworkDescriptor) *Normalizer {
	byID := make(map[string]entity.NetworkDescriptor, len(networks))
	for _, n := range networks {
		byID[n.ID] = n
	}
	return &Normalizer{networks: byID}
}

// Normalize converts one raw record for one session on one network.
func (n *Normalizer) Normalize(raw entity.ProviderAssetRecord, networkID, sessionKey string) (entity.Asset, error) {
	network, ok := n.networks[networkID]
	if !ok {
		return entity.Asset{}, fmt.Errorf("unknown network %q", networkID)
	}
	if !entity.KnownAssetKind(raw.Kind) {
		return entity.Asset{}, fmt.Errorf("unknown asset kind %q", raw.Kind)
	}

	rawBalance, err := utils.ParseRawBalance(raw.RawBalance)
	if err != nil {
		return entity.Asset{}, fmt.Errorf("malformed raw balance %q: %w", raw.RawBalance, err)
	}

	var decimals uint8
	switch {
	case raw.Decimals != nil:
		decimals = *raw.Decimals
	case raw.Kind == entity.AssetKindNative:
		decimals = network.NativeDecimals
	case raw.Kind == entity.AssetKindNFT || raw.Kind == entity.AssetKindMultiToken:
		decimals = 0 // counted in whole units
	default:
		return entity.Asset{}, fmt.Errorf("fungible record %q has no decimals", raw.Symbol)
	}

	symbol := raw.Symbol
	name := raw.Name
	if symbol == "" {
		symbol = truncatedContract(raw.ContractAddress)
	}
	if name == "" {
		name = symbol
	}

	displayBalance := utils.DisplayBalance(rawBalance, decimals)

	asset := entity.Asset{
		ID:               entity.AssetIDFor(networkID, raw.ContractAddress, entity.SessionOwnerAddress(sessionKey)),
		WalletSessionKey: sessionKey,
		Kind:             raw.Kind,
		Symbol:           symbol,
		Name:             name,
		RawBalance:       rawBalance,
		RawBalanceStr:    rawBalance.String(),
		Decimals:         decimals,
		DisplayBalance:   displayBalance,
		NetworkID:        networkID,
		ContractAddress:  raw.ContractAddress,
		TokenID:          raw.TokenID,
		CoinID:           raw.CoinID,
	}

	// Two equivalent price shapes: a direct USD value, or a unit price the
	// value is derived from. Both reduce to the same ValueUSD.
	switch {
	case raw.ValueUSD != "":
		value, err := decimal.NewFromString(raw.ValueUSD)
		if err != nil {
			return entity.Asset{}, fmt.Errorf("malformed USD value %q: %w", raw.ValueUSD, err)
		}
		asset.ValueUSD = &value
		asset.Priced = true
	case raw.UnitPriceUSD != "":
		unitPrice, err := decimal.NewFromString(raw.UnitPriceUSD)
		if err != nil {
			return entity.Asset{}, fmt.Errorf("malformed unit price %q: %w", raw.UnitPriceUSD, err)
		}
		value := unitPrice.Mul(displayBalance)
		asset.UnitPriceUSD = &unitPrice
		asset.ValueUSD = &value
		asset.Priced = true
	}

	return asset, nil
}

// NormalizeBatch converts a batch of records, collecting failures instead of
// aborting: one malformed record never hides its siblings.
func (n *Normalizer) NormalizeBatch(raws []entity.ProviderAssetRecord, networkID, sessionKey string) ([]entity.Asset, []entity.NormalizationError) {
	assets := make([]entity.Asset, 0, len(raws))
	var errs []entity.NormalizationError

	for _, raw := range raws {
		asset, err := n.Normalize(raw, networkID, sessionKey)
		if err != nil {
			errs = append(errs, entity.NormalizationError{
				SessionKey:      sessionKey,
				NetworkID:       networkID,
				ContractAddress: raw.ContractAddress,
				Symbol:          raw.Symbol,
				Message:         err.Error(),
			})
			continue
		}
		assets = append(assets, asset)
	}
	return assets, errs
}

// truncatedContract builds a placeholder symbol from a contract address,
// e.g. "0x1234...cdef". Falls back to "UNKNOWN" when there is no contract.
func truncatedContract(contractAddress string) string {
	if contractAddress == "" {
		return "UNKNOWN"
	}
	if len(contractAddress) <= 10 {
		return contractAddress
	}
	return contractAddress[:6] + "..." + contractAddress[len(contractAddress)-4:]
}
