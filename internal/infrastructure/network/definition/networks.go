package definition

import (
	"fmt"

	"estate_addendum/internal/app/port"
	"estate_addendum/internal/domain/entity"
	"estate_addendum/internal/infrastructure/configloader"
)

// Predefined network descriptors for the networks the platform supports.
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.NetworkDescriptor{
		ID:               "ethereum",
		ChainID:          1,
		Name:             "Ethereum",
		NativeSymbol:     "ETH",
		NativeDecimals:   18,
		NativeCoinID:     "ethereum",
		PrimaryRPCURL:    "https://ethereum-rpc.publicnode.com",
		FallbackRPCURLs:  []string{"https://rpc.ankr.com/eth", "https://ethereum.publicnode.com"},
		BlockExplorerURL: "https://etherscan.io",
	}
	Polygon = entity.NetworkDescriptor{
		ID:               "polygon",
		ChainID:          137,
		Name:             "Polygon",
		NativeSymbol:     "MATIC",
		NativeDecimals:   18,
		NativeCoinID:     "matic-network",
		PrimaryRPCURL:    "https://polygon-rpc.com/",
		FallbackRPCURLs:  []string{"https://rpc.ankr.com/polygon", "https://polygon.publicnode.com"},
		BlockExplorerURL: "https://polygonscan.com",
	}
	Arbitrum = entity.NetworkDescriptor{
		ID:               "arbitrum",
		ChainID:          42161,
		Name:             "Arbitrum One",
		NativeSymbol:     "ETH",
		NativeDecimals:   18,
		NativeCoinID:     "ethereum",
		PrimaryRPCURL:    "https://arb1.arbitrum.io/rpc",
		FallbackRPCURLs:  []string{"https://arbitrum.llamarpc.com", "https://arbitrum.publicnode.com"},
		BlockExplorerURL: "https://arbiscan.io",
	}
	Optimism = entity.NetworkDescriptor{
		ID:               "optimism",
		ChainID:          10,
		Name:             "Optimism",
		NativeSymbol:     "ETH",
		NativeDecimals:   18,
		NativeCoinID:     "ethereum",
		PrimaryRPCURL:    "https://mainnet.optimism.io",
		FallbackRPCURLs:  []string{"https://optimism.publicnode.com"},
		BlockExplorerURL: "https://optimistic.etherscan.io",
	}
	Base = entity.NetworkDescriptor{
		ID:               "base",
		ChainID:          8453,
		Name:             "Base",
		NativeSymbol:     "ETH",
		NativeDecimals:   18,
		NativeCoinID:     "ethereum",
		PrimaryRPCURL:    "https://mainnet.base.org",
		FallbackRPCURLs:  []string{"https://base.publicnode.com"},
		BlockExplorerURL: "https://basescan.org",
	}
)

// predefined lists every known descriptor in declaration order.
var predefined = []entity.NetworkDescriptor{Ethereum, Polygon, Arbitrum, Optimism, Base}

// Registry implements port.NetworkRegistry over the predefined descriptors,
// restricted and overridden by configuration.
type Registry struct {
	ordered   []entity.NetworkDescriptor
	byID      map[string]entity.NetworkDescriptor
	byChainID map[uint64]entity.NetworkDescriptor
	tokens    map[string][]entity.TokenInfo
}

// NewRegistry builds the registry from the enabled network configs. Both
// the id and chainId keys must resolve uniquely; duplicates are an error.
func NewRegistry(networks []configloader.NetworkConfig, log port.Logger) (port.NetworkRegistry, error) {
	known := make(map[string]entity.NetworkDescriptor, len(predefined))
	for _, nd := range predefined {
		known[nd.ID] = nd
	}

	r := &Registry{
		byID:      make(map[string]entity.NetworkDescriptor),
		byChainID: make(map[uint64]entity.NetworkDescriptor),
		tokens:    make(map[string][]entity.TokenInfo),
	}

	for _, nc := range networks {
		nd, ok := known[nc.ID]
		if !ok {
			return nil, fmt.Errorf("unknown network id %q in configuration", nc.ID)
		}
		if nc.RPCURL != "" {
			nd.PrimaryRPCURL = nc.RPCURL
		}
		if _, dup := r.byID[nd.ID]; dup {
			return nil, fmt.Errorf("duplicate network id %q", nd.ID)
		}
		if _, dup := r.byChainID[nd.ChainID]; dup {
			return nil, fmt.Errorf("duplicate chain id %d", nd.ChainID)
		}
		r.byID[nd.ID] = nd
		r.byChainID[nd.ChainID] = nd
		r.ordered = append(r.ordered, nd)

		for _, token := range nc.Tokens {
			if token.ChainID != 0 && token.ChainID != nd.ChainID {
				log.Warn("Token ChainID mismatch, skipping token",
					"network", nd.ID, "token_symbol", token.Symbol,
					"token_chain_id", token.ChainID, "network_chain_id", nd.ChainID)
				continue
			}
			token.ChainID = nd.ChainID
			r.tokens[nd.ID] = append(r.tokens[nd.ID], token)
		}
	}

	log.Info("Network registry initialized", "network_count", len(r.ordered))
	return r, nil
}

// All returns the enabled descriptors in declaration order.
func (r *Registry) All() []entity.NetworkDescriptor {
	out := make([]entity.NetworkDescriptor, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// ByID looks a descriptor up by its network identifier.
func (r *Registry) ByID(id string) (entity.NetworkDescriptor, bool) {
	nd, ok := r.byID[id]
	return nd, ok
}

// ByChainID looks a descriptor up by its numeric chain id.
func (r *Registry) ByChainID(chainID uint64) (entity.NetworkDescriptor, bool) {
	nd, ok := r.byChainID[chainID]
	return nd, ok
}

// TokensFor returns the fungible tokens tracked on the given network.
func (r *Registry) TokensFor(id string) []entity.TokenInfo {
	return r.tokens[id]
}
