package port

import (
	"context"

	"estate_addendum/internal/domain/entity"
)

// AssetProvider is the external capability that, given an address and a
// network, returns raw asset records or fails. One call covers one
// (address, network) pair; calls for distinct sessions are independent.
type AssetProvider interface {
	FetchAssets(ctx context.Context, address string, network entity.NetworkDescriptor) ([]entity.ProviderAssetRecord, error)
}

// AssetProviderResolver hands out a provider for a network, caching
// underlying connections between calls.
type AssetProviderResolver interface {
	ProviderFor(network entity.NetworkDescriptor) (AssetProvider, error)
}
