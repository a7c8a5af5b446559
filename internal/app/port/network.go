package port

import "estate_addendum/internal/domain/entity"

// NetworkRegistry provides the static table of supported networks.
// Both lookups must resolve uniquely; duplicate ids or chain ids are a
// construction error in the implementing package.
type NetworkRegistry interface {
	// All returns every descriptor in declaration order.
	All() []entity.NetworkDescriptor

	// ByID returns the descriptor for a network identifier.
	ByID(id string) (entity.NetworkDescriptor, bool)

	// ByChainID returns the descriptor for a numeric chain id.
	ByChainID(chainID uint64) (entity.NetworkDescriptor, bool)

	// TokensFor returns the fungible tokens tracked on a network.
	TokensFor(id string) []entity.TokenInfo
}
