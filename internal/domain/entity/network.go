package entity

// NetworkDescriptor holds the static configuration for a supported blockchain network.
// This structure is defined at the domain level to be used across application and
// infrastructure layers. Descriptors are immutable after startup.
type NetworkDescriptor struct {
	ID               string   `json:"id" yaml:"id"` // Unique network identifier (e.g., "ethereum", "polygon")
	ChainID          uint64   `json:"chainId" yaml:"chainId"`
	Name             string   `json:"name" yaml:"name"`
	NativeSymbol     string   `json:"nativeSymbol" yaml:"nativeSymbol"`
	NativeDecimals   uint8    `json:"nativeDecimals" yaml:"nativeDecimals"`
	NativeCoinID     string   `json:"nativeCoinId" yaml:"nativeCoinId"` // Normalized price identifier for the native token
	PrimaryRPCURL    string   `json:"primaryRpcUrl" yaml:"primaryRpcUrl"`
	FallbackRPCURLs  []string `json:"fallbackRpcUrls" yaml:"fallbackRpcUrls"`
	BlockExplorerURL string   `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
}

// TokenInfo holds the details of a fungible token tracked on a network.
type TokenInfo struct {
	ChainID  uint64 `json:"chainId" yaml:"chainID"`
	Address  string `json:"address" yaml:"address"`
	Name     string `json:"name" yaml:"name"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Decimals uint8  `json:"decimals" yaml:"decimals"`
	CoinID   string `json:"coinId" yaml:"coinId"` // Normalized price identifier; empty means unpriceable
}
