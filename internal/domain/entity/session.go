package entity

import (
	"math/big"
	"regexp"
	"strings"
	"time"
)

// evmAddressRe matches a 0x-prefixed 20-byte hex address.
var evmAddressRe = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// ConnectionEvent is the shape delivered by the wallet connection capability
// on connect, balance change and network change.
type ConnectionEvent struct {
	ConnectorName string   `json:"connectorName"`
	Address       string   `json:"address"`
	ChainID       uint64   `json:"chainId"`
	NativeBalance *big.Int `json:"-"` // optional; nil when the event carries no balance
}

// Valid reports whether the event carries the minimum data required to
// create or update a session.
func (e ConnectionEvent) Valid() bool {
	return e.ChainID != 0 && evmAddressRe.MatchString(e.Address)
}

// WalletSession is the canonical record for one connected wallet.
// At most one session exists per SessionKey at any time.
type WalletSession struct {
	SessionKey    string    `json:"sessionKey"`
	Address       string    `json:"address"` // canonicalized to lower case on ingestion
	ConnectorName string    `json:"connectorName"`
	ChainID       uint64    `json:"chainId"`
	NativeBalance *big.Int  `json:"-"`
	ConnectedAt   time.Time `json:"connectedAt"`
	IsActive      bool      `json:"isActive"`
}

// SessionKeyFor computes the stable composite key for a connector/address
// pair. Address equality is case-insensitive, so the address part is
// lower-cased.
func SessionKeyFor(connectorName, address string) string {
	return connectorName + ":" + strings.ToLower(address)
}

// SessionOwnerAddress extracts the canonical address component from a key
// produced by SessionKeyFor.
func SessionOwnerAddress(sessionKey string) string {
	if i := strings.Index(sessionKey, ":"); i >= 0 {
		return sessionKey[i+1:]
	}
	return sessionKey
}
