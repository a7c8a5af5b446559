package entity

import (
	"errors"
	"fmt"
)

// ErrInvalidSessionEvent signals a connection event missing its address or
// chain; the registry drops the event and leaves state unchanged.
var ErrInvalidSessionEvent = errors.New("invalid session event: address and chain are required")

// NormalizationError records one provider record that could not be turned
// into a canonical Asset. Collected per batch, never aborts the batch.
type NormalizationError struct {
	SessionKey      string `json:"sessionKey"`
	NetworkID       string `json:"networkId"`
	ContractAddress string `json:"contractAddress,omitempty"`
	Symbol          string `json:"symbol,omitempty"`
	Message         string `json:"message"`
}

func (e NormalizationError) Error() string {
	return fmt.Sprintf("normalization failed for %s on %s: %s", e.Symbol, e.NetworkID, e.Message)
}

// ProviderError records a failed provider call for one session. Collected
// per session during aggregation, never aborts sibling sessions.
type ProviderError struct {
	SessionKey string `json:"sessionKey"`
	NetworkID  string `json:"networkId"`
	Address    string `json:"address"`
	Message    string `json:"message"`
	Cause      error  `json:"-"`
}

func (e ProviderError) Error() string {
	return fmt.Sprintf("provider fetch failed for session %s on %s: %s", e.SessionKey, e.NetworkID, e.Message)
}

func (e ProviderError) Unwrap() error { return e.Cause }

// MissingFieldError names a required personal field absent at document
// build time. The builder fails closed and returns the full list.
type MissingFieldError struct {
	Field string `json:"field"`
}

func (e MissingFieldError) Error() string {
	return fmt.Sprintf("required field %q is empty", e.Field)
}

// LayoutOverflowError signals a content block that cannot fit a page's
// content area even on a fresh page. Silent truncation of estate content
// is unacceptable, so this is fatal for the compile call.
type LayoutOverflowError struct {
	Block  string
	Detail string
}

func (e LayoutOverflowError) Error() string {
	return fmt.Sprintf("layout overflow in block %q: %s", e.Block, e.Detail)
}
