package port

import (
	"context"

	"estate_addendum/internal/domain/entity"
)

// SessionRegistry holds the canonical set of connected wallet sessions and
// reconciles repeated connection events into one record per session key.
// Mutations are serialized; consumers only ever hold snapshot copies.
type SessionRegistry interface {
	// UpsertSession inserts or merges a connection event and returns the
	// resulting canonical record. Invalid events leave state unchanged and
	// return entity.ErrInvalidSessionEvent.
	UpsertSession(event entity.ConnectionEvent) (entity.WalletSession, error)

	// RemoveSession deletes a session; removing an unknown key is a no-op.
	RemoveSession(sessionKey string)

	// RemoveAllSessions clears the registry (full disconnect).
	RemoveAllSessions()

	// ListSessions returns a snapshot in insertion order of first connect.
	ListSessions() []entity.WalletSession

	// SelectSession marks one session for detail views.
	SelectSession(sessionKey string) error

	// SelectedSession returns the currently selected session, if any.
	SelectedSession() (entity.WalletSession, bool)
}

// RefreshResult carries the outcome of one aggregation pass: the partial
// results that succeeded plus everything that failed and why.
type RefreshResult struct {
	Assets              []entity.Asset              `json:"assets"`
	ProviderErrors      []entity.ProviderError      `json:"providerErrors,omitempty"`
	NormalizationErrors []entity.NormalizationError `json:"normalizationErrors,omitempty"`
	Totals              entity.PortfolioTotals      `json:"totals"`
	Superseded          bool                        `json:"superseded,omitempty"`
}

// AssetAggregator orchestrates per-session asset retrieval, normalization,
// deduplication and the price pass.
type AssetAggregator interface {
	// Refresh fetches assets for the given sessions concurrently. A failure
	// for one session never aborts the others. The internal ledger is
	// replaced atomically on completion unless a newer refresh superseded
	// this one.
	Refresh(ctx context.Context, sessions []entity.WalletSession) RefreshResult

	// Snapshot returns a copy of the current asset ledger.
	Snapshot() []entity.Asset
}

// DocumentBuilder assembles the canonical EstateDocument from user-entered
// sections plus an asset snapshot.
type DocumentBuilder interface {
	// Build validates required personal fields fail-closed and returns
	// either the document or the list of missing fields.
	Build(personal entity.PersonalInfo, executor entity.ExecutorDetails, beneficiaries []entity.Beneficiary, assets []entity.Asset) (*entity.EstateDocument, []entity.MissingFieldError)
}

// DocumentCompiler walks an EstateDocument and emits draw instructions to a
// fresh renderer, handling pagination and fixed boilerplate.
type DocumentCompiler interface {
	Compile(doc *entity.EstateDocument, renderer PageRenderer) ([]byte, error)
}
