package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"estate_addendum/internal/app/port"
	"estate_addendum/internal/domain/entity"
)

// SessionRegistryImpl implements port.SessionRegistry. All mutations are
// serialized behind one mutex; readers receive snapshot copies.
type SessionRegistryImpl struct {
	mu          sync.Mutex
	sessions    map[string]*entity.WalletSession
	order       []string // session keys in insertion order of first connect
	selectedKey string
	logger      port.Logger
	now         func() time.Time
}

// NewSessionRegistry creates a new empty registry.
func NewSessionRegistry(l port.Logger) *SessionRegistryImpl {
	return &SessionRegistryImpl{
		sessions: make(map[string]*entity.WalletSession),
		logger:   l,
		now:      time.Now,
	}
}

// canonicalAddress lower-cases an EVM address so equality checks are
// case-insensitive.
func canonicalAddress(address string) string {
	return strings.ToLower(address)
}

// UpsertSession inserts a new session or merges a repeated connection event
// into the existing record with the same key. ConnectedAt survives merges:
// it reflects the first connect, not the latest event.
func (r *SessionRegistryImpl) UpsertSession(event entity.ConnectionEvent) (entity.WalletSession, error) {
	if !event.Valid() {
		r.logger.Warn("Rejected invalid connection event",
			"connector", event.ConnectorName, "address", event.Address, "chainId", event.ChainID)
		return entity.WalletSession{}, entity.ErrInvalidSessionEvent
	}

	key := entity.SessionKeyFor(event.ConnectorName, event.Address)

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.sessions[key]
	if !ok {
		session := &entity.WalletSession{
			SessionKey:    key,
			Address:       canonicalAddress(event.Address),
			ConnectorName: event.ConnectorName,
			ChainID:       event.ChainID,
			NativeBalance: event.NativeBalance,
			ConnectedAt:   r.now(),
			IsActive:      true,
		}
		r.sessions[key] = session
		r.order = append(r.order, key)
		if r.selectedKey == "" {
			r.selectedKey = key
		}
		r.logger.Info("Wallet session connected",
			"sessionKey", key, "chainId", event.ChainID, "sessionCount", len(r.sessions))
		return *session, nil
	}

	existing.ChainID = event.ChainID
	if event.NativeBalance != nil {
		existing.NativeBalance = event.NativeBalance
	}
	existing.IsActive = true
	r.logger.Debug("Wallet session updated", "sessionKey", key, "chainId", event.ChainID)
	return *existing, nil
}

// RemoveSession deletes the session with the given key. Removing an unknown
// key is a no-op. When the selected session is removed, selection falls back
// to the earliest remaining session.
func (r *SessionRegistryImpl) RemoveSession(sessionKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sessionKey]; !ok {
		return
	}
	delete(r.sessions, sessionKey)
	for i, key := range r.order {
		if key == sessionKey {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.selectedKey == sessionKey {
		r.selectedKey = ""
		if len(r.order) > 0 {
			r.selectedKey = r.order[0]
		}
	}
	r.logger.Info("Wallet session removed", "sessionKey", sessionKey, "sessionCount", len(r.sessions))
}

// RemoveAllSessions clears the registry entirely (full disconnect).
func (r *SessionRegistryImpl) RemoveAllSessions() {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := len(r.sessions)
	r.sessions = make(map[string]*entity.WalletSession)
	r.order = nil
	r.selectedKey = ""
	r.logger.Info("All wallet sessions removed", "removedCount", count)
}

// ListSessions returns a snapshot in insertion order of first connect.
func (r *SessionRegistryImpl) ListSessions() []entity.WalletSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entity.WalletSession, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, *r.sessions[key])
	}
	return out
}

// SelectSession marks the session with the given key as selected.
func (r *SessionRegistryImpl) SelectSession(sessionKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sessionKey]; !ok {
		return fmt.Errorf("unknown session key %q", sessionKey)
	}
	r.selectedKey = sessionKey
	return nil
}

// SelectedSession returns the currently selected session, if any.
func (r *SessionRegistryImpl) SelectedSession() (entity.WalletSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.selectedKey == "" {
		return entity.WalletSession{}, false
	}
	session, ok := r.sessions[r.selectedKey]
	if !ok {
		return entity.WalletSession{}, false
	}
	return *session, true
}
