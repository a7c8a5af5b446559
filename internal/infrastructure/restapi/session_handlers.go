package restapi

import (
	"errors"
	"net/http"

	"estate_addendum/internal/app/port"
	"estate_addendum/internal/domain/entity"
	"estate_addendum/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ConnectRequest is the body of a session connect/update call.
type ConnectRequest struct {
	ConnectorName string `json:"connectorName"`
	Address       string `json:"address"`
	ChainID       uint64 `json:"chainId"`
	NativeBalance string `json:"nativeBalance,omitempty"` // integer string in wei, optional
}

// SessionHandler handles wallet session lifecycle requests.
type SessionHandler struct {
	registry port.SessionRegistry
	networks port.NetworkRegistry
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(registry port.SessionRegistry, networks port.NetworkRegistry) *SessionHandler {
	return &SessionHandler{registry: registry, networks: networks}
}

// sessionView is the wire shape for one session: the entity plus its native
// balance rendered in display units.
type sessionView struct {
	entity.WalletSession
	NativeBalance string `json:"nativeBalance,omitempty"`
}

func (h *SessionHandler) view(session entity.WalletSession) sessionView {
	view := sessionView{WalletSession: session}
	if session.NativeBalance == nil {
		return view
	}
	decimals := uint8(18)
	if network, ok := h.networks.ByChainID(session.ChainID); ok {
		decimals = network.NativeDecimals
	}
	if formatted, err := utils.FormatBigInt(session.NativeBalance, decimals); err == nil {
		view.NativeBalance = formatted
	}
	return view
}

// ConnectHandler ingests a wallet connection event. Repeated events for the
// same connector/address pair update the existing session.
func (h *SessionHandler) ConnectHandler(c *gin.Context) {
	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	event := entity.ConnectionEvent{
		ConnectorName: req.ConnectorName,
		Address:       req.Address,
		ChainID:       req.ChainID,
	}
	if req.NativeBalance != "" {
		balance, err := utils.ParseRawBalance(req.NativeBalance)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid nativeBalance: " + err.Error()})
			return
		}
		event.NativeBalance = balance
	}

	session, err := h.registry.UpsertSession(event)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidSessionEvent) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": h.view(session)})
}

// ListHandler returns all sessions in insertion order of first connect.
func (h *SessionHandler) ListHandler(c *gin.Context) {
	sessions := h.registry.ListSessions()
	views := make([]sessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, h.view(session))
	}
	c.JSON(http.StatusOK, gin.H{"sessions": views})
}

// DisconnectHandler removes one session by key.
func (h *SessionHandler) DisconnectHandler(c *gin.Context) {
	h.registry.RemoveSession(c.Param("sessionKey"))
	c.Status(http.StatusNoContent)
}

// DisconnectAllHandler removes every session (full disconnect).
func (h *SessionHandler) DisconnectAllHandler(c *gin.Context) {
	h.registry.RemoveAllSessions()
	c.Status(http.StatusNoContent)
}

// SelectHandler marks a session as the one detail views follow.
func (h *SessionHandler) SelectHandler(c *gin.Context) {
	if err := h.registry.SelectSession(c.Param("sessionKey")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// SelectedHandler returns the currently selected session.
func (h *SessionHandler) SelectedHandler(c *gin.Context) {
	session, ok := h.registry.SelectedSession()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no session selected"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": h.view(session)})
}
