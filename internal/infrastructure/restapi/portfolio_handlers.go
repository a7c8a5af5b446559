package restapi

import (
	"net/http"

	"estate_addendum/internal/app/port"
	"estate_addendum/internal/app/service"
	"estate_addendum/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// APIPortfolioResponse is the response shape of the portfolio endpoints.
type APIPortfolioResponse struct {
	Data struct {
		Assets []entity.Asset         `json:"assets"`
		Totals entity.PortfolioTotals `json:"totals"`
	} `json:"data"`
	ProviderErrors      []entity.ProviderError      `json:"provider_errors,omitempty"`
	NormalizationErrors []entity.NormalizationError `json:"normalization_errors,omitempty"`
	StatusMessage       string                      `json:"status_message"`
}

// PortfolioHandler handles aggregation requests over the connected sessions.
type PortfolioHandler struct {
	registry   port.SessionRegistry
	aggregator port.AssetAggregator
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(registry port.SessionRegistry, aggregator port.AssetAggregator) *PortfolioHandler {
	return &PortfolioHandler{registry: registry, aggregator: aggregator}
}

// RefreshHandler runs a full aggregation pass over the current sessions and
// returns the merged result. Per-session failures are carried in the
// response body; the call itself only fails on transport problems.
func (h *PortfolioHandler) RefreshHandler(c *gin.Context) {
	sessions := h.registry.ListSessions()
	result := h.aggregator.Refresh(c.Request.Context(), sessions)

	var response APIPortfolioResponse
	response.Data.Assets = result.Assets
	response.Data.Totals = result.Totals
	response.ProviderErrors = result.ProviderErrors
	response.NormalizationErrors = result.NormalizationErrors

	switch {
	case result.Superseded:
		response.StatusMessage = "Refresh superseded by a newer request; results returned but not retained."
	case len(result.ProviderErrors) > 0 && len(result.Assets) == 0:
		response.StatusMessage = "Failed to retrieve any assets due to provider errors."
	case len(result.ProviderErrors) > 0 || len(result.NormalizationErrors) > 0:
		response.StatusMessage = "Assets retrieved. Some sessions or records encountered errors."
	case len(sessions) == 0:
		response.StatusMessage = "No wallet sessions connected."
	default:
		response.StatusMessage = "Assets retrieved successfully."
	}

	c.JSON(http.StatusOK, response)
}

// SnapshotHandler returns the current ledger without triggering a refresh.
func (h *PortfolioHandler) SnapshotHandler(c *gin.Context) {
	assets := h.aggregator.Snapshot()
	var response APIPortfolioResponse
	response.Data.Assets = assets
	response.Data.Totals = service.ComputeTotals(h.registry.ListSessions(), assets)
	response.StatusMessage = "Snapshot of the last completed refresh."
	c.JSON(http.StatusOK, response)
}

// NetworkHandler exposes the static network registry.
type NetworkHandler struct {
	registry port.NetworkRegistry
}

// NewNetworkHandler creates a new NetworkHandler.
func NewNetworkHandler(registry port.NetworkRegistry) *NetworkHandler {
	return &NetworkHandler{registry: registry}
}

// ListNetworksHandler returns every supported network descriptor.
func (h *NetworkHandler) ListNetworksHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"networks": h.registry.All()})
}
