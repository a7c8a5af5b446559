package client

import (
	"fmt"
	"sync"
	"time"

	"estate_addendum/internal/app/port"
	"estate_addendum/internal/domain/entity"
	"estate_addendum/internal/infrastructure/configloader"

	"golang.org/x/time/rate"
)

// Resolver lazily creates one EVMProvider per network and caches it for the
// lifetime of the process. Safe for concurrent use.
type Resolver struct {
	registry       port.NetworkRegistry
	connectTimeout time.Duration
	callTimeout    time.Duration
	rateLimit      float64
	burstLimit     int
	logger         port.Logger

	mu        sync.Mutex
	providers map[string]port.AssetProvider
}

// NewResolver creates a provider resolver backed by the network registry.
func NewResolver(registry port.NetworkRegistry, cfg configloader.RPCClientConfig, logger port.Logger) *Resolver {
	return &Resolver{
		registry:       registry,
		connectTimeout: time.Duration(cfg.ConnectTimeoutSeconds) * time.Second,
		callTimeout:    time.Duration(cfg.CallTimeoutSeconds) * time.Second,
		rateLimit:      cfg.RateLimit,
		burstLimit:     cfg.BurstLimit,
		logger:         logger,
		providers:      make(map[string]port.AssetProvider),
	}
}

// ProviderFor returns the cached provider for the network, dialing it on
// first use.
func (r *Resolver) ProviderFor(network entity.NetworkDescriptor) (port.AssetProvider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if provider, ok := r.providers[network.ID]; ok {
		return provider, nil
	}

	if _, ok := r.registry.ByID(network.ID); !ok {
		return nil, fmt.Errorf("network %s is not registered", network.ID)
	}

	limiter := rate.NewLimiter(rate.Limit(r.rateLimit), r.burstLimit)
	provider, err := NewEVMProvider(network, r.registry.TokensFor(network.ID), r.connectTimeout, r.callTimeout, limiter)
	if err != nil {
		r.logger.Error("Failed to create asset provider", "network", network.ID, "error", err)
		return nil, err
	}

	r.logger.Info("Asset provider initialized", "network", network.ID, "chainId", network.ChainID)
	r.providers[network.ID] = provider
	return provider, nil
}
