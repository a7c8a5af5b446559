package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"estate_addendum/internal/app/port"
	"estate_addendum/internal/infrastructure/configloader"
	"estate_addendum/internal/pkg/utils"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// priceServiceImpl implements port.PriceService: a TTL cache in front of the
// external price provider, with provider calls batched by coin id.
type priceServiceImpl struct {
	provider       port.PriceProvider
	cache          *gocache.Cache
	logger         port.Logger
	maxPerBatch    int
	requestTimeout time.Duration

	// Native coins priced once are reused across networks sharing them:
	// ethereum mainnet, arbitrum, optimism and base all settle in ETH.
	globalNativePrices   map[string]decimal.Decimal
	globalNativePricesMu sync.RWMutex
}

// NewPriceService creates a new cached price service.
func NewPriceService(provider port.PriceProvider, cfg configloader.PriceServiceConfig, l port.Logger) port.PriceService {
	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	return &priceServiceImpl{
		provider:           provider,
		cache:              gocache.New(ttl, 2*ttl),
		logger:             l,
		maxPerBatch:        cfg.MaxCoinsPerBatch,
		requestTimeout:     time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond,
		globalNativePrices: make(map[string]decimal.Decimal),
	}
}

// USDPrices resolves prices for the given coin ids. Cached entries are
// served directly; the rest go to the provider in batches. A provider
// failure for one batch only loses that batch's ids: the result map simply
// omits them, it never zero-fills.
func (s *priceServiceImpl) USDPrices(ctx context.Context, coinIDs []string) map[string]decimal.Decimal {
	prices := make(map[string]decimal.Decimal, len(coinIDs))
	var missing []string
	seen := make(map[string]struct{}, len(coinIDs))

	for _, coinID := range coinIDs {
		if coinID == "" {
			continue
		}
		if _, dup := seen[coinID]; dup {
			continue
		}
		seen[coinID] = struct{}{}
		if price, ok := s.cachedPrice(coinID); ok {
			prices[coinID] = price
			continue
		}
		missing = append(missing, coinID)
	}

	if len(missing) == 0 {
		return prices
	}

	s.logger.Debug("Fetching uncached prices", "missingCount", len(missing), "cachedCount", len(prices))

	for _, batch := range utils.BatchStrings(missing, s.maxPerBatch) {
		batchCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
		fetched, err := s.provider.FetchUSDPrices(batchCtx, batch)
		cancel()
		if err != nil {
			s.logger.Warn("Price batch fetch failed, assets in this batch stay unpriced",
				"batchSize", len(batch), "error", err)
			continue
		}
		for coinID, price := range fetched {
			prices[coinID] = price
			s.cache.Set(coinID, price, gocache.DefaultExpiration)
			s.rememberNativePrice(coinID, price)
		}
	}

	return prices
}

func (s *priceServiceImpl) cachedPrice(coinID string) (decimal.Decimal, bool) {
	if v, ok := s.cache.Get(coinID); ok {
		if price, ok := v.(decimal.Decimal); ok {
			return price, true
		}
	}
	s.globalNativePricesMu.RLock()
	price, ok := s.globalNativePrices[strings.ToLower(coinID)]
	s.globalNativePricesMu.RUnlock()
	return price, ok
}

func (s *priceServiceImpl) rememberNativePrice(coinID string, price decimal.Decimal) {
	if price.Sign() <= 0 {
		return
	}
	s.globalNativePricesMu.Lock()
	s.globalNativePrices[strings.ToLower(coinID)] = price
	s.globalNativePricesMu.Unlock()
}
