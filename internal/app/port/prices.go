package port

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceProvider is the external price capability. Missing entries are
// omitted from the result map, never zero-filled.
type PriceProvider interface {
	FetchUSDPrices(ctx context.Context, coinIDs []string) (map[string]decimal.Decimal, error)
}

// PriceService is the cached price lookup used by the aggregator's second
// pass. A coin id absent from the returned map has no known price.
type PriceService interface {
	// USDPrices resolves prices for the given coin ids, serving from cache
	// where possible and batching the rest through the provider.
	USDPrices(ctx context.Context, coinIDs []string) map[string]decimal.Decimal
}
