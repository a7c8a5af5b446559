package httpclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"estate_addendum/internal/infrastructure/configloader"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CoinGeckoClient fetches spot prices from the CoinGecko simple price API.
type CoinGeckoClient struct {
	client     *fasthttp.Client
	baseURL    string
	apiKey     string
	vsCurrency string
	timeout    time.Duration
	logger     *zap.Logger
}

// NewCoinGeckoClient creates a new instance of CoinGeckoClient.
func NewCoinGeckoClient(cfg configloader.CoinGeckoConfig, logger *zap.Logger) *CoinGeckoClient {
	return &CoinGeckoClient{
		client:     &fasthttp.Client{},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		vsCurrency: cfg.VsCurrency,
		timeout:    time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond,
		logger:     logger.Named("CoinGeckoClient"),
	}
}

// FetchUSDPrices returns the spot price for each coin ID that CoinGecko
// knows about. IDs missing from the response are simply absent from the
// returned map; the caller decides what an unpriced asset means.
func (c *CoinGeckoClient) FetchUSDPrices(ctx context.Context, coinIDs []string) (map[string]decimal.Decimal, error) {
	if len(coinIDs) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	params := url.Values{}
	params.Set("ids", strings.Join(coinIDs, ","))
	params.Set("vs_currencies", c.vsCurrency)
	requestURL := fmt.Sprintf("%s/simple/price?%s", c.baseURL, params.Encode())

	c.logger.Debug("Requesting prices from CoinGecko",
		zap.Int("coinCount", len(coinIDs)))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			c.logger.Error("Failed to execute request to CoinGecko", zap.Error(err))
			return nil, fmt.Errorf("failed to execute CoinGecko request: %w", err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			c.logger.Error("Failed to execute request to CoinGecko (with default timeout)", zap.Error(err))
			return nil, fmt.Errorf("failed to execute CoinGecko request with default timeout: %w", err)
		}
	}

	rawBody := resp.Body()

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("CoinGecko API request failed",
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return nil, fmt.Errorf("CoinGecko API request failed with status %d: %s", resp.StatusCode(), string(rawBody))
	}

	// Response shape: {"ethereum": {"usd": 3120.45}, ...}
	var parsed map[string]map[string]decimal.Decimal
	if err := json.Unmarshal(rawBody, &parsed); err != nil {
		c.logger.Error("Failed to unmarshal CoinGecko response",
			zap.ByteString("responseBody", rawBody),
			zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal CoinGecko response: %w", err)
	}

	prices := make(map[string]decimal.Decimal, len(parsed))
	for coinID, quote := range parsed {
		if price, ok := quote[c.vsCurrency]; ok {
			prices[coinID] = price
		}
	}

	c.logger.Debug("Fetched prices from CoinGecko",
		zap.Int("requested", len(coinIDs)),
		zap.Int("resolved", len(prices)))
	return prices, nil
}
