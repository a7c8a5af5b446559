package configloader

import (
	"fmt"
	"os"

	"estate_addendum/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
}

// RedisConfig holds the connection settings for the draft store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// CoinGeckoConfig holds the configuration for the price client.
type CoinGeckoConfig struct {
	BaseURL              string `yaml:"baseURL"`
	APIKey               string `yaml:"apiKey"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	VsCurrency           string `yaml:"vsCurrency"`
}

// PriceServiceConfig holds configuration for the cached price service.
type PriceServiceConfig struct {
	CacheTTLMinutes      int   `yaml:"cacheTTLMinutes"`
	MaxCoinsPerBatch     int   `yaml:"maxCoinsPerBatch"`
	RequestTimeoutMillis int64 `yaml:"requestTimeoutMillis"`
}

// AggregatorConfig holds configuration for the asset aggregator.
type AggregatorConfig struct {
	MaxConcurrentRequests int   `yaml:"maxConcurrentRequests"`
	SessionFetchTimeoutMs int64 `yaml:"sessionFetchTimeoutMs"`
}

// RPCClientConfig holds configuration for blockchain RPC clients.
type RPCClientConfig struct {
	ConnectTimeoutSeconds int     `yaml:"connectTimeoutSeconds"`
	CallTimeoutSeconds    int     `yaml:"callTimeoutSeconds"`
	RateLimit             float64 `yaml:"rateLimit"`
	BurstLimit            int     `yaml:"burstLimit"`
}

// NetworkConfig enables one predefined network and optionally overrides its
// RPC endpoint and lists the fungible tokens tracked on it.
type NetworkConfig struct {
	ID     string             `yaml:"id"`
	RPCURL string             `yaml:"rpcURL"`
	Tokens []entity.TokenInfo `yaml:"tokens"`
}

// CompilerConfig holds page geometry and output settings for the document
// compiler.
type CompilerConfig struct {
	OutputDir    string  `yaml:"outputDir"`
	PageWidthMM  float64 `yaml:"pageWidthMm"`
	PageHeightMM float64 `yaml:"pageHeightMm"`
	MarginMM     float64 `yaml:"marginMm"`
}

// DraftConfig names the fixed draft identifier the store is keyed by.
type DraftConfig struct {
	DraftID string `yaml:"draftId"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server     ServerConfig       `yaml:"server"`
	Logging    LoggingConfig      `yaml:"logging"`
	Redis      RedisConfig        `yaml:"redis"`
	CoinGecko  CoinGeckoConfig    `yaml:"coingecko"`
	PriceSvc   PriceServiceConfig `yaml:"priceService"`
	Aggregator AggregatorConfig   `yaml:"aggregator"`
	RPCClient  RPCClientConfig    `yaml:"rpcClient"`
	Networks   []NetworkConfig    `yaml:"networks"`
	Compiler   CompilerConfig     `yaml:"compiler"`
	Draft      DraftConfig        `yaml:"draft"`
}

// Load reads the YAML configuration file from the given path, unmarshals it
// and applies defaults for anything not set.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}

	if cfg.CoinGecko.BaseURL == "" {
		cfg.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
		logrus.Infof("CoinGecko.BaseURL not set, defaulting to %s", cfg.CoinGecko.BaseURL)
	}
	if cfg.CoinGecko.RequestTimeoutMillis == 0 {
		cfg.CoinGecko.RequestTimeoutMillis = 10000
	}
	if cfg.CoinGecko.VsCurrency == "" {
		cfg.CoinGecko.VsCurrency = "usd"
	}

	if cfg.PriceSvc.CacheTTLMinutes == 0 {
		cfg.PriceSvc.CacheTTLMinutes = 5
		logrus.Infof("PriceService.CacheTTLMinutes not set, defaulting to %d minutes", cfg.PriceSvc.CacheTTLMinutes)
	}
	if cfg.PriceSvc.MaxCoinsPerBatch == 0 {
		cfg.PriceSvc.MaxCoinsPerBatch = 100
	}
	if cfg.PriceSvc.RequestTimeoutMillis == 0 {
		cfg.PriceSvc.RequestTimeoutMillis = cfg.CoinGecko.RequestTimeoutMillis
	}

	if cfg.Aggregator.MaxConcurrentRequests <= 0 {
		cfg.Aggregator.MaxConcurrentRequests = 10
	}
	if cfg.Aggregator.SessionFetchTimeoutMs <= 0 {
		cfg.Aggregator.SessionFetchTimeoutMs = 15000
	}

	if cfg.RPCClient.ConnectTimeoutSeconds <= 0 {
		cfg.RPCClient.ConnectTimeoutSeconds = 10
	}
	if cfg.RPCClient.CallTimeoutSeconds <= 0 {
		cfg.RPCClient.CallTimeoutSeconds = 10
	}
	if cfg.RPCClient.RateLimit <= 0 {
		cfg.RPCClient.RateLimit = 5
	}
	if cfg.RPCClient.BurstLimit <= 0 {
		cfg.RPCClient.BurstLimit = 10
	}

	if cfg.Compiler.OutputDir == "" {
		cfg.Compiler.OutputDir = "output"
	}
	if cfg.Compiler.PageWidthMM == 0 {
		cfg.Compiler.PageWidthMM = 210 // A4
	}
	if cfg.Compiler.PageHeightMM == 0 {
		cfg.Compiler.PageHeightMM = 297
	}
	if cfg.Compiler.MarginMM == 0 {
		cfg.Compiler.MarginMM = 20
	}

	if cfg.Draft.DraftID == "" {
		cfg.Draft.DraftID = "estate-addendum-draft"
	}

	for _, network := range cfg.Networks {
		if network.ID == "" {
			return nil, fmt.Errorf("network entry with empty id in %s", path)
		}
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}
