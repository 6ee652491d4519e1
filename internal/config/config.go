package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	ProviderCoinbase  = "coinbase"
	ProviderBinance   = "binance"
	ProviderCoinGecko = "coingecko"

	etherscanKeyEnv = "ETHERSCAN_API_KEY"
)

type AppConfig struct {
	AppPort        int           `yaml:"app_port"`
	MetricsPort    int           `yaml:"metrics_port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	PriceProvider  string        `yaml:"price_provider"`
	Upstreams      UpstreamConf  `yaml:"upstreams"`
	News           NewsConf      `yaml:"news"`
	Etherscan      EtherscanConf `yaml:"etherscan"`
}

type UpstreamConf struct {
	CoinGecko string `yaml:"coingecko"`
	Binance   string `yaml:"binance"`
	Coinbase  string `yaml:"coinbase"`
}

type NewsConf struct {
	FeedURL      string `yaml:"feed_url"`
	DefaultLimit int    `yaml:"default_limit"`
}

type EtherscanConf struct {
	BaseURL      string `yaml:"base_url"`
	ChainID      int    `yaml:"chain_id"`
	DefaultLimit int    `yaml:"default_limit"`
	// APIKey is empty when no credential is configured.
	APIKey string `yaml:"api_key"`
}

// HasAPIKey reports whether a credential is configured.
func (e EtherscanConf) HasAPIKey() bool {
	return e.APIKey != ""
}

// InitConf reads the yaml file at confFile, fills defaults and applies env overrides.
func InitConf(confFile string) (*AppConfig, error) {
	file, err := os.ReadFile(confFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}
	var cfg AppConfig
	if err = yaml.Unmarshal(file, &cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}
	cfg.applyDefaults()
	if key, ok := os.LookupEnv(etherscanKeyEnv); ok && key != "" {
		cfg.Etherscan.APIKey = key
	}
	cfg.Etherscan.APIKey = strings.TrimSpace(cfg.Etherscan.APIKey)
	if err = cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file values are set.
func Default() *AppConfig {
	cfg := &AppConfig{}
	cfg.applyDefaults()
	return cfg
}

func (c *AppConfig) applyDefaults() {
	if c.AppPort == 0 {
		c.AppPort = 8000
	}
	if c.MetricsPort == 0 {
		c.MetricsPort = 9090
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 10 * time.Second
	}
	if c.PriceProvider == "" {
		c.PriceProvider = ProviderCoinbase
	}
	c.PriceProvider = strings.ToLower(c.PriceProvider)
	if c.Upstreams.CoinGecko == "" {
		c.Upstreams.CoinGecko = "https://api.coingecko.com/api/v3"
	}
	if c.Upstreams.Binance == "" {
		c.Upstreams.Binance = "https://api.binance.com/api/v3"
	}
	if c.Upstreams.Coinbase == "" {
		c.Upstreams.Coinbase = "https://api.coinbase.com/v2"
	}
	if c.News.FeedURL == "" {
		c.News.FeedURL = "https://cointelegraph.com/rss"
	}
	if c.News.DefaultLimit <= 0 {
		c.News.DefaultLimit = 10
	}
	if c.Etherscan.BaseURL == "" {
		c.Etherscan.BaseURL = "https://api.etherscan.io/v2/api"
	}
	if c.Etherscan.ChainID == 0 {
		c.Etherscan.ChainID = 1
	}
	if c.Etherscan.DefaultLimit <= 0 {
		c.Etherscan.DefaultLimit = 5
	}
}

func (c *AppConfig) validate() error {
	switch c.PriceProvider {
	case ProviderCoinbase, ProviderBinance, ProviderCoinGecko:
	default:
		return fmt.Errorf("unknown price provider %q", c.PriceProvider)
	}
	return nil
}
