package market

import (
	"context"

	"web3_tools/internal/config"
	"web3_tools/internal/entities"
	"web3_tools/internal/logger"
	"web3_tools/internal/upstream"

	"go.uber.org/zap"
)

const (
	sourceCoinGecko = "coingecko"
	maxTrending     = 10
)

// Service answers price, global market and trending lookups. It keeps no state between calls.
type Service struct {
	log      logger.AppLogger
	client   *upstream.Client
	urls     config.UpstreamConf
	provider priceSource
}

type priceSource interface {
	name() string
	defaultQuery() string
	price(ctx context.Context, query string) (*entities.PriceQuote, error)
}

func InitService(log logger.AppLogger, client *upstream.Client, provider string, urls config.UpstreamConf) *Service {
	srv := &Service{
		log:    log.With(zap.String("service", "market")),
		client: client,
		urls:   urls,
	}
	switch provider {
	case config.ProviderBinance:
		srv.provider = &binanceSource{client: client, baseURL: urls.Binance}
	case config.ProviderCoinGecko:
		srv.provider = &coinGeckoSource{client: client, baseURL: urls.CoinGecko}
	default:
		srv.provider = &coinbaseSource{client: client, baseURL: urls.Coinbase}
	}
	return srv
}

// PriceSource is the provider name reported in price results.
func (s *Service) PriceSource() string {
	return s.provider.name()
}

// DefaultPriceQuery is used when the caller names no coin.
func (s *Service) DefaultPriceQuery() string {
	return s.provider.defaultQuery()
}

// Price returns the current USD price of query from the configured provider.
func (s *Service) Price(ctx context.Context, query string) (*entities.PriceQuote, error) {
	if query == "" {
		query = s.provider.defaultQuery()
	}
	quote, err := s.provider.price(ctx, query)
	if err != nil {
		toolErr := upstream.Classify(s.provider.name(), err)
		s.log.Info("price lookup failed", zap.String("query", query), zap.String("code", toolErr.Code))
		return nil, toolErr
	}
	return quote, nil
}
