package market

import (
	"context"
	"errors"

	"web3_tools/internal/entities"
	"web3_tools/internal/upstream"
	"web3_tools/internal/utils"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type trendingResponse struct {
	Coins []struct {
		Item struct {
			ID            string `json:"id"`
			Name          string `json:"name"`
			Symbol        string `json:"symbol"`
			MarketCapRank *int   `json:"market_cap_rank"`
			Score         *int   `json:"score"`
		} `json:"item"`
	} `json:"coins"`
}

// GlobalMarket reads the CoinGecko aggregate. Missing fields stay nil.
func (s *Service) GlobalMarket(ctx context.Context) (*entities.MarketSnapshot, error) {
	rawURL := s.urls.CoinGecko + "/global"
	body, err := s.client.Get(ctx, sourceCoinGecko, rawURL)
	if err == nil && !gjson.ValidBytes(body) {
		err = upstream.NewParseError(sourceCoinGecko, rawURL, errors.New("malformed json"))
	}
	if err != nil {
		toolErr := upstream.Classify(sourceCoinGecko, err)
		s.log.Info("global market lookup failed", zap.String("code", toolErr.Code))
		return nil, toolErr
	}

	data := gjson.GetBytes(body, "data")
	return &entities.MarketSnapshot{
		Status:                 entities.StatusSuccess,
		Source:                 sourceCoinGecko,
		TotalMarketCapUSD:      floatOrNil(data.Get("total_market_cap.usd")),
		TotalVolumeUSD:         floatOrNil(data.Get("total_volume.usd")),
		BTCDominance:           floatOrNil(data.Get("market_cap_percentage.btc")),
		ActiveCryptocurrencies: intOrNil(data.Get("active_cryptocurrencies")),
	}, nil
}

// Trending returns at most ten trending coins in upstream order.
func (s *Service) Trending(ctx context.Context) (*entities.TrendingList, error) {
	var res trendingResponse
	if err := s.client.GetJSON(ctx, sourceCoinGecko, s.urls.CoinGecko+"/search/trending", &res); err != nil {
		toolErr := upstream.Classify(sourceCoinGecko, err)
		s.log.Info("trending lookup failed", zap.String("code", toolErr.Code))
		return nil, toolErr
	}

	coins := make([]entities.TrendingCoin, 0, len(res.Coins))
	for _, c := range res.Coins {
		coins = append(coins, entities.TrendingCoin{
			Name:          c.Item.Name,
			Symbol:        c.Item.Symbol,
			MarketCapRank: c.Item.MarketCapRank,
			ID:            c.Item.ID,
			Score:         c.Item.Score,
		})
	}
	return &entities.TrendingList{
		Status:   entities.StatusSuccess,
		Source:   sourceCoinGecko,
		Trending: utils.Limit(coins, maxTrending),
	}, nil
}

func floatOrNil(r gjson.Result) *float64 {
	if r.Type != gjson.Number {
		return nil
	}
	v := r.Float()
	return &v
}

func intOrNil(r gjson.Result) *int64 {
	if r.Type != gjson.Number {
		return nil
	}
	v := r.Int()
	return &v
}
