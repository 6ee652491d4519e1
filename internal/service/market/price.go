package market

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"web3_tools/internal/config"
	"web3_tools/internal/entities"
	"web3_tools/internal/models"
	"web3_tools/internal/upstream"

	"github.com/tidwall/gjson"
)

// binance error code for an unknown trading pair
const binanceInvalidSymbol = -1121

type coinGeckoSource struct {
	client  *upstream.Client
	baseURL string
}

func (c *coinGeckoSource) name() string         { return config.ProviderCoinGecko }
func (c *coinGeckoSource) defaultQuery() string { return models.Ethereum }

func (c *coinGeckoSource) price(ctx context.Context, query string) (*entities.PriceQuote, error) {
	coin := models.NormalizeCoinID(query)
	params := url.Values{}
	params.Set("ids", coin)
	params.Set("vs_currencies", "usd")
	rawURL := c.baseURL + "/simple/price?" + params.Encode()

	var res map[string]map[string]float64
	if err := c.client.GetJSON(ctx, c.name(), rawURL, &res); err != nil {
		return nil, err
	}
	quote, ok := res[coin]
	if !ok {
		return nil, notFound(coin, c.name())
	}
	usd, ok := quote["usd"]
	if !ok {
		return nil, upstream.NewParseError(c.name(), rawURL, fmt.Errorf("no usd price for %s", coin))
	}
	return &entities.PriceQuote{
		Status: entities.StatusSuccess,
		Source: c.name(),
		Symbol: coin,
		Price:  usd,
	}, nil
}

type binanceSource struct {
	client  *upstream.Client
	baseURL string
}

func (b *binanceSource) name() string         { return config.ProviderBinance }
func (b *binanceSource) defaultQuery() string { return models.Bitcoin }

func (b *binanceSource) price(ctx context.Context, query string) (*entities.PriceQuote, error) {
	symbol := models.NormalizeSymbol(query)
	params := url.Values{}
	params.Set("symbol", models.BinancePair(symbol))
	rawURL := b.baseURL + "/ticker/price?" + params.Encode()

	var res struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := b.client.GetJSON(ctx, b.name(), rawURL, &res); err != nil {
		var upErr *upstream.Error
		if errors.As(err, &upErr) && upErr.Kind == upstream.KindStatus &&
			gjson.GetBytes(upErr.Body, "code").Int() == binanceInvalidSymbol {
			return nil, notFound(symbol, b.name())
		}
		return nil, err
	}
	price, err := strconv.ParseFloat(res.Price, 64)
	if err != nil {
		return nil, upstream.NewParseError(b.name(), rawURL, fmt.Errorf("invalid price %q: %w", res.Price, err))
	}
	return &entities.PriceQuote{
		Status: entities.StatusSuccess,
		Source: b.name(),
		Symbol: symbol,
		Price:  price,
	}, nil
}

type coinbaseSource struct {
	client  *upstream.Client
	baseURL string
}

func (c *coinbaseSource) name() string         { return config.ProviderCoinbase }
func (c *coinbaseSource) defaultQuery() string { return models.Bitcoin }

func (c *coinbaseSource) price(ctx context.Context, query string) (*entities.PriceQuote, error) {
	symbol := models.NormalizeSymbol(query)
	rawURL := c.baseURL + "/prices/" + url.PathEscape(models.CoinbasePair(symbol)) + "/spot"

	var res struct {
		Data struct {
			Amount   string `json:"amount"`
			Base     string `json:"base"`
			Currency string `json:"currency"`
		} `json:"data"`
	}
	if err := c.client.GetJSON(ctx, c.name(), rawURL, &res); err != nil {
		var upErr *upstream.Error
		if errors.As(err, &upErr) && upErr.Kind == upstream.KindStatus &&
			(upErr.StatusCode == http.StatusNotFound || gjson.GetBytes(upErr.Body, "errors.0.id").String() == "not_found") {
			return nil, notFound(symbol, c.name())
		}
		return nil, err
	}
	price, err := strconv.ParseFloat(res.Data.Amount, 64)
	if err != nil {
		return nil, upstream.NewParseError(c.name(), rawURL, fmt.Errorf("invalid amount %q: %w", res.Data.Amount, err))
	}
	return &entities.PriceQuote{
		Status: entities.StatusSuccess,
		Source: c.name(),
		Symbol: symbol,
		Price:  price,
	}, nil
}

func notFound(symbol, provider string) *entities.ToolError {
	return entities.NewToolError(entities.CodeNotFound, fmt.Sprintf("%s not found on %s", symbol, provider)).
		With("symbol", symbol)
}
