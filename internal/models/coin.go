package models

import "strings"

const (
	Bitcoin  = "BTC"
	Ethereum = "ethereum"

	quoteUSD  = "USD"
	quoteUSDT = "USDT"
)

// NormalizeSymbol trims and uppercases a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// NormalizeCoinID trims and lowercases a CoinGecko coin id.
func NormalizeCoinID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// BinancePair builds the USDT market for a ticker, e.g. BTC -> BTCUSDT.
func BinancePair(symbol string) string {
	return NormalizeSymbol(symbol) + quoteUSDT
}

// CoinbasePair builds the USD product for a ticker, e.g. BTC -> BTC-USD.
func CoinbasePair(symbol string) string {
	return NormalizeSymbol(symbol) + "-" + quoteUSD
}
