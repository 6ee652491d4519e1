package entities

type Banner struct {
	Status    string   `json:"status"`
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
}

type Pong struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type PriceQuote struct {
	Status string  `json:"status"`
	Source string  `json:"source"`
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

// MarketSnapshot fields are nil when upstream omits them.
type MarketSnapshot struct {
	Status                 string   `json:"status"`
	Source                 string   `json:"source"`
	TotalMarketCapUSD      *float64 `json:"total_market_cap_usd"`
	TotalVolumeUSD         *float64 `json:"total_volume_usd"`
	BTCDominance           *float64 `json:"btc_dominance"`
	ActiveCryptocurrencies *int64   `json:"active_cryptocurrencies"`
}

type TrendingCoin struct {
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	MarketCapRank *int   `json:"market_cap_rank"`
	ID            string `json:"id"`
	Score         *int   `json:"score"`
}

type TrendingList struct {
	Status   string         `json:"status"`
	Source   string         `json:"source"`
	Trending []TrendingCoin `json:"trending"`
}

type Headline struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

type NewsFeed struct {
	Status    string     `json:"status"`
	Source    string     `json:"source"`
	Headlines []Headline `json:"headlines"`
}

type WalletTransaction struct {
	Hash        string  `json:"hash"`
	From        string  `json:"from"`
	To          string  `json:"to"`
	ValueEth    float64 `json:"value_eth"`
	Timestamp   string  `json:"timestamp"`
	BlockNumber string  `json:"block_number"`
}

type WalletHistory struct {
	Status       string              `json:"status"`
	Address      string              `json:"address"`
	Transactions []WalletTransaction `json:"transactions"`
}
