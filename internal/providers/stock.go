package providers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Quote is a single stock quote. TopStocks rows also carry MarketCap.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent string  `json:"change_percent"`
	Volume        int64   `json:"volume"`
	MarketCap     float64 `json:"market_cap,omitempty"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PreviousClose float64 `json:"previous_close"`
	Timestamp     string  `json:"timestamp"`
	Mock          bool    `json:"mock"`
}

// Alpha Vantage free tier quota.
const (
	alphaVantageRateLimit  = 5
	alphaVantageRateWindow = time.Minute
)

type StockClient struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
	limiter *rateLimiter
}

func NewStockClient(apiKey string, client *http.Client) *StockClient {
	return &StockClient{
		APIKey:  apiKey,
		BaseURL: "https://www.alphavantage.co/query",
		Client:  client,
		limiter: newRateLimiter(alphaVantageRateLimit, alphaVantageRateWindow),
	}
}

var companyNames = map[string]string{
	"AAPL":  "Apple Inc.",
	"GOOGL": "Alphabet Inc.",
	"MSFT":  "Microsoft Corporation",
	"AMZN":  "Amazon.com Inc.",
	"TSLA":  "Tesla Inc.",
	"META":  "Meta Platforms Inc.",
	"NVDA":  "NVIDIA Corporation",
	"NFLX":  "Netflix Inc.",
	"AMD":   "Advanced Micro Devices Inc.",
	"INTC":  "Intel Corporation",
}

// CompanyName maps a ticker to a display name.
func CompanyName(symbol string) string {
	symbol = strings.ToUpper(symbol)
	if name, ok := companyNames[symbol]; ok {
		return name
	}
	return symbol + " Corp."
}

// Quote returns the latest GLOBAL_QUOTE for symbol, or a mock quote.
func (c *StockClient) Quote(ctx context.Context, symbol string) *Quote {
	if c == nil || c.APIKey == "" {
		return MockQuote(symbol)
	}
	if !c.limiter.Allow(c.APIKey) {
		log.Printf("[StockClient.Quote] rate limit reached, serving mock quote for %s", symbol)
		return MockQuote(symbol)
	}
	q := url.Values{}
	q.Set("function", "GLOBAL_QUOTE")
	q.Set("symbol", symbol)
	q.Set("apikey", c.APIKey)

	var data struct {
		GlobalQuote map[string]string `json:"Global Quote"`
	}
	if err := getJSON(ctx, c.Client, c.BaseURL, q, &data); err != nil {
		log.Printf("[StockClient.Quote] fetch %s: %v", symbol, err)
		return MockQuote(symbol)
	}
	quote, err := parseGlobalQuote(data.GlobalQuote)
	if err != nil {
		log.Printf("[StockClient.Quote] parse %s: %v", symbol, err)
		return MockQuote(symbol)
	}
	quote.Name = CompanyName(symbol)
	quote.Timestamp = nowISO()
	return quote
}

func parseGlobalQuote(raw map[string]string) (*Quote, error) {
	if len(raw) == 0 {
		return nil, errors.New("missing Global Quote")
	}
	num := func(key string) (float64, error) {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw[key]), 64)
		if err != nil {
			return 0, fmt.Errorf("field %q: %w", key, err)
		}
		return v, nil
	}
	var (
		q   Quote
		err error
	)
	q.Symbol = raw["01. symbol"]
	if q.Open, err = num("02. open"); err != nil {
		return nil, err
	}
	if q.High, err = num("03. high"); err != nil {
		return nil, err
	}
	if q.Low, err = num("04. low"); err != nil {
		return nil, err
	}
	if q.Price, err = num("05. price"); err != nil {
		return nil, err
	}
	volume, err := strconv.ParseInt(strings.TrimSpace(raw["06. volume"]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", "06. volume", err)
	}
	q.Volume = volume
	if q.PreviousClose, err = num("08. previous close"); err != nil {
		return nil, err
	}
	if q.Change, err = num("09. change"); err != nil {
		return nil, err
	}
	q.ChangePercent = strings.TrimSuffix(raw["10. change percent"], "%")
	return &q, nil
}

// TopStocks returns the most traded stocks sorted by volume. There is no
// upstream endpoint for this, so the result is always mock data.
func (c *StockClient) TopStocks(ctx context.Context, limit int) []Quote {
	return MockTopStocks(limit)
}

func MockQuote(symbol string) *Quote {
	base := 100 + rand.Float64()*400
	change := -10 + rand.Float64()*20
	return &Quote{
		Symbol:        strings.ToUpper(symbol),
		Name:          CompanyName(symbol),
		Price:         round(base, 2),
		Change:        round(change, 2),
		ChangePercent: fmt.Sprintf("%v%%", round(change/base*100, 2)),
		Volume:        1_000_000 + rand.Int64N(9_000_000),
		High:          round(base+rand.Float64()*5, 2),
		Low:           round(base-rand.Float64()*5, 2),
		Open:          round(base-2+rand.Float64()*4, 2),
		PreviousClose: round(base-change, 2),
		Timestamp:     nowISO(),
		Mock:          true,
	}
}

var topStockSymbols = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "META", "NVDA", "BRK.B", "UNH", "JNJ",
	"V", "PG", "JPM", "XOM", "HD", "CVX", "MA", "PFE", "ABBV", "BAC",
}

func MockTopStocks(limit int) []Quote {
	if limit <= 0 {
		limit = 10
	}
	if limit > len(topStockSymbols) {
		limit = len(topStockSymbols)
	}
	stocks := make([]Quote, 0, limit)
	for _, symbol := range topStockSymbols[:limit] {
		base := 50 + rand.Float64()*750
		change := -15 + rand.Float64()*30
		stocks = append(stocks, Quote{
			Symbol:        symbol,
			Name:          CompanyName(symbol),
			Price:         round(base, 2),
			Change:        round(change, 2),
			ChangePercent: fmt.Sprintf("%v%%", round(change/base*100, 2)),
			Volume:        5_000_000 + rand.Int64N(45_000_000),
			MarketCap:     round(1e11+rand.Float64()*2.9e12, 0),
			High:          round(base+rand.Float64()*8, 2),
			Low:           round(base-rand.Float64()*8, 2),
			Open:          round(base-3+rand.Float64()*6, 2),
			PreviousClose: round(base-change, 2),
			Timestamp:     nowISO(),
			Mock:          true,
		})
	}
	sort.Slice(stocks, func(i, j int) bool { return stocks[i].Volume > stocks[j].Volume })
	return stocks
}
