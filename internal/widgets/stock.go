package widgets

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"widgetchat/internal/providers"
)

type StockWidget struct{}

type stockData struct {
	Error       string      `json:"error,omitempty"`
	Symbol      string      `json:"symbol"`
	CompanyName string      `json:"company_name"`
	Price       stockPrice  `json:"price"`
	Change      stockChange `json:"change"`
	Range       stockRange  `json:"range"`
	Volume      int64       `json:"volume"`
	Timestamp   string      `json:"timestamp"`
	Mock        bool        `json:"mock"`
}

type stockPrice struct {
	Current       float64 `json:"current"`
	Open          float64 `json:"open"`
	PreviousClose float64 `json:"previous_close"`
}

type stockChange struct {
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
	IsPositive bool    `json:"is_positive"`
	Formatted  string  `json:"formatted"`
}

type stockRange struct {
	High float64 `json:"high"`
	Low  float64 `json:"low"`
}

func (StockWidget) Type() string { return "stock" }

func (StockWidget) DefaultConfig() map[string]any {
	return map[string]any{
		"size":            "medium",
		"theme":           "auto",
		"refreshInterval": 60,
		"showChart":       true,
		"showVolume":      true,
		"showChange":      true,
		"showHighLow":     true,
		"chartType":       "line",
		"timeRange":       "1D",
	}
}

func (StockWidget) Validate(cfg map[string]any) bool {
	return validateBase(cfg) &&
		oneOf(cfg, "chartType", "line", "bar") &&
		oneOf(cfg, "timeRange", "1D", "1W", "1M", "3M", "1Y")
}

func (StockWidget) Actions() []Action {
	return []Action{
		refreshAction,
		configureAction,
		{Type: "chart", Label: "View Chart", Icon: "trending_up", Description: "View detailed price chart"},
		{Type: "news", Label: "Related News", Icon: "newspaper", Description: "View news about this stock"},
	}
}

// parseChangePercent accepts "1.23%", "1.23" or "".
func parseChangePercent(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid change percent %q", s)
	}
	return v, nil
}

func newStockChange(amount float64, percent string) (stockChange, error) {
	pct, err := parseChangePercent(percent)
	if err != nil {
		return stockChange{}, err
	}
	positive := pct >= 0
	sign := ""
	if positive {
		sign = "+"
	}
	return stockChange{
		Amount:     amount,
		Percentage: pct,
		IsPositive: positive,
		Formatted:  fmt.Sprintf("%s%.2f (%s%.2f%%)", sign, amount, sign, pct),
	}, nil
}

func (w StockWidget) Build(symbol string, raw *providers.Quote) *Widget {
	return build(w, func() (*Widget, error) {
		if raw == nil {
			return nil, errors.New("no stock data")
		}
		change, err := newStockChange(raw.Change, raw.ChangePercent)
		if err != nil {
			return nil, err
		}
		ts := raw.Timestamp
		if ts == "" {
			ts = timestamp()
		}
		return &Widget{
			ID:    widgetID("stock", strings.ToLower(symbol)),
			Type:  w.Type(),
			Title: fmt.Sprintf("%s Stock Price", strings.ToUpper(symbol)),
			Data: stockData{
				Symbol:      raw.Symbol,
				CompanyName: raw.Name,
				Price:       stockPrice{Current: raw.Price, Open: raw.Open, PreviousClose: raw.PreviousClose},
				Change:      change,
				Range:       stockRange{High: raw.High, Low: raw.Low},
				Volume:      raw.Volume,
				Timestamp:   ts,
				Mock:        raw.Mock,
			},
			Config:   w.DefaultConfig(),
			Actions:  w.Actions(),
			Metadata: newMetadata(sourceOf(raw.Mock, SourceAlphaVantage)),
		}, nil
	})
}

func (w StockWidget) ErrorWidget(message string) *Widget {
	return errorEnvelope(w, "stock", "Stock Widget Error", stockData{
		Error:       message,
		Symbol:      "ERROR",
		CompanyName: "Error Loading Stock Data",
		Change:      stockChange{IsPositive: true, Formatted: "0.00 (0.00%)"},
		Timestamp:   timestamp(),
	}, []Action{refreshAction})
}

type TopStocksWidget struct{}

// topStocksLimit is the number of rows shown.
const topStocksLimit = 10

type topStocksData struct {
	Error       string          `json:"error,omitempty"`
	Stocks      []topStockEntry `json:"stocks"`
	TotalCount  int             `json:"total_count"`
	LastUpdated string          `json:"last_updated"`
	Market      string          `json:"market"`
	SortBy      string          `json:"sort_by"`
}

type topStockEntry struct {
	Symbol      string      `json:"symbol"`
	CompanyName string      `json:"company_name"`
	Price       stockPrice  `json:"price"`
	Change      stockChange `json:"change"`
	Volume      int64       `json:"volume"`
	MarketCap   float64     `json:"market_cap"`
	Rank        int         `json:"rank"`
	Timestamp   string      `json:"timestamp"`
	Mock        bool        `json:"mock"`
}

func (TopStocksWidget) Type() string { return "top_stocks" }

func (TopStocksWidget) DefaultConfig() map[string]any {
	return map[string]any{
		"size":            "large",
		"theme":           "auto",
		"refreshInterval": 300,
		"showVolume":      true,
		"showChange":      true,
		"showMarketCap":   true,
		"sortBy":          "volume",
		"market":          "US",
	}
}

func (TopStocksWidget) Validate(cfg map[string]any) bool {
	return validateBase(cfg) &&
		oneOf(cfg, "sortBy", "volume", "change", "market_cap") &&
		oneOf(cfg, "market", "US", "EU", "ASIA")
}

func (TopStocksWidget) Actions() []Action {
	return []Action{
		refreshAction,
		configureAction,
		{Type: "sort", Label: "Sort by Volume", Icon: "sort", Description: "Sort stocks by trading volume"},
		{Type: "sort", Label: "Sort by Change", Icon: "trending_up", Description: "Sort stocks by price change"},
		{Type: "export", Label: "Export Data", Icon: "download", Description: "Export top stocks data"},
	}
}

func (w TopStocksWidget) Build(stocks []providers.Quote) *Widget {
	return build(w, func() (*Widget, error) {
		if stocks == nil {
			return nil, errors.New("no stock data")
		}
		mock := false
		entries := make([]topStockEntry, 0, min(len(stocks), topStocksLimit))
		for _, s := range stocks {
			if s.Mock {
				mock = true
			}
			if len(entries) == topStocksLimit {
				continue
			}
			change, err := newStockChange(s.Change, s.ChangePercent)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", s.Symbol, err)
			}
			ts := s.Timestamp
			if ts == "" {
				ts = timestamp()
			}
			entries = append(entries, topStockEntry{
				Symbol:      s.Symbol,
				CompanyName: s.Name,
				Price:       stockPrice{Current: s.Price, Open: s.Open, PreviousClose: s.PreviousClose},
				Change:      change,
				Volume:      s.Volume,
				MarketCap:   s.MarketCap,
				Rank:        len(entries) + 1,
				Timestamp:   ts,
				Mock:        s.Mock,
			})
		}
		return &Widget{
			ID:    widgetID("top_stocks"),
			Type:  w.Type(),
			Title: "Top 10 Traded Stocks",
			Data: topStocksData{
				Stocks:      entries,
				TotalCount:  len(entries),
				LastUpdated: timestamp(),
				Market:      "US",
				SortBy:      "volume",
			},
			Config:   w.DefaultConfig(),
			Actions:  w.Actions(),
			Metadata: newMetadata(sourceOf(mock, SourceAlphaVantage)),
		}, nil
	})
}

func (w TopStocksWidget) ErrorWidget(message string) *Widget {
	return errorEnvelope(w, "top_stocks", "Top Stocks Widget Error", topStocksData{
		Error:       message,
		Stocks:      []topStockEntry{},
		LastUpdated: timestamp(),
		Market:      "US",
		SortBy:      "volume",
	}, []Action{refreshAction})
}
