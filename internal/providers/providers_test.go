package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newJSONServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("encode response: %v", err)
	}
}

func TestWeatherCurrentFromAPI(t *testing.T) {
	srv := newJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Paris" {
			t.Errorf("unexpected location %q", got)
		}
		if got := r.URL.Query().Get("units"); got != "metric" {
			t.Errorf("unexpected units %q", got)
		}
		writeJSON(t, w, map[string]any{
			"name":       "Paris",
			"sys":        map[string]any{"country": "FR"},
			"main":       map[string]any{"temp": 18.5, "feels_like": 17.9, "humidity": 60, "pressure": 1012},
			"weather":    []map[string]any{{"description": "light rain", "icon": "10d"}},
			"wind":       map[string]any{"speed": 4.1},
			"visibility": 9000,
		})
	})
	client := NewWeatherClient("key", srv.Client())
	client.BaseURL = srv.URL

	got := client.Current(context.Background(), "Paris")
	if got.Mock {
		t.Fatalf("expected live data")
	}
	if got.Location != "Paris" || got.Country != "FR" || got.Temperature != 18.5 {
		t.Fatalf("unexpected weather: %+v", got)
	}
	if got.Visibility != 9 {
		t.Fatalf("expected visibility in km, got %v", got.Visibility)
	}
}

func TestWeatherFallsBackToMock(t *testing.T) {
	srv := newJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	client := NewWeatherClient("key", srv.Client())
	client.BaseURL = srv.URL

	got := client.Current(context.Background(), "Berlin")
	if !got.Mock || got.Location != "Berlin" {
		t.Fatalf("expected mock weather for Berlin, got %+v", got)
	}

	noKey := NewWeatherClient("", nil)
	if got := noKey.Current(context.Background(), "Oslo"); !got.Mock {
		t.Fatalf("expected mock without api key")
	}
}

func TestStockQuoteFromAPI(t *testing.T) {
	srv := newJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("function") != "GLOBAL_QUOTE" {
			t.Errorf("unexpected function %q", r.URL.Query().Get("function"))
		}
		writeJSON(t, w, map[string]any{"Global Quote": map[string]string{
			"01. symbol":         "AAPL",
			"02. open":           "189.10",
			"03. high":           "191.00",
			"04. low":            "188.20",
			"05. price":          "190.50",
			"06. volume":         "51234567",
			"08. previous close": "188.00",
			"09. change":         "2.50",
			"10. change percent": "1.3298%",
		}})
	})
	client := NewStockClient("key", srv.Client())
	client.BaseURL = srv.URL

	got := client.Quote(context.Background(), "AAPL")
	if got.Mock {
		t.Fatalf("expected live quote")
	}
	if got.Name != "Apple Inc." || got.Price != 190.5 || got.Volume != 51234567 {
		t.Fatalf("unexpected quote: %+v", got)
	}
	if got.ChangePercent != "1.3298" {
		t.Fatalf("expected percent sign stripped, got %q", got.ChangePercent)
	}
}

func TestStockQuoteMalformedFallsBackToMock(t *testing.T) {
	srv := newJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"Note": "rate limited"})
	})
	client := NewStockClient("key", srv.Client())
	client.BaseURL = srv.URL

	if got := client.Quote(context.Background(), "msft"); !got.Mock || got.Symbol != "MSFT" {
		t.Fatalf("expected mock quote, got %+v", got)
	}
}

func TestStockQuoteRateLimited(t *testing.T) {
	var calls atomic.Int32
	srv := newJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(t, w, map[string]any{})
	})
	client := NewStockClient("key", srv.Client())
	client.BaseURL = srv.URL
	for i := 0; i < alphaVantageRateLimit+2; i++ {
		client.Quote(context.Background(), "AAPL")
	}
	if got := calls.Load(); got != alphaVantageRateLimit {
		t.Fatalf("expected %d upstream calls, got %d", alphaVantageRateLimit, got)
	}
}

func TestCompanyName(t *testing.T) {
	if CompanyName("nvda") != "NVIDIA Corporation" {
		t.Fatalf("unexpected name for nvda")
	}
	if CompanyName("XYZ") != "XYZ Corp." {
		t.Fatalf("unexpected fallback name")
	}
}

func TestMockTopStocks(t *testing.T) {
	stocks := MockTopStocks(50)
	if len(stocks) != 20 {
		t.Fatalf("expected limit clamped to 20, got %d", len(stocks))
	}
	for i := 1; i < len(stocks); i++ {
		if stocks[i-1].Volume < stocks[i].Volume {
			t.Fatalf("stocks not sorted by volume at %d", i)
		}
	}
	if got := MockTopStocks(0); len(got) != 10 {
		t.Fatalf("expected default of 10, got %d", len(got))
	}
}

func TestNewsHeadlinesFromAPI(t *testing.T) {
	srv := newJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/everything") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeJSON(t, w, map[string]any{
			"status":       "ok",
			"totalResults": 42,
			"articles": []map[string]any{
				{"title": "A", "description": "a", "url": "https://a", "publishedAt": "2024-01-01T00:00:00Z", "source": map[string]any{"name": "Wire"}},
				{"title": "B", "description": "b", "url": "https://b", "publishedAt": "2024-01-01T00:00:00Z", "source": map[string]any{"name": "Wire"}},
			},
		})
	})
	client := NewNewsClient("key", srv.Client(), nil)
	client.BaseURL = srv.URL

	got := client.Headlines(context.Background(), "ai", "", 1)
	if got.Mock || got.Provider != NewsProviderNewsAPI {
		t.Fatalf("expected newsapi result, got %+v", got)
	}
	if len(got.Articles) != 1 || got.Articles[0].Source != "Wire" {
		t.Fatalf("unexpected articles: %+v", got.Articles)
	}
}

type stubSearcher struct {
	articles []Article
	err      error
	queries  []string
}

func (s *stubSearcher) Search(ctx context.Context, query string) ([]Article, error) {
	s.queries = append(s.queries, query)
	return s.articles, s.err
}

func TestNewsHeadlinesUsesSearcherWithoutKey(t *testing.T) {
	searcher := &stubSearcher{articles: []Article{{Title: "Found", URL: "https://x"}}}
	client := NewNewsClient("", nil, searcher)

	got := client.Headlines(context.Background(), "", "technology", 5)
	if got.Provider != NewsProviderWebSearch || got.Mock {
		t.Fatalf("expected web search result, got %+v", got)
	}
	if len(searcher.queries) != 1 || searcher.queries[0] != "technology news" {
		t.Fatalf("unexpected search queries: %v", searcher.queries)
	}

	empty := NewNewsClient("", nil, &stubSearcher{})
	if got := empty.Headlines(context.Background(), "x", "", 5); !got.Mock {
		t.Fatalf("expected mock news when search returns nothing")
	}
}

func TestParseSearchResultShapes(t *testing.T) {
	ddg := `{"message":"ok","results":[{"title":"T1","url":"https://1","summary":"s1"},{"title":"","url":"https://skip"}]}`
	articles, err := parseSearchResult(ddg, "duckduckgo")
	if err != nil || len(articles) != 1 || articles[0].Description != "s1" {
		t.Fatalf("ddg parse: %+v %v", articles, err)
	}
	google := `{"query":"q","items":[{"title":"T2","link":"https://2","snippet":"s2"}]}`
	articles, err = parseSearchResult(google, "google")
	if err != nil || len(articles) != 1 || articles[0].URL != "https://2" {
		t.Fatalf("google parse: %+v %v", articles, err)
	}
	if _, err := parseSearchResult("not json", "google"); err == nil {
		t.Fatalf("expected error for invalid payload")
	}
}

func TestMockNews(t *testing.T) {
	got := MockNews("q", "", 10)
	if len(got.Articles) != 3 || !got.Mock || got.Provider != NewsProviderMock {
		t.Fatalf("unexpected mock news: %+v", got)
	}
}

func TestClockTime(t *testing.T) {
	fixed := time.Date(2024, time.January, 15, 14, 30, 5, 0, time.UTC)
	src := &ClockSource{Now: func() time.Time { return fixed }}

	got := src.Time("Asia/Tokyo", "Tokyo")
	if got.CurrentTime != "2024-01-15 23:30:05" {
		t.Fatalf("unexpected current time %q", got.CurrentTime)
	}
	if got.Time12h != "11:30:05 PM" || got.UTCOffset != "+0900" {
		t.Fatalf("unexpected 12h/offset: %q %q", got.Time12h, got.UTCOffset)
	}
	if got.Date != "Monday, January 15, 2024" || got.Location != "Tokyo" {
		t.Fatalf("unexpected date/location: %q %q", got.Date, got.Location)
	}

	bad := src.Time("Mars/Olympus", "")
	if !bad.Mock || bad.Timezone != "Mars/Olympus" || bad.UTCOffset != "+0000" {
		t.Fatalf("expected utc mock for unknown zone, got %+v", bad)
	}
}

func TestRateLimiterWindow(t *testing.T) {
	now := time.Unix(0, 0)
	l := newRateLimiter(2, time.Minute)
	l.now = func() time.Time { return now }
	if !l.Allow("k") || !l.Allow("k") {
		t.Fatalf("first two calls should pass")
	}
	if l.Allow("k") {
		t.Fatalf("third call should be limited")
	}
	now = now.Add(61 * time.Second)
	if !l.Allow("k") {
		t.Fatalf("window should have rolled over")
	}
}
