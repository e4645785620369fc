package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"widgetchat/internal/providers"
	"widgetchat/internal/service/intent"
	"widgetchat/internal/widgets"
)

func newMockDispatcher() *Dispatcher {
	return New(nil, nil, nil, nil, nil)
}

func TestExecuteAllFunctions(t *testing.T) {
	d := newMockDispatcher()
	cases := map[string]string{
		intent.FuncWeather:        "weather",
		intent.FuncStockPrice:     "stock",
		intent.FuncNews:           "news",
		intent.FuncTime:           "clock",
		intent.FuncTopStocks:      "top_stocks",
		intent.FuncAccounts:       "banking_accounts",
		intent.FuncTransactions:   "banking_transactions",
		intent.FuncOffers:         "banking_offers",
		intent.FuncPaymentLinks:   "banking_payments",
		intent.FuncBankerContacts: "banking_banker",
	}
	for name, wantType := range cases {
		w, err := d.Execute(context.Background(), name, nil)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if w.Type != wantType {
			t.Fatalf("%s: got type %q want %q", name, w.Type, wantType)
		}
		if w.Metadata.Source == widgets.SourceError {
			t.Fatalf("%s: unexpected error widget %+v", name, w.Data)
		}
	}
}

func TestExecuteUnknownFunction(t *testing.T) {
	_, err := newMockDispatcher().Execute(context.Background(), "get_horoscope", nil)
	if !errors.Is(err, ErrUnknownFunction) {
		t.Fatalf("expected ErrUnknownFunction, got %v", err)
	}
}

func TestGenerateDefaultsAndUnknownType(t *testing.T) {
	d := newMockDispatcher()
	w, err := d.Generate(context.Background(), "weather", map[string]any{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if w.Title != "Weather in New York" {
		t.Fatalf("expected default location, got %q", w.Title)
	}
	w, err = d.Generate(context.Background(), "stock", map[string]any{"symbol": "msft"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if w.Title != "MSFT Stock Price" {
		t.Fatalf("unexpected stock title %q", w.Title)
	}
	w, err = d.Generate(context.Background(), "banking_payments", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if w.Title != "Payment Options - Self" {
		t.Fatalf("unexpected payments title %q", w.Title)
	}

	if _, err := d.Generate(context.Background(), "horoscope", nil); !errors.Is(err, ErrUnknownWidgetType) {
		t.Fatalf("expected ErrUnknownWidgetType, got %v", err)
	}
	if Supports("horoscope") || !Supports("clock") {
		t.Fatalf("unexpected Supports result")
	}
}

func TestExecutePassesLocationToProvider(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Paris","sys":{"country":"FR"},"main":{"temp":18.5,"feels_like":17,"humidity":60,"pressure":1012},"weather":[{"description":"light rain","icon":"10d"}],"wind":{"speed":3.2},"visibility":9000}`))
	}))
	defer srv.Close()

	weather := providers.NewWeatherClient("key", srv.Client())
	weather.BaseURL = srv.URL
	d := New(weather, nil, nil, nil, nil)

	w, err := d.Execute(context.Background(), intent.FuncWeather, map[string]any{"location": "Paris"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if gotQuery != "Paris" {
		t.Fatalf("provider received %q", gotQuery)
	}
	if w.Metadata.Source != widgets.SourceOpenWeather {
		t.Fatalf("expected live source, got %q", w.Metadata.Source)
	}
}

func TestExecuteClockUsesTimezone(t *testing.T) {
	clock := &providers.ClockSource{Now: func() time.Time {
		return time.Date(2024, 1, 15, 14, 30, 5, 0, time.UTC)
	}}
	d := New(nil, nil, nil, clock, nil)
	w, err := d.Execute(context.Background(), intent.FuncTime, map[string]any{"timezone": "Asia/Tokyo", "location": "Tokyo"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if w.Title != "Clock - Tokyo" {
		t.Fatalf("unexpected title %q", w.Title)
	}
	raw, _ := json.Marshal(w.Data)
	var data struct {
		Time struct {
			Hour int `json:"hour"`
		} `json:"time"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Time.Hour != 23 {
		t.Fatalf("expected hour 23, got %d", data.Time.Hour)
	}
}

func TestIntArgCoercion(t *testing.T) {
	cases := []struct {
		value any
		want  int
	}{
		{nil, 10},
		{float64(7), 7},
		{json.Number("12"), 12},
		{"3", 3},
		{"lots", 10},
		{float64(500), 50},
		{float64(-4), 1},
		{4.6, 5},
	}
	for _, tc := range cases {
		args := map[string]any{"limit": tc.value}
		if got := intArg(args, "limit", 10, 1, 50); got != tc.want {
			t.Fatalf("intArg(%v) = %d, want %d", tc.value, got, tc.want)
		}
	}
}

func TestOptionalArgs(t *testing.T) {
	args := map[string]any{"amount": "250.5", "recipient": "  ", "symbol": " tsla "}
	if got := floatPtrArg(args, "amount"); got == nil || *got != 250.5 {
		t.Fatalf("unexpected amount %v", got)
	}
	if floatPtrArg(args, "missing") != nil {
		t.Fatalf("missing amount should be nil")
	}
	if stringPtrArg(args, "recipient") != nil {
		t.Fatalf("blank recipient should be nil")
	}
	if upperArg(args, "symbol", "AAPL") != "TSLA" {
		t.Fatalf("symbol should be trimmed and upper-cased")
	}
}
