package widgets

import (
	"testing"
	"time"
)

func TestDefaultRegistryTypes(t *testing.T) {
	r := DefaultRegistry()
	want := []string{
		"weather", "stock", "top_stocks", "news", "clock",
		"banking_accounts", "banking_transactions", "banking_offers", "banking_payments", "banking_banker",
	}
	got := r.Types()
	if len(got) != len(want) {
		t.Fatalf("expected %d types, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("type %d: got %q want %q", i, got[i], want[i])
		}
	}
	if _, ok := r.Lookup("horoscope"); ok {
		t.Fatalf("unknown type should not resolve")
	}
}

func TestDefaultConfigsValidate(t *testing.T) {
	r := DefaultRegistry()
	for _, typ := range r.Types() {
		cfg := r.DefaultConfig(typ)
		if !r.Validate(typ, cfg) {
			t.Fatalf("%s: default config does not validate: %v", typ, cfg)
		}
	}
	if r.DefaultConfig("horoscope") != nil {
		t.Fatalf("unknown type should have no default config")
	}
}

func TestDefaultConfigIsACopy(t *testing.T) {
	r := DefaultRegistry()
	cfg := r.DefaultConfig("weather")
	cfg["size"] = "huge"
	if r.DefaultConfig("weather")["size"] != "medium" {
		t.Fatalf("default config mutated through returned map")
	}
}

func TestValidateRules(t *testing.T) {
	r := DefaultRegistry()
	cases := []struct {
		name string
		typ  string
		cfg  map[string]any
		want bool
	}{
		{"missing theme", "weather", map[string]any{"size": "small"}, false},
		{"bad size", "weather", map[string]any{"size": "huge", "theme": "dark"}, false},
		{"bad unit", "weather", map[string]any{"size": "small", "theme": "dark", "temperatureUnit": "kelvin"}, false},
		{"bad chart", "stock", map[string]any{"size": "small", "theme": "dark", "chartType": "pie"}, false},
		{"good range", "stock", map[string]any{"size": "small", "theme": "dark", "timeRange": "3M"}, true},
		{"bad market", "top_stocks", map[string]any{"size": "large", "theme": "auto", "market": "MARS"}, false},
		{"max articles float", "news", map[string]any{"size": "large", "theme": "auto", "maxArticles": float64(5)}, true},
		{"max articles too high", "news", map[string]any{"size": "large", "theme": "auto", "maxArticles": float64(21)}, false},
		{"max articles fraction", "news", map[string]any{"size": "large", "theme": "auto", "maxArticles": 2.5}, false},
		{"clock interval", "clock", map[string]any{"size": "small", "theme": "auto", "refreshInterval": float64(4000)}, false},
		{"accounts need show_balances", "banking_accounts", map[string]any{"size": "large", "theme": "banking"}, false},
		{"accounts ok", "banking_accounts", map[string]any{"size": "large", "theme": "banking", "show_balances": true}, true},
		{"transactions need limit", "banking_transactions", map[string]any{"size": "large", "theme": "banking"}, false},
		{"transactions limit range", "banking_transactions", map[string]any{"size": "large", "theme": "banking", "limit": float64(101)}, false},
		{"offers limit", "banking_offers", map[string]any{"size": "medium", "theme": "banking", "limit": float64(50)}, true},
		{"payments sort", "banking_payments", map[string]any{"size": "medium", "theme": "banking", "sort_by": "speed"}, false},
		{"banker sort", "banking_banker", map[string]any{"size": "medium", "theme": "banking", "sort_by": "name"}, true},
		{"unknown type", "horoscope", map[string]any{"size": "small", "theme": "auto"}, false},
		{"nil config", "weather", nil, false},
	}
	for _, tc := range cases {
		if got := r.Validate(tc.typ, tc.cfg); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestEnvelope(t *testing.T) {
	r := DefaultRegistry()
	w, err := r.Envelope("weather", "Custom", map[string]any{"k": "v"}, map[string]any{"size": "large"}, nil)
	if err != nil {
		t.Fatalf("envelope: %v", err)
	}
	assertEnvelope(t, w, "weather")
	if w.Config["size"] != "large" || w.Config["theme"] != "auto" {
		t.Fatalf("overrides not merged: %v", w.Config)
	}
	if len(w.ID) != 36 || w.Metadata.Source != SourceAIWidgetChat {
		t.Fatalf("unexpected id/source: %q %q", w.ID, w.Metadata.Source)
	}
	if _, err := r.Envelope("horoscope", "x", nil, nil, nil); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestRefreshIntervals(t *testing.T) {
	r := DefaultRegistry()
	cases := map[string]time.Duration{
		"weather":          300 * time.Second,
		"stock":            60 * time.Second,
		"news":             600 * time.Second,
		"clock":            30 * time.Second,
		"banking_accounts": 300 * time.Second,
	}
	for typ, want := range cases {
		if got := r.RefreshInterval(typ); got != want {
			t.Fatalf("%s: got %v want %v", typ, got, want)
		}
	}
	r.SetDefaultRefreshInterval(90 * time.Second)
	if got := r.RefreshInterval("banking_offers"); got != 90*time.Second {
		t.Fatalf("expected overridden default, got %v", got)
	}
	if got := r.RefreshInterval("stock"); got != 60*time.Second {
		t.Fatalf("dedicated interval should win, got %v", got)
	}
	if !r.ShouldAutoRefresh("clock") || r.ShouldAutoRefresh("news") {
		t.Fatalf("unexpected auto refresh flags")
	}
}
