package widgets

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Built-in formatters, one per widget type.
var (
	Weather             = WeatherWidget{}
	Stock               = StockWidget{}
	TopStocks           = TopStocksWidget{}
	News                = NewsWidget{}
	Clock               = ClockWidget{}
	BankingAccounts     = BankingAccountsWidget{}
	BankingTransactions = BankingTransactionsWidget{}
	BankingOffers       = BankingOffersWidget{}
	BankingPayments     = BankingPaymentsWidget{}
	BankingBanker       = BankingBankerWidget{}
)

const defaultRefreshInterval = 300 * time.Second

var refreshIntervals = map[string]time.Duration{
	"weather": 300 * time.Second,
	"stock":   60 * time.Second,
	"news":    600 * time.Second,
	"clock":   30 * time.Second,
}

var autoRefresh = map[string]bool{
	"weather": true,
	"stock":   true,
	"clock":   true,
}

// Registry indexes formatters by widget type, keeping registration order.
type Registry struct {
	order          []string
	formatters     map[string]Formatter
	defaultRefresh time.Duration
}

func NewRegistry(formatters ...Formatter) *Registry {
	r := &Registry{formatters: make(map[string]Formatter, len(formatters))}
	for _, f := range formatters {
		r.Register(f)
	}
	return r
}

// DefaultRegistry holds every built-in widget type.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Weather, Stock, TopStocks, News, Clock,
		BankingAccounts, BankingTransactions, BankingOffers, BankingPayments, BankingBanker,
	)
}

func (r *Registry) Register(f Formatter) {
	if _, ok := r.formatters[f.Type()]; !ok {
		r.order = append(r.order, f.Type())
	}
	r.formatters[f.Type()] = f
}

func (r *Registry) Types() []string {
	return append([]string(nil), r.order...)
}

func (r *Registry) Lookup(widgetType string) (Formatter, bool) {
	f, ok := r.formatters[widgetType]
	return f, ok
}

// DefaultConfig returns a fresh copy of the type's default config, or nil
// for an unknown type.
func (r *Registry) DefaultConfig(widgetType string) map[string]any {
	f, ok := r.Lookup(widgetType)
	if !ok {
		return nil
	}
	return f.DefaultConfig()
}

// Validate reports whether cfg is acceptable for the type. Unknown types
// never validate; a panicking validator counts as invalid.
func (r *Registry) Validate(widgetType string, cfg map[string]any) (valid bool) {
	f, ok := r.Lookup(widgetType)
	if !ok {
		return false
	}
	defer func() {
		if recover() != nil {
			valid = false
		}
	}()
	return f.Validate(cfg)
}

// Envelope wraps arbitrary data in a widget of the given type, with the
// type's default config overlaid by overrides.
func (r *Registry) Envelope(widgetType, title string, data any, overrides map[string]any, actions []Action) (*Widget, error) {
	f, ok := r.Lookup(widgetType)
	if !ok {
		return nil, fmt.Errorf("unknown widget type: %s", widgetType)
	}
	if actions == nil {
		actions = []Action{}
	}
	return &Widget{
		ID:       uuid.NewString(),
		Type:     widgetType,
		Title:    title,
		Data:     data,
		Config:   mergeConfig(f.DefaultConfig(), overrides),
		Actions:  actions,
		Metadata: newMetadata(SourceAIWidgetChat),
	}, nil
}

// ErrorWidget returns the error envelope for a known type.
func (r *Registry) ErrorWidget(widgetType, message string) (*Widget, error) {
	f, ok := r.Lookup(widgetType)
	if !ok {
		return nil, fmt.Errorf("unknown widget type: %s", widgetType)
	}
	return f.ErrorWidget(message), nil
}

// SetDefaultRefreshInterval overrides the interval of types without a
// dedicated one.
func (r *Registry) SetDefaultRefreshInterval(d time.Duration) {
	if d > 0 {
		r.defaultRefresh = d
	}
}

// RefreshInterval is how long a generated widget of the type stays fresh.
func (r *Registry) RefreshInterval(widgetType string) time.Duration {
	if d, ok := refreshIntervals[widgetType]; ok {
		return d
	}
	if r.defaultRefresh > 0 {
		return r.defaultRefresh
	}
	return defaultRefreshInterval
}

func (r *Registry) ShouldAutoRefresh(widgetType string) bool {
	return autoRefresh[widgetType]
}
