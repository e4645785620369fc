package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log"

	"widgetchat/internal/providers"
	"widgetchat/internal/service/intent"
	"widgetchat/internal/widgets"
)

var (
	ErrUnknownFunction   = errors.New("unknown function")
	ErrUnknownWidgetType = errors.New("unknown widget type")
)

// Parameter ranges.
const (
	defaultLimit        = 10
	maxTopStocks        = 20
	maxTransactions     = 50
	maxOffers           = 20
	defaultNewsArticles = 5
	maxNewsArticles     = 20
	defaultPaymentType  = "self"
)

// widgetFunctions maps each widget type to the function that produces it.
var widgetFunctions = map[string]string{
	"weather":              intent.FuncWeather,
	"stock":                intent.FuncStockPrice,
	"top_stocks":           intent.FuncTopStocks,
	"news":                 intent.FuncNews,
	"clock":                intent.FuncTime,
	"banking_accounts":     intent.FuncAccounts,
	"banking_transactions": intent.FuncTransactions,
	"banking_offers":       intent.FuncOffers,
	"banking_payments":     intent.FuncPaymentLinks,
	"banking_banker":       intent.FuncBankerContacts,
}

// Dispatcher turns function calls into widgets. Nil providers serve mock
// data.
type Dispatcher struct {
	Weather *providers.WeatherClient
	Stocks  *providers.StockClient
	News    *providers.NewsClient
	Clock   *providers.ClockSource
	Banking *providers.BankingClient
}

func New(weather *providers.WeatherClient, stocks *providers.StockClient, news *providers.NewsClient, clock *providers.ClockSource, banking *providers.BankingClient) *Dispatcher {
	if clock == nil {
		clock = providers.NewClockSource()
	}
	return &Dispatcher{
		Weather: weather,
		Stocks:  stocks,
		News:    news,
		Clock:   clock,
		Banking: banking,
	}
}

// Execute runs the named function with model- or user-supplied args.
func (d *Dispatcher) Execute(ctx context.Context, name string, args map[string]any) (*widgets.Widget, error) {
	if args == nil {
		args = map[string]any{}
	}
	switch name {
	case intent.FuncWeather:
		location := stringArg(args, "location", intent.DefaultLocation)
		return widgets.Weather.Build(location, d.Weather.Current(ctx, location)), nil

	case intent.FuncStockPrice:
		symbol := upperArg(args, "symbol", intent.DefaultSymbol)
		return widgets.Stock.Build(symbol, d.Stocks.Quote(ctx, symbol)), nil

	case intent.FuncNews:
		query := stringArg(args, "query", intent.DefaultNewsQuery)
		category := stringArg(args, "category", "")
		limit := intArg(args, "limit", defaultNewsArticles, 1, maxNewsArticles)
		return widgets.News.Build(query, d.News.Headlines(ctx, query, category, limit)), nil

	case intent.FuncTime:
		timezone := stringArg(args, "timezone", intent.DefaultTimezone)
		location := stringArg(args, "location", "")
		return widgets.Clock.Build(timezone, location, d.Clock.Time(timezone, location)), nil

	case intent.FuncTopStocks:
		limit := intArg(args, "limit", defaultLimit, 1, maxTopStocks)
		return widgets.TopStocks.Build(d.Stocks.TopStocks(ctx, limit)), nil

	case intent.FuncAccounts:
		accounts := d.Banking.Accounts(ctx, stringArg(args, "account_type", ""))
		return widgets.BankingAccounts.Build(accounts), nil

	case intent.FuncTransactions:
		accountID := stringArg(args, "account_id", intent.DefaultAccountID)
		limit := intArg(args, "limit", defaultLimit, 1, maxTransactions)
		txType := stringArg(args, "transaction_type", "")
		return widgets.BankingTransactions.Build(accountID, d.Banking.Transactions(ctx, accountID, limit, txType)), nil

	case intent.FuncOffers:
		category := stringArg(args, "category", "")
		limit := intArg(args, "limit", defaultLimit, 1, maxOffers)
		return widgets.BankingOffers.Build(d.Banking.Offers(ctx, category, limit)), nil

	case intent.FuncPaymentLinks:
		paymentType := stringArg(args, "payment_type", defaultPaymentType)
		amount := floatPtrArg(args, "amount")
		recipient := stringPtrArg(args, "recipient")
		return widgets.BankingPayments.Build(paymentType, d.Banking.PaymentLinks(ctx, paymentType, amount, recipient)), nil

	case intent.FuncBankerContacts:
		department := stringArg(args, "department", "")
		specialization := stringArg(args, "specialization", "")
		return widgets.BankingBanker.Build(d.Banking.Bankers(ctx, department, specialization)), nil
	}
	log.Printf("[Dispatcher.Execute] unknown function %q", name)
	return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
}

// Generate builds a widget of the given type from request params.
func (d *Dispatcher) Generate(ctx context.Context, widgetType string, params map[string]any) (*widgets.Widget, error) {
	name, ok := widgetFunctions[widgetType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWidgetType, widgetType)
	}
	return d.Execute(ctx, name, params)
}

// Supports reports whether widgetType can be generated.
func Supports(widgetType string) bool {
	_, ok := widgetFunctions[widgetType]
	return ok
}
