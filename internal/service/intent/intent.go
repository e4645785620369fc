package intent

import (
	"strings"
)

// Function names understood by the dispatcher.
const (
	FuncWeather        = "get_weather"
	FuncStockPrice     = "get_stock_price"
	FuncNews           = "get_news"
	FuncTime           = "get_time"
	FuncTopStocks      = "get_top_stocks"
	FuncAccounts       = "get_banking_accounts"
	FuncTransactions   = "get_account_transactions"
	FuncOffers         = "get_banking_offers"
	FuncPaymentLinks   = "get_payment_links"
	FuncBankerContacts = "get_banker_contacts"
)

// Call is a function invocation recovered from free text.
type Call struct {
	Name string
	Args map[string]any
}

var widgetKeywords = []string{
	"weather", "temperature", "forecast", "rain", "sunny",
	"stock", "price", "trading", "market", "shares",
	"news", "latest", "headlines", "breaking",
	"time", "clock", "timezone",
	"top stocks", "most traded", "active stocks", "leaderboard", "top 10",
	"account", "banking", "bank", "balance", "checking", "savings", "credit",
	"transaction", "payment", "transfer", "deposit", "withdrawal",
	"offer", "promotion", "bonus", "cashback",
	"banker", "contact", "advisor", "specialist", "manager",
}

var (
	weatherKeywords     = []string{"weather", "temperature", "forecast"}
	topStocksKeywords   = []string{"top stocks", "most traded", "active stocks", "leaderboard", "top 10"}
	stockKeywords       = []string{"stock", "price", "trading"}
	newsKeywords        = []string{"news", "latest", "headlines"}
	timeKeywords        = []string{"time", "clock", "timezone"}
	accountKeywords     = []string{"account", "banking", "balance"}
	transactionKeywords = []string{"transaction", "payment"}
	offerKeywords       = []string{"offer", "promotion", "bonus", "cashback"}
	bankerKeywords      = []string{"banker", "contact", "advisor", "specialist"}
)

func containsAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// ShouldCreateWidget reports whether msg mentions anything a widget can show.
func ShouldCreateWidget(msg string) bool {
	return containsAny(strings.ToLower(msg), widgetKeywords)
}

// Detect maps msg to the first matching function, checked in order: weather,
// top stocks, stock, news, time, accounts, transactions, offers, bankers.
func Detect(msg string) (Call, bool) {
	lower := strings.ToLower(msg)
	switch {
	case containsAny(lower, weatherKeywords):
		return Call{Name: FuncWeather, Args: map[string]any{"location": ExtractLocation(msg)}}, true

	case containsAny(lower, topStocksKeywords):
		return Call{Name: FuncTopStocks, Args: map[string]any{"limit": ExtractLimit(msg, 1, 20, 10)}}, true

	case containsAny(lower, stockKeywords):
		return Call{Name: FuncStockPrice, Args: map[string]any{"symbol": ExtractStockSymbol(msg)}}, true

	case containsAny(lower, newsKeywords):
		return Call{Name: FuncNews, Args: map[string]any{"query": ExtractNewsQuery(msg)}}, true

	case containsAny(lower, timeKeywords):
		args := map[string]any{"timezone": ExtractTimezone(msg)}
		if city := timezoneCity(msg); city != "" {
			args["location"] = city
		}
		return Call{Name: FuncTime, Args: args}, true

	case containsAny(lower, accountKeywords):
		args := map[string]any{}
		setIf(args, "account_type", ExtractAccountType(msg))
		return Call{Name: FuncAccounts, Args: args}, true

	case containsAny(lower, transactionKeywords):
		args := map[string]any{
			"account_id": ExtractAccountID(msg),
			"limit":      ExtractLimit(msg, 1, 50, 10),
		}
		setIf(args, "transaction_type", ExtractTransactionType(msg))
		return Call{Name: FuncTransactions, Args: args}, true

	case containsAny(lower, offerKeywords):
		args := map[string]any{"limit": ExtractLimit(msg, 1, 20, 10)}
		setIf(args, "category", ExtractOfferCategory(msg))
		return Call{Name: FuncOffers, Args: args}, true

	case containsAny(lower, bankerKeywords):
		args := map[string]any{}
		setIf(args, "department", ExtractBankerDepartment(msg))
		setIf(args, "specialization", ExtractBankerSpecialization(msg))
		return Call{Name: FuncBankerContacts, Args: args}, true
	}
	return Call{}, false
}

func setIf(args map[string]any, key, value string) {
	if value != "" {
		args[key] = value
	}
}
