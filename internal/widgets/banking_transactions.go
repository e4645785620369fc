package widgets

import (
	"errors"
	"math"
	"strings"

	"widgetchat/internal/providers"
)

type BankingTransactionsWidget struct{}

type transactionsData struct {
	Error              string                             `json:"error,omitempty"`
	AccountID          string                             `json:"account_id"`
	Transactions       []transactionEntry                 `json:"transactions"`
	TransactionsByDate map[string][]providers.Transaction `json:"transactions_by_date,omitempty"`
	Summary            transactionsSummary                `json:"summary"`
	Timestamp          string                             `json:"timestamp"`
	Mock               bool                               `json:"mock"`
}

type transactionEntry struct {
	ID              string  `json:"id"`
	Type            string  `json:"type"`
	Amount          float64 `json:"amount"`
	AmountFormatted string  `json:"amount_formatted"`
	IsDebit         bool    `json:"is_debit"`
	Description     string  `json:"description"`
	Merchant        string  `json:"merchant"`
	Date            string  `json:"date"`
	DateFormatted   string  `json:"date_formatted"`
	Status          string  `json:"status"`
	Category        string  `json:"category"`
	Reference       string  `json:"reference"`
}

type transactionsSummary struct {
	TotalTransactions       int     `json:"total_transactions"`
	AccountBalance          float64 `json:"account_balance"`
	AccountBalanceFormatted string  `json:"account_balance_formatted"`
	TotalDebits             float64 `json:"total_debits"`
	TotalDebitsFormatted    string  `json:"total_debits_formatted"`
	TotalCredits            float64 `json:"total_credits"`
	TotalCreditsFormatted   string  `json:"total_credits_formatted"`
}

func (BankingTransactionsWidget) Type() string { return "banking_transactions" }

func (BankingTransactionsWidget) DefaultConfig() map[string]any {
	return bankingConfig(map[string]any{
		"size":                     "large",
		"theme":                    "banking",
		"show_transaction_details": true,
		"show_merchant_info":       true,
		"show_categories":          true,
		"group_by_date":            true,
		"sort_by":                  "date",
		"limit":                    10,
	})
}

func (BankingTransactionsWidget) Validate(cfg map[string]any) bool {
	return hasKeys(cfg, "size", "theme", "limit") &&
		intInRange(cfg, "limit", 1, 100, true) &&
		oneOf(cfg, "sort_by", "date", "amount", "type")
}

func (BankingTransactionsWidget) Actions() []Action {
	return bankingActions(
		Action{Type: "filter", Label: "Filter Transactions", Icon: "filter_list", Description: "Filter by type, date, or amount"},
		Action{Type: "search", Label: "Search", Icon: "search", Description: "Search transactions"},
		Action{Type: "download", Label: "Download Statement", Icon: "download", Description: "Download transaction statement"},
		Action{Type: "categorize", Label: "Categorize", Icon: "category", Description: "Categorize transactions"},
	)
}

func (w BankingTransactionsWidget) Build(accountID string, raw *providers.Transactions) *Widget {
	return build(w, func() (*Widget, error) {
		if raw == nil {
			return nil, errors.New("no transactions data")
		}
		var debits, credits float64
		byDate := make(map[string][]providers.Transaction)
		entries := make([]transactionEntry, 0, len(raw.Transactions))
		for _, tx := range raw.Transactions {
			if tx.Amount < 0 {
				debits += tx.Amount
			} else if tx.Amount > 0 {
				credits += tx.Amount
			}
			day, _, _ := strings.Cut(tx.Date, "T")
			byDate[day] = append(byDate[day], tx)
			entries = append(entries, transactionEntry{
				ID:              tx.ID,
				Type:            tx.Type,
				Amount:          tx.Amount,
				AmountFormatted: formatCurrency(math.Abs(tx.Amount)),
				IsDebit:         tx.Amount < 0,
				Description:     tx.Description,
				Merchant:        tx.Merchant,
				Date:            tx.Date,
				DateFormatted:   formatDate(tx.Date),
				Status:          tx.Status,
				Category:        tx.Category,
				Reference:       tx.Reference,
			})
		}
		debits = math.Abs(debits)
		return &Widget{
			ID:    widgetID("transactions", accountID),
			Type:  w.Type(),
			Title: "Account Transactions",
			Data: transactionsData{
				AccountID:          raw.AccountID,
				Transactions:       entries,
				TransactionsByDate: byDate,
				Summary: transactionsSummary{
					TotalTransactions:       len(raw.Transactions),
					AccountBalance:          raw.AccountBalance,
					AccountBalanceFormatted: formatCurrency(raw.AccountBalance),
					TotalDebits:             debits,
					TotalDebitsFormatted:    formatCurrency(debits),
					TotalCredits:            credits,
					TotalCreditsFormatted:   formatCurrency(credits),
				},
				Timestamp: orTimestamp(raw.Timestamp),
				Mock:      raw.Mock,
			},
			Config:   w.DefaultConfig(),
			Actions:  w.Actions(),
			Metadata: newMetadata(bankingSource(raw.Mock)),
		}, nil
	})
}

func (w BankingTransactionsWidget) ErrorWidget(message string) *Widget {
	return errorEnvelope(w, "transactions", "Transactions Widget Error", transactionsData{
		Error:        message,
		Transactions: []transactionEntry{},
		Summary: transactionsSummary{
			AccountBalanceFormatted: "$0.00",
			TotalDebitsFormatted:    "$0.00",
			TotalCreditsFormatted:   "$0.00",
		},
		Timestamp: timestamp(),
	}, []Action{retryAction})
}
