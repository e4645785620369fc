package widgets

import (
	"errors"

	"widgetchat/internal/providers"
)

type BankingAccountsWidget struct{}

type accountsData struct {
	Error          string                         `json:"error,omitempty"`
	Accounts       []accountEntry                 `json:"accounts"`
	AccountsByType map[string][]providers.Account `json:"accounts_by_type,omitempty"`
	Summary        accountsSummary                `json:"summary"`
	Timestamp      string                         `json:"timestamp"`
	Mock           bool                           `json:"mock"`
}

type accountEntry struct {
	ID                    string  `json:"id"`
	AccountNumber         string  `json:"account_number"`
	Name                  string  `json:"name"`
	Type                  string  `json:"type"`
	Balance               float64 `json:"balance"`
	BalanceFormatted      string  `json:"balance_formatted"`
	Currency              string  `json:"currency"`
	Status                string  `json:"status"`
	LastActivity          string  `json:"last_activity"`
	LastActivityFormatted string  `json:"last_activity_formatted"`
	IsPositive            bool    `json:"is_positive"`
}

type accountsSummary struct {
	TotalAccounts         int      `json:"total_accounts"`
	ActiveAccounts        int      `json:"active_accounts"`
	TotalBalance          float64  `json:"total_balance"`
	TotalBalanceFormatted string   `json:"total_balance_formatted"`
	AccountTypes          []string `json:"account_types"`
}

func (BankingAccountsWidget) Type() string { return "banking_accounts" }

func (BankingAccountsWidget) DefaultConfig() map[string]any {
	return bankingConfig(map[string]any{
		"size":               "large",
		"theme":              "banking",
		"show_account_types": true,
		"show_balances":      true,
		"group_by_type":      true,
		"sort_by":            "balance",
	})
}

func (BankingAccountsWidget) Validate(cfg map[string]any) bool {
	return hasKeys(cfg, "size", "theme", "show_balances") &&
		oneOf(cfg, "size", sizeOptions...) &&
		oneOf(cfg, "sort_by", "balance", "name", "last_activity")
}

func (BankingAccountsWidget) Actions() []Action {
	return bankingActions(
		Action{Type: "filter", Label: "Filter by Type", Icon: "filter_list", Description: "Filter accounts by type"},
		Action{Type: "sort", Label: "Sort Accounts", Icon: "sort", Description: "Change sorting order"},
		Action{Type: "add_account", Label: "Add Account", Icon: "add", Description: "Add new account"},
	)
}

func (w BankingAccountsWidget) Build(raw *providers.Accounts) *Widget {
	return build(w, func() (*Widget, error) {
		if raw == nil {
			return nil, errors.New("no accounts data")
		}
		var (
			total  float64
			active int
			types  []string
		)
		byType := make(map[string][]providers.Account)
		entries := make([]accountEntry, 0, len(raw.Accounts))
		for _, a := range raw.Accounts {
			total += a.Balance
			if a.Status == "active" {
				active++
			}
			kind := a.Type
			if kind == "" {
				kind = "other"
			}
			if _, ok := byType[kind]; !ok {
				types = append(types, kind)
			}
			byType[kind] = append(byType[kind], a)

			currency := a.Currency
			if currency == "" {
				currency = "USD"
			}
			status := a.Status
			if status == "" {
				status = "unknown"
			}
			entries = append(entries, accountEntry{
				ID:                    a.ID,
				AccountNumber:         a.AccountNumber,
				Name:                  a.Name,
				Type:                  a.Type,
				Balance:               a.Balance,
				BalanceFormatted:      formatCurrency(a.Balance),
				Currency:              currency,
				Status:                status,
				LastActivity:          a.LastActivity,
				LastActivityFormatted: formatDate(a.LastActivity),
				IsPositive:            a.Balance >= 0,
			})
		}
		if types == nil {
			types = []string{}
		}
		return &Widget{
			ID:    widgetID("accounts"),
			Type:  w.Type(),
			Title: "My Accounts",
			Data: accountsData{
				Accounts:       entries,
				AccountsByType: byType,
				Summary: accountsSummary{
					TotalAccounts:         len(raw.Accounts),
					ActiveAccounts:        active,
					TotalBalance:          total,
					TotalBalanceFormatted: formatCurrency(total),
					AccountTypes:          types,
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

func (w BankingAccountsWidget) ErrorWidget(message string) *Widget {
	return errorEnvelope(w, "accounts", "Accounts Widget Error", accountsData{
		Error:    message,
		Accounts: []accountEntry{},
		Summary: accountsSummary{
			TotalBalanceFormatted: "$0.00",
			AccountTypes:          []string{},
		},
		Timestamp: timestamp(),
	}, []Action{retryAction})
}
