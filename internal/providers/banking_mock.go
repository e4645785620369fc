package providers

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"
)

var AccountTypes = []string{"checking", "savings", "credit", "investment", "business"}

var mockAccounts = []Account{
	{ID: "ACC001", AccountNumber: "****1234", Type: "checking", Name: "Primary Checking", Balance: 2547.89, Currency: "USD", Status: "active", LastActivity: "2024-01-15T10:30:00Z"},
	{ID: "ACC002", AccountNumber: "****5678", Type: "savings", Name: "High Yield Savings", Balance: 15420.50, Currency: "USD", Status: "active", LastActivity: "2024-01-14T15:45:00Z"},
	{ID: "ACC003", AccountNumber: "****9012", Type: "credit", Name: "Premium Credit Card", Balance: -1250.75, Currency: "USD", Status: "active", LastActivity: "2024-01-15T09:15:00Z"},
	{ID: "ACC004", AccountNumber: "****3456", Type: "investment", Name: "Investment Portfolio", Balance: 45678.25, Currency: "USD", Status: "active", LastActivity: "2024-01-15T11:20:00Z"},
	{ID: "ACC005", AccountNumber: "****7890", Type: "business", Name: "Business Checking", Balance: 8750.00, Currency: "USD", Status: "active", LastActivity: "2024-01-15T08:30:00Z"},
}

func MockAccounts(accountType string) *Accounts {
	accounts := make([]Account, 0, len(mockAccounts))
	for _, a := range mockAccounts {
		if accountType == "" || a.Type == accountType {
			accounts = append(accounts, a)
		}
	}
	return &Accounts{
		Accounts:     accounts,
		TotalCount:   len(accounts),
		AccountTypes: AccountTypes,
		Timestamp:    nowISO(),
		Mock:         true,
	}
}

var (
	TransactionTypes   = []string{"debit", "credit", "transfer", "payment", "deposit", "withdrawal"}
	mockMerchants      = []string{"Amazon", "Starbucks", "Shell", "Walmart", "Netflix", "Spotify", "Apple", "Google"}
	mockTxStatuses     = []string{"completed", "pending", "processing"}
	mockTxCategories   = []string{"food", "transportation", "entertainment", "shopping", "utilities"}
	maxMockTransaction = 15
)

func isDebit(txType string) bool {
	switch txType {
	case "debit", "payment", "withdrawal":
		return true
	}
	return false
}

func pick(values []string) string {
	return values[rand.IntN(len(values))]
}

// MockTransactions generates up to min(limit, 15) random transactions, then
// keeps those matching txType, newest first.
func MockTransactions(accountID string, limit int, txType string) *Transactions {
	if limit <= 0 {
		limit = 10
	}
	n := min(limit, maxMockTransaction)
	now := time.Now()
	transactions := make([]Transaction, 0, n)
	for i := 0; i < n; i++ {
		kind := pick(TransactionTypes)
		amount := round(5+rand.Float64()*495, 2)
		if isDebit(kind) {
			amount = -amount
		}
		date := time.Date(now.Year(), now.Month(), 1+rand.IntN(15), now.Hour(), now.Minute(), now.Second(), 0, now.Location())
		tx := Transaction{
			ID:          fmt.Sprintf("TXN%d", 1000+i),
			AccountID:   accountID,
			Type:        kind,
			Amount:      amount,
			Description: fmt.Sprintf("%s - %s", pick(mockMerchants), strings.ToUpper(kind[:1])+kind[1:]),
			Merchant:    pick(mockMerchants),
			Date:        date.Format(time.RFC3339),
			Status:      pick(mockTxStatuses),
			Category:    pick(mockTxCategories),
			Reference:   fmt.Sprintf("REF%d", 100000+rand.IntN(900000)),
		}
		if txType == "" || tx.Type == txType {
			transactions = append(transactions, tx)
		}
	}
	sort.SliceStable(transactions, func(i, j int) bool { return transactions[i].Date > transactions[j].Date })
	return &Transactions{
		AccountID:      accountID,
		Transactions:   transactions,
		TotalCount:     len(transactions),
		AccountBalance: round(1000+rand.Float64()*49000, 2),
		Timestamp:      nowISO(),
		Mock:           true,
	}
}

var OfferCategories = []string{"savings", "credit", "investment", "loans", "mortgage"}

var mockOffers = []Offer{
	{ID: "OFFER001", Title: "High Yield Savings Bonus", Description: "Earn 5.25% APY on new savings deposits up to $10,000", Category: "savings", Type: "bonus", Value: "$525", ValidUntil: "2024-03-31T23:59:59Z", Requirements: "Minimum $1,000 deposit", Status: "active"},
	{ID: "OFFER002", Title: "Credit Card Cashback", Description: "Get 3% cashback on all dining and entertainment purchases", Category: "credit", Type: "cashback", Value: "3%", ValidUntil: "2024-12-31T23:59:59Z", Requirements: "Minimum $500 monthly spend", Status: "active"},
	{ID: "OFFER003", Title: "Investment Account Bonus", Description: "Receive $100 bonus when you open a new investment account", Category: "investment", Type: "bonus", Value: "$100", ValidUntil: "2024-06-30T23:59:59Z", Requirements: "Minimum $5,000 initial investment", Status: "active"},
	{ID: "OFFER004", Title: "Business Loan Special Rate", Description: "Special 4.5% APR on business loans up to $100,000", Category: "loans", Type: "rate_reduction", Value: "4.5% APR", ValidUntil: "2024-04-30T23:59:59Z", Requirements: "Existing business account holders", Status: "active"},
	{ID: "OFFER005", Title: "Mortgage Rate Lock", Description: "Lock in today's rates for 60 days on your mortgage application", Category: "mortgage", Type: "rate_lock", Value: "60 days", ValidUntil: "2024-05-15T23:59:59Z", Requirements: "Pre-approved mortgage application", Status: "active"},
}

func MockOffers(category string, limit int) *Offers {
	if limit <= 0 {
		limit = 10
	}
	filtered := make([]Offer, 0, len(mockOffers))
	for _, o := range mockOffers {
		if category == "" || o.Category == category {
			filtered = append(filtered, o)
		}
	}
	total := len(filtered)
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return &Offers{
		Offers:     filtered,
		TotalCount: total,
		Categories: OfferCategories,
		Timestamp:  nowISO(),
		Mock:       true,
	}
}

var PaymentTypes = []string{"self", "3rd_party", "bill_pay", "international"}

var mockPaymentMethods = map[string][]PaymentLink{
	"self": {
		{ID: "PAY001", Type: "internal_transfer", Name: "Transfer to Own Account", Description: "Transfer money between your own accounts", URL: "https://bank.example.com/transfer", Fee: 0, ProcessingTime: "Instant"},
	},
	"3rd_party": {
		{ID: "PAY002", Type: "wire_transfer", Name: "Wire Transfer", Description: "Send money to external bank accounts", URL: "https://bank.example.com/wire", Fee: 25, ProcessingTime: "1-2 business days"},
		{ID: "PAY003", Type: "ach_transfer", Name: "ACH Transfer", Description: "Electronic transfer to US bank accounts", URL: "https://bank.example.com/ach", Fee: 3, ProcessingTime: "1-3 business days"},
	},
	"bill_pay": {
		{ID: "PAY004", Type: "bill_payment", Name: "Bill Payment", Description: "Pay bills and utilities", URL: "https://bank.example.com/bills", Fee: 0, ProcessingTime: "1-2 business days"},
	},
	"international": {
		{ID: "PAY005", Type: "international_wire", Name: "International Wire", Description: "Send money internationally", URL: "https://bank.example.com/international", Fee: 45, ProcessingTime: "2-5 business days"},
	},
}

// MockPaymentLinks returns the catalog entries for paymentType; an unknown
// type yields an empty list.
func MockPaymentLinks(paymentType string, amount *float64, recipient *string) *PaymentLinks {
	links := append([]PaymentLink(nil), mockPaymentMethods[paymentType]...)
	if links == nil {
		links = []PaymentLink{}
	}
	return &PaymentLinks{
		PaymentLinks:     links,
		PaymentType:      paymentType,
		AvailableMethods: PaymentTypes,
		Amount:           amount,
		Recipient:        recipient,
		Timestamp:        nowISO(),
		Mock:             true,
	}
}

var (
	BankerDepartments     = []string{"personal_banking", "business_banking", "investment_services", "mortgage_services", "commercial_banking"}
	BankerSpecializations = []string{"wealth_management", "small_business", "retirement_planning", "first_time_buyers", "large_corporations"}
)

var mockBankers = []Banker{
	{ID: "BANKER001", Name: "Sarah Johnson", Title: "Senior Personal Banker", Department: "personal_banking", Specialization: "wealth_management", Email: "sarah.johnson@bank.com", Phone: "+1-555-0101", Availability: "Mon-Fri 9AM-5PM", Experience: "8 years", Languages: []string{"English", "Spanish"}},
	{ID: "BANKER002", Name: "Michael Chen", Title: "Business Banking Specialist", Department: "business_banking", Specialization: "small_business", Email: "michael.chen@bank.com", Phone: "+1-555-0102", Availability: "Mon-Fri 8AM-6PM", Experience: "12 years", Languages: []string{"English", "Mandarin"}},
	{ID: "BANKER003", Name: "Emily Rodriguez", Title: "Investment Advisor", Department: "investment_services", Specialization: "retirement_planning", Email: "emily.rodriguez@bank.com", Phone: "+1-555-0103", Availability: "Mon-Fri 9AM-4PM", Experience: "6 years", Languages: []string{"English", "Spanish"}},
	{ID: "BANKER004", Name: "David Kim", Title: "Mortgage Specialist", Department: "mortgage_services", Specialization: "first_time_buyers", Email: "david.kim@bank.com", Phone: "+1-555-0104", Availability: "Mon-Sat 9AM-7PM", Experience: "10 years", Languages: []string{"English", "Korean"}},
	{ID: "BANKER005", Name: "Lisa Thompson", Title: "Commercial Banking Manager", Department: "commercial_banking", Specialization: "large_corporations", Email: "lisa.thompson@bank.com", Phone: "+1-555-0105", Availability: "Mon-Fri 8AM-5PM", Experience: "15 years", Languages: []string{"English"}},
}

func MockBankers(department, specialization string) *Bankers {
	bankers := make([]Banker, 0, len(mockBankers))
	for _, b := range mockBankers {
		if department != "" && b.Department != department {
			continue
		}
		if specialization != "" && b.Specialization != specialization {
			continue
		}
		bankers = append(bankers, b)
	}
	return &Bankers{
		Bankers:         bankers,
		TotalCount:      len(bankers),
		Departments:     BankerDepartments,
		Specializations: BankerSpecializations,
		Timestamp:       nowISO(),
		Mock:            true,
	}
}
