package providers

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

type Account struct {
	ID            string  `json:"id"`
	AccountNumber string  `json:"account_number"`
	Type          string  `json:"type"`
	Name          string  `json:"name"`
	Balance       float64 `json:"balance"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	LastActivity  string  `json:"last_activity"`
}

type Accounts struct {
	Accounts     []Account `json:"accounts"`
	TotalCount   int       `json:"total_count"`
	AccountTypes []string  `json:"account_types"`
	Timestamp    string    `json:"timestamp"`
	Mock         bool      `json:"mock"`
}

type Transaction struct {
	ID          string  `json:"id"`
	AccountID   string  `json:"account_id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Merchant    string  `json:"merchant"`
	Date        string  `json:"date"`
	Status      string  `json:"status"`
	Category    string  `json:"category"`
	Reference   string  `json:"reference"`
}

type Transactions struct {
	AccountID      string        `json:"account_id"`
	Transactions   []Transaction `json:"transactions"`
	TotalCount     int           `json:"total_count"`
	AccountBalance float64       `json:"account_balance"`
	Timestamp      string        `json:"timestamp"`
	Mock           bool          `json:"mock"`
}

type Offer struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Type         string `json:"type"`
	Value        string `json:"value"`
	ValidUntil   string `json:"valid_until"`
	Requirements string `json:"requirements"`
	Status       string `json:"status"`
}

type Offers struct {
	Offers     []Offer  `json:"offers"`
	TotalCount int      `json:"total_count"`
	Categories []string `json:"categories"`
	Timestamp  string   `json:"timestamp"`
	Mock       bool     `json:"mock"`
}

type PaymentLink struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	URL            string  `json:"url"`
	Fee            float64 `json:"fee"`
	ProcessingTime string  `json:"processing_time"`
}

type PaymentLinks struct {
	PaymentLinks     []PaymentLink `json:"payment_links"`
	PaymentType      string        `json:"payment_type"`
	AvailableMethods []string      `json:"available_methods"`
	Amount           *float64      `json:"amount"`
	Recipient        *string       `json:"recipient"`
	Timestamp        string        `json:"timestamp"`
	Mock             bool          `json:"mock"`
}

type Banker struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Title          string   `json:"title"`
	Department     string   `json:"department"`
	Specialization string   `json:"specialization"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Availability   string   `json:"availability"`
	Experience     string   `json:"experience"`
	Languages      []string `json:"languages"`
}

type Bankers struct {
	Bankers         []Banker `json:"bankers"`
	TotalCount      int      `json:"total_count"`
	Departments     []string `json:"departments"`
	Specializations []string `json:"specializations"`
	Timestamp       string   `json:"timestamp"`
	Mock            bool     `json:"mock"`
}

// BankingClient talks to the core banking REST API. With MockEnabled set,
// or when a call fails, it serves the built-in catalogs.
type BankingClient struct {
	BaseURL     string
	MockEnabled bool
	Client      *http.Client
}

func NewBankingClient(baseURL string, mockEnabled bool, client *http.Client) *BankingClient {
	return &BankingClient{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		MockEnabled: mockEnabled,
		Client:      client,
	}
}

func (c *BankingClient) useMock() bool {
	return c == nil || c.MockEnabled || c.BaseURL == ""
}

func (c *BankingClient) Accounts(ctx context.Context, accountType string) *Accounts {
	if c.useMock() {
		return MockAccounts(accountType)
	}
	q := url.Values{}
	if accountType != "" {
		q.Set("type", accountType)
	}
	var data Accounts
	if err := getJSON(ctx, c.Client, c.BaseURL+"/accounts", q, &data); err != nil {
		log.Printf("[BankingClient.Accounts] %v", err)
		return MockAccounts(accountType)
	}
	data.Timestamp = nowISO()
	data.Mock = false
	return &data
}

func (c *BankingClient) Transactions(ctx context.Context, accountID string, limit int, txType string) *Transactions {
	if c.useMock() {
		return MockTransactions(accountID, limit, txType)
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if txType != "" {
		q.Set("type", txType)
	}
	var data Transactions
	endpoint := c.BaseURL + "/accounts/" + url.PathEscape(accountID) + "/transactions"
	if err := getJSON(ctx, c.Client, endpoint, q, &data); err != nil {
		log.Printf("[BankingClient.Transactions] %v", err)
		return MockTransactions(accountID, limit, txType)
	}
	data.AccountID = accountID
	data.Timestamp = nowISO()
	data.Mock = false
	return &data
}

func (c *BankingClient) Offers(ctx context.Context, category string, limit int) *Offers {
	if c.useMock() {
		return MockOffers(category, limit)
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if category != "" {
		q.Set("category", category)
	}
	var data Offers
	if err := getJSON(ctx, c.Client, c.BaseURL+"/offers", q, &data); err != nil {
		log.Printf("[BankingClient.Offers] %v", err)
		return MockOffers(category, limit)
	}
	data.Timestamp = nowISO()
	data.Mock = false
	return &data
}

func (c *BankingClient) PaymentLinks(ctx context.Context, paymentType string, amount *float64, recipient *string) *PaymentLinks {
	if c.useMock() {
		return MockPaymentLinks(paymentType, amount, recipient)
	}
	q := url.Values{}
	q.Set("type", paymentType)
	if amount != nil {
		q.Set("amount", strconv.FormatFloat(*amount, 'f', 2, 64))
	}
	if recipient != nil {
		q.Set("recipient", *recipient)
	}
	var data struct {
		Links            []PaymentLink `json:"links"`
		AvailableMethods []string      `json:"available_methods"`
	}
	if err := getJSON(ctx, c.Client, c.BaseURL+"/payments/links", q, &data); err != nil {
		log.Printf("[BankingClient.PaymentLinks] %v", err)
		return MockPaymentLinks(paymentType, amount, recipient)
	}
	return &PaymentLinks{
		PaymentLinks:     data.Links,
		PaymentType:      paymentType,
		AvailableMethods: data.AvailableMethods,
		Amount:           amount,
		Recipient:        recipient,
		Timestamp:        nowISO(),
	}
}

func (c *BankingClient) Bankers(ctx context.Context, department, specialization string) *Bankers {
	if c.useMock() {
		return MockBankers(department, specialization)
	}
	q := url.Values{}
	if department != "" {
		q.Set("department", department)
	}
	if specialization != "" {
		q.Set("specialization", specialization)
	}
	var data Bankers
	if err := getJSON(ctx, c.Client, c.BaseURL+"/bankers", q, &data); err != nil {
		log.Printf("[BankingClient.Bankers] %v", err)
		return MockBankers(department, specialization)
	}
	data.Timestamp = nowISO()
	data.Mock = false
	return &data
}
