package providers

import (
	"context"
	"net/http"
	"testing"
)

func TestMockAccountsFilter(t *testing.T) {
	all := MockAccounts("")
	if all.TotalCount != 5 || !all.Mock {
		t.Fatalf("expected 5 mock accounts, got %+v", all)
	}
	savings := MockAccounts("savings")
	if savings.TotalCount != 1 || savings.Accounts[0].ID != "ACC002" {
		t.Fatalf("unexpected savings filter: %+v", savings.Accounts)
	}
	if got := MockAccounts("crypto"); got.TotalCount != 0 || got.Accounts == nil {
		t.Fatalf("expected empty, non-nil list for unknown type")
	}
}

func TestMockTransactions(t *testing.T) {
	got := MockTransactions("ACC001", 50, "")
	if len(got.Transactions) != 15 {
		t.Fatalf("expected cap of 15 transactions, got %d", len(got.Transactions))
	}
	for i, tx := range got.Transactions {
		if tx.AccountID != "ACC001" {
			t.Fatalf("transaction %d has account %q", i, tx.AccountID)
		}
		if isDebit(tx.Type) && tx.Amount >= 0 {
			t.Fatalf("debit transaction %s should be negative", tx.ID)
		}
		if i > 0 && got.Transactions[i-1].Date < tx.Date {
			t.Fatalf("transactions not sorted newest first")
		}
	}
	filtered := MockTransactions("ACC001", 15, "deposit")
	for _, tx := range filtered.Transactions {
		if tx.Type != "deposit" {
			t.Fatalf("unexpected type %q in filtered result", tx.Type)
		}
	}
}

func TestMockOffersLimitAndCategory(t *testing.T) {
	got := MockOffers("", 2)
	if len(got.Offers) != 2 || got.TotalCount != 5 {
		t.Fatalf("unexpected offers: %d of %d", len(got.Offers), got.TotalCount)
	}
	if got := MockOffers("mortgage", 10); len(got.Offers) != 1 || got.Offers[0].ID != "OFFER005" {
		t.Fatalf("unexpected mortgage offers: %+v", got.Offers)
	}
}

func TestMockPaymentLinks(t *testing.T) {
	amount := 500.0
	got := MockPaymentLinks("3rd_party", &amount, nil)
	if len(got.PaymentLinks) != 2 || got.PaymentLinks[0].ID != "PAY002" {
		t.Fatalf("unexpected 3rd party links: %+v", got.PaymentLinks)
	}
	if got.Amount == nil || *got.Amount != 500 {
		t.Fatalf("amount not carried through")
	}
	if got := MockPaymentLinks("barter", nil, nil); got.PaymentLinks == nil || len(got.PaymentLinks) != 0 {
		t.Fatalf("expected empty list for unknown payment type")
	}
}

func TestMockBankersFilter(t *testing.T) {
	if got := MockBankers("", ""); got.TotalCount != 5 {
		t.Fatalf("expected 5 bankers, got %d", got.TotalCount)
	}
	got := MockBankers("business_banking", "small_business")
	if got.TotalCount != 1 || got.Bankers[0].Name != "Michael Chen" {
		t.Fatalf("unexpected banker filter: %+v", got.Bankers)
	}
	if got := MockBankers("business_banking", "wealth_management"); got.TotalCount != 0 {
		t.Fatalf("expected no match for mismatched filters")
	}
}

func TestBankingClientLiveAndFallback(t *testing.T) {
	srv := newJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/accounts":
			if r.URL.Query().Get("type") != "checking" {
				t.Errorf("missing type filter")
			}
			writeJSON(t, w, map[string]any{
				"accounts":      []map[string]any{{"id": "LIVE1", "type": "checking", "balance": 10}},
				"total_count":   1,
				"account_types": []string{"checking"},
			})
		default:
			http.NotFound(w, r)
		}
	})
	client := NewBankingClient(srv.URL+"/", false, srv.Client())

	accounts := client.Accounts(context.Background(), "checking")
	if accounts.Mock || len(accounts.Accounts) != 1 || accounts.Accounts[0].ID != "LIVE1" {
		t.Fatalf("expected live accounts, got %+v", accounts)
	}
	if offers := client.Offers(context.Background(), "", 5); !offers.Mock {
		t.Fatalf("expected mock offers after upstream 404")
	}

	mocked := NewBankingClient(srv.URL, true, srv.Client())
	if got := mocked.Accounts(context.Background(), ""); !got.Mock {
		t.Fatalf("mock mode should not call upstream")
	}
}
