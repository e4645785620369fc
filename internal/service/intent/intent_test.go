package intent

import "testing"

func TestExtractLocation(t *testing.T) {
	cases := map[string]string{
		"weather in Paris":                 "Paris",
		"what's the weather in paris?":     "Paris",
		"temperature at london today":      "London",
		"What is the weather in New York?": "New York",
		"Tokyo weather please":             "Tokyo",
		"weather":                          DefaultLocation,
		"What's the weather like?":         DefaultLocation,
		"how hot is it":                    DefaultLocation,
	}
	for msg, want := range cases {
		if got := ExtractLocation(msg); got != want {
			t.Fatalf("ExtractLocation(%q) = %q, want %q", msg, got, want)
		}
	}
}

func TestExtractStockSymbol(t *testing.T) {
	cases := map[string]string{
		"What is the MSFT price": "MSFT",
		"show me tesla stock":    "TSLA",
		"how is nvidia trading":  "NVDA",
		"stock price please":     DefaultSymbol,
		"SHOW ME THE NFLX PRICE": "NFLX",
	}
	for msg, want := range cases {
		if got := ExtractStockSymbol(msg); got != want {
			t.Fatalf("ExtractStockSymbol(%q) = %q, want %q", msg, got, want)
		}
	}
}

func TestExtractNewsQuery(t *testing.T) {
	if got := ExtractNewsQuery("show me the latest news about electric cars today"); got != "electric cars today" {
		t.Fatalf("unexpected query %q", got)
	}
	if got := ExtractNewsQuery("latest news"); got != DefaultNewsQuery {
		t.Fatalf("expected default query, got %q", got)
	}
}

func TestExtractTimezone(t *testing.T) {
	if got := ExtractTimezone("what time is it in Tokyo"); got != "Asia/Tokyo" {
		t.Fatalf("unexpected zone %q", got)
	}
	if got := ExtractTimezone("what time is it"); got != DefaultTimezone {
		t.Fatalf("expected default zone, got %q", got)
	}
}

func TestExtractLimit(t *testing.T) {
	cases := []struct {
		msg  string
		want int
	}{
		{"show top 5 stocks", 5},
		{"show top 50 stocks", 20},
		{"show top 0 stocks", 1},
		{"show top stocks", 10},
	}
	for _, tc := range cases {
		if got := ExtractLimit(tc.msg, 1, 20, 10); got != tc.want {
			t.Fatalf("ExtractLimit(%q) = %d, want %d", tc.msg, got, tc.want)
		}
	}
}

func TestExtractAccountID(t *testing.T) {
	cases := map[string]string{
		"transactions for acc002":      "ACC002",
		"payments on account id XYZ9":  "XYZ9",
		"transactions on account 4417": "4417",
		"show my account transactions": DefaultAccountID,
	}
	for msg, want := range cases {
		if got := ExtractAccountID(msg); got != want {
			t.Fatalf("ExtractAccountID(%q) = %q, want %q", msg, got, want)
		}
	}
}

func TestKeywordExtractors(t *testing.T) {
	if got := ExtractAccountType("show my savings account"); got != "savings" {
		t.Fatalf("account type: %q", got)
	}
	if got := ExtractAccountType("show my accounts"); got != "" {
		t.Fatalf("expected no account type, got %q", got)
	}
	if got := ExtractTransactionType("recent deposit transactions"); got != "deposit" {
		t.Fatalf("transaction type: %q", got)
	}
	if got := ExtractOfferCategory("any home loan offers"); got != "mortgage" {
		t.Fatalf("offer category: %q", got)
	}
	if got := ExtractOfferCategory("loan offers"); got != "loans" {
		t.Fatalf("offer category: %q", got)
	}
	if got := ExtractBankerDepartment("contact a commercial banker"); got != "commercial_banking" {
		t.Fatalf("department: %q", got)
	}
	if got := ExtractBankerSpecialization("an advisor for retirement"); got != "retirement_planning" {
		t.Fatalf("specialization: %q", got)
	}
}

func TestShouldCreateWidget(t *testing.T) {
	if !ShouldCreateWidget("Is it going to rain?") {
		t.Fatalf("expected weather keyword to match")
	}
	if ShouldCreateWidget("hello there") {
		t.Fatalf("greeting should not create a widget")
	}
}

func TestDetect(t *testing.T) {
	cases := []struct {
		msg  string
		name string
		key  string
		want any
	}{
		{"weather in Paris", FuncWeather, "location", "Paris"},
		{"what's the forecast", FuncWeather, "location", DefaultLocation},
		{"show the top 10 stocks", FuncTopStocks, "limit", 10},
		{"most traded today", FuncTopStocks, "limit", 10},
		{"AMZN stock price", FuncStockPrice, "symbol", "AMZN"},
		{"latest headlines on climate", FuncNews, "query", "climate"},
		{"what time is it in London", FuncTime, "timezone", "Europe/London"},
		{"show my checking account balance", FuncAccounts, "account_type", "checking"},
		{"list 5 transactions for ACC003", FuncTransactions, "account_id", "ACC003"},
		{"any cashback offers", FuncOffers, "limit", 10},
		{"find a wealth advisor", FuncBankerContacts, "specialization", "wealth_management"},
	}
	for _, tc := range cases {
		call, ok := Detect(tc.msg)
		if !ok {
			t.Fatalf("Detect(%q): no match", tc.msg)
		}
		if call.Name != tc.name {
			t.Fatalf("Detect(%q) = %s, want %s", tc.msg, call.Name, tc.name)
		}
		if call.Args[tc.key] != tc.want {
			t.Fatalf("Detect(%q) arg %s = %v, want %v", tc.msg, tc.key, call.Args[tc.key], tc.want)
		}
	}

	call, _ := Detect("what time is it in London")
	if call.Args["location"] != "London" {
		t.Fatalf("expected clock location, got %v", call.Args["location"])
	}
	call, _ = Detect("list 5 transactions for ACC003")
	if call.Args["limit"] != 5 {
		t.Fatalf("expected limit 5, got %v", call.Args["limit"])
	}
	if _, ok := Detect("hello there"); ok {
		t.Fatalf("greeting should not match")
	}
}
