package intent

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	DefaultLocation  = "New York"
	DefaultSymbol    = "AAPL"
	DefaultNewsQuery = "technology"
	DefaultTimezone  = "UTC"
	DefaultAccountID = "ACC001"
)

// keywordMap pairs a canonical value with the phrases that select it. Entries
// are checked in order and the first hit wins.
type keywordMap []struct {
	value    string
	keywords []string
}

func (m keywordMap) match(msg string) string {
	lower := strings.ToLower(msg)
	for _, e := range m {
		if containsAny(lower, e.keywords) {
			return e.value
		}
	}
	return ""
}

var locationIndicators = map[string]bool{"in": true, "at": true, "for": true, "of": true}

// Capitalized words that open a sentence rather than name a place.
var notLocations = map[string]bool{
	"what": true, "what's": true, "whats": true, "how": true, "how's": true,
	"show": true, "tell": true, "give": true, "get": true, "please": true,
	"can": true, "could": true, "would": true, "will": true, "the": true,
	"weather": true, "temperature": true, "forecast": true, "current": true,
	"is": true, "it": true, "any": true, "today": true,
}

var titleCaser = cases.Title(language.English)

func trimPunct(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ExtractLocation returns the word after in/at/for/of, else the first
// capitalized word longer than two characters, else DefaultLocation.
func ExtractLocation(msg string) string {
	words := strings.Fields(msg)
	for i, w := range words {
		if !locationIndicators[strings.ToLower(w)] || i+1 >= len(words) {
			continue
		}
		if i+2 < len(words) {
			pair := strings.ToLower(trimPunct(words[i+1]) + " " + trimPunct(words[i+2]))
			for _, tz := range timezones {
				if tz.city == pair {
					return tz.name
				}
			}
		}
		if next := trimPunct(words[i+1]); next != "" {
			return titleCaser.String(next)
		}
	}
	for _, w := range words {
		w = trimPunct(w)
		if len(w) <= 2 || notLocations[strings.ToLower(w)] {
			continue
		}
		if r := []rune(w)[0]; unicode.IsUpper(r) {
			return w
		}
	}
	return DefaultLocation
}

var symbolRe = regexp.MustCompile(`\b[A-Z]{3,5}\b`)

// Words that are all-caps in ordinary chat but never tickers.
var notSymbols = map[string]bool{"THE": true, "AND": true, "FOR": true, "WHAT": true, "SHOW": true, "USD": true, "ACC": true}

var companySymbols = keywordMap{
	{"AAPL", []string{"apple"}},
	{"GOOGL", []string{"google", "alphabet"}},
	{"MSFT", []string{"microsoft"}},
	{"AMZN", []string{"amazon"}},
	{"TSLA", []string{"tesla"}},
	{"META", []string{"meta", "facebook"}},
	{"NVDA", []string{"nvidia"}},
	{"NFLX", []string{"netflix"}},
}

// ExtractStockSymbol returns the first 3-5 letter uppercase token, else the
// ticker of a known company name, else DefaultSymbol.
func ExtractStockSymbol(msg string) string {
	for _, s := range symbolRe.FindAllString(msg, -1) {
		if !notSymbols[s] {
			return s
		}
	}
	if s := companySymbols.match(msg); s != "" {
		return s
	}
	return DefaultSymbol
}

var newsStopWords = map[string]bool{
	"news": true, "latest": true, "about": true, "on": true, "the": true,
	"for": true, "get": true, "show": true, "me": true, "headlines": true,
}

// ExtractNewsQuery drops stop words and keeps the first three remaining words.
func ExtractNewsQuery(msg string) string {
	var words []string
	for _, w := range strings.Fields(msg) {
		w = trimPunct(w)
		if w == "" || newsStopWords[strings.ToLower(w)] {
			continue
		}
		words = append(words, w)
		if len(words) == 3 {
			break
		}
	}
	if len(words) == 0 {
		return DefaultNewsQuery
	}
	return strings.Join(words, " ")
}

var timezones = []struct {
	city, name, zone string
}{
	{"new york", "New York", "America/New_York"},
	{"los angeles", "Los Angeles", "America/Los_Angeles"},
	{"chicago", "Chicago", "America/Chicago"},
	{"london", "London", "Europe/London"},
	{"paris", "Paris", "Europe/Paris"},
	{"berlin", "Berlin", "Europe/Berlin"},
	{"tokyo", "Tokyo", "Asia/Tokyo"},
	{"singapore", "Singapore", "Asia/Singapore"},
	{"sydney", "Sydney", "Australia/Sydney"},
	{"utc", "", "UTC"},
}

// ExtractTimezone maps a city named in msg to its IANA zone, else
// DefaultTimezone.
func ExtractTimezone(msg string) string {
	lower := strings.ToLower(msg)
	for _, tz := range timezones {
		if strings.Contains(lower, tz.city) {
			return tz.zone
		}
	}
	return DefaultTimezone
}

func timezoneCity(msg string) string {
	lower := strings.ToLower(msg)
	for _, tz := range timezones {
		if strings.Contains(lower, tz.city) {
			return tz.name
		}
	}
	return ""
}

var numberRe = regexp.MustCompile(`\b(\d+)\b`)

// ExtractLimit returns the first integer in msg clamped to [lo, hi], else def.
func ExtractLimit(msg string, lo, hi, def int) int {
	m := numberRe.FindStringSubmatch(msg)
	if m == nil {
		return def
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return def
	}
	return min(max(n, lo), hi)
}

var accountTypes = keywordMap{
	{"checking", []string{"checking"}},
	{"savings", []string{"savings"}},
	{"credit", []string{"credit"}},
	{"investment", []string{"investment", "portfolio"}},
	{"business", []string{"business"}},
}

func ExtractAccountType(msg string) string { return accountTypes.match(msg) }

var (
	accountIDRe      = regexp.MustCompile(`(?i)\bACC\d+\b`)
	accountIDWordRe  = regexp.MustCompile(`(?i)\baccount\s+id\s+(\w+)`)
	accountNumericRe = regexp.MustCompile(`(?i)\baccount\s+(\w*\d\w*)`)
)

// ExtractAccountID finds "ACC123", "account id X" or "account X1" in msg,
// else DefaultAccountID.
func ExtractAccountID(msg string) string {
	if m := accountIDRe.FindString(msg); m != "" {
		return strings.ToUpper(m)
	}
	if m := accountIDWordRe.FindStringSubmatch(msg); m != nil {
		return m[1]
	}
	if m := accountNumericRe.FindStringSubmatch(msg); m != nil {
		return m[1]
	}
	return DefaultAccountID
}

var transactionTypes = keywordMap{
	{"debit", []string{"debit"}},
	{"credit", []string{"credit"}},
	{"transfer", []string{"transfer"}},
	{"payment", []string{"bill payment"}},
	{"deposit", []string{"deposit"}},
	{"withdrawal", []string{"withdrawal"}},
}

func ExtractTransactionType(msg string) string { return transactionTypes.match(msg) }

var offerCategories = keywordMap{
	{"savings", []string{"savings"}},
	{"credit", []string{"credit"}},
	{"investment", []string{"investment", "portfolio"}},
	{"mortgage", []string{"mortgage", "home loan"}},
	{"loans", []string{"loan"}},
}

func ExtractOfferCategory(msg string) string { return offerCategories.match(msg) }

var bankerDepartments = keywordMap{
	{"personal_banking", []string{"personal"}},
	{"business_banking", []string{"business"}},
	{"investment_services", []string{"investment"}},
	{"mortgage_services", []string{"mortgage"}},
	{"commercial_banking", []string{"commercial"}},
}

func ExtractBankerDepartment(msg string) string { return bankerDepartments.match(msg) }

var bankerSpecializations = keywordMap{
	{"wealth_management", []string{"wealth"}},
	{"small_business", []string{"small business"}},
	{"retirement_planning", []string{"retirement"}},
	{"first_time_buyers", []string{"first time", "first-time"}},
	{"large_corporations", []string{"corporate", "large corporation", "enterprise"}},
}

func ExtractBankerSpecialization(msg string) string { return bankerSpecializations.match(msg) }
