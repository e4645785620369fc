package widgets

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"widgetchat/internal/providers"
)

type BankingOffersWidget struct{}

type offersData struct {
	Error            string                       `json:"error,omitempty"`
	Offers           []offerEntry                 `json:"offers"`
	OffersByCategory map[string][]providers.Offer `json:"offers_by_category,omitempty"`
	Summary          offersSummary                `json:"summary"`
	Timestamp        string                       `json:"timestamp"`
	Mock             bool                         `json:"mock"`
}

type offerEntry struct {
	ID                  string `json:"id"`
	Title               string `json:"title"`
	Description         string `json:"description"`
	Category            string `json:"category"`
	Type                string `json:"type"`
	Value               string `json:"value"`
	ValidUntil          string `json:"valid_until"`
	ValidUntilFormatted string `json:"valid_until_formatted"`
	Requirements        string `json:"requirements"`
	Status              string `json:"status"`
	IsExpired           bool   `json:"is_expired"`
	DaysRemaining       int    `json:"days_remaining"`
	Priority            int    `json:"priority"`
}

type offersSummary struct {
	TotalOffers   int      `json:"total_offers"`
	ActiveOffers  int      `json:"active_offers"`
	ExpiredOffers int      `json:"expired_offers"`
	Categories    []string `json:"categories"`
}

func (BankingOffersWidget) Type() string { return "banking_offers" }

func (BankingOffersWidget) DefaultConfig() map[string]any {
	return bankingConfig(map[string]any{
		"size":               "medium",
		"theme":              "banking",
		"show_offer_details": true,
		"show_validity":      true,
		"show_requirements":  true,
		"group_by_category":  true,
		"sort_by":            "valid_until",
		"limit":              10,
	})
}

func (BankingOffersWidget) Validate(cfg map[string]any) bool {
	return hasKeys(cfg, "size", "theme", "limit") &&
		intInRange(cfg, "limit", 1, 50, true) &&
		oneOf(cfg, "sort_by", "valid_until", "value", "category")
}

func (BankingOffersWidget) Actions() []Action {
	return bankingActions(
		Action{Type: "filter", Label: "Filter Offers", Icon: "filter_list", Description: "Filter by category or type"},
		Action{Type: "apply", Label: "Apply Offer", Icon: "check_circle", Description: "Apply for selected offer"},
		Action{Type: "remind", Label: "Set Reminder", Icon: "alarm", Description: "Set reminder for offer expiry"},
	)
}

// offerExpiry reports whether validUntil has passed and the whole days left.
// Empty or unparsable dates never expire.
func offerExpiry(validUntil string, at time.Time) (bool, int) {
	if validUntil == "" {
		return false, 0
	}
	t, err := parseISO(validUntil)
	if err != nil {
		return false, 0
	}
	if at.After(t) {
		return true, 0
	}
	return false, int(t.Sub(at).Hours() / 24)
}

// offerPriority ranks bonus > cashback > rate_reduction, plus a bump for
// dollar values over $50 and $100.
func offerPriority(o providers.Offer) int {
	priority := 0
	switch o.Type {
	case "bonus":
		priority += 3
	case "cashback":
		priority += 2
	case "rate_reduction":
		priority++
	}
	if strings.Contains(o.Value, "$") {
		v, err := strconv.ParseFloat(strings.NewReplacer("$", "", ",", "").Replace(o.Value), 64)
		if err == nil {
			switch {
			case v > 100:
				priority += 2
			case v > 50:
				priority++
			}
		}
	}
	return priority
}

func (w BankingOffersWidget) Build(raw *providers.Offers) *Widget {
	return build(w, func() (*Widget, error) {
		if raw == nil {
			return nil, errors.New("no offers data")
		}
		at := now()
		var categories []string
		byCategory := make(map[string][]providers.Offer)
		entries := make([]offerEntry, 0, len(raw.Offers))
		active := 0
		for _, o := range raw.Offers {
			category := o.Category
			if category == "" {
				category = "other"
			}
			if _, ok := byCategory[category]; !ok {
				categories = append(categories, category)
			}
			byCategory[category] = append(byCategory[category], o)

			expired, days := offerExpiry(o.ValidUntil, at)
			if !expired {
				active++
			}
			entries = append(entries, offerEntry{
				ID:                  o.ID,
				Title:               o.Title,
				Description:         o.Description,
				Category:            o.Category,
				Type:                o.Type,
				Value:               o.Value,
				ValidUntil:          o.ValidUntil,
				ValidUntilFormatted: formatDate(o.ValidUntil),
				Requirements:        o.Requirements,
				Status:              o.Status,
				IsExpired:           expired,
				DaysRemaining:       days,
				Priority:            offerPriority(o),
			})
		}
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := entries[i], entries[j]
			if a.IsExpired != b.IsExpired {
				return !a.IsExpired
			}
			if a.Priority != b.Priority {
				return a.Priority > b.Priority
			}
			return a.ValidUntil < b.ValidUntil
		})
		if categories == nil {
			categories = []string{}
		}
		return &Widget{
			ID:    widgetID("offers"),
			Type:  w.Type(),
			Title: "Available Offers",
			Data: offersData{
				Offers:           entries,
				OffersByCategory: byCategory,
				Summary: offersSummary{
					TotalOffers:   len(raw.Offers),
					ActiveOffers:  active,
					ExpiredOffers: len(entries) - active,
					Categories:    categories,
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

func (w BankingOffersWidget) ErrorWidget(message string) *Widget {
	return errorEnvelope(w, "offers", "Offers Widget Error", offersData{
		Error:     message,
		Offers:    []offerEntry{},
		Summary:   offersSummary{Categories: []string{}},
		Timestamp: timestamp(),
	}, []Action{retryAction})
}
