package widgets

import (
	"errors"
	"sort"
	"strings"

	"widgetchat/internal/providers"
)

type BankingPaymentsWidget struct{}

type paymentsData struct {
	Error                string                             `json:"error,omitempty"`
	PaymentType          string                             `json:"payment_type"`
	PaymentMethods       []paymentEntry                     `json:"payment_methods"`
	PaymentMethodsByType map[string][]providers.PaymentLink `json:"payment_methods_by_type,omitempty"`
	Context              *paymentContext                    `json:"context,omitempty"`
	Summary              paymentsSummary                    `json:"summary"`
	Timestamp            string                             `json:"timestamp"`
	Mock                 bool                               `json:"mock"`
}

type paymentEntry struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	URL            string  `json:"url"`
	Fee            float64 `json:"fee"`
	FeeFormatted   string  `json:"fee_formatted"`
	ProcessingTime string  `json:"processing_time"`
	IsFree         bool    `json:"is_free"`
	IsInstant      bool    `json:"is_instant"`
	Recommended    bool    `json:"recommended"`
}

type paymentContext struct {
	Amount          *float64 `json:"amount"`
	AmountFormatted *string  `json:"amount_formatted"`
	Recipient       *string  `json:"recipient"`
}

type paymentsSummary struct {
	TotalMethods   int      `json:"total_methods"`
	FreeMethods    int      `json:"free_methods"`
	InstantMethods int      `json:"instant_methods"`
	AvailableTypes []string `json:"available_types"`
}

func (BankingPaymentsWidget) Type() string { return "banking_payments" }

func (BankingPaymentsWidget) DefaultConfig() map[string]any {
	return bankingConfig(map[string]any{
		"size":                 "medium",
		"theme":                "banking",
		"show_payment_details": true,
		"show_fees":            true,
		"show_processing_time": true,
		"group_by_type":        true,
		"sort_by":              "fee",
		"default_amount":       nil,
	})
}

func (BankingPaymentsWidget) Validate(cfg map[string]any) bool {
	return hasKeys(cfg, "size", "theme") &&
		oneOf(cfg, "sort_by", "fee", "processing_time", "type")
}

func (BankingPaymentsWidget) Actions() []Action {
	return bankingActions(
		Action{Type: "initiate_payment", Label: "Initiate Payment", Icon: "payment", Description: "Start payment process"},
		Action{Type: "schedule", Label: "Schedule Payment", Icon: "schedule", Description: "Schedule future payment"},
		Action{Type: "recurring", Label: "Set Recurring", Icon: "repeat", Description: "Set up recurring payment"},
		Action{Type: "history", Label: "Payment History", Icon: "history", Description: "View payment history"},
	)
}

// recommendedMethod: free methods always; paid methods never under $100;
// wires over $1000; internal and ACH transfers otherwise.
func recommendedMethod(m providers.PaymentLink, amount *float64) bool {
	if m.Fee == 0 {
		return true
	}
	if amount != nil && *amount != 0 {
		if *amount < 100 {
			return false
		}
		if *amount > 1000 {
			return m.Type == "wire_transfer" || m.Type == "international_wire"
		}
	}
	return m.Type == "internal_transfer" || m.Type == "ach_transfer"
}

func (w BankingPaymentsWidget) Build(paymentType string, raw *providers.PaymentLinks) *Widget {
	return build(w, func() (*Widget, error) {
		if raw == nil {
			return nil, errors.New("no payment data")
		}
		var types []string
		byType := make(map[string][]providers.PaymentLink)
		entries := make([]paymentEntry, 0, len(raw.PaymentLinks))
		free, instant := 0, 0
		for _, m := range raw.PaymentLinks {
			kind := m.Type
			if kind == "" {
				kind = "other"
			}
			if _, ok := byType[kind]; !ok {
				types = append(types, kind)
			}
			byType[kind] = append(byType[kind], m)

			e := paymentEntry{
				ID:             m.ID,
				Type:           m.Type,
				Name:           m.Name,
				Description:    m.Description,
				URL:            m.URL,
				Fee:            m.Fee,
				FeeFormatted:   formatCurrency(m.Fee),
				ProcessingTime: m.ProcessingTime,
				IsFree:         m.Fee == 0,
				IsInstant:      strings.Contains(strings.ToLower(m.ProcessingTime), "instant"),
				Recommended:    recommendedMethod(m, raw.Amount),
			}
			if e.IsFree {
				free++
			}
			if e.IsInstant {
				instant++
			}
			entries = append(entries, e)
		}
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := entries[i], entries[j]
			if a.Recommended != b.Recommended {
				return a.Recommended
			}
			return a.Fee < b.Fee
		})
		ctx := &paymentContext{Amount: raw.Amount, Recipient: raw.Recipient}
		if raw.Amount != nil && *raw.Amount != 0 {
			formatted := formatCurrency(*raw.Amount)
			ctx.AmountFormatted = &formatted
		}
		if types == nil {
			types = []string{}
		}
		return &Widget{
			ID:    widgetID("payments", paymentType),
			Type:  w.Type(),
			Title: "Payment Options - " + titleCase(strings.ReplaceAll(paymentType, "_", " ")),
			Data: paymentsData{
				PaymentType:          raw.PaymentType,
				PaymentMethods:       entries,
				PaymentMethodsByType: byType,
				Context:              ctx,
				Summary: paymentsSummary{
					TotalMethods:   len(raw.PaymentLinks),
					FreeMethods:    free,
					InstantMethods: instant,
					AvailableTypes: types,
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

func (w BankingPaymentsWidget) ErrorWidget(message string) *Widget {
	return errorEnvelope(w, "payments", "Payments Widget Error", paymentsData{
		Error:          message,
		PaymentMethods: []paymentEntry{},
		Summary:        paymentsSummary{AvailableTypes: []string{}},
		Timestamp:      timestamp(),
	}, []Action{retryAction})
}
