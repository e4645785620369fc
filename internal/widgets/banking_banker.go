package widgets

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"widgetchat/internal/providers"
)

type BankingBankerWidget struct{}

type bankersData struct {
	Error               string                        `json:"error,omitempty"`
	Bankers             []bankerEntry                 `json:"bankers"`
	BankersByDepartment map[string][]providers.Banker `json:"bankers_by_department,omitempty"`
	Summary             bankersSummary                `json:"summary"`
	Timestamp           string                        `json:"timestamp"`
	Mock                bool                          `json:"mock"`
}

type bankerEntry struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Title           string   `json:"title"`
	Department      string   `json:"department"`
	Specialization  string   `json:"specialization"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Availability    string   `json:"availability"`
	Experience      string   `json:"experience"`
	ExperienceYears int      `json:"experience_years"`
	Languages       []string `json:"languages"`
	IsAvailable     bool     `json:"is_available"`
	ContactMethods  []string `json:"contact_methods"`
	ExpertiseLevel  string   `json:"expertise_level"`
}

type bankersSummary struct {
	TotalBankers     int      `json:"total_bankers"`
	AvailableBankers int      `json:"available_bankers"`
	Departments      []string `json:"departments"`
	Specializations  []string `json:"specializations"`
}

func (BankingBankerWidget) Type() string { return "banking_banker" }

func (BankingBankerWidget) DefaultConfig() map[string]any {
	return bankingConfig(map[string]any{
		"size":                "medium",
		"theme":               "banking",
		"show_contact_info":   true,
		"show_availability":   true,
		"show_specialization": true,
		"group_by_department": true,
		"sort_by":             "experience",
		"show_languages":      true,
	})
}

func (BankingBankerWidget) Validate(cfg map[string]any) bool {
	return hasKeys(cfg, "size", "theme") &&
		oneOf(cfg, "sort_by", "experience", "name", "department")
}

func (BankingBankerWidget) Actions() []Action {
	return bankingActions(
		Action{Type: "contact", Label: "Contact Banker", Icon: "phone", Description: "Contact selected banker"},
		Action{Type: "schedule", Label: "Schedule Meeting", Icon: "event", Description: "Schedule appointment with banker"},
		Action{Type: "filter", Label: "Filter by Department", Icon: "filter_list", Description: "Filter bankers by department"},
		Action{Type: "search", Label: "Search Bankers", Icon: "search", Description: "Search for specific banker"},
	)
}

func experienceYears(s string) int {
	n, err := strconv.Atoi(findMatch(digitsRe, s))
	if err != nil {
		return 0
	}
	return n
}

// bankerAvailable checks weekday business hours for the two schedules the
// catalog uses; anything else reads as unavailable.
func bankerAvailable(availability string, at time.Time) bool {
	if !strings.Contains(availability, "Mon-Fri") {
		return false
	}
	if wd := at.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	h := at.Hour()
	switch {
	case strings.Contains(availability, "9AM-5PM"):
		return h >= 9 && h < 17
	case strings.Contains(availability, "8AM-6PM"):
		return h >= 8 && h < 18
	}
	return false
}

func expertiseLevel(years int) string {
	switch {
	case years >= 10:
		return "expert"
	case years >= 5:
		return "senior"
	case years >= 2:
		return "intermediate"
	default:
		return "junior"
	}
}

func (w BankingBankerWidget) Build(raw *providers.Bankers) *Widget {
	return build(w, func() (*Widget, error) {
		if raw == nil {
			return nil, errors.New("no banker data")
		}
		at := now()
		var departments []string
		specSet := make(map[string]struct{})
		byDepartment := make(map[string][]providers.Banker)
		entries := make([]bankerEntry, 0, len(raw.Bankers))
		available := 0
		for _, b := range raw.Bankers {
			dept := b.Department
			if dept == "" {
				dept = "other"
			}
			if _, ok := byDepartment[dept]; !ok {
				departments = append(departments, dept)
			}
			byDepartment[dept] = append(byDepartment[dept], b)
			if b.Specialization != "" {
				specSet[b.Specialization] = struct{}{}
			}

			years := experienceYears(b.Experience)
			isAvailable := bankerAvailable(b.Availability, at)
			if isAvailable {
				available++
			}
			contact := []string{}
			if b.Email != "" {
				contact = append(contact, "email")
			}
			if b.Phone != "" {
				contact = append(contact, "phone")
			}
			languages := b.Languages
			if languages == nil {
				languages = []string{}
			}
			entries = append(entries, bankerEntry{
				ID:              b.ID,
				Name:            b.Name,
				Title:           b.Title,
				Department:      b.Department,
				Specialization:  b.Specialization,
				Email:           b.Email,
				Phone:           b.Phone,
				Availability:    b.Availability,
				Experience:      b.Experience,
				ExperienceYears: years,
				Languages:       languages,
				IsAvailable:     isAvailable,
				ContactMethods:  contact,
				ExpertiseLevel:  expertiseLevel(years),
			})
		}
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := entries[i], entries[j]
			if a.IsAvailable != b.IsAvailable {
				return a.IsAvailable
			}
			return a.ExperienceYears > b.ExperienceYears
		})
		specializations := make([]string, 0, len(specSet))
		for s := range specSet {
			specializations = append(specializations, s)
		}
		sort.Strings(specializations)
		if departments == nil {
			departments = []string{}
		}
		return &Widget{
			ID:    widgetID("banker"),
			Type:  w.Type(),
			Title: "Banker Contacts",
			Data: bankersData{
				Bankers:             entries,
				BankersByDepartment: byDepartment,
				Summary: bankersSummary{
					TotalBankers:     len(raw.Bankers),
					AvailableBankers: available,
					Departments:      departments,
					Specializations:  specializations,
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

func (w BankingBankerWidget) ErrorWidget(message string) *Widget {
	return errorEnvelope(w, "banker", "Banker Widget Error", bankersData{
		Error:     message,
		Bankers:   []bankerEntry{},
		Summary:   bankersSummary{Departments: []string{}, Specializations: []string{}},
		Timestamp: timestamp(),
	}, []Action{retryAction})
}
