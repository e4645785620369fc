package widgets

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Version is stamped into every envelope's metadata.
const Version = "1.0.0"

// Metadata sources.
const (
	SourceMock         = "mock"
	SourceError        = "error"
	SourceOpenWeather  = "openweathermap"
	SourceAlphaVantage = "alpha_vantage"
	SourceNewsAPI      = "newsapi"
	SourceWebSearch    = "web_search"
	SourceSystem       = "system"
	SourceBankingAPI   = "banking_api"
	SourceAIWidgetChat = "ai_widget_chat"
)

// Widget is the envelope rendered by the front-end.
type Widget struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Title    string         `json:"title"`
	Data     any            `json:"data"`
	Config   map[string]any `json:"config"`
	Actions  []Action       `json:"actions"`
	Metadata Metadata       `json:"metadata"`
}

type Action struct {
	Type        string `json:"type"`
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	Description string `json:"description,omitempty"`
}

type Metadata struct {
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	Source    string `json:"source"`
	Version   string `json:"version"`
}

// Formatter describes one widget type.
type Formatter interface {
	Type() string
	DefaultConfig() map[string]any
	Validate(cfg map[string]any) bool
	Actions() []Action
	ErrorWidget(message string) *Widget
}

var now = time.Now

func timestamp() string {
	return now().Format(time.RFC3339)
}

func newMetadata(source string) Metadata {
	ts := timestamp()
	return Metadata{CreatedAt: ts, UpdatedAt: ts, Source: source, Version: Version}
}

func sourceOf(mock bool, live string) string {
	if mock {
		return SourceMock
	}
	return live
}

func widgetID(parts ...string) string {
	return fmt.Sprintf("%s_%d", strings.Join(parts, "_"), now().Unix())
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "/", "_")
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

var printer = message.NewPrinter(language.English)

// formatCurrency renders 1234.5 as "$1,234.50".
func formatCurrency(amount float64) string {
	return "$" + printer.Sprintf("%.2f", amount)
}

// formatDate renders an ISO timestamp as "Jan 15, 2024"; unparsable input is
// returned unchanged.
func formatDate(s string) string {
	t, err := parseISO(s)
	if err != nil {
		return s
	}
	return t.Format("Jan 02, 2006")
}

func parseISO(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}

var (
	refreshAction   = Action{Type: "refresh", Label: "Refresh", Icon: "refresh", Description: "Refresh widget data"}
	configureAction = Action{Type: "configure", Label: "Configure", Icon: "settings", Description: "Configure widget settings"}
	retryAction     = Action{Type: "refresh", Label: "Retry", Icon: "refresh"}
)

var (
	sizeOptions  = []string{"small", "medium", "large"}
	themeOptions = []string{"light", "dark", "auto"}
)

// build runs fn and turns a returned error or a panic into the error widget
// of f.
func build(f Formatter, fn func() (*Widget, error)) (w *Widget) {
	label := strings.ReplaceAll(strings.TrimPrefix(f.Type(), "banking_"), "_", " ")
	defer func() {
		if r := recover(); r != nil {
			log.Printf("build %s widget panic: %v", f.Type(), r)
			w = f.ErrorWidget(fmt.Sprintf("Failed to create %s widget: %v", label, r))
		}
	}()
	w, err := fn()
	if err != nil {
		return f.ErrorWidget(fmt.Sprintf("Failed to create %s widget: %v", label, err))
	}
	return w
}

func errorEnvelope(f Formatter, idPrefix, title string, data any, actions []Action) *Widget {
	return &Widget{
		ID:       widgetID(idPrefix, "error"),
		Type:     f.Type(),
		Title:    title,
		Data:     data,
		Config:   f.DefaultConfig(),
		Actions:  actions,
		Metadata: newMetadata(SourceError),
	}
}

// config validation helpers; values come from decoded JSON so numbers are
// float64.

func hasKeys(cfg map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := cfg[k]; !ok {
			return false
		}
	}
	return true
}

func oneOf(cfg map[string]any, key string, options ...string) bool {
	v, ok := cfg[key]
	if !ok {
		return true
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	for _, o := range options {
		if s == o {
			return true
		}
	}
	return false
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// intInRange reports whether cfg[key], when present, is an integer in [lo, hi].
// A required key must be present.
func intInRange(cfg map[string]any, key string, lo, hi int, required bool) bool {
	v, ok := cfg[key]
	if !ok {
		return !required
	}
	n, ok := asInt(v)
	return ok && n >= lo && n <= hi
}

func validateBase(cfg map[string]any) bool {
	if cfg == nil || !hasKeys(cfg, "size", "theme") {
		return false
	}
	return oneOf(cfg, "size", sizeOptions...) && oneOf(cfg, "theme", themeOptions...)
}

func mergeConfig(base, overrides map[string]any) map[string]any {
	for k, v := range overrides {
		base[k] = v
	}
	return base
}

var (
	dayNames   = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	monthNames = []string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}
	dayRe      = regexp.MustCompile(`\b(\d{1,2})\b`)
	yearRe     = regexp.MustCompile(`\b(\d{4})\b`)
	digitsRe   = regexp.MustCompile(`(\d+)`)
)

func findName(s string, names []string) string {
	lower := strings.ToLower(s)
	for _, n := range names {
		if strings.Contains(lower, strings.ToLower(n)) {
			return n
		}
	}
	return "Unknown"
}

func findMatch(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return "Unknown"
}
