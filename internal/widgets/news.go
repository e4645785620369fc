package widgets

import (
	"errors"
	"fmt"
	"strings"

	"widgetchat/internal/providers"
)

type NewsWidget struct{}

type newsData struct {
	Error        string        `json:"error,omitempty"`
	Query        string        `json:"query"`
	TotalResults int           `json:"total_results"`
	Articles     []newsArticle `json:"articles"`
	Timestamp    string        `json:"timestamp"`
	Mock         bool          `json:"mock"`
}

type newsArticle struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	Source      string  `json:"source"`
	PublishedAt string  `json:"published_at"`
	ImageURL    *string `json:"image_url"`
	ReadTime    string  `json:"read_time"`
	Summary     string  `json:"summary"`
}

func (NewsWidget) Type() string { return "news" }

func (NewsWidget) DefaultConfig() map[string]any {
	return map[string]any{
		"size":            "large",
		"theme":           "auto",
		"refreshInterval": 600,
		"showImages":      true,
		"maxArticles":     5,
		"showSource":      true,
		"showTimestamp":   true,
		"compactView":     false,
	}
}

func (NewsWidget) Validate(cfg map[string]any) bool {
	return validateBase(cfg) && intInRange(cfg, "maxArticles", 1, 20, false)
}

func (NewsWidget) Actions() []Action {
	return []Action{
		refreshAction,
		configureAction,
		{Type: "search", Label: "Search News", Icon: "search", Description: "Search for different news topics"},
		{Type: "category", Label: "Browse Categories", Icon: "category", Description: "Browse news by category"},
	}
}

// readTime assumes 200 words per minute.
func readTime(text string) string {
	words := len(strings.Fields(text))
	minutes := max(1, words/200)
	if minutes == 1 {
		return "1 min"
	}
	return fmt.Sprintf("%d mins", minutes)
}

const summaryMaxLength = 100

// summarize keeps descriptions up to 100 characters. Longer text is cut at
// the last period when that period lies past 70% of the limit, otherwise
// truncated with "...".
func summarize(description string) string {
	runes := []rune(description)
	if len(runes) <= summaryMaxLength {
		return description
	}
	truncated := string(runes[:summaryMaxLength])
	lastPeriod := strings.LastIndex(truncated, ".")
	if lastPeriod >= 0 && float64(len([]rune(truncated[:lastPeriod]))) > summaryMaxLength*0.7 {
		return truncated[:lastPeriod+1]
	}
	return truncated + "..."
}

func (w NewsWidget) Build(query string, raw *providers.News) *Widget {
	return build(w, func() (*Widget, error) {
		if raw == nil {
			return nil, errors.New("no news data")
		}
		articles := make([]newsArticle, 0, len(raw.Articles))
		for _, a := range raw.Articles {
			title := a.Title
			if title == "" {
				title = "No title"
			}
			source := a.Source
			if source == "" {
				source = "Unknown"
			}
			var image *string
			if a.ImageURL != "" {
				img := a.ImageURL
				image = &img
			}
			articles = append(articles, newsArticle{
				Title:       title,
				Description: a.Description,
				URL:         a.URL,
				Source:      source,
				PublishedAt: a.PublishedAt,
				ImageURL:    image,
				ReadTime:    readTime(a.Description),
				Summary:     summarize(a.Description),
			})
		}
		ts := raw.Timestamp
		if ts == "" {
			ts = timestamp()
		}
		live := SourceNewsAPI
		if raw.Provider == providers.NewsProviderWebSearch {
			live = SourceWebSearch
		}
		return &Widget{
			ID:    widgetID("news", slug(query)),
			Type:  w.Type(),
			Title: "News: " + titleCase(query),
			Data: newsData{
				Query:        raw.Query,
				TotalResults: raw.TotalResults,
				Articles:     articles,
				Timestamp:    ts,
				Mock:         raw.Mock,
			},
			Config:   w.DefaultConfig(),
			Actions:  w.Actions(),
			Metadata: newMetadata(sourceOf(raw.Mock, live)),
		}, nil
	})
}

func (w NewsWidget) ErrorWidget(message string) *Widget {
	return errorEnvelope(w, "news", "News Widget Error", newsData{
		Error:     message,
		Query:     "Error",
		Articles:  []newsArticle{},
		Timestamp: timestamp(),
	}, []Action{refreshAction})
}
