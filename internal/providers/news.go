package providers

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ImageURL    string `json:"image_url,omitempty"`
	PublishedAt string `json:"published_at"`
	Source      string `json:"source"`
}

type News struct {
	Articles     []Article `json:"articles"`
	TotalResults int       `json:"total_results"`
	Query        string    `json:"query,omitempty"`
	Category     string    `json:"category,omitempty"`
	Provider     string    `json:"provider"`
	Timestamp    string    `json:"timestamp"`
	Mock         bool      `json:"mock"`
}

const (
	NewsProviderNewsAPI   = "newsapi"
	NewsProviderWebSearch = "web_search"
	NewsProviderMock      = "mock"
)

// NewsClient fetches headlines from NewsAPI. When no key is configured and
// a Searcher is present, results come from web search instead.
type NewsClient struct {
	APIKey   string
	BaseURL  string
	Client   *http.Client
	Searcher Searcher
}

func NewNewsClient(apiKey string, client *http.Client, searcher Searcher) *NewsClient {
	return &NewsClient{
		APIKey:   apiKey,
		BaseURL:  "https://newsapi.org/v2",
		Client:   client,
		Searcher: searcher,
	}
}

type newsAPIResponse struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Headlines returns up to limit articles for a query or category.
func (c *NewsClient) Headlines(ctx context.Context, query, category string, limit int) *News {
	if limit <= 0 {
		limit = 5
	}
	if c == nil {
		return MockNews(query, category, limit)
	}
	if c.APIKey == "" {
		if c.Searcher != nil {
			if news := c.fromSearch(ctx, query, category, limit); news != nil {
				return news
			}
		}
		return MockNews(query, category, limit)
	}

	q := url.Values{}
	q.Set("apiKey", c.APIKey)
	q.Set("pageSize", strconv.Itoa(limit))
	endpoint := c.BaseURL + "/top-headlines"
	if query != "" {
		endpoint = c.BaseURL + "/everything"
		q.Set("q", query)
		q.Set("sortBy", "publishedAt")
		q.Set("language", "en")
	} else {
		q.Set("country", "us")
		if category != "" {
			q.Set("category", category)
		}
	}

	var data newsAPIResponse
	if err := getJSON(ctx, c.Client, endpoint, q, &data); err != nil {
		log.Printf("[NewsClient.Headlines] fetch news: %v", err)
		return MockNews(query, category, limit)
	}
	news := &News{
		Query:        query,
		Category:     category,
		TotalResults: data.TotalResults,
		Provider:     NewsProviderNewsAPI,
		Timestamp:    nowISO(),
	}
	for _, a := range data.Articles {
		if len(news.Articles) == limit {
			break
		}
		news.Articles = append(news.Articles, Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			PublishedAt: a.PublishedAt,
			Source:      a.Source.Name,
		})
	}
	return news
}

func (c *NewsClient) fromSearch(ctx context.Context, query, category string, limit int) *News {
	term := strings.TrimSpace(query)
	if term == "" {
		term = strings.TrimSpace(category + " news")
	}
	if term == "news" || term == "" {
		term = "latest news"
	}
	articles, err := c.Searcher.Search(ctx, term)
	if err != nil {
		log.Printf("[NewsClient.fromSearch] %q: %v", term, err)
		return nil
	}
	if len(articles) == 0 {
		return nil
	}
	if len(articles) > limit {
		articles = articles[:limit]
	}
	return &News{
		Articles:     articles,
		TotalResults: len(articles),
		Query:        query,
		Category:     category,
		Provider:     NewsProviderWebSearch,
		Timestamp:    nowISO(),
	}
}

var mockArticles = []Article{
	{
		Title:       "Tech Stocks Rally as AI Investments Surge",
		Description: "Major technology companies see significant gains as investors bet on artificial intelligence growth.",
		URL:         "https://example.com/tech-rally",
		Source:      "Tech News Daily",
	},
	{
		Title:       "Global Markets Show Mixed Results",
		Description: "International markets display varied performance amid economic uncertainty.",
		URL:         "https://example.com/global-markets",
		Source:      "Financial Times",
	},
	{
		Title:       "New Climate Policy Announced",
		Description: "Government unveils comprehensive plan to address climate change challenges.",
		URL:         "https://example.com/climate-policy",
		Source:      "Environmental Report",
	},
}

func MockNews(query, category string, limit int) *News {
	if limit <= 0 || limit > len(mockArticles) {
		limit = len(mockArticles)
	}
	now := time.Now()
	articles := make([]Article, 0, limit)
	for i, a := range mockArticles[:limit] {
		a.PublishedAt = now.Add(-time.Duration(i+1) * time.Hour).Format(time.RFC3339)
		articles = append(articles, a)
	}
	return &News{
		Articles:     articles,
		TotalResults: len(articles),
		Query:        query,
		Category:     category,
		Provider:     NewsProviderMock,
		Timestamp:    nowISO(),
		Mock:         true,
	}
}
