package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/tool/duckduckgo/v2"
	"github.com/cloudwego/eino-ext/components/tool/googlesearch"
	"github.com/cloudwego/eino/components/tool"
)

// Searcher turns a free text query into news-like articles.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Article, error)
}

// WebSearch queries Google first and falls back to DuckDuckGo.
type WebSearch struct {
	google tool.InvokableTool
	duck   tool.InvokableTool
}

// NewWebSearch builds the search chain. Google is skipped without credentials.
// Returns nil when no provider could be initialized.
func NewWebSearch(ctx context.Context, googleAPIKey, googleEngineID string) *WebSearch {
	ws := &WebSearch{
		google: initGoogleSearch(ctx, googleAPIKey, googleEngineID),
		duck:   initDDGSearch(ctx),
	}
	if ws.google == nil && ws.duck == nil {
		log.Printf("web search disabled: no search providers available")
		return nil
	}
	return ws
}

func initDDGSearch(ctx context.Context) tool.InvokableTool {
	duckTool, err := duckduckgo.NewTextSearchTool(ctx, &duckduckgo.Config{
		ToolName:   "news_search_ddg",
		ToolDesc:   "DuckDuckGo Search Tool (no token required)",
		MaxResults: 5,
		Region:     duckduckgo.RegionWT,
		Timeout:    DefaultTimeout,
	})
	if err != nil {
		log.Printf("duckduckgo search disabled: %v", err)
		return nil
	}
	return duckTool
}

func initGoogleSearch(ctx context.Context, apiKey, engineID string) tool.InvokableTool {
	if apiKey == "" || engineID == "" {
		log.Printf("google search disabled: missing GOOGLE_API_KEY or GOOGLE_SEARCH_ENGINE_ID")
		return nil
	}
	googleTool, err := googlesearch.NewTool(ctx, &googlesearch.Config{
		ToolName:       "news_search_google",
		ToolDesc:       "Google Search Tool",
		APIKey:         apiKey,
		SearchEngineID: engineID,
		Lang:           "en",
		Num:            5,
	})
	if err != nil {
		log.Printf("google search disabled: %v", err)
		return nil
	}
	return googleTool
}

func (w *WebSearch) Search(ctx context.Context, query string) ([]Article, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	payloadBytes, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("marshal search params: %w", err)
	}
	payload := string(payloadBytes)

	for _, provider := range []struct {
		name string
		tool tool.InvokableTool
	}{
		{"google", w.google},
		{"duckduckgo", w.duck},
	} {
		if provider.tool == nil {
			continue
		}
		result, err := provider.tool.InvokableRun(ctx, payload)
		if err != nil {
			log.Printf("%s search failed: %v", provider.name, err)
			continue
		}
		articles, err := parseSearchResult(result, provider.name)
		if err != nil {
			log.Printf("%s search result unreadable: %v", provider.name, err)
			continue
		}
		if len(articles) > 0 {
			return articles, nil
		}
	}
	return nil, errors.New("no search provider succeeded")
}

// searchResult accepts both the DuckDuckGo ("results") and Google ("items")
// tool output shapes.
type searchResult struct {
	Results []searchItem `json:"results"`
	Items   []searchItem `json:"items"`
}

type searchItem struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Link    string `json:"link"`
	Summary string `json:"summary"`
	Snippet string `json:"snippet"`
	Desc    string `json:"desc"`
}

func parseSearchResult(raw, source string) ([]Article, error) {
	var res searchResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, err
	}
	items := append(res.Results, res.Items...)
	now := time.Now().Format(time.RFC3339)
	articles := make([]Article, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		link := item.URL
		if link == "" {
			link = item.Link
		}
		desc := firstNonEmpty(item.Summary, item.Snippet, item.Desc)
		articles = append(articles, Article{
			Title:       title,
			Description: strings.TrimSpace(desc),
			URL:         link,
			PublishedAt: now,
			Source:      source,
		})
	}
	return articles, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
